package main

import (
	"github.com/Laisky/blog-publisher/cmd"
)

func main() {
	cmd.Execute()
}
