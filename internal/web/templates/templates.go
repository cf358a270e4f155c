// Package templates embeds the html pages of the site
package templates

import (
	"embed"
	"html/template"

	"github.com/Laisky/errors/v2"
)

//go:embed *.html
var pagesFS embed.FS

// Load parse every embedded page with funcs available to them
func Load(funcs template.FuncMap) (*template.Template, error) {
	tpl, err := template.New("").Funcs(funcs).ParseFS(pagesFS, "*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse embedded templates")
	}

	return tpl, nil
}
