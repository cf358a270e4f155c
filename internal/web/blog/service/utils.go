package service

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
)

// ParseMarkdown2HTML parse markdown to html.
// Posts are unauthenticated input, so raw html inside markdown is dropped.
func ParseMarkdown2HTML(md []byte) string {
	htmlFlags := html.CommonFlags | html.HrefTargetBlank | html.SkipHTML
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	return string(markdown.ToHTML(md, nil, renderer))
}
