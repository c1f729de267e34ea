package report

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// PreviewHTML renders the markdown-structured report for the dashboard.
func PreviewHTML(text string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.FencedCode)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(text), p, r))
}
