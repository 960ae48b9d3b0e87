package export

import (
	"bytes"
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1f2937; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #d1d5db; padding: .35rem .75rem; text-align: left; }
th { background: #f3f4f6; }
blockquote { color: #92400e; border-left: 3px solid #f59e0b; margin: 0 0 1rem; padding-left: .75rem; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// MarkdownToHTML renders a Markdown fragment with table support.
func MarkdownToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML})
	return markdown.ToHTML([]byte(md), p, r)
}

// HTMLDocument wraps rendered Markdown in a standalone page.
func HTMLDocument(title, md string) ([]byte, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(MarkdownToHTML(md))})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
