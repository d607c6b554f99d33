// Package web holds the HTML front end served at the site root.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexPage is the data rendered by the index.html template.
type IndexPage struct {
	URL      string
	Message  string
	Success  bool
	ShortURL string
}

// Templates parses the embedded templates. It panics if they are malformed,
// which can only happen at build time.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}
