package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Parse loads every page template. Template names are the file names.
func Parse() (*template.Template, error) {
	return template.New("").ParseFS(files, "*.html")
}
