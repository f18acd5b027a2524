package templates

import (
	"embed"
	"html/template"
	"strconv"
)

//go:embed *.html
var files embed.FS

// Load parses every page template. Each template is named after its file.
func Load() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"contains": func(list []string, value string) bool {
			for _, item := range list {
				if item == value {
					return true
				}
			}
			return false
		},
		"itoa": strconv.Itoa,
	}).ParseFS(files, "*.html")
}
