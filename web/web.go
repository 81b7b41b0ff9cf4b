// Package web holds the embedded server-rendered templates.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templates embed.FS

func Templates() *template.Template {
	return template.Must(template.ParseFS(templates, "templates/*.tmpl"))
}
