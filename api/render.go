package api

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"formatDate": formatDate,
	"deref":      deref,
}).ParseFS(templateFS, "templates/*.html"))

// formatDate prints timestamps the way fr-FR locales do.
func formatDate(t time.Time) string {
	return t.Local().Format("02/01/2006 15:04:05")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
