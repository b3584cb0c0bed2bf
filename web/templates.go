package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/habedi/findstream/pkg/lang"
	"github.com/habedi/findstream/search"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/favicon.svg
var favicon []byte

const sampleRequest = `{
  "category": "SoftwareAndGameDevelopment",
  "query": "rust go",
  "language": "en"
}`

const sampleResponse = `[
  {
    "title": "Writing a Twitch search in Go",
    "username": "gopher",
    "language": "English",
    "stream_time": 5025,
    "viewer_count": 42
  }
]`

// loadTemplates parses one template set per page, each together with base.html.
// now is the clock behind the "since" function.
func loadTemplates(now func() time.Time) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"since": func(startedAt *time.Time) string {
			if startedAt == nil {
				return ""
			}
			return search.FormatUptime(now().Sub(*startedAt))
		},
		"language":  lang.Translate,
		"joinWords": joinWords,
	}

	pages := []string{"index", "results", "api_info"}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", page, err)
		}
		templates[page] = tmpl
	}
	return templates, nil
}

// joinWords lists the query words as "a, b or c", each word in bold.
func joinWords(words []string) template.HTML {
	var b strings.Builder
	for i, word := range words {
		if i > 0 {
			if i == len(words)-1 {
				b.WriteString("&nbsp;or&nbsp;")
			} else {
				b.WriteString(",&nbsp;")
			}
		}
		b.WriteString("<strong>")
		b.WriteString(template.HTMLEscapeString(word))
		b.WriteString("</strong>")
	}
	return template.HTML(b.String())
}
