package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/habedi/findstream/client"
	"github.com/habedi/findstream/pkg/lang"
	"github.com/habedi/findstream/pkg/validation"
	"github.com/rs/zerolog/log"
)

type categoryOption struct {
	Name        string
	DisplayName string
	Selected    bool
}

type indexPage struct {
	Categories []categoryOption
	Languages  []lang.Option
}

type resultsPage struct {
	Error   bool
	Words   []string
	Streams []client.Stream
}

type apiInfoPage struct {
	Categories     []categoryOption
	SampleRequest  string
	SampleResponse string
}

func categoryOptions() []categoryOption {
	categories := client.Categories()
	out := make([]categoryOption, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryOption{
			Name:        c.String(),
			DisplayName: c.DisplayName(),
			Selected:    c == client.DefaultCategory,
		})
	}
	return out
}

// render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := s.templates[page]
	if !ok {
		log.Error().Str("page", page).Msg("Template not loaded")
		http.Error(w, "could not render template", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("Failed rendering template")
		http.Error(w, "could not render template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index", indexPage{
		Categories: categoryOptions(),
		Languages:  lang.Options(),
	})
}

func (s *Server) handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "api_info", apiInfoPage{
		Categories:     categoryOptions(),
		SampleRequest:  sampleRequest,
		SampleResponse: sampleResponse,
	})
}

func (s *Server) handleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(favicon)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	category := client.DefaultCategory
	if name := params.Get("category"); name != "" {
		parsed, err := validation.ValidateCategory(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		category = parsed
	}
	query := params.Get("query")
	if err := validation.ValidateQuery(query); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	language := params.Get("language")
	// Stream languages are compared exactly, so a code Twitch never reports
	// (including a case variant like "EN") is refused instead of matching nothing.
	if err := validation.ValidateLanguageCode(language); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.searcher.Search(r.Context(), category, query, language)
	if err != nil {
		if isTimeout(err) {
			http.Error(w, "request timed out", http.StatusRequestTimeout)
			return
		}
		log.Error().Err(err).Str("request_id", RequestID(r.Context())).Msg("Failed querying Twitch")
		s.render(w, http.StatusServiceUnavailable, "results", resultsPage{Error: true})
		return
	}

	s.render(w, http.StatusOK, "results", resultsPage{Words: result.Words, Streams: result.Streams})
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
