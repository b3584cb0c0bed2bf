package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/habedi/findstream/client"
	"github.com/habedi/findstream/pkg/lang"
	"github.com/habedi/findstream/pkg/validation"
	"github.com/rs/zerolog/log"
)

const maxRequestBody = 64 << 10

// SimpleStream is the element type of the /api/search response.
type SimpleStream struct {
	Title       string `json:"title"`
	Username    string `json:"username"`
	Language    string `json:"language"`
	StreamTime  *int64 `json:"stream_time"`
	ViewerCount uint64 `json:"viewer_count"`
}

type searchRequest struct {
	Category *string `json:"category"`
	Query    *string `json:"query"`
	Language string  `json:"language"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewSimpleStream converts stream for the JSON API, measuring stream time up to now.
func NewSimpleStream(stream client.Stream, now time.Time) SimpleStream {
	out := SimpleStream{
		Title:       stream.Title,
		Username:    stream.UserName,
		Language:    lang.Translate(stream.Language),
		ViewerCount: stream.ViewerCount,
	}
	if d, ok := stream.Since(now); ok {
		secs := int64(d.Seconds())
		out.StreamTime = &secs
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if req.Category == nil || req.Query == nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "fields category and query are required"})
		return
	}
	category, err := validation.ValidateCategory(*req.Category)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	// Same language rule as the HTML page: unknown or upper-case codes are refused.
	for _, check := range []error{validation.ValidateQuery(*req.Query), validation.ValidateLanguageCode(req.Language)} {
		if check != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: check.Error()})
			return
		}
	}

	result, err := s.searcher.Search(r.Context(), category, *req.Query, req.Language)
	if err != nil {
		if isTimeout(err) {
			writeJSON(w, http.StatusRequestTimeout, errorResponse{Error: "request timed out"})
			return
		}
		log.Error().Err(err).Str("request_id", RequestID(r.Context())).Msg("Failed querying Twitch")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "failed querying Twitch, try again later"})
		return
	}

	out := make([]SimpleStream, 0, len(result.Streams))
	for _, stream := range result.Streams {
		out = append(out, NewSimpleStream(stream, s.now()))
	}
	writeJSON(w, http.StatusOK, out)
}
