package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Stream is a live stream as returned by the Helix "Get Streams" endpoint.
type Stream struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	UserName     string     `json:"user_name"`
	GameID       string     `json:"game_id"`
	Type         *string    `json:"type,omitempty"`
	Title        string     `json:"title"`
	ViewerCount  uint64     `json:"viewer_count"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	Language     string     `json:"language"`
	ThumbnailURL string     `json:"thumbnail_url"`
}

// UnmarshalJSON treats an empty started_at as absent; Twitch sends "" for streams that have not started.
func (s *Stream) UnmarshalJSON(data []byte) error {
	type Alias Stream
	aux := &struct {
		StartedAt *string `json:"started_at"`
		*Alias
	}{
		Alias: (*Alias)(s),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	s.StartedAt = nil
	if aux.StartedAt != nil && *aux.StartedAt != "" {
		startedAt, err := time.Parse(time.RFC3339, *aux.StartedAt)
		if err != nil {
			return fmt.Errorf("invalid started_at %q: %w", *aux.StartedAt, err)
		}
		s.StartedAt = &startedAt
	}
	return nil
}

// SizedThumbnail returns the thumbnail URL with its {width} and {height} placeholders filled in.
func (s Stream) SizedThumbnail(width, height int) string {
	return strings.NewReplacer(
		"{width}", strconv.Itoa(width),
		"{height}", strconv.Itoa(height),
	).Replace(s.ThumbnailURL)
}

// Since returns how long the stream has been live at now; ok is false when the start time is unknown.
func (s Stream) Since(now time.Time) (d time.Duration, ok bool) {
	if s.StartedAt == nil {
		return 0, false
	}
	return now.Sub(*s.StartedAt), true
}

// streamsPage is one page of the Helix stream listing.
type streamsPage struct {
	Data       []Stream    `json:"data"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type pagination struct {
	Cursor string `json:"cursor,omitempty"`
}

// nextCursor returns the cursor of the following page, or "" when this was the last page.
func (p *streamsPage) nextCursor() string {
	if p.Pagination == nil {
		return ""
	}
	return p.Pagination.Cursor
}
