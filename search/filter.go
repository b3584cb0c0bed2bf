// Package search reduces the streams of a category to the ones whose titles
// match a free-text query.
package search

import (
	"strings"

	"github.com/habedi/findstream/client"
)

// QueryWords splits query on whitespace and lower-cases every word.
func QueryWords(query string) []string {
	fields := strings.Fields(query)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, strings.ToLower(f))
	}
	return words
}

// Matches reports whether stream's title contains any of words and, when
// language is set, the stream is in exactly that language. Words are matched
// as substrings, so "art" matches "Smart home". No words means no match.
func Matches(stream client.Stream, words []string, language string) bool {
	if language != "" && stream.Language != language {
		return false
	}
	title := strings.ToLower(stream.Title)
	for _, w := range words {
		if strings.Contains(title, w) {
			return true
		}
	}
	return false
}

// Filter keeps the streams that match, preserving their order.
func Filter(streams []client.Stream, words []string, language string) []client.Stream {
	matches := make([]client.Stream, 0)
	for _, s := range streams {
		if Matches(s, words, language) {
			matches = append(matches, s)
		}
	}
	return matches
}
