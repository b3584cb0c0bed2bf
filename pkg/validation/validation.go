package validation

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/habedi/findstream/client"
	"github.com/habedi/findstream/pkg/lang"
)

const (
	MinWorkers = 1
	MaxWorkers = 10

	MaxQueryLength = 256
)

func ValidateNonEmptyString(fieldName, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

func ValidateCategory(name string) (client.Category, error) {
	category, err := client.ParseCategory(name)
	if err != nil {
		return 0, fmt.Errorf("invalid category %q (must be one of: %s)", name, categoryNames())
	}
	return category, nil
}

func categoryNames() string {
	names := make([]string, 0, len(client.Categories()))
	for _, c := range client.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

// ValidateLanguageCode accepts the empty code (any language) and every code Twitch reports.
func ValidateLanguageCode(code string) error {
	if code == "" || lang.Known(code) {
		return nil
	}
	return fmt.Errorf("invalid language code: %s", code)
}

func ValidateQuery(query string) error {
	if len(query) > MaxQueryLength {
		return fmt.Errorf("query must be at most %d bytes, got %d", MaxQueryLength, len(query))
	}
	return nil
}

func ValidateWorkerCount(workers int) error {
	if workers < MinWorkers || workers > MaxWorkers {
		return fmt.Errorf("worker count must be between %d and %d, got %d", MinWorkers, MaxWorkers, workers)
	}
	return nil
}

func ValidateListenAddress(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid port in listen address %q", addr)
	}
	return nil
}

func ValidatePositiveDuration(fieldName string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", fieldName, d)
	}
	return nil
}

func ValidateRateLimit(perSecond float64, burst int) error {
	if perSecond <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", perSecond)
	}
	if burst < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", burst)
	}
	return nil
}
