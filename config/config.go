// Package config loads the settings of the findstream server from a TOML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/habedi/findstream/auth"
	"github.com/habedi/findstream/client"
	"github.com/habedi/findstream/pkg/validation"
	"github.com/rs/zerolog/log"
)

// Environment variables that override values from the settings file.
const (
	EnvClientID     = "FINDSTREAM_CLIENT_ID"
	EnvClientSecret = "FINDSTREAM_CLIENT_SECRET"
	EnvListen       = "FINDSTREAM_LISTEN"
	EnvConfigPath   = "FINDSTREAM_CONFIG"
)

// Path is the default location of the settings file.
var Path = defaultPath()

// Settings is everything the server needs at start-up.
type Settings struct {
	ClientID       string        `toml:"client_id"`
	ClientSecret   string        `toml:"client_secret"`
	Listen         string        `toml:"listen"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	RateLimit      float64       `toml:"rate_limit"`
	Burst          int           `toml:"burst"`
	TokenURL       string        `toml:"token_url"`
	APIURL         string        `toml:"api_url"`
}

// Defaults returns the settings used for every value the file and environment leave out.
func Defaults() Settings {
	return Settings{
		Listen:         ":8080",
		RequestTimeout: 30 * time.Second,
		RateLimit:      10,
		Burst:          20,
		TokenURL:       auth.DefaultTokenURL,
		APIURL:         client.DefaultAPIURL,
	}
}

func defaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "findstream", "config.toml")
}

// Load reads the settings file at path, applies environment overrides and
// validates the result. A missing file is not an error as long as the
// environment supplies the credentials.
func Load(path string) (Settings, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookupEnv func(string) (string, bool)) (Settings, error) {
	settings := Defaults()

	if path != "" {
		md, err := toml.DecodeFile(path, &settings)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Str("path", path).Msg("Settings file not found, using defaults and environment")
		case err != nil:
			return Settings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		default:
			for _, key := range md.Undecoded() {
				log.Warn().Str("key", key.String()).Str("path", path).Msg("Ignoring unknown settings key")
			}
			log.Info().Str("path", path).Msg("Loaded settings file")
		}
	}

	applyEnv(&settings, lookupEnv)

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func applyEnv(s *Settings, lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvClientID); ok && v != "" {
		s.ClientID = v
	}
	if v, ok := lookupEnv(EnvClientSecret); ok && v != "" {
		s.ClientSecret = v
	}
	if v, ok := lookupEnv(EnvListen); ok && v != "" {
		s.Listen = v
	}
}

// Validate checks that the settings can be used to start the server.
func (s Settings) Validate() error {
	checks := []error{
		validation.ValidateNonEmptyString("client_id", s.ClientID),
		validation.ValidateNonEmptyString("client_secret", s.ClientSecret),
		validation.ValidateListenAddress(s.Listen),
		validation.ValidatePositiveDuration("request_timeout", s.RequestTimeout),
		validation.ValidateRateLimit(s.RateLimit, s.Burst),
		validation.ValidateNonEmptyString("token_url", s.TokenURL),
		validation.ValidateNonEmptyString("api_url", s.APIURL),
	}
	return errors.Join(checks...)
}

// Credentials returns the Twitch application credentials.
func (s Settings) Credentials() auth.Credentials {
	return auth.Credentials{ClientID: s.ClientID, ClientSecret: s.ClientSecret}
}
