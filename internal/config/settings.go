package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session store kinds.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

const (
	defaultAPIURL      = "http://localhost:8080/api"
	defaultRedirectURI = "http://localhost:5173/callback"
)

// Settings holds the tunable values of the client.
// Precedence, lowest first: defaults, config.yaml, .env files, environment.
type Settings struct {
	// APIURL is the backend base URL; endpoint paths are appended to it.
	APIURL string `yaml:"api_url" env:"TDASH_API_URL"`

	// RedirectURI is the fixed OAuth redirect URI registered with providers.
	RedirectURI string `yaml:"redirect_uri" env:"TDASH_REDIRECT_URI"`

	GoogleClientID string `yaml:"google_client_id" env:"TDASH_GOOGLE_CLIENT_ID"`
	GitHubClientID string `yaml:"github_client_id" env:"TDASH_GITHUB_CLIENT_ID"`

	// SessionStore selects the token persistence: file, sqlite or memory.
	SessionStore string `yaml:"session_store" env:"TDASH_SESSION_STORE"`

	// JWTSecret, when set, lets whoami verify the session token signature.
	JWTSecret string `yaml:"jwt_secret" env:"TDASH_JWT_SECRET"`

	// StrictState binds the OAuth state parameter to a per-attempt nonce.
	StrictState bool `yaml:"strict_state" env:"TDASH_STRICT_STATE"`

	// HTTPTimeout bounds each backend request. Zero means no client timeout.
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"TDASH_HTTP_TIMEOUT"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format" env:"TDASH_LOG_FORMAT"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		APIURL:       defaultAPIURL,
		RedirectURI:  defaultRedirectURI,
		SessionStore: StoreFile,
		LogFormat:    "text",
	}
}

// LoadSettings layers config.yaml, dotenv files and the environment on top of
// the current settings, then validates the result.
func (c *Config) LoadSettings() error {
	s := c.Settings
	if s == (Settings{}) {
		s = DefaultSettings()
	}

	data, err := os.ReadFile(c.SettingsPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	// godotenv.Load never overrides variables that are already set.
	for _, path := range []string{EnvFile, c.EnvPath()} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := env.Parse(&s); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if err := s.Validate(); err != nil {
		return err
	}
	s.APIURL = strings.TrimRight(s.APIURL, "/")
	c.Settings = s
	return nil
}

// Validate checks that settings are usable.
func (s Settings) Validate() error {
	if _, err := url.ParseRequestURI(s.APIURL); err != nil {
		return fmt.Errorf("invalid api_url: %q", s.APIURL)
	}
	u, err := url.Parse(s.RedirectURI)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid redirect_uri: %q", s.RedirectURI)
	}
	switch s.SessionStore {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("invalid session_store: %q (want file, sqlite or memory)", s.SessionStore)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format: %q (want text or json)", s.LogFormat)
	}
	if s.HTTPTimeout < 0 {
		return fmt.Errorf("invalid http_timeout: %s", s.HTTPTimeout)
	}
	return nil
}

// ClientID returns the OAuth client id configured for a provider name.
func (s Settings) ClientID(provider string) string {
	switch provider {
	case "google":
		return s.GoogleClientID
	case "github":
		return s.GitHubClientID
	}
	return ""
}
