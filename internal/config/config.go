package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultGitHubAccount is the account whose public repositories fill the portfolio.
	DefaultGitHubAccount = "Boswecw"

	// DefaultIntakeURL is the form-ingestion endpoint contact inquiries are posted to.
	DefaultIntakeURL = "https://boswellwebdevelopment.com/"

	// DefaultIntakeEncoding is the body encoding used for the intake endpoint.
	DefaultIntakeEncoding = "form"

	// DefaultSiteURL is the canonical public URL used in SEO metadata.
	DefaultSiteURL = "https://boswellwebdevelopment.com"

	// DefaultDatabaseURL is empty; the inquiry archive is disabled unless provided.
	DefaultDatabaseURL = ""

	// DefaultRateLimit is the default form posts per minute per IP address.
	DefaultRateLimit = 20

	// DefaultSessionTTL is how long an idle visitor's form state is kept.
	DefaultSessionTTL = 30 * time.Minute

	// DefaultRequestTimeout bounds each outbound call to the intake and listing endpoints.
	DefaultRequestTimeout = 15 * time.Second

	// ContactEmail is the fallback channel offered when a submission fails.
	ContactEmail = "charlesboswell@boswellwebdevelopment.com"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	Port           string        `toml:"port"`
	LogLevel       string        `toml:"log_level"`
	SiteURL        string        `toml:"site_url"`
	GitHubAccount  string        `toml:"github_account"`
	GitHubToken    string        `toml:"github_token"`
	IntakeURL      string        `toml:"intake_url"`
	IntakeEncoding string        `toml:"intake_encoding"`
	DatabaseURL    string        `toml:"database_url"`
	RateLimit      int           `toml:"rate_limit"`
	Analytics      bool          `toml:"analytics"`
	SessionTTL     time.Duration `toml:"session_ttl"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Port:           DefaultPort,
		LogLevel:       "info",
		SiteURL:        DefaultSiteURL,
		GitHubAccount:  DefaultGitHubAccount,
		IntakeURL:      DefaultIntakeURL,
		IntakeEncoding: DefaultIntakeEncoding,
		DatabaseURL:    DefaultDatabaseURL,
		RateLimit:      DefaultRateLimit,
		SessionTTL:     DefaultSessionTTL,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Load reads a TOML settings file over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Settings, error) {
	s := Defaults()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &s); err != nil {
		return s, fmt.Errorf("decode config %s: %w", path, err)
	}

	return s, nil
}

// Validate checks that the settings can start a server.
func (s Settings) Validate() error {
	var errs []error

	if s.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if s.GitHubAccount == "" {
		errs = append(errs, errors.New("github account is required"))
	}
	if s.IntakeURL == "" {
		errs = append(errs, errors.New("intake url is required"))
	} else if u, err := url.Parse(s.IntakeURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("intake url %q is not an absolute URL", s.IntakeURL))
	}
	if s.IntakeEncoding != "form" && s.IntakeEncoding != "json" {
		errs = append(errs, fmt.Errorf("intake encoding must be form or json, got %q", s.IntakeEncoding))
	}
	if s.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("rate limit must be positive, got %d", s.RateLimit))
	}
	if s.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session ttl must be positive, got %s", s.SessionTTL))
	}
	if s.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", s.RequestTimeout))
	}

	return errors.Join(errs...)
}
