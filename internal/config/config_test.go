package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	assert.NoError(t, Defaults().Validate())
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		s, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Defaults(), s)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "site.toml")
		content := `
port = "9090"
github_account = "octocat"
intake_encoding = "json"
rate_limit = 5
analytics = true
session_ttl = "10m"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "9090", s.Port)
		assert.Equal(t, "octocat", s.GitHubAccount)
		assert.Equal(t, "json", s.IntakeEncoding)
		assert.Equal(t, 5, s.RateLimit)
		assert.True(t, s.Analytics)
		assert.Equal(t, 10*time.Minute, s.SessionTTL)
		// untouched keys keep their defaults
		assert.Equal(t, DefaultIntakeURL, s.IntakeURL)
		assert.Equal(t, DefaultRequestTimeout, s.RequestTimeout)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("port = "), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "decode config")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"empty port", func(s *Settings) { s.Port = "" }, "port is required"},
		{"empty account", func(s *Settings) { s.GitHubAccount = "" }, "github account is required"},
		{"empty intake", func(s *Settings) { s.IntakeURL = "" }, "intake url is required"},
		{"relative intake", func(s *Settings) { s.IntakeURL = "/submit" }, "not an absolute URL"},
		{"bad encoding", func(s *Settings) { s.IntakeEncoding = "xml" }, "intake encoding"},
		{"zero rate limit", func(s *Settings) { s.RateLimit = 0 }, "rate limit must be positive"},
		{"zero ttl", func(s *Settings) { s.SessionTTL = 0 }, "session ttl must be positive"},
		{"zero timeout", func(s *Settings) { s.RequestTimeout = 0 }, "request timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
