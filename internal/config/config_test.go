package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "ENV", "GIN_MODE", "DATABASE_PATH", "CATALOG_PATH", "SESSION_TTL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "TO_EMAIL", "OWNER_PHONE",
	"CONTACT_RATE_PER_MIN", "CONTENTFUL_SPACE_ID", "CONTENTFUL_ACCESS_TOKEN",
	"CONTENTFUL_ENVIRONMENT", "CONTENT_CACHE_TTL", "CORS_ORIGINS",
	"ADMIN_USERNAME", "ADMIN_PASSWORD",
}

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultEnv, cfg.Env)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
	assert.Equal(t, DefaultContactPerMin, cfg.ContactPerMin)
	assert.Equal(t, []string{DefaultDevCORSOrigin}, cfg.CORSOrigins)
	assert.False(t, cfg.SMTPEnabled())
	assert.False(t, cfg.CMSEnabled())
}

func TestLoad_ProductionCORS(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("ADMIN_USERNAME", "nico")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.CORSOrigins, "no implicit origin in production")

	t.Setenv("CORS_ORIGINS", "https://studio.example.com")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://studio.example.com"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SMTP_USER", "site@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("TO_EMAIL", "owner@example.com")
	t.Setenv("CONTENTFUL_SPACE_ID", "space")
	t.Setenv("CONTENTFUL_ACCESS_TOKEN", "token")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.SMTPEnabled())
	assert.True(t, cfg.CMSEnabled())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoad_BadValues(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"SESSION_TTL", "forever", "SESSION_TTL"},
		{"CONTENT_CACHE_TTL", "soon", "CONTENT_CACHE_TTL"},
		{"CONTACT_RATE_PER_MIN", "many", "CONTACT_RATE_PER_MIN"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{Env: "development", ContactPerMin: 5}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad env", func(c *Config) { c.Env = "staging" }, "ENV must be"},
		{"smtp user without pass", func(c *Config) { c.SMTPUser = "u" }, "SMTP_USER and SMTP_PASS"},
		{"smtp without recipient", func(c *Config) { c.SMTPUser, c.SMTPPass = "u", "p" }, "TO_EMAIL"},
		{"half cms", func(c *Config) { c.ContentfulSpaceID = "s" }, "CONTENTFUL_SPACE_ID"},
		{"production without admin", func(c *Config) { c.Env = "production" }, "ADMIN_USERNAME"},
		{"zero contact rate", func(c *Config) { c.ContactPerMin = 0 }, "CONTACT_RATE_PER_MIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
