// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port    string
	Env     string // "development" or "production"
	GinMode string

	// Storage
	DatabasePath string
	CatalogPath  string // optional YAML override of the built-in catalog

	SessionTTL time.Duration

	// Contact relay
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	ToEmail       string
	OwnerPhone    string
	ContactPerMin int

	// Headless CMS
	ContentfulSpaceID     string
	ContentfulAccessToken string
	ContentfulEnvironment string
	ContentCacheTTL       time.Duration

	CORSOrigins []string

	AdminUsername string
	AdminPassword string
}

// Defaults
const (
	DefaultPort          = "8080"
	DefaultEnv           = "development"
	DefaultDatabasePath  = "site.db"
	DefaultSMTPHost      = "smtp.gmail.com"
	DefaultSMTPPort      = "587"
	DefaultContactPerMin = 5
	DefaultSessionTTL    = 2 * time.Hour
	DefaultContentTTL    = 10 * time.Minute
	DefaultDevCORSOrigin = "http://localhost:3000"
)

// Load reads configuration from the environment, loading .env first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	sessionTTL, err := getEnvDuration("SESSION_TTL", DefaultSessionTTL)
	if err != nil {
		return nil, err
	}
	contentTTL, err := getEnvDuration("CONTENT_CACHE_TTL", DefaultContentTTL)
	if err != nil {
		return nil, err
	}
	perMin, err := getEnvInt("CONTACT_RATE_PER_MIN", DefaultContactPerMin)
	if err != nil {
		return nil, err
	}

	env := getEnv("ENV", DefaultEnv)
	// Cross-origin requests stay disabled outside development unless CORS_ORIGINS opts in.
	corsDefault := ""
	if env == "development" {
		corsDefault = DefaultDevCORSOrigin
	}

	cfg := &Config{
		Port:                  getEnv("PORT", DefaultPort),
		Env:                   env,
		GinMode:               os.Getenv("GIN_MODE"),
		DatabasePath:          getEnv("DATABASE_PATH", DefaultDatabasePath),
		CatalogPath:           os.Getenv("CATALOG_PATH"),
		SessionTTL:            sessionTTL,
		SMTPHost:              getEnv("SMTP_HOST", DefaultSMTPHost),
		SMTPPort:              getEnv("SMTP_PORT", DefaultSMTPPort),
		SMTPUser:              os.Getenv("SMTP_USER"),
		SMTPPass:              os.Getenv("SMTP_PASS"),
		ToEmail:               os.Getenv("TO_EMAIL"),
		OwnerPhone:            os.Getenv("OWNER_PHONE"),
		ContactPerMin:         perMin,
		ContentfulSpaceID:     os.Getenv("CONTENTFUL_SPACE_ID"),
		ContentfulAccessToken: os.Getenv("CONTENTFUL_ACCESS_TOKEN"),
		ContentfulEnvironment: getEnv("CONTENTFUL_ENVIRONMENT", "master"),
		ContentCacheTTL:       contentTTL,
		CORSOrigins:           splitList(getEnv("CORS_ORIGINS", corsDefault)),
		AdminUsername:         os.Getenv("ADMIN_USERNAME"),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that must be consistent.
func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be development or production, got %q", c.Env)
	}
	if (c.SMTPUser == "") != (c.SMTPPass == "") {
		return fmt.Errorf("SMTP_USER and SMTP_PASS must be set together")
	}
	if c.SMTPUser != "" && c.ToEmail == "" {
		return fmt.Errorf("TO_EMAIL is required when SMTP is configured")
	}
	if (c.ContentfulSpaceID == "") != (c.ContentfulAccessToken == "") {
		return fmt.Errorf("CONTENTFUL_SPACE_ID and CONTENTFUL_ACCESS_TOKEN must be set together")
	}
	if c.IsProduction() && (c.AdminUsername == "" || c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required in production")
	}
	if c.ContactPerMin <= 0 {
		return fmt.Errorf("CONTACT_RATE_PER_MIN must be positive")
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SMTPEnabled reports whether outgoing mail is configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPUser != "" && c.SMTPPass != ""
}

// CMSEnabled reports whether the headless CMS is configured.
func (c *Config) CMSEnabled() bool {
	return c.ContentfulSpaceID != "" && c.ContentfulAccessToken != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
