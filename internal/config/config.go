package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/ehr/formfill/internal/formfill"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	LogLevel    string   `mapstructure:"LOG_LEVEL"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	BodyLimit   string   `mapstructure:"BODY_LIMIT"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	TemplateDir           string        `mapstructure:"TEMPLATE_DIR"`
	TemplatePatientRecord string        `mapstructure:"TEMPLATE_PATIENT_RECORD"`
	TemplateLaborRecord   string        `mapstructure:"TEMPLATE_LABOR_RECORD"`
	TemplateBirthPlan     string        `mapstructure:"TEMPLATE_BIRTH_PLAN"`
	TemplateNewbornRecord string        `mapstructure:"TEMPLATE_NEWBORN_RECORD"`
	TemplateFetchTimeout  time.Duration `mapstructure:"TEMPLATE_FETCH_TIMEOUT"`
	TemplateFetchRetries  int           `mapstructure:"TEMPLATE_FETCH_RETRIES"`
	TemplateMaxBytes      int64         `mapstructure:"TEMPLATE_MAX_BYTES"`

	DateLayout   string `mapstructure:"DATE_LAYOUT"`
	Timezone     string `mapstructure:"TIMEZONE"`
	DateFallback string `mapstructure:"DATE_FALLBACK"`
	MarkChar     string `mapstructure:"MARK_CHAR"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	AuthSigningKey string `mapstructure:"AUTH_SIGNING_KEY"`
	AuthIssuer     string `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string `mapstructure:"AUTH_AUDIENCE"`
	AuthJWKSURL    string `mapstructure:"AUTH_JWKS_URL"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "CORS_ORIGINS", "BODY_LIMIT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"TEMPLATE_DIR", "TEMPLATE_PATIENT_RECORD", "TEMPLATE_LABOR_RECORD",
	"TEMPLATE_BIRTH_PLAN", "TEMPLATE_NEWBORN_RECORD",
	"TEMPLATE_FETCH_TIMEOUT", "TEMPLATE_FETCH_RETRIES", "TEMPLATE_MAX_BYTES",
	"DATE_LAYOUT", "TIMEZONE", "DATE_FALLBACK", "MARK_CHAR",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"AUTH_SIGNING_KEY", "AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_JWKS_URL",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("BODY_LIMIT", "2M")
	v.SetDefault("RATE_LIMIT_RPS", 2)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("TEMPLATE_DIR", "./templates")
	v.SetDefault("TEMPLATE_PATIENT_RECORD", "template.pdf")
	v.SetDefault("TEMPLATE_LABOR_RECORD", "template1.pdf")
	v.SetDefault("TEMPLATE_BIRTH_PLAN", "template2.pdf")
	v.SetDefault("TEMPLATE_NEWBORN_RECORD", "template3.pdf")
	v.SetDefault("TEMPLATE_FETCH_TIMEOUT", "10s")
	v.SetDefault("TEMPLATE_FETCH_RETRIES", 0)
	v.SetDefault("TEMPLATE_MAX_BYTES", 20<<20)
	v.SetDefault("DATE_LAYOUT", formfill.DefaultDateLayout)
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("DATE_FALLBACK", "")
	v.SetDefault("MARK_CHAR", formfill.DefaultMark)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.IsDev() && cfg.AuthSigningKey == "" && cfg.AuthJWKSURL == "" {
		log.Warn().Msg("development mode: DevAuthMiddleware is active, all requests get admin access")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	switch c.DateFallback {
	case "", "raw":
	default:
		return fmt.Errorf("DATE_FALLBACK must be empty or \"raw\", got %q", c.DateFallback)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	if c.TemplateFetchTimeout <= 0 {
		return fmt.Errorf("TEMPLATE_FETCH_TIMEOUT must be positive")
	}
	if c.TemplateFetchRetries < 0 {
		return fmt.Errorf("TEMPLATE_FETCH_RETRIES must not be negative")
	}
	if c.TemplateMaxBytes <= 0 {
		return fmt.Errorf("TEMPLATE_MAX_BYTES must be positive")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if !c.IsDev() && c.AuthSigningKey == "" && c.AuthJWKSURL == "" {
		return fmt.Errorf(
			"AUTH_SIGNING_KEY or AUTH_JWKS_URL must be set when ENV=%q. "+
				"Refusing to start without authentication configuration", c.Env)
	}
	return nil
}

// Formatter builds the value formatter described by the date and mark keys.
// Call Validate first; an unknown timezone falls back to UTC.
func (c *Config) Formatter() formfill.Formatter {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return formfill.Formatter{
		DateLayout:      c.DateLayout,
		Location:        loc,
		RawDateFallback: c.DateFallback == "raw",
		Mark:            c.MarkChar,
	}
}

// TemplateLocations maps each document type to its configured template
// location: a path relative to TEMPLATE_DIR, an absolute path or a URL.
func (c *Config) TemplateLocations() map[string]string {
	return map[string]string{
		"patient-record": c.TemplatePatientRecord,
		"labor-record":   c.TemplateLaborRecord,
		"birth-plan":     c.TemplateBirthPlan,
		"newborn-record": c.TemplateNewbornRecord,
	}
}
