package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap/zapcore"
)

// Config is read from the environment only; on Vercel that is the project
// settings.
type Config struct {
	Port     string `env:"PORT" env-default:"8080"`
	Env      string `env:"ENVIRONMENT" env-default:"production" env-description:"local enables console logs and insecure cookies"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// OAuth client of the integration. Missing values do not stop the
	// server; the token endpoint answers 500 instead.
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectHost string `env:"REDIRECT_HOST" env-description:"public origin, /callback is appended"`

	SessionSecret string        `env:"SESSION_SECRET" env-description:"HMAC key for session cookies, random per process when empty"`
	SessionTTL    time.Duration `env:"SESSION_TTL" env-default:"30m"`

	VercelAPIURL string        `env:"VERCEL_API_URL" env-default:"https://api.vercel.com"`
	HTTPTimeout  time.Duration `env:"VERCEL_HTTP_TIMEOUT" env-default:"30s"`

	generatedSecret bool
}

func LoadConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.SessionSecret = secret
		cfg.generatedSecret = true
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("VERCEL_HTTP_TIMEOUT must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}

// OAuthReady reports whether the code exchange can run.
func (c *Config) OAuthReady() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectHost != ""
}

// RedirectURI must match the redirect URL registered for the integration.
func (c *Config) RedirectURI() string {
	return strings.TrimRight(c.RedirectHost, "/") + "/callback"
}

// Local reports whether the server runs on a developer machine.
func (c *Config) Local() bool {
	return c.Env == "local"
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
