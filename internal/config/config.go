package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	squareProductionURL = "https://connect.squareup.com"
	squareSandboxURL    = "https://connect.squareupsandbox.com"
)

// Config represents the full application configuration surface. Each binary
// validates only the sections it uses.
type Config struct {
	Server     ServerConfig
	Square     SquareConfig
	Store      StoreConfig
	Webhook    WebhookConfig
	HTTPClient HTTPClientConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// SquareConfig contains credentials and lookup targets for the Square API.
type SquareConfig struct {
	AccessToken  string
	UseProd      bool
	BaseURL      string
	LocationName string
	ItemName     string
}

// StoreConfig points at the Supabase REST table the webhook mirrors into.
type StoreConfig struct {
	URL   string
	Key   string
	Table string
}

// WebhookConfig holds the webhook signing secret.
type WebhookConfig struct {
	SignatureKey string
}

// HTTPClientConfig applies to every outbound client.
type HTTPClientConfig struct {
	Timeout time.Duration
}

// ResolvedBaseURL returns the explicit base URL when set, otherwise the
// production or sandbox host selected by UseProd.
func (s SquareConfig) ResolvedBaseURL() string {
	if s.BaseURL != "" {
		return strings.TrimSuffix(s.BaseURL, "/")
	}
	if s.UseProd {
		return squareProductionURL
	}
	return squareSandboxURL
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance. No secrets are checked here; use LoadRelay or
// LoadWebhook from a binary.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when the environment is populated directly.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("HTTP_CLIENT_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_CLIENT_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Square: SquareConfig{
			AccessToken:  os.Getenv("SQUARE_ACCESS_TOKEN"),
			UseProd:      strings.EqualFold(strings.TrimSpace(os.Getenv("SQUARE_USE_PROD")), "true"),
			BaseURL:      os.Getenv("SQUARE_BASE_URL"),
			LocationName: getenvWithDefault("SQUARE_LOCATION_NAME", "Stitched PDX LLC"),
			ItemName:     getenvWithDefault("SQUARE_ITEM_NAME", "Jeans 1"),
		},
		Store: StoreConfig{
			URL:   strings.TrimSuffix(os.Getenv("SUPABASE_URL"), "/"),
			Key:   os.Getenv("SUPABASE_ANON_KEY"),
			Table: getenvWithDefault("SUPABASE_TABLE", "inventory"),
		},
		Webhook: WebhookConfig{
			SignatureKey: os.Getenv("SQUARE_WEBHOOK_SIGNATURE_KEY"),
		},
		HTTPClient: HTTPClientConfig{
			Timeout: timeout,
		},
	}

	return cfg, nil
}

// LoadRelay loads configuration and validates what the inventory relay needs.
func LoadRelay(envFile string) (*Config, error) {
	cfg, err := Load(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateRelay(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWebhook loads configuration and validates what the webhook receiver needs.
func LoadWebhook(envFile string) (*Config, error) {
	cfg, err := Load(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateWebhook(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateRelay ensures the Square credentials and lookup names are populated.
func (c *Config) ValidateRelay() error {
	if err := c.validateCommon(); err != nil {
		return err
	}

	switch {
	case c.Square.AccessToken == "":
		return errors.New("SQUARE_ACCESS_TOKEN must be provided")
	case strings.TrimSpace(c.Square.LocationName) == "":
		return errors.New("SQUARE_LOCATION_NAME must not be empty")
	case strings.TrimSpace(c.Square.ItemName) == "":
		return errors.New("SQUARE_ITEM_NAME must not be empty")
	}

	return nil
}

// ValidateWebhook ensures the signing key and store credentials are populated.
func (c *Config) ValidateWebhook() error {
	if err := c.validateCommon(); err != nil {
		return err
	}

	switch {
	case c.Webhook.SignatureKey == "":
		return errors.New("SQUARE_WEBHOOK_SIGNATURE_KEY must be provided")
	case c.Store.URL == "":
		return errors.New("SUPABASE_URL must be provided")
	case c.Store.Key == "":
		return errors.New("SUPABASE_ANON_KEY must be provided")
	case c.Store.Table == "":
		return errors.New("SUPABASE_TABLE must not be empty")
	}

	return nil
}

func (c *Config) validateCommon() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.HTTPClient.Timeout <= 0 {
		return errors.New("HTTP_CLIENT_TIMEOUT must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
