package gemini

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Google AI (Gemini) backend.
type Config struct {
	APIKey          string        // if empty, falls back to env GOOGLE_AI_API_KEY
	BaseURL         string        // default https://generativelanguage.googleapis.com
	Model           string        // e.g., "gemini-1.5-pro-latest"
	Temperature     float32       // default 1.0 (matches the tuned analysis settings)
	TopP            float32       // default 0.95
	MaxOutputTokens int           // default 8192
	Timeout         time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GOOGLE_AI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro-latest"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 1.0
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.95
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 8192
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
