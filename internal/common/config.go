package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	OCR     OCRConfig
	LLM     LLMConfig
	Analise AnaliseConfig
}

// ServerConfig holds the HTTP hosting surface configuration
type ServerConfig struct {
	Addr        string
	MaxUploadMB int
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine      string // "tesseract" | "vision"
	Pdftoppm    string
	Tesseract   string
	TessdataDir string
	Language    string // tesseract language pack, e.g. "por"
	DPI         int
}

// LLMConfig holds the completion backend configuration
type LLMConfig struct {
	Backend       string // "openai" | "gemini"
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiKey     string
	GeminiBaseURL string
	GeminiModel   string
	Temperature   float32
	Timeout       time.Duration
}

// AnaliseConfig holds pipeline policy knobs
type AnaliseConfig struct {
	VigenciaDias         int // validity window applied to data_emissao
	ScannedWordThreshold int // first-page word count below which the whole document is OCR'd
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("HTTP_ADDR", ":8080"),
			MaxUploadMB: getEnvAsInt("MAX_UPLOAD_MB", 25),
		},
		OCR: OCRConfig{
			Engine:      getEnv("OCR_ENGINE", "tesseract"),
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			Language:    getEnv("OCR_LANG", "por"),
			DPI:         getEnvAsInt("OCR_DPI", 300),
		},
		LLM: LLMConfig{
			Backend:       getEnv("LLM_BACKEND", "gemini"),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
			GeminiKey:     getEnv("GOOGLE_AI_API_KEY", ""),
			GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-pro-latest"),
			Temperature:   getEnvAsFloat32("LLM_TEMPERATURE", 1.0),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Analise: AnaliseConfig{
			VigenciaDias:         getEnvAsInt("VIGENCIA_DIAS", 180),
			ScannedWordThreshold: getEnvAsInt("SCANNED_WORD_THRESHOLD", 100),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.LLM.Backend {
	case "openai":
		if c.LLM.OpenAIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for LLM_BACKEND=openai", ErrInvalidInput)
		}
	case "gemini":
		if c.LLM.GeminiKey == "" {
			return NewAppError("CONFIG_ERROR", "GOOGLE_AI_API_KEY is required for LLM_BACKEND=gemini", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "LLM_BACKEND must be openai or gemini", ErrInvalidInput)
	}
	switch c.OCR.Engine {
	case "tesseract":
	case "vision":
		if c.LLM.OpenAIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for OCR_ENGINE=vision", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "OCR_ENGINE must be tesseract or vision", ErrInvalidInput)
	}
	if c.Analise.VigenciaDias <= 0 {
		return NewAppError("CONFIG_ERROR", "VIGENCIA_DIAS must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
