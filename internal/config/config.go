package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderStub   = "stub"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"*"`
	DebugMode     bool   `env:"DEBUG_MODE" envDefault:"false"`

	// Provider selects the generation backend: gemini, openai or stub.
	Provider     string `env:"AI_PROVIDER" envDefault:"gemini"`
	// APIKey is the Gemini key. Read once at startup.
	APIKey       string `env:"API_KEY"`
	GenAIBaseURL string `env:"GENAI_BASE_URL"`
	TextModel    string `env:"TEXT_MODEL" envDefault:"gemini-2.5-flash"`
	ImageModel   string `env:"IMAGE_MODEL" envDefault:"imagen-4.0-generate-001"`
	ChatModel    string `env:"CHAT_MODEL" envDefault:"gemini-2.5-flash"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	OpenAIModel      string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIImageModel string `env:"OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`

	// PromptFile overrides the embedded prompt spec.
	PromptFile       string        `env:"PROMPT_FILE"`
	DefaultImageSize string        `env:"DEFAULT_IMAGE_SIZE" envDefault:"1K"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	ClipboardEnabled bool          `env:"CLIPBOARD_ENABLED" envDefault:"false"`
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderStub:
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.Provider)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Warnings lists non-fatal problems worth logging at startup.
func (c Config) Warnings() []string {
	var out []string
	switch c.Provider {
	case ProviderGemini:
		if c.APIKey == "" {
			out = append(out, "API_KEY is not set; API calls will fail until provided")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			out = append(out, "OPENAI_API_KEY is not set; API calls will fail until provided")
		}
	}
	return out
}
