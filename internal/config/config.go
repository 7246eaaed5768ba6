package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"

	LLMProviderGemini = "gemini"
	LLMProviderOpenAI = "openai"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort       string        `env:"HTTP_PORT" envDefault:"8080"`
	StoreDriver    string        `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"deepmirror.db"`
	LLMProvider    string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	GeminiModel    string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiBaseURL  string        `env:"GEMINI_BASE_URL"`
	LLMAPIKey      string        `env:"LLM_API_KEY"`
	LLMBaseURL     string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"20s"`
	DiscordWebhook string        `env:"DISCORD_WEBHOOK_URL"`
	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	ResultCache    int           `env:"RESULT_CACHE_SIZE" envDefault:"1024"`
	RetentionYears int           `env:"FEEDBACK_RETENTION_YEARS" envDefault:"1"`
	FeedbackTTL    time.Duration `env:"FEEDBACK_RETENTION"`
	CleanupHour    int           `env:"CLEANUP_HOUR" envDefault:"3"`
	CleanupMinute  int           `env:"CLEANUP_MINUTE" envDefault:"0"`
	LogDevelopment bool          `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadStoreConfig es para herramientas que solo tocan el almacenamiento; no exige credenciales del LLM.
func LoadStoreConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.validateStore(); err != nil {
		return nil, err
	}
	if err := cfg.validateSchedule(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
}

// Validate revisa combinaciones que env no puede expresar con tags.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return c.validateSchedule()
}

func (c *Config) validateStore() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	case StoreDriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.ResultCache < 0 {
		return fmt.Errorf("RESULT_CACHE_SIZE must not be negative")
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLMProvider {
	case LLMProviderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for llm provider %q", c.LLMProvider)
		}
	case LLMProviderOpenAI:
		if strings.TrimSpace(c.LLMAPIKey) == "" {
			return fmt.Errorf("LLM_API_KEY is required for llm provider %q", c.LLMProvider)
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

func (c *Config) validateSchedule() error {
	if c.CleanupHour < 0 || c.CleanupHour > 23 {
		return fmt.Errorf("CLEANUP_HOUR must be in [0, 23], got %d", c.CleanupHour)
	}
	if c.CleanupMinute < 0 || c.CleanupMinute > 59 {
		return fmt.Errorf("CLEANUP_MINUTE must be in [0, 59], got %d", c.CleanupMinute)
	}
	if c.RetentionYears < 1 {
		return fmt.Errorf("FEEDBACK_RETENTION_YEARS must be at least 1, got %d", c.RetentionYears)
	}
	// FEEDBACK_RETENTION es opcional; si viene, reemplaza a los anios de calendario.
	if c.FeedbackTTL < 0 {
		return fmt.Errorf("FEEDBACK_RETENTION must not be negative")
	}
	return nil
}
