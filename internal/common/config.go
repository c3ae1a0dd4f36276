package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration. It is loaded once at
// startup and passed explicitly to constructors; there is no process-wide
// client state.
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig     `toml:"logging"`
	Storage     StorageConfig     `toml:"storage"`
	Gemini      GeminiConfig      `toml:"gemini"`
	Claude      ClaudeConfig      `toml:"claude"`
	LLM         LLMConfig         `toml:"llm"`
	News        NewsConfig        `toml:"news"`
	Translation TranslationConfig `toml:"translation"`
	Batch       BatchConfig       `toml:"batch"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // Default: "gemini-2.0-flash"
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.2)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`      // Default: "claude-haiku-3-5-20241022"
	MaxTokens   int     `toml:"max_tokens"` // Default: 4096
	Timeout     string  `toml:"timeout"`    // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"`
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the provider used for analysis and translation calls
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"omitempty,oneof=gemini claude"`
}

// NewsConfig controls the Google News RSS article source
type NewsConfig struct {
	FeedURL        string `toml:"feed_url"`        // Search feed URL template with %s company placeholder
	UserAgent      string `toml:"user_agent"`      // User agent for article page fetches
	RequestTimeout string `toml:"request_timeout"` // HTTP timeout as duration string (default: "20s")
	FetchContent   bool   `toml:"fetch_content"`   // Fetch full article pages (falls back to feed description)
}

// TranslationConfig controls the chunked translation pipeline
type TranslationConfig struct {
	TargetLanguage string `toml:"target_language"` // Default: "Hindi"
	ChunkSize      int    `toml:"chunk_size" validate:"omitempty,gt=0"`
	ChunkDelay     string `toml:"chunk_delay"` // Pacing between chunk submissions (default: "1s")
}

// BatchConfig controls the sequential batch processor
type BatchConfig struct {
	Companies     []string `toml:"companies"`
	MaxArticles   int      `toml:"max_articles" validate:"omitempty,gt=0"`
	MinSuccessful int      `toml:"min_successful"` // Minimum analyzed articles before aggregating (default: 3)
	Pacing        string   `toml:"pacing"`         // Delay between companies (default: "5s")
	Schedule      string   `toml:"schedule"`       // Optional cron schedule for recurring runs
	AudioDir      string   `toml:"audio_dir"`
	TextDir       string   `toml:"text_dir"`
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability; only
// user-facing settings should be exposed in newslens.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (no fallback)
			Model:       "gemini-2.0-flash",
			Timeout:     "2m",
			Temperature: 0.2,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   4096,
			Timeout:     "2m",
			Temperature: 0.2,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		News: NewsConfig{
			FeedURL:        "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RequestTimeout: "20s",
			FetchContent:   true,
		},
		Translation: TranslationConfig{
			TargetLanguage: "Hindi",
			ChunkSize:      4000,
			ChunkDelay:     "1s",
		},
		Batch: BatchConfig{
			Companies:     []string{"Tesla", "Apple", "Microsoft", "Google", "Amazon"},
			MaxArticles:   10,
			MinSuccessful: 3,
			Pacing:        "5s",
			AudioDir:      "./data/output/audio",
			TextDir:       "./data/output/text",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks structural constraints on the configuration
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NEWSLENS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Logging configuration
	if level := os.Getenv("NEWSLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("NEWSLENS_LOG_OUTPUT"); output != "" {
		parts := strings.Split(output, ",")
		outputs := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("NEWSLENS_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Provider API keys
	if apiKey := os.Getenv("NEWSLENS_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("NEWSLENS_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	} else if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if provider := os.Getenv("NEWSLENS_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}

	// Batch configuration
	if companies := os.Getenv("NEWSLENS_COMPANIES"); companies != "" {
		parts := strings.Split(companies, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				list = append(list, trimmed)
			}
		}
		if len(list) > 0 {
			config.Batch.Companies = list
		}
	}
	if maxArticles := os.Getenv("NEWSLENS_MAX_ARTICLES"); maxArticles != "" {
		if m, err := strconv.Atoi(maxArticles); err == nil && m > 0 {
			config.Batch.MaxArticles = m
		}
	}
	if schedule := os.Getenv("NEWSLENS_BATCH_SCHEDULE"); schedule != "" {
		config.Batch.Schedule = schedule
	}
}

// ResolveAPIKey resolves an API key with environment variable priority.
// Resolution order: environment variable -> config fallback -> error.
func ResolveAPIKey(envNames []string, configFallback string) (string, error) {
	for _, name := range envNames {
		if value := os.Getenv(name); value != "" {
			return value, nil
		}
	}
	if configFallback != "" {
		return configFallback, nil
	}
	return "", fmt.Errorf("API key not found in environment (%s) or config", strings.Join(envNames, ", "))
}
