package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Values are resolved in three
// layers: built-in defaults, then an optional YAML file, then environment
// variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	LLM       LLMConfig       `yaml:"llm"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	CORS      CORSConfig      `yaml:"cors"`
	History   HistoryConfig   `yaml:"history"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LLMConfig struct {
	Provider              string          `yaml:"provider"` // "mock" or "live"
	Backend               string          `yaml:"backend"`  // "ollama", "openai", "anthropic", "gemini", "bedrock"
	RequestTimeoutSeconds int             `yaml:"requestTimeoutSeconds"`
	PlaceholderOnError    bool            `yaml:"placeholderOnError"`
	Ollama                OllamaConfig    `yaml:"ollama"`
	OpenAI                OpenAIConfig    `yaml:"openai"`
	Anthropic             AnthropicConfig `yaml:"anthropic"`
	Gemini                GeminiConfig    `yaml:"gemini"`
	Bedrock               BedrockConfig   `yaml:"bedrock"`
}

type OllamaConfig struct {
	URL     string                 `yaml:"url"`
	Model   string                 `yaml:"model"`
	Options map[string]interface{} `yaml:"options"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

type BedrockConfig struct {
	Region string `yaml:"region"`
	Model  string `yaml:"model"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type HistoryConfig struct {
	// DatabaseURL enables the history store when non-empty
	DatabaseURL string `yaml:"databaseUrl"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.LLM.Provider = "mock"
	cfg.LLM.Backend = "ollama"
	cfg.LLM.RequestTimeoutSeconds = 60
	cfg.LLM.Ollama.URL = "http://localhost:11434"
	cfg.LLM.Ollama.Model = "llama3"
	cfg.LLM.OpenAI.Model = "gpt-4o"
	cfg.LLM.Anthropic.Model = "claude-3-5-sonnet-20241022"
	cfg.LLM.Gemini.Model = "gemini-1.5-flash"
	cfg.LLM.Bedrock.Region = "us-east-1"
	cfg.LLM.Bedrock.Model = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerMinute = 60
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.Logging.Level = "info"
	return cfg
}

// Load resolves the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Server.Port = getEnvInt("PORT", c.Server.Port)

	c.LLM.Provider = getEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Backend = getEnv("LLM_BACKEND", c.LLM.Backend)
	c.LLM.RequestTimeoutSeconds = getEnvInt("LLM_REQUEST_TIMEOUT_SECONDS", c.LLM.RequestTimeoutSeconds)
	c.LLM.PlaceholderOnError = getEnvBool("LLM_PLACEHOLDER_ON_ERROR", c.LLM.PlaceholderOnError)

	c.LLM.Ollama.URL = getEnv("OLLAMA_URL", c.LLM.Ollama.URL)
	c.LLM.Ollama.Model = getEnv("OLLAMA_MODEL", c.LLM.Ollama.Model)
	c.LLM.OpenAI.APIKey = getEnv("OPENAI_API_KEY", c.LLM.OpenAI.APIKey)
	c.LLM.OpenAI.Model = getEnv("OPENAI_MODEL", c.LLM.OpenAI.Model)
	c.LLM.Anthropic.APIKey = getEnv("ANTHROPIC_API_KEY", c.LLM.Anthropic.APIKey)
	c.LLM.Anthropic.Model = getEnv("ANTHROPIC_MODEL", c.LLM.Anthropic.Model)
	c.LLM.Gemini.APIKey = getEnv("GEMINI_API_KEY", c.LLM.Gemini.APIKey)
	c.LLM.Gemini.Model = getEnv("GEMINI_MODEL", c.LLM.Gemini.Model)
	c.LLM.Bedrock.Region = getEnv("BEDROCK_REGION", c.LLM.Bedrock.Region)
	c.LLM.Bedrock.Model = getEnv("BEDROCK_MODEL", c.LLM.Bedrock.Model)

	c.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.RequestsPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimit.RequestsPerMinute)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		var parts []string
		for _, part := range strings.Split(origins, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			c.CORS.AllowedOrigins = parts
		}
	}

	c.History.DatabaseURL = getEnv("HISTORY_DATABASE_URL", c.History.DatabaseURL)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an int environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool gets a bool environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
