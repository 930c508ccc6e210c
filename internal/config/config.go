package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "TENDERBOLT_CONFIG"
	databaseDSNEnv   = "POSTGRES_CONN"
	serverAddressEnv = "SERVER_ADDRESS"
	llmAPIKeyEnv     = "LLM_API_KEY"
	llmModelEnv      = "LLM_MODEL"
	llmEndpointEnv   = "LLM_ENDPOINT"
	slackWebhookEnv  = "SLACK_WEBHOOK_URL"
	logModeEnv       = "LOG_MODE"
)

// Config holds settings required across the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Notify    NotifyConfig    `yaml:"notify"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	LogMode   string          `yaml:"logMode"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LLMConfig defines how to contact the OpenAI-compatible analysis API.
// An empty APIKey disables AI analysis; the pattern extractor is used
// instead.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// NotifyConfig wires the outbound scoring notifications. An empty
// WebhookURL disables them.
type NotifyConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// RateLimitConfig bounds document-analysis requests per caller.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requestsPerMinute"`
	Burst             int `yaml:"burst"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(serverAddressEnv); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(llmEndpointEnv); v != "" {
		c.LLM.Endpoint = v
	}
	if v := os.Getenv(slackWebhookEnv); v != "" {
		c.Notify.WebhookURL = v
	}
	if v := os.Getenv(logModeEnv); v != "" {
		c.LogMode = v
	}
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Address: "0.0.0.0:8080"},
		Database: DatabaseConfig{DSN: ""},
		LLM: LLMConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		RateLimit: RateLimitConfig{RequestsPerMinute: 20, Burst: 5},
		LogMode:   "dev",
	}
}
