package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime settings for the vote aggregator API.
type Config struct {
	ListenAddress  string   `yaml:"listen"`
	HubURL         string   `yaml:"snapshot_hub"`
	SequencerURL   string   `yaml:"snapshot_sequencer"`
	RegistryPath   string   `yaml:"dao_registry"`
	DatabasePath   string   `yaml:"database"`
	PageSize       int      `yaml:"page_size"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit_per_minute"`
	AI             AIConfig `yaml:"ai"`
}

// AIConfig describes the upstream summarization model. An empty API key
// leaves the analysis endpoint in fallback mode.
type AIConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Load reads the YAML configuration from disk. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)
	if cfg.PageSize > 100 {
		return Config{}, fmt.Errorf("page_size must not exceed 100")
	}
	return cfg, nil
}

func defaults() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	if cfg.HubURL == "" {
		cfg.HubURL = "https://hub.snapshot.org/graphql"
	}
	if cfg.SequencerURL == "" {
		cfg.SequencerURL = "https://seq.snapshot.org"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "voteapi.db"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 300
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.deepseek.com/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "deepseek-chat"
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.3
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 1500
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("VOTENOW_AI_API_KEY")
	}
}
