package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"ai"`
	Weather struct {
		Simulation      bool `yaml:"simulation"`
		CacheTTLMinutes int  `yaml:"cache_ttl_minutes"`
	} `yaml:"weather"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
}

// LoadConfig reads an optional YAML config, then layers environment
// variables on top. A missing config file is not an error; everything
// has a default.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	var cfg Config

	// 2. Load YAML config when present
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with environment variables
	if apiKey := os.Getenv("CHRONOS_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("CHRONOS_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if sim := os.Getenv("CHRONOS_SIMULATION"); sim != "" {
		if v, err := strconv.ParseBool(sim); err == nil {
			cfg.Weather.Simulation = v
		}
	}

	// 4. Defaults
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash"
	}
	if cfg.Weather.CacheTTLMinutes <= 0 {
		cfg.Weather.CacheTTLMinutes = 30
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8501"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "chronos.db"
	}

	return &cfg, nil
}
