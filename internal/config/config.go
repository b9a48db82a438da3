package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	DataDir           string `json:"data_dir"`
	LogLevel          string `json:"log_level"`
	Listen            string `json:"listen"`
	SessionTTLMinutes int    `json:"session_ttl_minutes"`
	MaxConcurrentRuns int    `json:"max_concurrent_runs"`
	LLM               struct {
		BaseURL          string  `json:"base_url"`
		APIKey           string  `json:"api_key"`
		Model            string  `json:"model"`
		MaxTokens        int     `json:"max_tokens"`
		Temperature      float32 `json:"temperature"`
		MaxContextTokens int     `json:"max_context_tokens"`
		OutputReserve    int     `json:"output_reserve"`
	} `json:"llm"`
	Mino struct {
		APIKey         string `json:"api_key"`
		BaseURL        string `json:"base_url"`
		BrowserProfile string `json:"browser_profile"`
		TimeoutSeconds int    `json:"timeout_seconds"`
		ProxyCountry   string `json:"proxy_country"`
	} `json:"mino"`
	Telegram struct {
		Token string `json:"token"`
	} `json:"telegram"`
}

func defaults() *Config {
	cfg := &Config{
		DataDir:           filepath.Join(os.Getenv("HOME"), ".parallelu"),
		LogLevel:          "info",
		Listen:            ":8080",
		SessionTTLMinutes: 360,
		MaxConcurrentRuns: 1,
	}
	cfg.LLM.BaseURL = "https://api.openai.com/v1"
	cfg.LLM.Model = "gpt-4o"
	cfg.LLM.MaxTokens = 2000
	cfg.LLM.Temperature = 0.7
	cfg.LLM.MaxContextTokens = 128000
	cfg.LLM.OutputReserve = 4096
	cfg.Mino.BaseURL = "https://mino.ai"
	cfg.Mino.BrowserProfile = "lite"
	cfg.Mino.TimeoutSeconds = 300
	return cfg
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if minoKey := os.Getenv("MINO_API_KEY"); minoKey != "" {
		cfg.Mino.APIKey = minoKey
	}
	if minoURL := os.Getenv("MINO_BASE_URL"); minoURL != "" {
		cfg.Mino.BaseURL = minoURL
	}
	if tgToken := os.Getenv("TELEGRAM_BOT_TOKEN"); tgToken != "" {
		cfg.Telegram.Token = tgToken
	}

	return cfg, nil
}

// Save writes the config to disk atomically (temp file + rename).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
