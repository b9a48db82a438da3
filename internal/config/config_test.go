package config

import (
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "OPENAI_BASE_URL", "MINO_API_KEY", "MINO_BASE_URL", "TELEGRAM_BOT_TOKEN"} {
		t.Setenv(key, "")
	}
}

func TestLoadWritesDefaults(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.SessionTTLMinutes != 360 {
		t.Errorf("SessionTTLMinutes = %d", cfg.SessionTTLMinutes)
	}
	if cfg.MaxConcurrentRuns != 1 {
		t.Errorf("MaxConcurrentRuns = %d", cfg.MaxConcurrentRuns)
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.LLM.MaxContextTokens != 128000 {
		t.Errorf("LLM defaults = %+v", cfg.LLM)
	}
	if cfg.Mino.BaseURL != "https://mino.ai" || cfg.Mino.BrowserProfile != "lite" || cfg.Mino.TimeoutSeconds != 300 {
		t.Errorf("Mino defaults = %+v", cfg.Mino)
	}

	// Defaults must have been written to disk
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

func TestSaveReloadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)

	original := &Config{
		DataDir:           "/tmp/test-data",
		LogLevel:          "debug",
		Listen:            ":9999",
		SessionTTLMinutes: 60,
		MaxConcurrentRuns: 3,
	}
	original.LLM.APIKey = "sk-test-round-trip"
	original.LLM.Model = "gpt-4"
	original.Mino.APIKey = "mino-key-123"
	original.Mino.ProxyCountry = "US"
	original.Telegram.Token = "bot-token-456"

	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Listen != ":9999" || loaded.SessionTTLMinutes != 60 || loaded.MaxConcurrentRuns != 3 {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.LLM.APIKey != "sk-test-round-trip" || loaded.LLM.Model != "gpt-4" {
		t.Errorf("LLM = %+v", loaded.LLM)
	}
	if loaded.Mino.APIKey != "mino-key-123" || loaded.Mino.ProxyCountry != "US" {
		t.Errorf("Mino = %+v", loaded.Mino)
	}
	if loaded.Telegram.Token != "bot-token-456" {
		t.Errorf("Telegram = %+v", loaded.Telegram)
	}

	// No temp file left behind
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not exist after save")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)

	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("OPENAI_BASE_URL", "https://proxy.example.com/v1")
	t.Setenv("MINO_API_KEY", "env-mino")
	t.Setenv("MINO_BASE_URL", "https://mino.example.com")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.LLM.APIKey != "env-openai" || cfg.LLM.BaseURL != "https://proxy.example.com/v1" {
		t.Errorf("LLM env override failed: %+v", cfg.LLM)
	}
	if cfg.Mino.APIKey != "env-mino" || cfg.Mino.BaseURL != "https://mino.example.com" {
		t.Errorf("Mino env override failed: %+v", cfg.Mino)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Errorf("Telegram env override failed: %+v", cfg.Telegram)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)

	cfg := &Config{}
	cfg.LLM.APIKey = "file-key"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OPENAI_API_KEY", "env-key")
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.LLM.APIKey != "env-key" {
		t.Errorf("env must win over file, got %q", loaded.LLM.APIKey)
	}
}
