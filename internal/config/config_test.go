package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"ONTOAI_DB_PATH", "ONTOAI_POLL_INTERVAL", "ONTOAI_AI_TIMEOUT",
		"ONTOAI_GPT4ALL_URL", "ONTOAI_TELEGRAM_TOKEN", "ONTOAI_TELEGRAM_CHAT_ID", "ONTOAI_BELL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "onto-ai.db" || cfg.PollInterval != time.Minute || cfg.AITimeout != 90*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}
	if !cfg.Bell || cfg.TelegramEnabled() {
		t.Errorf("bell=%v telegram=%v", cfg.Bell, cfg.TelegramEnabled())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ONTOAI_DB_PATH", "/tmp/coach.db")
	t.Setenv("ONTOAI_POLL_INTERVAL", "30s")
	t.Setenv("ONTOAI_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ONTOAI_TELEGRAM_CHAT_ID", "-100200")
	t.Setenv("ONTOAI_BELL", "off")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/coach.db" || cfg.PollInterval != 30*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.TelegramEnabled() || cfg.TelegramChatID != -100200 || cfg.Bell {
		t.Errorf("telegram/bell = %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ONTOAI_POLL_INTERVAL", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for bad interval")
	}

	t.Setenv("ONTOAI_POLL_INTERVAL", "")
	t.Setenv("ONTOAI_TELEGRAM_CHAT_ID", "abc")
	if _, err := Load(); err == nil {
		t.Error("expected error for bad chat id")
	}
}
