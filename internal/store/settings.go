package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	KeyTheme        = "theme"
	KeySessionPrice = "session_price"
	KeyAIProvider   = "ai_provider"

	providerConfigPrefix = "ai_config_"

	DefaultAIProvider = "OpenAI"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ProviderConfig is the per-provider credential record.
type ProviderConfig struct {
	APIKey    string `json:"api_key,omitempty"`
	Model     string `json:"model,omitempty"`
	ModelPath string `json:"model_path,omitempty"`
}

func (c ProviderConfig) Empty() bool {
	return c == ProviderConfig{}
}

// SaveSetting upserts key. Strings are stored as-is; anything else is
// stored as JSON.
func (s *Store) SaveSetting(key string, value any) error {
	if strings.TrimSpace(key) == "" {
		return invalid("key", "required")
	}

	var text string
	switch v := value.(type) {
	case string:
		text = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode setting %s: %w", key, err)
		}
		text = string(b)
	}

	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, text,
	)
	if err != nil {
		return storageErr("save setting", err)
	}
	return nil
}

// GetSetting returns the decoded value for key. Values that are not valid
// JSON come back as the raw string. ok is false when the key is absent.
func (s *Store) GetSetting(key string) (value any, ok bool, err error) {
	raw, ok, err := s.rawSetting(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw, true, nil
	}
	return v, true, nil
}

func (s *Store) rawSetting(key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("get setting", err)
	}
	return value.String, true, nil
}

// stringSetting reads key as text, unwrapping a JSON-quoted string if the
// value was written that way.
func (s *Store) stringSetting(key string) (string, bool, error) {
	raw, ok, err := s.rawSetting(key)
	if err != nil || !ok {
		return "", ok, err
	}
	var str string
	if json.Unmarshal([]byte(raw), &str) == nil {
		return str, true, nil
	}
	return raw, true, nil
}

func (s *Store) Theme() (Theme, error) {
	v, ok, err := s.stringSetting(KeyTheme)
	if err != nil {
		return "", err
	}
	if !ok || Theme(v) != ThemeDark {
		return ThemeLight, nil
	}
	return ThemeDark, nil
}

func (s *Store) SetTheme(t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return invalid("theme", fmt.Sprintf("unknown theme %q", t))
	}
	return s.SaveSetting(KeyTheme, string(t))
}

// SessionPrice returns the default fee per session, or 0 when unset.
func (s *Store) SessionPrice() (float64, error) {
	v, ok, err := s.GetSetting(KeySessionPrice)
	if err != nil || !ok {
		return 0, err
	}
	switch p := v.(type) {
	case float64:
		return p, nil
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%g", &f); err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("session price: %w", invalid(KeySessionPrice, fmt.Sprintf("not a number: %v", v)))
}

func (s *Store) SetSessionPrice(price float64) error {
	if price < 0 {
		return invalid("session price", "must not be negative")
	}
	return s.SaveSetting(KeySessionPrice, price)
}

func (s *Store) AIProvider() (string, error) {
	v, ok, err := s.stringSetting(KeyAIProvider)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(v) == "" {
		return DefaultAIProvider, nil
	}
	return v, nil
}

func (s *Store) SetAIProvider(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("provider", "required")
	}
	return s.SaveSetting(KeyAIProvider, name)
}

// ProviderConfig returns the stored credentials for provider. ok is false
// when nothing usable is stored.
func (s *Store) ProviderConfig(provider string) (ProviderConfig, bool, error) {
	raw, ok, err := s.rawSetting(providerConfigPrefix + provider)
	if err != nil || !ok {
		return ProviderConfig{}, false, err
	}
	var cfg ProviderConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return ProviderConfig{}, false, fmt.Errorf("decode %s config: %w", provider, err)
	}
	return cfg, !cfg.Empty(), nil
}

func (s *Store) SetProviderConfig(provider string, cfg ProviderConfig) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return invalid("provider", "required")
	}
	return s.SaveSetting(providerConfigPrefix+provider, cfg)
}
