package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"datepick/internal/calendar"
	"datepick/internal/disabled"
	"datepick/internal/locale"

	cerrors "cloudeng.io/errors"
)

type GlobalConfig struct {
	// Language is the default picker language (fa|en).
	Language string `json:"language,omitempty"`

	// Format is the default date mask, e.g. "jYYYY/jMM/jDD".
	Format string `json:"format,omitempty"`

	// Digits is latin|persian.
	Digits string `json:"digits,omitempty"`

	// Disabled holds the disabled-date rules applied to every picker.
	Disabled *disabled.Rules `json:"disabled,omitempty"`

	// History toggles the sqlite selection history. Nil means enabled.
	History *bool `json:"history,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is auto|light|dark.
	Theme string `json:"theme,omitempty"`
}

// ConfigError describes one invalid config key.
type ConfigError struct {
	Path    string
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("config %s: %s: %s", e.Path, e.Key, e.Message)
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.datepick).
	if v := strings.TrimSpace(os.Getenv("DATEPICK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".datepick"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Key: "(file)", Message: err.Error()}
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Keep the previous config around; failures here never block the write.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// HistoryEnabled reports whether selections should be recorded.
func (c *GlobalConfig) HistoryEnabled() bool {
	return c == nil || c.History == nil || *c.History
}

// Theme returns the configured TUI theme, defaulting to auto.
func (c *GlobalConfig) Theme() string {
	if c == nil || c.TUI == nil || strings.TrimSpace(c.TUI.Theme) == "" {
		return "auto"
	}
	return c.TUI.Theme
}

// DisabledRules returns the configured rules (zero when unset).
func (c *GlobalConfig) DisabledRules() disabled.Rules {
	if c == nil || c.Disabled == nil {
		return disabled.Rules{}
	}
	return *c.Disabled
}

// Validate reports every invalid key at once.
func (c *GlobalConfig) Validate() error {
	if c == nil {
		return nil
	}
	var errs cerrors.M
	if c.Language != "" {
		if _, err := locale.Parse(c.Language); err != nil {
			errs.Append(&ConfigError{Key: "language", Message: err.Error()})
		}
	}
	if c.Format != "" {
		if _, err := calendar.CompileMask(c.Format); err != nil {
			errs.Append(&ConfigError{Key: "format", Message: err.Error()})
		}
	}
	switch c.Digits {
	case "", "latin", "persian":
	default:
		errs.Append(&ConfigError{Key: "digits", Message: fmt.Sprintf("%q (expected latin|persian)", c.Digits)})
	}
	if c.TUI != nil {
		switch c.TUI.Theme {
		case "", "auto", "light", "dark":
		default:
			errs.Append(&ConfigError{Key: "tui.theme", Message: fmt.Sprintf("%q (expected auto|light|dark)", c.TUI.Theme)})
		}
	}
	if c.Disabled != nil {
		if _, err := disabled.Compile(*c.Disabled, time.Now()); err != nil {
			errs.Append(&ConfigError{Key: "disabled", Message: err.Error()})
		}
	}
	return errs.Err()
}

// ConfigKeys lists the keys accepted by Set.
func ConfigKeys() []string {
	keys := []string{
		"language", "format", "digits", "history", "tui.theme",
		"disabled.before", "disabled.after", "disabled.dates", "disabled.weekdays", "disabled.within",
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one key from its command-line text and validates the result.
// An empty value unsets the key. List keys take comma-separated values.
func (c *GlobalConfig) Set(key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	rules := c.DisabledRules()
	switch key {
	case "language":
		c.Language = value
	case "format":
		c.Format = value
	case "digits":
		c.Digits = value
	case "history":
		if value == "" {
			c.History = nil
			break
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ConfigError{Key: key, Message: fmt.Sprintf("%q is not a boolean", value)}
		}
		c.History = &b
	case "tui.theme":
		if value == "" {
			c.TUI = nil
			break
		}
		if c.TUI == nil {
			c.TUI = &TUIConfig{}
		}
		c.TUI.Theme = value
	case "disabled.before":
		rules.Before = value
	case "disabled.after":
		rules.After = value
	case "disabled.dates":
		rules.Dates = splitList(value)
	case "disabled.weekdays":
		rules.Weekdays = splitList(value)
	case "disabled.within":
		rules.Within = value
	default:
		return &ConfigError{Key: key, Message: "unknown key (expected one of " + strings.Join(ConfigKeys(), ", ") + ")"}
	}
	if strings.HasPrefix(key, "disabled.") {
		if rules.Empty() {
			c.Disabled = nil
		} else {
			c.Disabled = &rules
		}
	}
	return c.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
