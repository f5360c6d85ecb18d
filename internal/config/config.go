package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appDirName = "paneldeck"

// Config holds application configuration.
type Config struct {
	UI          UIConfig
	Host        HostConfig
	Log         LogConfig
	Settings    SettingsConfig
	DevMode     bool
	Keybindings []KeybindingConfig
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Locale  string
	Section string // start section slug; empty means the first visible section
}

// HostConfig holds extension-host connection settings.
type HostConfig struct {
	URL     string
	Timeout int // per-call timeout in seconds
}

// LogConfig holds diagnostic log settings.
type LogConfig struct {
	Path  string // empty means the per-user cache dir default
	Debug bool
}

// SettingsConfig seeds the boolean settings shown in the General section.
// The host owns the values of record; these are start-up seeds only and are
// not written back when a toggle is persisted.
type SettingsConfig struct {
	Telemetry   bool
	Autoupdate  bool
	Inlinehints bool
}

// KeybindingConfig is one shortcut override entry.
type KeybindingConfig struct {
	Scope  string
	Action string
	Keys   []string
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// Path returns the config file location, honoring PANELDECK_CONFIG.
func Path() (string, error) {
	if p := os.Getenv("PANELDECK_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads configuration from file and env. Env var overrides use prefix
// PANELDECK_. A missing config file is created with defaults so users have
// something to edit.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetConfigFile(path)

	v.SetEnvPrefix("PANELDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	fresh := false
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		fresh = true
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if fresh {
		if err := Save(c); err != nil {
			return Config{}, err
		}
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. Keybinding overrides are preserved as an array of tables.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("ui.section", cfg.UI.Section)
	v.Set("host.url", cfg.Host.URL)
	v.Set("host.timeout", cfg.Host.Timeout)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.debug", cfg.Log.Debug)
	v.Set("settings.telemetry", cfg.Settings.Telemetry)
	v.Set("settings.autoupdate", cfg.Settings.Autoupdate)
	v.Set("settings.inlinehints", cfg.Settings.Inlinehints)
	v.Set("devmode", cfg.DevMode)
	if len(cfg.Keybindings) > 0 {
		entries := make([]map[string]any, 0, len(cfg.Keybindings))
		for _, kb := range cfg.Keybindings {
			entries = append(entries, map[string]any{
				"scope":  kb.Scope,
				"action": kb.Action,
				"keys":   kb.Keys,
			})
		}
		v.Set("keybindings", entries)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ui.locale", "en")
	v.SetDefault("ui.section", "")
	v.SetDefault("host.url", "ws://127.0.0.1:7433/channel")
	v.SetDefault("host.timeout", 5)
	v.SetDefault("log.path", "")
	v.SetDefault("log.debug", false)
	v.SetDefault("settings.telemetry", false)
	v.SetDefault("settings.autoupdate", true)
	v.SetDefault("settings.inlinehints", true)
	v.SetDefault("devmode", false)
}
