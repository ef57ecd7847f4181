package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SettingsFilename is the name of the settings file inside the config dir.
const SettingsFilename = "tlumok-settings.toml"

type Config struct {
	Watch      WatchConfig      `toml:"watch"`
	Page       PageConfig       `toml:"page"`
	Languages  LanguageConfig   `toml:"languages"`
	Web        WebConfig        `toml:"web"`
	Dictionary DictionaryConfig `toml:"dictionary"`
	History    HistoryConfig    `toml:"history"`
}

type WatchConfig struct {
	// PollIntervalMs is both the clipboard poll interval and the page
	// driver's wait-poll interval.
	PollIntervalMs int `toml:"poll_interval_ms"`
	// AutoStart starts clipboard watching at launch instead of waiting for
	// the tray toggle.
	AutoStart bool `toml:"auto_start"`
}

type PageConfig struct {
	MaxChunkSize            int `toml:"max_chunk_size"`
	StabilizationTimeoutSec int `toml:"stabilization_timeout_sec"`
	CommandTimeoutSec       int `toml:"command_timeout_sec"`
}

type LanguageConfig struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
}

type WebConfig struct {
	Port int `toml:"port"`
}

type DictionaryConfig struct {
	// Enabled consults stored translations before driving the page and
	// records new ones afterwards.
	Enabled bool `toml:"enabled"`
}

type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a config populated with every default value
func Default() *Config {
	return &Config{
		Watch: WatchConfig{
			PollIntervalMs: 200,
			AutoStart:      true,
		},
		Page: PageConfig{
			MaxChunkSize:            4999,
			StabilizationTimeoutSec: 120,
			CommandTimeoutSec:       10,
		},
		Languages: LanguageConfig{
			Source: "en",
			Target: "pl",
		},
		Web: WebConfig{
			Port: 7878,
		},
		Dictionary: DictionaryConfig{
			Enabled: true,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Dir returns the directory holding the settings file and the database,
// creating it when absent.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}

	dir := filepath.Join(base, "tlumok")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the path to the settings file
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFilename), nil
}

// Load loads the configuration from the TOML file
// If the file doesn't exist, it creates it with default values
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, create it with defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Load existing config
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration back to the settings file
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return save(path, c)
}

// save writes the configuration to the TOML file
func save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}
