package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configFile  = ".calc.yaml"
	historyFile = ".calc_history"
)

// Config holds the front-end settings. Zero values are never used directly:
// loadConfig starts from defaultConfig and lets the file override fields.
type Config struct {
	Prompt       string `yaml:"prompt"`
	ResultPrefix string `yaml:"result_prefix"`
	Banner       bool   `yaml:"banner"`
	Color        bool   `yaml:"color"`
	Strict       bool   `yaml:"strict"`
	HistoryFile  string `yaml:"history_file"`
	LogLevel     string `yaml:"log_level"`
}

func defaultConfig() *Config {
	return &Config{
		Prompt:       ">>> ",
		ResultPrefix: "=> ",
		Banner:       true,
		Color:        true,
		Strict:       false,
		HistoryFile:  filepath.Join("~", historyFile),
		LogLevel:     "info",
	}
}

// defaultConfigPath is $HOME/.calc.yaml, or "" when there is no home.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configFile)
}

// loadConfig reads path on top of the defaults. A missing file is only an
// error when the user named it explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	if err := decodeConfig(file, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if _, err := cfg.level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// historyPath expands a leading ~ in HistoryFile. An empty setting disables history.
func (c *Config) historyPath() string {
	p := c.HistoryFile
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}
