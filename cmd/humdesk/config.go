package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "http://127.0.0.1:8000"
	defaultTimeout = 60 * time.Second
	envBaseURL     = "HUMDESK_API_URL"
)

// config is the resolved CLI configuration.
type config struct {
	BaseURL       string
	Timeout       time.Duration
	LogLevel      zerolog.Level
	TranscriptDir string
}

// fileConfig is the config.toml key mapping.
type fileConfig struct {
	BaseURL       string `toml:"base_url"`
	Timeout       string `toml:"timeout"`
	LogLevel      string `toml:"log_level"`
	TranscriptDir string `toml:"transcript_dir"`
}

// flagConfig holds the command-line overrides. Empty values are unset.
type flagConfig struct {
	ConfigPath string
	BaseURL    string
	Timeout    time.Duration
	LogLevel   string
}

func defaultConfig(home string) config {
	return config{
		BaseURL:       defaultBaseURL,
		Timeout:       defaultTimeout,
		LogLevel:      zerolog.WarnLevel,
		TranscriptDir: filepath.Join(home, ".humdesk", "transcripts"),
	}
}

func defaultConfigPath(home string) string {
	return filepath.Join(home, ".humdesk", "config.toml")
}

// resolveConfig layers defaults, the config file, the environment and flags,
// in increasing precedence. A missing file is tolerated only at the default
// path. Env values are passed in; only main reads the environment.
func resolveConfig(home string, flags flagConfig, envURL string) (config, error) {
	cfg := defaultConfig(home)

	path := flags.ConfigPath
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath(home)
	}
	if err := loadConfigFile(path, home, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return config{}, err
		}
	}

	if v := strings.TrimSpace(envURL); v != "" {
		cfg.BaseURL = v
	}

	if flags.BaseURL != "" {
		cfg.BaseURL = flags.BaseURL
	}
	if flags.Timeout != 0 {
		cfg.Timeout = flags.Timeout
	}
	if flags.LogLevel != "" {
		lvl, err := parseLevel(flags.LogLevel)
		if err != nil {
			return config{}, err
		}
		cfg.LogLevel = lvl
	}

	if cfg.Timeout < 0 {
		return config{}, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	return cfg, nil
}

func loadConfigFile(path, home string, cfg *config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("base_url") {
		cfg.BaseURL = strings.TrimSpace(raw.BaseURL)
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return fmt.Errorf("load config %s: timeout: %w", path, err)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("log_level") {
		lvl, err := parseLevel(raw.LogLevel)
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		cfg.LogLevel = lvl
	}
	if meta.IsDefined("transcript_dir") {
		cfg.TranscriptDir = expandHome(strings.TrimSpace(raw.TranscriptDir), home)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func parseLevel(s string) (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// expandHome replaces a leading "~/" with home.
func expandHome(path, home string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return path
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
