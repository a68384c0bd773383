package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, home, content string) string {
	t.Helper()
	path := defaultConfigPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolveConfig_Defaults(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg, err := resolveConfig(home, flagConfig{}, "")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(home), cfg)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.BaseURL)
	assert.Equal(t, filepath.Join(home, ".humdesk", "transcripts"), cfg.TranscriptDir)
}

func TestResolveConfig_File(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	writeConfig(t, home, `
base_url = "https://assistant.example.org"
timeout = "15s"
log_level = "debug"
transcript_dir = "~/notes/chats"
`)
	cfg, err := resolveConfig(home, flagConfig{}, "")
	require.NoError(t, err)
	assert.Equal(t, "https://assistant.example.org", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, filepath.Join(home, "notes", "chats"), cfg.TranscriptDir)
}

func TestResolveConfig_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	writeConfig(t, home, `log_level = "error"`)
	cfg, err := resolveConfig(home, flagConfig{}, "")
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, zerolog.ErrorLevel, cfg.LogLevel)
}

func TestResolveConfig_Precedence(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	writeConfig(t, home, `base_url = "http://file"`)

	cfg, err := resolveConfig(home, flagConfig{}, "http://env")
	require.NoError(t, err)
	assert.Equal(t, "http://env", cfg.BaseURL)

	cfg, err = resolveConfig(home, flagConfig{BaseURL: "http://flag", Timeout: time.Second, LogLevel: "info"}, "http://env")
	require.NoError(t, err)
	assert.Equal(t, "http://flag", cfg.BaseURL)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

func TestResolveConfig_Errors(t *testing.T) {
	t.Parallel()

	t.Run("explicit file must exist", func(t *testing.T) {
		t.Parallel()
		home := t.TempDir()
		_, err := resolveConfig(home, flagConfig{ConfigPath: filepath.Join(home, "missing.toml")}, "")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "malformed toml", content: `base_url = `, want: "load config"},
		{name: "bad timeout", content: `timeout = "soon"`, want: "timeout"},
		{name: "bad log level", content: `log_level = "loud"`, want: "unknown log level"},
		{name: "negative timeout", content: `timeout = "-1s"`, want: "must not be negative"},
		{name: "unknown key", content: `api_key = "x"`, want: "unknown key"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			home := t.TempDir()
			writeConfig(t, home, tt.content)
			_, err := resolveConfig(home, flagConfig{}, "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("bad flag log level", func(t *testing.T) {
		t.Parallel()
		_, err := resolveConfig(t.TempDir(), flagConfig{LogLevel: "chatty"}, "")
		assert.Error(t, err)
	})
}
