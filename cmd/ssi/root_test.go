package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"ssi/internal/config"
)

func runConfigCommand(t *testing.T, args ...string) config.Config {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs(append([]string{"config"}, args...))

	require.NoError(t, root.Execute())

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &cfg))
	return cfg
}

func TestConfigCommandDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := runConfigCommand(t)
	require.Equal(t, "error", cfg.LogLevel)
	require.Equal(t, "console", cfg.LogFormat)
	require.Equal(t, home, cfg.HomeDir)
	require.Equal(t, filepath.Join(home, ".ssi_history"), cfg.HistoryFile)
}

func TestConfigCommandFileAndFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	file := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("history_limit: 7\nlog_level: warn\n"), 0o600))

	cfg := runConfigCommand(t, "--config", file, "--log-format", "structured")
	require.Equal(t, 7, cfg.HistoryLimit)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "structured", cfg.LogFormat)
}

func TestConfigCommandMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"config", "--config", filepath.Join(t.TempDir(), "missing.yaml")})

	require.Error(t, root.Execute())
}

func TestRootRejectsArguments(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"unexpected"})

	require.Error(t, root.Execute())
}
