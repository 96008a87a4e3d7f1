package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configName        = "ssi"
	configType        = "yaml"
	environmentPrefix = "SSI"
	historyFileName   = ".ssi_history"
)

//go:embed defaults.yaml
var defaultConfiguration []byte

// flag name -> configuration key
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"log-format": "log_format",
}

type Config struct {
	HistoryFile  string `mapstructure:"history_file" yaml:"history_file"`
	HistoryLimit int    `mapstructure:"history_limit" yaml:"history_limit"`
	HomeDir      string `mapstructure:"home_dir" yaml:"home_dir"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format"`
}

// Load layers, lowest first: embedded defaults, the configuration file, SSI_*
// environment variables, then any flags in flags that were set. An empty file
// searches the working directory and $HOME/.config/ssi and tolerates absence.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType(configType)
	if err := v.MergeConfig(bytes.NewReader(defaultConfiguration)); err != nil {
		return nil, fmt.Errorf("failed to merge default configuration: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	v.SetEnvPrefix(environmentPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() error {
	if c.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error getting home directory: %w", err)
		}
		c.HomeDir = home
	}
	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.HomeDir, historyFileName)
	}
	return nil
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
