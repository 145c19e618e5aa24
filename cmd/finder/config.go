package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// finderConfig holds the CLI configuration.
type finderConfig struct {
	ProxyURL string        `mapstructure:"proxy_url"`
	DataURL  string        `mapstructure:"data_url"`
	DataDir  string        `mapstructure:"data_dir"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Log      logConfig     `mapstructure:"log"`
}

type logConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// dataURL is where category files are fetched from when no local directory
// is configured.
func (c finderConfig) dataURL() string {
	if c.DataURL != "" {
		return c.DataURL
	}
	return strings.TrimRight(c.ProxyURL, "/") + "/locations"
}

// loadConfig reads finder.yaml (optional), FINDER_* environment variables and
// the persistent flags of cmd, in increasing precedence.
func loadConfig(cmd *cobra.Command) (*finderConfig, error) {
	v := viper.New()

	v.SetConfigName("finder")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("proxy_url", "http://localhost:4000")
	v.SetDefault("data_url", "")
	v.SetDefault("data_dir", "")
	v.SetDefault("timeout", 60*time.Second)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.console", true)

	flags := cmd.Flags()
	for key, name := range map[string]string{
		"proxy_url": "proxy-url",
		"data_url":  "data-url",
		"data_dir":  "data-dir",
		"timeout":   "timeout",
		"log.level": "log-level",
	} {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config: bind %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg finderConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
