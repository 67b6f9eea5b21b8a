// Package config handles configuration loading for loopblock.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// DefaultPort is the port the server listens on when nothing else is configured.
	DefaultPort = 3000
	// DefaultSlowDuration is how long the slow route keeps the dispatch loop busy.
	DefaultSlowDuration = 10 * time.Second
)

// Config represents the application configuration.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Slow   SlowConfig   `mapstructure:"slow"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// SlowConfig represents the blocking route configuration.
type SlowConfig struct {
	Duration time.Duration `mapstructure:"duration"`
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Slow.Duration < 0 {
		return errors.Errorf("invalid slow duration %s", c.Slow.Duration)
	}
	return nil
}

// Default returns the configuration used when no file, flag or
// environment variable overrides anything.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: DefaultPort},
		Slow:   SlowConfig{Duration: DefaultSlowDuration},
	}
}

// Load loads the configuration from files and environment variables.
// If cfgFile is empty the usual search paths are tried. A nil v gets a fresh
// viper instance; callers pass their own to bind command-line flags first.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range SearchDirs() {
			v.AddConfigPath(dir)
		}
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	v.SetEnvPrefix("LOOPBLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("server.port", "LOOPBLOCK_SERVER_PORT", "LOOPBLOCK_PORT")
	v.BindEnv("slow.duration", "LOOPBLOCK_SLOW_DURATION")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("slow.duration", DefaultSlowDuration)
}

// SearchDirs returns the directories searched for config.yaml, in order.
func SearchDirs() []string {
	dirs := []string{".", "./loopblock"}
	if dir, err := Dir(); err == nil {
		dirs = append(dirs, dir)
	}
	return dirs
}

// Dir returns the user configuration directory for loopblock.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "loopblock"), nil
}
