package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"thermospline/internal/interp"
)

var (
	instance *Config
	once     sync.Once
)

// Config - can/will add more later
type Config struct {
	Resample struct {
		SplineOrder        int    `yaml:"spline_order"`
		TimedeltaMinutes   int    `yaml:"timedelta_minutes"`
		MaxIntervalMinutes int    `yaml:"max_interval_minutes"`
		Mode               string `yaml:"mode"`
		KeepOld            bool   `yaml:"keep_old"`
	} `yaml:"resample"`
	Server struct {
		Addr            string `yaml:"addr"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"server"`
}

// Default returns the built-in configuration, matching the CLI defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.Resample.SplineOrder = 1
	cfg.Resample.TimedeltaMinutes = 60
	cfg.Resample.Mode = string(interp.ModeInterp1d)
	cfg.Server.Addr = ":8080"
	cfg.Server.CacheTTLSeconds = 60
	return cfg
}

// Load reads the configuration file once. An empty path loads the defaults.
func Load(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = Default()

		if configPath == "" {
			return
		}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file %s: %w", configPath, readErr)
			return
		}

		if parseErr := yaml.Unmarshal(data, instance); parseErr != nil {
			err = fmt.Errorf("failed to parse config: %w", parseErr)
			return
		}

		if validateErr := instance.validate(); validateErr != nil {
			err = validateErr
			return
		}
	})

	return instance, err
}

func Get() *Config {
	if instance == nil {
		panic("config not loaded - call config.Load() first")
	}
	return instance
}

func (c *Config) validate() error {
	if c.Resample.SplineOrder < 0 || c.Resample.SplineOrder > interp.MaxOrder {
		return fmt.Errorf("resample.spline_order must be in [0, %d]", interp.MaxOrder)
	}
	if c.Resample.TimedeltaMinutes <= 0 {
		return fmt.Errorf("resample.timedelta_minutes must be positive")
	}
	if c.Resample.MaxIntervalMinutes < 0 {
		return fmt.Errorf("resample.max_interval_minutes must not be negative")
	}
	if _, err := interp.ParseMode(c.Resample.Mode); err != nil {
		return fmt.Errorf("resample.mode: %w", err)
	}
	return nil
}
