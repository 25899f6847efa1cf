// Package config loads service configuration from costwatch.yaml with
// COSTWATCH_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Database struct {
	Path string `mapstructure:"path"`
}

type Scan struct {
	Workers  int           `mapstructure:"workers"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Interval time.Duration `mapstructure:"interval"`
}

type Pricing struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// MessagingFreeTier prices topics and queues at zero instead of the
	// flat hourly rate.
	MessagingFreeTier bool `mapstructure:"messaging_free_tier"`
}

type AWS struct {
	Profile string   `mapstructure:"profile"`
	Regions []string `mapstructure:"regions"`
}

type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Scan     Scan     `mapstructure:"scan"`
	Pricing  Pricing  `mapstructure:"pricing"`
	AWS      AWS      `mapstructure:"aws"`
}

// Load reads configuration from path, or from costwatch.yaml in the
// working directory when path is empty. A missing default file is fine;
// defaults and environment cover everything.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.path", "costwatch.db")
	v.SetDefault("scan.workers", 10)
	v.SetDefault("scan.timeout", 10*time.Minute)
	v.SetDefault("scan.interval", time.Hour)
	v.SetDefault("pricing.cache_ttl", 4*time.Hour)
	v.SetDefault("pricing.messaging_free_tier", false)
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.regions", []string{
		"us-east-1", "us-west-2", "ap-southeast-1",
		"ap-east-1", "eu-west-1", "ap-northeast-1",
	})

	v.SetEnvPrefix("COSTWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("costwatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
