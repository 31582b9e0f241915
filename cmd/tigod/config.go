package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the daemon configuration, loaded from tigod.yaml.
type Config struct {
	Host     string        `yaml:"host"`
	Username string        `yaml:"user"`
	Password string        `yaml:"password"`
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
	Listen   string        `yaml:"listen"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tigod")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/tigod")
	}
	v.SetDefault("poll.interval", 30*time.Second)
	v.SetDefault("poll.timeout", 10*time.Second)
	v.SetDefault("listen", ":8787")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	cfg := &Config{
		Host:     v.GetString("cca.host"),
		Username: v.GetString("cca.user"),
		Password: v.GetString("cca.password"),
		Interval: v.GetDuration("poll.interval"),
		Timeout:  v.GetDuration("poll.timeout"),
		Listen:   v.GetString("listen"),
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("cca.host is not set in %s", v.ConfigFileUsed())
	}
	return cfg, nil
}
