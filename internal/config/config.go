package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL          string            `yaml:"ttl"`
		Catalog      string            `yaml:"catalog"`
		CatalogURL   string            `yaml:"catalog_url"`
		DefaultTopic string            `yaml:"default_topic"`
		Topics       map[string]string `yaml:"topics"`
		TickInterval string            `yaml:"tick_interval"`
		RevealPause  string            `yaml:"reveal_pause"`
		AdvancePause string            `yaml:"advance_pause"`
	} `yaml:"quiz"`
}

// Default is the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Quiz.Catalog = "data/questions.json"
	cfg.Quiz.DefaultTopic = "js_basics"
	cfg.Quiz.Topics = map[string]string{
		"js":      "js_basics",
		"angular": "angular_basics",
		"react":   "react_advanced",
		"flutter": "flutter_basics",
	}
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}
