package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"PORT"`
		ShutdownTimeout string `yaml:"shutdownTimeout"`
	} `yaml:"server"`
	Redis struct {
		Addr          string `yaml:"addr" env:"REDIS_ADDR"`
		Password      string `yaml:"password" env:"REDIS_PASSWORD"`
		DB            int    `yaml:"db"`
		TTL           string `yaml:"ttl"`
		SweepInterval string `yaml:"sweepInterval"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"DATABASE_URL"`
	} `yaml:"postgres"`
	Course struct {
		ID  string `yaml:"id"`
		TTL string `yaml:"ttl"`
	} `yaml:"course"`
	Game struct {
		Countdown int `yaml:"countdown"`
	} `yaml:"game"`
	Tutor struct {
		APIKey      string `yaml:"apiKey" env:"GEMINI_API_KEY"`
		Model       string `yaml:"model" env:"GEMINI_MODEL"`
		BaseURL     string `yaml:"baseURL"`
		Timeout     string `yaml:"timeout"`
		ChatTimeout string `yaml:"chatTimeout"`
	} `yaml:"tutor"`
	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads YAML config from path, then applies environment overrides.
// A missing file is not an error; defaults are used instead.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// Default is the configuration used when no file is present: bundled
// course, in-memory stores, no tutor key.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Server.ShutdownTimeout = "5s"
	cfg.Redis.TTL = "30m"
	cfg.Redis.SweepInterval = "1m"
	cfg.Course.ID = "dynamic-psychology"
	cfg.Course.TTL = "10m"
	cfg.Game.Countdown = 10
	cfg.Tutor.Model = "gemini-1.5-flash"
	cfg.Tutor.Timeout = "30s"
	cfg.Tutor.ChatTimeout = "45s"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
