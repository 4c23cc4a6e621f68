package main

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config is the application's typed configuration.
type Config struct {
	Name string
	Env  string // local | production | testing
	Port string
}

// LoadConfig reads .env, if present, and then the process environment.
func LoadConfig() *Config {
	// Non-fatal: .env may not exist outside development.
	_ = godotenv.Load()

	return &Config{
		Name: env("APP_NAME", "userapp"),
		Env:  env("APP_ENV", "local"),
		Port: env("APP_PORT", "8000"),
	}
}

// NewLogger picks a zap configuration for the environment.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	switch cfg.Env {
	case "production":
		return zap.NewProduction()
	case "testing":
		return zap.NewNop(), nil
	default:
		return zap.NewDevelopment()
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
