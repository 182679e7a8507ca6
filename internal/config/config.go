package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string `env:"DB_PORT" envDefault:"5432"`
	DBUser        string `env:"DB_USER" envDefault:"postgres"`
	DBPassword    string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName        string `env:"DB_NAME" envDefault:"partygame"`
	ServerPort    string `env:"SERVER_PORT" envDefault:"8080"`
	JWTSecret     string `env:"JWT_SECRET" envDefault:"super-secret-key-change-me"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	StaticDir     string `env:"STATIC_DIR" envDefault:"./public"`
	SeedFile      string `env:"SEED_FILE" envDefault:""`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
