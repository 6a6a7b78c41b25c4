package config

import (
	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddress   string `env:"HTTP_ADDRESS" envDefault:":8080"`
	DatabaseFile  string `env:"DB_FILE" envDefault:"jobboard.db"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"dev-secret-change-me"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads configuration from the environment, seeded from a .env file
// when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
