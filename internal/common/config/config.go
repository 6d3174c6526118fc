package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port           int      `env:"PORT" envDefault:"8080"`
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

		// Base URL embedded into referral links handed to participants.
		PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	}

	Store struct {
		// file or redis
		Backend string `env:"STORE_BACKEND" envDefault:"file"`
		DataDir string `env:"DATA_DIR" envDefault:"db"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Uploads struct {
		Dir      string `env:"UPLOADS_DIR" envDefault:"uploads"`
		MaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
	}

	Admin struct {
		Token string `env:"ADMIN_TOKEN,required"`
	}

	RateLimit struct {
		// requests per minute on create/join/delete
		StrictPerMinute int `env:"RATE_LIMIT_STRICT" envDefault:"10"`
		// requests per minute on the rest of /api
		GeneralPerMinute int `env:"RATE_LIMIT_GENERAL" envDefault:"30"`
	}
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func Load() *Config {
	// Missing .env is fine; in production the environment is set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
