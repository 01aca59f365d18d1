package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"4000"`
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN       string `envconfig:"DB_DSN" default:"./data/cafe.sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:""` // postgres URL, wins over DB_DSN

	RedisURL      string `envconfig:"REDIS_URL" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	APIKey      string `envconfig:"API_KEY" default:""`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	GinMode     string `envconfig:"GIN_MODE" default:"release"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL != "" {
		cfg.DBDriver = "postgres"
		cfg.DBDSN = cfg.DatabaseURL
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	return &cfg, nil
}

// Origins splits CORS_ORIGINS into the list gin-contrib/cors expects.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
