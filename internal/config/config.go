package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	TMDB   TMDBConfig
}

type ServerConfig struct {
	Env  string
	Port string
	Host string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TLS      bool
}

type TMDBConfig struct {
	AccessToken  string
	AccountID    string
	BaseURL      string
	ImageBaseURL string
	Language     string
}

// Load reads environment variables and returns a Config struct
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Env:  getEnv("APP_ENV", "local"),
			Port: getEnv("PORT", "4000"),
			Host: getEnv("HOST", "http://localhost:4000"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			TLS:      getEnv("REDIS_TLS", "false") == "true",
		},
		TMDB: TMDBConfig{
			AccessToken:  getEnv("TMDB_ACCESS_TOKEN", ""),
			AccountID:    getEnv("TMDB_ACCOUNT_ID", ""),
			BaseURL:      getEnv("TMDB_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_URL", "https://image.tmdb.org/t/p"),
			Language:     getEnv("TMDB_LANGUAGE", "en-US"),
		},
	}

	// Validate required fields
	if cfg.TMDB.AccessToken == "" {
		return nil, fmt.Errorf("TMDB_ACCESS_TOKEN is required")
	}
	if cfg.TMDB.AccountID == "" {
		return nil, fmt.Errorf("TMDB_ACCOUNT_ID is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// IsDevelopment returns true if running in development/local mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "local" || c.Server.Env == "development"
}

// RedisAddr returns the Redis address in host:port format
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
