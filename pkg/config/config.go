package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database
	DatabasePath string `mapstructure:"DATABASE_PATH"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Ranking
	SeasonLength int     `mapstructure:"SEASON_LENGTH"`
	MinGames     int     `mapstructure:"MIN_GAMES"`
	MinMinutes   float64 `mapstructure:"MIN_MINUTES"`

	// Refresh
	RefreshInterval string `mapstructure:"REFRESH_INTERVAL"`

	// Cache
	CacheTTLSeconds int `mapstructure:"CACHE_TTL"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_PATH", "nba.sqlite")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("SEASON_LENGTH", 82)
	viper.SetDefault("MIN_GAMES", 10)      // ignore players with tiny sample sizes
	viper.SetDefault("MIN_MINUTES", 10.0)  // per-game minutes floor
	viper.SetDefault("REFRESH_INTERVAL", "24h")
	viper.SetDefault("CACHE_TTL", 300) // seconds

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
