package web

import (
	"github.com/techeer-11-team-k/aptmatch/internal/config"
)

// Config holds the web server settings.
type Config struct {
	Host string
	Port int
}

// LoadConfig reads server settings from the environment.
func LoadConfig() *Config {
	return &Config{
		Host: config.GetEnv("HTTP_HOST", "0.0.0.0"),
		Port: config.GetEnvInt("HTTP_PORT", 8080),
	}
}
