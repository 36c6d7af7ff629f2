package server

import "time"

// Config holds admin server configuration settings
type Config struct {
	Host          string        // Server host address
	Port          int           // Server port
	ReadTimeout   time.Duration // HTTP read timeout
	WriteTimeout  time.Duration // HTTP write timeout
	IdleTimeout   time.Duration // HTTP idle timeout
	EnableLogging bool          // Enable request logging
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Host:          "localhost",
		Port:          8080,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   120 * time.Second,
		EnableLogging: true,
	}
}
