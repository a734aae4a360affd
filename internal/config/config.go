package config

import "fmt"

// Config holds application configuration.
type Config struct {
	// Server holds HTTP server configuration.
	Server ServerConfig
	// Logger holds logger configuration.
	Logger LoggerConfig
	// Github holds GitHub API and GitHub App configuration.
	Github GithubConfig
	// WorkerQueueSize is the buffer size of the background task queue.
	// Zero disables the background runner entirely.
	WorkerQueueSize int
	// WorkerCount is the number of background task goroutines.
	WorkerCount int
	// GinMode is the Gin framework mode (debug, release, test).
	GinMode string
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		Server:          LoadServerConfigFromEnv(),
		Logger:          LoadLoggerConfigFromEnv(),
		Github:          LoadGithubConfigFromEnv(),
		WorkerQueueSize: GetEnvInt("WORKER_QUEUE_SIZE", 256),
		WorkerCount:     GetEnvInt("WORKER_COUNT", 4),
		GinMode:         GetEnv("GIN_MODE", "release"),
	}
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	if err := c.Github.Validate(); err != nil {
		return fmt.Errorf("github config validation failed: %w", err)
	}

	if c.WorkerQueueSize < 0 {
		return fmt.Errorf("WORKER_QUEUE_SIZE must not be negative")
	}

	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be greater than 0")
	}

	validGinModes := map[string]bool{
		"debug":   true,
		"release": true,
		"test":    true,
	}
	if !validGinModes[c.GinMode] {
		return fmt.Errorf("invalid GIN_MODE: %s (must be: debug, release, test)", c.GinMode)
	}

	return nil
}
