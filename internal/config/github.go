package config

import (
	"fmt"
	"os"
)

// GithubConfig holds GitHub API and GitHub App configuration.
type GithubConfig struct {
	// Domain is the web domain used to build repository and invitation URLs.
	Domain string
	// AppID is the GitHub App identifier. Zero means no app is configured.
	AppID int64
	// PrivateKeyPath is the path to the GitHub App private key PEM file.
	PrivateKeyPath string
	// PrivateKey is the loaded PEM contents.
	PrivateKey []byte
	// FetchSubject enables eager fetching of notification subjects for all users.
	FetchSubject bool
	// MaxConcurrency bounds in-flight requests for bulk thread calls.
	// Shared by all callers, not tunable per call.
	MaxConcurrency int
}

// LoadGithubConfigFromEnv loads GitHub configuration from environment variables.
func LoadGithubConfigFromEnv() GithubConfig {
	cfg := GithubConfig{
		Domain:         GetEnv("GITHUB_DOMAIN", "https://github.com"),
		AppID:          GetEnvInt64("GITHUB_APP_ID", 0),
		PrivateKeyPath: GetEnv("GITHUB_APP_PRIVATE_KEY_PATH", ""),
		FetchSubject:   GetEnvBool("FETCH_SUBJECT", false),
		MaxConcurrency: GetEnvInt("MAX_CONCURRENCY", 10),
	}

	if cfg.PrivateKeyPath != "" {
		if pem, err := os.ReadFile(cfg.PrivateKeyPath); err == nil {
			cfg.PrivateKey = pem
		}
	}

	return cfg
}

// AppConfigured reports whether the GitHub App integration is usable.
func (c GithubConfig) AppConfigured() bool {
	return c.AppID != 0 && len(c.PrivateKey) > 0
}

// Validate validates GitHub configuration.
func (c GithubConfig) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("GITHUB_DOMAIN must not be empty")
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("MAX_CONCURRENCY must be greater than 0")
	}
	if c.AppID != 0 && len(c.PrivateKey) == 0 {
		return fmt.Errorf("GITHUB_APP_ID is set but no private key could be loaded")
	}
	return nil
}
