package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/thiagokokada/relpick/internal/failure"
)

const (
	EnvBaseURL  = "JIRA_BASE_URL"
	EnvUsername = "JIRA_USERNAME"
	EnvAPIToken = "JIRA_API_TOKEN"
	EnvPageSize = "JIRA_PAGE_SIZE"

	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// Jira holds everything the issue fetcher needs to talk to the tracker.
type Jira struct {
	BaseURL  string
	Username string
	APIToken string
	PageSize int
}

type Config struct {
	Jira Jira
}

// Load reads the configuration from the process environment, after loading a
// .env file from the working directory if one exists. Variables already set in
// the environment take precedence over the file.
func Load() (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		slog.Warn("Ignoring unreadable .env file", slog.Any("error", err))
	}
	return FromEnv(os.Getenv)
}

// loadEnvFile loads path into the environment. A missing file is not an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv builds a Config from getenv. All three Jira credentials are
// required; a missing one is reported as an authentication failure.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Jira: Jira{
			BaseURL:  strings.TrimRight(strings.TrimSpace(getenv(EnvBaseURL)), "/"),
			Username: strings.TrimSpace(getenv(EnvUsername)),
			APIToken: strings.TrimSpace(getenv(EnvAPIToken)),
		},
	}
	var missing []string
	if cfg.Jira.BaseURL == "" {
		missing = append(missing, EnvBaseURL)
	}
	if cfg.Jira.Username == "" {
		missing = append(missing, EnvUsername)
	}
	if cfg.Jira.APIToken == "" {
		missing = append(missing, EnvAPIToken)
	}
	if len(missing) > 0 {
		return nil, failure.Authentication(
			"load configuration",
			fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", ")),
		)
	}
	pageSize, err := getEnvAsIntWithDefault(getenv, EnvPageSize, DefaultPageSize)
	if err != nil {
		return nil, failure.Usage("load configuration", err)
	}
	cfg.Jira.PageSize = pageSize
	if cfg.Jira.PageSize <= 0 || cfg.Jira.PageSize > MaxPageSize {
		return nil, failure.Usage(
			"load configuration",
			fmt.Errorf("%s must be between 1 and %d, got %d", EnvPageSize, MaxPageSize, cfg.Jira.PageSize),
		)
	}
	return cfg, nil
}

func getEnvAsIntWithDefault(getenv func(string) string, key string, defaultValue int) (int, error) {
	valueStr := strings.TrimSpace(getenv(key))
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, valueStr)
	}
	return value, nil
}
