package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultEndpoint       = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultRetryPeriod    = 600 * time.Second
	DefaultDuplicateDelay = 3600 * time.Second
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultNotifyInterval = time.Second
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID string

	PracticumEndpoint string
	RetryPeriod       time.Duration // Pause between two polls
	DuplicateDelay    time.Duration // Window during which an identical error is not re-sent
	HTTPTimeout       time.Duration
	NotifyInterval    time.Duration // Minimum spacing between outbound messages

	LogLevel    string
	Environment string
	LogFile     string // Optional, logs go to stdout only when empty

	MetricsAddr string // Optional, /metrics endpoint is disabled when empty
	DatabaseURL string // Optional, delivery journal is disabled when empty
}

// MissingVariablesError lists every required variable that was not set.
type MissingVariablesError struct {
	Names []string
}

func (e *MissingVariablesError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Names, ", ")
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{
		PracticumToken: strings.TrimSpace(os.Getenv("PRACTICUM_TOKEN")),
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		TelegramChatID: strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")),
	}

	var missing []string
	for _, v := range []struct {
		name  string
		value string
	}{
		{"PRACTICUM_TOKEN", cfg.PracticumToken},
		{"TELEGRAM_TOKEN", cfg.TelegramToken},
		{"TELEGRAM_CHAT_ID", cfg.TelegramChatID},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingVariablesError{Names: missing}
	}

	cfg.PracticumEndpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.PracticumEndpoint == "" {
		cfg.PracticumEndpoint = DefaultEndpoint
	}

	var err error
	if cfg.RetryPeriod, err = durationEnv("RETRY_PERIOD", DefaultRetryPeriod); err != nil {
		return nil, err
	}
	if cfg.DuplicateDelay, err = durationEnv("DUPLICATE_DELAY", DefaultDuplicateDelay); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", DefaultHTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.NotifyInterval, err = durationEnv("NOTIFY_INTERVAL", DefaultNotifyInterval); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.LogFile = os.Getenv("LOG_FILE")
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	return cfg, nil
}

// durationEnv accepts either a bare number of seconds ("600") or a Go duration ("10m").
func durationEnv(name string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}

	var d time.Duration
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		d = time.Duration(secs) * time.Second
	} else {
		d, err = time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %s", name, raw)
	}
	return d, nil
}
