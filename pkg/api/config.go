package api

import "time"

// Config holds API client configuration
type Config struct {
	// BaseURL is the root of the platform API, without a trailing slash
	BaseURL string `env:"VLOG_API_BASE_URL,required"`

	// RequestTimeout bounds every request end-to-end, including body read
	RequestTimeout time.Duration `env:"VLOG_API_TIMEOUT" envDefault:"15s"`

	// UserAgent is sent with every request
	UserAgent string `env:"VLOG_API_USER_AGENT" envDefault:"vlogkit/1.0"`
}

// DefaultConfig returns default API client configuration. BaseURL must still
// be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 15 * time.Second,
		UserAgent:      "vlogkit/1.0",
	}
}
