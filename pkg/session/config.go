package session

import "time"

// Config holds session manager configuration
type Config struct {
	// RenewalInterval is how often the silent renewal ticker fires while a
	// renewal credential is held
	RenewalInterval time.Duration `env:"VLOG_SESSION_RENEWAL_INTERVAL" envDefault:"20m"`

	// RequestTimeout bounds the background renewal request, which runs
	// outside any caller context
	RequestTimeout time.Duration `env:"VLOG_SESSION_REQUEST_TIMEOUT" envDefault:"15s"`
}

// DefaultConfig returns default session manager configuration
func DefaultConfig() Config {
	return Config{
		RenewalInterval: 20 * time.Minute,
		RequestTimeout:  15 * time.Second,
	}
}
