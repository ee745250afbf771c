package social

import (
	"log/slog"

	"github.com/openvlog/vlogkit/pkg/cache"
	"github.com/openvlog/vlogkit/pkg/notify"
)

// Config holds mutation engine configuration
type Config struct {
	// CacheCapacity bounds the entity snapshot cache
	CacheCapacity int `env:"VLOG_SOCIAL_CACHE_CAPACITY" envDefault:"512"`
}

// DefaultConfig returns default mutation engine configuration
func DefaultConfig() Config {
	return Config{CacheCapacity: 512}
}

// Option is a functional option for configuring the Engine
type Option func(*Engine)

// WithConfig sets custom configuration
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		if cfg.CacheCapacity > 0 {
			e.entities = cache.NewLRU[string, Snapshot](cfg.CacheCapacity)
		}
	}
}

// WithNotifier sets the transient-message sink.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLogger sets the logger for the Engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
