package session

import (
	"log/slog"

	"github.com/openvlog/vlogkit/pkg/credstore"
	"github.com/openvlog/vlogkit/pkg/notify"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithConfig sets custom configuration
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.config = cfg
	}
}

// WithDurableStore sets the durable credential tier (survives restarts).
func WithDurableStore(store credstore.Store) Option {
	return func(m *Manager) {
		m.durable = store
	}
}

// WithEphemeralStore sets the ephemeral credential tier (current run only).
func WithEphemeralStore(store credstore.Store) Option {
	return func(m *Manager) {
		m.ephemeral = store
	}
}

// WithNotifier sets the transient-message sink.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithLogger sets the logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}
