package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/openvlog/vlogkit/pkg/logger"
)

// armRenewalLocked (re)starts the silent-renewal ticker for the current
// credential pair. Any previous ticker is stopped first; each armed loop
// carries a generation snapshot so results from a superseded loop are
// discarded. Caller holds m.mu.
func (m *Manager) armRenewalLocked() {
	m.stopRenewalLocked()
	if m.closed || m.creds.Renewal == "" || m.config.RenewalInterval <= 0 {
		return
	}

	m.gen++
	stop := make(chan struct{})
	m.renewalStop = stop
	go m.renewalLoop(stop, m.gen)
}

// stopRenewalLocked stops the active ticker, if any. Caller holds m.mu.
func (m *Manager) stopRenewalLocked() {
	if m.renewalStop != nil {
		close(m.renewalStop)
		m.renewalStop = nil
	}
}

func (m *Manager) renewalLoop(stop <-chan struct{}, gen uint64) {
	ticker := time.NewTicker(m.config.RenewalInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !m.renewOnce(gen) {
				return
			}
		}
	}
}

// renewOnce performs one silent renewal cycle. Returns false when the loop
// should stop: the session was torn down, this loop was superseded, or
// renewal failed and forced a logout.
func (m *Manager) renewOnce(gen uint64) bool {
	m.mu.Lock()
	if m.gen != gen || m.creds.Renewal == "" {
		m.mu.Unlock()
		return false
	}
	renewal := m.creds.Renewal
	durable := m.durableTier
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.config.RequestTimeout)
	defer cancel()

	creds, err := m.gateway.Refresh(ctx, renewal)

	m.mu.Lock()
	if m.gen != gen {
		// Session torn down or re-armed while the request was in flight;
		// the result belongs to a dead session.
		m.mu.Unlock()
		return false
	}

	if err != nil {
		m.mu.Unlock()
		m.logger.LogAttrs(ctx, slog.LevelWarn, "silent renewal failed, ending session",
			logger.Component("session"), logger.Error(err))
		// A failed renewal is session death: the stale renewal credential
		// must not be retried against the server.
		m.Logout(context.Background())
		return false
	}

	m.creds = creds
	m.gateway.SetAuthToken(creds.Access)
	m.mu.Unlock()

	m.persistGuarded(ctx, creds, durable, gen)

	m.logger.LogAttrs(ctx, slog.LevelDebug, "credentials renewed",
		logger.Component("session"))
	return true
}
