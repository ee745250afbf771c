package credstore

import (
	"context"
	"sync"

	"github.com/openvlog/vlogkit/pkg/api"
)

// MemStore is the ephemeral tier: credentials live in process memory and
// vanish when the process exits.
type MemStore struct {
	mu    sync.RWMutex
	creds api.Credentials
	set   bool
}

// NewMemStore creates an empty in-memory credential store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Save(_ context.Context, creds api.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.set = true
	return nil
}

func (s *MemStore) Load(_ context.Context) (api.Credentials, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return api.Credentials{}, false, nil
	}
	return s.creds, true, nil
}

func (s *MemStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = api.Credentials{}
	s.set = false
	return nil
}
