package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/openvlog/vlogkit/pkg/api"
)

// storedCredentials is the on-disk shape. Field names are part of the file
// format; do not rename.
type storedCredentials struct {
	AccessCredential  string `json:"access_credential"`
	RenewalCredential string `json:"renewal_credential"`
}

// FileStore is the durable tier: a mode-0600 JSON file, by default under the
// user config directory. A missing file means no stored session.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store at the given path. The parent
// directory is created on first Save, not here.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFileStore places the credential file under the user config
// directory (e.g. ~/.config/vlogkit/credentials.json).
func DefaultFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Join(ErrStorePath, err)
	}
	return NewFileStore(filepath.Join(dir, "vlogkit", "credentials.json")), nil
}

func (s *FileStore) Save(_ context.Context, creds api.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Join(ErrStorePath, err)
	}

	raw, err := json.Marshal(storedCredentials{
		AccessCredential:  creds.Access,
		RenewalCredential: creds.Renewal,
	})
	if err != nil {
		return err
	}

	// Write-then-rename so a crash mid-write never leaves a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Load(_ context.Context) (api.Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return api.Credentials{}, false, nil
		}
		return api.Credentials{}, false, err
	}

	var stored storedCredentials
	if err := json.Unmarshal(raw, &stored); err != nil {
		return api.Credentials{}, false, errors.Join(ErrCorruptStore, err)
	}
	if stored.AccessCredential == "" && stored.RenewalCredential == "" {
		return api.Credentials{}, false, nil
	}

	return api.Credentials{
		Access:  stored.AccessCredential,
		Renewal: stored.RenewalCredential,
	}, true, nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
