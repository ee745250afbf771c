package credstore

import (
	"context"

	"github.com/openvlog/vlogkit/pkg/api"
)

// Store persists one credential pair under fixed keys. Load reports presence
// explicitly so callers can distinguish "no stored session" from an error.
type Store interface {
	// Save stores the credential pair, overwriting any previous pair.
	Save(ctx context.Context, creds api.Credentials) error

	// Load retrieves the stored pair. The boolean is false when the store
	// holds no credentials.
	Load(ctx context.Context) (api.Credentials, bool, error)

	// Clear removes any stored credentials. Clearing an empty store is not
	// an error.
	Clear(ctx context.Context) error
}
