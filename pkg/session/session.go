package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openvlog/vlogkit/pkg/api"
)

// Status is the session manager's lifecycle state.
type Status string

const (
	StatusUninitialized   Status = "uninitialized"
	StatusResolving       Status = "resolving"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// View is the read model exposed to UI and page collaborators. It is a
// value copy; holding one never observes later session changes.
type View struct {
	Status  Status
	Profile api.Profile

	// TokenExpiresAt is the exp claim of the access credential, when the
	// credential is a parseable JWT. Best effort, unverified; nil otherwise.
	TokenExpiresAt *time.Time
}

// Authenticated reports whether the session holds a signed-in user.
func (v View) Authenticated() bool {
	return v.Status == StatusAuthenticated
}

// Resolving reports whether bootstrap is still probing a stored credential.
func (v View) Resolving() bool {
	return v.Status == StatusResolving
}

// Result is the reported outcome of a session action. Failures are carried
// here and in a notification, never as a panic or error across the async
// boundary.
type Result struct {
	OK      bool
	Message string

	// RedirectTo is the post-login destination resolved from an explicitly
	// set target. Empty means the caller should apply its own fallback
	// (e.g. the navigation "from" path).
	RedirectTo string
}

// tokenExpiry extracts the exp claim from an access credential without
// verifying the signature. The client has no signing key and only needs the
// timestamp for display and diagnostics.
func tokenExpiry(token string) *time.Time {
	if token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}
