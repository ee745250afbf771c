package social

import "errors"

var (
	// ErrMissingGateway indicates the engine was constructed without an API gateway
	ErrMissingGateway = errors.New("social.missing_gateway")

	// ErrMissingSession indicates the engine was constructed without a session reader
	ErrMissingSession = errors.New("social.missing_session")

	// ErrUnknownKind indicates a toggle for a relation kind the engine does not know
	ErrUnknownKind = errors.New("social.unknown_relation_kind")
)

const (
	msgSignInRequired = "Please sign in to continue."

	// loginSurface is the redirect signal emitted with the sign-in prompt.
	loginSurface = "/login"
)

// settlement is the terminal state of a pending mutation record.
type settlement int

const (
	settlementPending settlement = iota
	settlementCommitted
	settlementRolledBack
)
