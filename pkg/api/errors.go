package api

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBaseURL indicates the client was constructed without an API base URL
	ErrMissingBaseURL = errors.New("api.missing_base_url")

	// ErrMissingCredentials indicates the response lacked a recognizable credential field
	ErrMissingCredentials = errors.New("api.missing_credentials_in_response")

	// ErrUnknownRelationKind indicates a relation toggle for a kind the API does not expose
	ErrUnknownRelationKind = errors.New("api.unknown_relation_kind")
)

// APIError is a non-2xx response from the platform API, normalized to the
// HTTP status and the server-supplied message (empty when the body carried
// none).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// ServerMessage returns the server-supplied message from err if it is an
// *APIError, or "" otherwise. Callers use it to surface server wording in
// notifications with a generic fallback.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// IsUnauthorized reports whether err is an *APIError with a 401 status.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 401
}
