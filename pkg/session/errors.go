package session

import "errors"

var (
	// ErrClosed indicates the manager has been torn down
	ErrClosed = errors.New("session.manager_closed")

	// ErrAlreadyBootstrapped indicates Bootstrap was called twice; resolving
	// is only reachable from the uninitialized state
	ErrAlreadyBootstrapped = errors.New("session.already_bootstrapped")

	// ErrMissingGateway indicates the manager was constructed without an API gateway
	ErrMissingGateway = errors.New("session.missing_gateway")
)

// Generic notification fallbacks when the server supplied no message.
const (
	msgLoginFailed    = "Sign-in failed. Please check your credentials."
	msgLoginOK        = "Signed in successfully."
	msgRegisterFailed = "Registration failed. Please try again."
	msgRegisterOK     = "Account created. Please sign in."
	msgLogoutOK       = "Signed out."
	msgProfileFailed  = "Could not update your profile."
	msgProfileOK      = "Profile updated."
	msgPasswordFailed = "Could not change your password."
	msgPasswordOK     = "Password changed."
)
