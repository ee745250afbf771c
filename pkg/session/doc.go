// Package session owns the client's authentication session: who is signed
// in, with which credential pair, and in which storage tier the pair lives.
// A single Manager instance runs per client process.
//
// # Lifecycle
//
// The session moves through an explicit state machine:
//
//	uninitialized → resolving → {authenticated, unauthenticated}
//
// Bootstrap drives the resolving step on process start: a stored access
// credential (durable tier first, then ephemeral) is probed against the
// API's who-am-I endpoint. The intermediate resolving status exists so
// dependent UI can avoid flashing a signed-out view while the probe is in
// flight. Afterwards the session flips between authenticated and
// unauthenticated via Login, Logout and renewal failure; no other
// transitions exist.
//
// # Silent renewal
//
// While a renewal credential is held, a background ticker silently trades it
// for a fresh credential pair at a fixed interval. Renewal failure is
// session death, not a transient error: a stale renewal credential risks
// being reused or invalidated server-side, so the manager performs a full
// logout instead of retrying. The ticker is re-armed on every credential
// change and torn down by Close; a renewal response that lands after
// teardown is discarded via a generation check, never applied to a cleared
// session.
//
// # Outcomes, not panics
//
// Every action returns a Result ({OK} or {OK:false, Message}) and emits a
// user-facing notification; failures are reported outcomes, never errors
// thrown across the async boundary.
package session
