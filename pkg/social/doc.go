// Package social implements the optimistic mutation engine for social-graph
// toggle actions: follow/unfollow, like/unlike, bookmark/unbookmark. A
// single Engine instance runs per client process, owning a keyed cache of
// entity snapshots that every view renders from, so all views of the same
// entity stay consistent.
//
// # Protocol
//
// Toggle applies the expected result to the cache immediately and reconciles
// with the server afterwards:
//
//  1. Unauthenticated calls are deflected synchronously, with no cache write
//     and no network call, emitting a "please sign in" notification and a
//     redirect signal to the login surface.
//  2. A second toggle for the same (target, kind) while one is in flight is
//     suppressed, not queued; a rapid double-trigger nets one request.
//  3. Membership is read from the viewer's own snapshot ("am I following
//     this id"), and the inverse action is computed.
//  4. The optimistic patch lands atomically: the viewer's relation list is
//     toggled and the target's counter adjusted together, with the
//     pre-patch snapshots captured in a pending record.
//  5. On server success the record commits, optionally reconciling the
//     counter with an authoritative value from the response.
//  6. On server failure the cache is restored field-for-field to the
//     pre-patch snapshots, never a partially undone patch, and the error
//     is surfaced as a notification.
//
// The optimistic window trades a moment of possible inconsistency for
// perceived responsiveness; the exact-rollback contract is what bounds that
// risk.
package social
