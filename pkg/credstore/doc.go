// Package credstore persists the client's credential pair across two
// independent tiers: a durable tier that survives process restarts and an
// ephemeral tier scoped to the current run. The session manager decides which
// tier a session lives in at login time; at most one tier holds credentials
// for a given session.
//
// Three implementations ship with the package:
//
//   - FileStore: durable, a mode-0600 JSON file under the user config dir
//   - MemStore: ephemeral, in-process only
//   - RedisStore: durable, for headless or multi-process clients that keep
//     their session in Redis
//
// All implementations satisfy the Store interface and are safe for
// concurrent use.
package credstore
