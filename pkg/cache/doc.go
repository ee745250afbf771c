// Package cache provides a generic, thread-safe LRU cache used as the
// backing store for the SDK's entity snapshots. Capacity-bounded so a long
// browsing session cannot grow memory without limit; the least recently used
// snapshot is evicted when the cap is reached.
//
// Operations are O(1) and safe for concurrent use:
//
//	c := cache.NewLRU[string, Snapshot](512)
//	c.Put("user:42", snap)
//	snap, ok := c.Get("user:42")
//	c.Purge()
//
// An optional eviction callback lets owners observe evictions, e.g. to log
// them or release attached resources.
package cache
