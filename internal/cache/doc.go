// Package cache keeps an in-memory snapshot of the area log in front of the
// store's full-file parse.
//
// # Validity
//
// A snapshot is served only while all of these hold:
//   - it was captured for the same path
//   - the file's mtime equals the mtime recorded at capture (a file that
//     appeared or disappeared since also counts as a change)
//   - less than the TTL (default 60s) has elapsed since capture
//
// The store calls Invalidate after every append and clear; the watcher calls
// it on external writes. A snapshot is a deep copy in both directions, so
// callers can never observe or cause mutation of cached records.
//
// The cache is an explicit value injected into the store and the query
// facade; there is no package-level instance.
package cache
