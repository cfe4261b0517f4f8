// Package stats computes aggregate statistics over a set of log records.
//
// Results are memoized by a content fingerprint of the record set: the
// SHA-256 of the records' canonical JSON encoding. Equal content yields the
// same fingerprint regardless of how the records were built, so repeated
// Statistics calls over an unchanged log cost one hash and one lookup.
// Record sets that cannot be canonically encoded (non-finite numbers) fall
// back to an xxhash64 of their plain rendering under a separate prefix.
//
// The memo table is a bounded LRU guarded by its own mutex, independent of
// the snapshot cache.
package stats
