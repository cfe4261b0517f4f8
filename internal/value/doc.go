// Package value provides the typed JSON values stored in the area log.
//
// This package has no internal imports; record, store, and stats build on it.
//
// Key design constraints:
//   - Int and Float are distinct types so integer parameters keep their form
//   - Object iteration is only deterministic through SortedKeys
//   - Fingerprints are computed over MarshalCanonical output, never json.Marshal
package value
