// Package store owns the area log: a single JSON array of records on disk.
//
// The store is the only writer of the file. The log is append-only; the
// single destructive operation is Clear, which removes the whole file.
//
// # File Format
//
// The log is a UTF-8 JSON array with 4-space indentation:
//
//	[
//	    {
//	        "fecha": "05/03/2024 14:30:00",
//	        "figura": "circulo",
//	        "area": 12.57,
//	        "parametros": {
//	            "radio": 2.0
//	        }
//	    }
//	]
//
// Whenever the file exists and is non-empty it is a syntactically valid JSON
// array. Appends never re-serialize the existing records:
//
//   - absent or empty file: a one-element array is written to a temporary
//     file in the same directory and renamed over the log
//   - otherwise: the closing bracket is located by scanning backward from
//     EOF, the new element is written after the last record, and the array
//     is re-terminated and truncated
//
// Only whitespace may follow the closing bracket. Anything else fails the
// append with ErrMalformedLog and leaves the file untouched.
//
// # Concurrency
//
// Appends and clears inside one process are serialized by the store's mutex.
// Two processes appending to the same file are not coordinated.
//
// # Failure Handling
//
// Append and Clear return errors wrapping ErrAppendFailed and ErrClearFailed.
// LoadAll never fails: an unreadable or unparseable file is logged and read
// as an empty log.
package store
