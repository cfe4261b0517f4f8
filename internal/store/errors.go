package store

import "errors"

var (
	// ErrAppendFailed wraps every failure of Append.
	ErrAppendFailed = errors.New("append failed")

	// ErrClearFailed wraps every failure of Clear other than an absent file.
	ErrClearFailed = errors.New("clear failed")

	// ErrMalformedLog reports a log whose tail is not a closing bracket.
	// It is always joined with ErrAppendFailed.
	ErrMalformedLog = errors.New("malformed log")
)
