package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound: the provider has no project for the slug.
	ErrProjectNotFound = errors.New("project not found")
	// ErrNoPipeline: the branch has no pipeline on the provider.
	ErrNoPipeline = errors.New("no pipeline for branch")
	// ErrBuildNotFound: a display line or ref resolved to nothing.
	ErrBuildNotFound = errors.New("build not found")
	// ErrCacheCorrupt: the durable cache file could not be decoded.
	// Callers treat this as a cache miss, not a fatal condition.
	ErrCacheCorrupt = errors.New("cache corrupt")
)

// TransportError covers connection failures and non-2xx provider
// responses. Status is zero when the request never completed.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("transport: %s: status %d", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError covers provider responses that are not valid JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
