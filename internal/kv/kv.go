// Package kv provides the string-keyed blob storage the portal persists
// through. Implementations can use any backend; the DataStore treats the
// store as a drop-in for browser localStorage: whole values are read and
// written atomically, and a missing key is not an error condition callers
// are expected to branch on beyond ErrNotFound.
package kv

import "errors"

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("kv: key not found")

// Store is the minimal contract the DataStore needs.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(key string) error

	// Keys lists every key currently present, in no particular order.
	Keys() ([]string, error)
}
