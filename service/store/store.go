// Package store defines the byte-keyed storage contract the registry runs
// on, plus the memory and sqlite backends that implement it.
package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Tx.Get for absent keys
var ErrKeyNotFound = errors.New("store: key not found")

// Tx is one consistent view of the store. Writes made through an Update
// transaction become visible to later reads in the same transaction and are
// committed together; if the Update callback returns an error, none of them
// are retained.
type Tx interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	// Scan visits every live key with the given prefix in ascending key
	// order. Returning an error from fn stops the scan.
	Scan(prefix []byte, fn func(key, value []byte) error) error
}

// Store is a transactional key-value store
type Store interface {
	// View runs fn against a read-only snapshot. Writes through a View
	// transaction fail.
	View(ctx context.Context, fn func(tx Tx) error) error
	// Update runs fn against a writable transaction, committing its writes
	// only if fn returns nil.
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// ErrReadOnly is returned for writes through a View transaction
var ErrReadOnly = errors.New("store: write in read-only transaction")

// PrefixEnd returns the smallest key greater than every key with the given
// prefix, or nil if no such key exists
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
