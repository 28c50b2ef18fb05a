// Package kv defines the key-value persistence port used for the
// application's keyed JSON blobs, plus in-memory and Redis backends.
package kv

import (
	"context"
	"errors"
)

// Well-known blob keys.
const (
	KeyProducts  = "appProducts"
	KeyServices  = "appServices"
	KeyInvoices  = "appInvoices"
	KeyCustomers = "appCustomers"
	KeySettings  = "appSettings"
)

// ErrKeyNotFound indicates the key has never been written.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is the persistence port. Implementations must treat values as
// opaque bytes; all encoding happens at the storage boundary of each
// domain package.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
