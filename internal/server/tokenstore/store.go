// Package tokenstore holds session tokens in an expiring key-value store.
// Each token maps to a user id under the key "auth_<token>"; expiry is
// enforced by the store's own TTL mechanism.
package tokenstore

import (
	"context"
	"time"
)

// KeyPrefix is prepended to every token before it is used as a store key.
const KeyPrefix = "auth_"

// Store is the expiring key-value contract for session tokens.
type Store interface {
	// Set maps token to userID for the given TTL.
	Set(ctx context.Context, token, userID string, ttl time.Duration) error

	// Get resolves token to a user id, or common.ErrorNotFound when the
	// mapping is absent or expired.
	Get(ctx context.Context, token string) (string, error)

	// Del removes the mapping unconditionally. Deleting an unknown token
	// is not an error.
	Del(ctx context.Context, token string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
