// Package state stores in-flight login round trips: the random CSRF state
// token handed to the identity provider, mapped to where the user should
// land afterwards. Entries are one-shot and short-lived.
package state

import (
	"context"
	"time"
)

// TTL bounds how long a login round trip may take. Anything older is
// treated as never started.
const TTL = 10 * time.Minute

type Login struct {
	ReturnTo  string    `json:"return_to"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is satisfied by the in-memory store and the Redis-backed one used
// when the service runs more than one replica.
type Store interface {
	Put(ctx context.Context, token string, login Login) error

	// Take returns and deletes the entry: a state token verifies at most
	// once.
	Take(ctx context.Context, token string) (Login, bool, error)
}
