// Package idgen hands out globally unique opaque identifiers for accounts,
// users and requests.
package idgen

import "github.com/google/uuid"

// New returns a unique opaque string identifier, assumed collision-free.
func New() string {
	return uuid.NewString()
}
