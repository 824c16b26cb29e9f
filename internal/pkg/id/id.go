package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, so
// reservation and session keys list in insertion order.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
