package identifier

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"
)

// ErrExhausted is returned when no unused user ID could be drawn
var ErrExhausted = errors.New("could not generate a unique user id")

// maxAttempts bounds the collision-retry loop; at the expected scale a single
// draw collides almost never, so hitting this means the ID space is broken.
const maxAttempts = 100

// idRange draws an 8-digit number: 10000000 + [0, 90000000)
var idRange = big.NewInt(90000000)

// NewUserID draws a random 8-digit numeric user ID that is not already taken.
// Uniqueness is checked against the caller-provided set instead of trusting
// the draw, so two users can never share an ID.
func NewUserID(taken func(id string) bool) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		n, err := rand.Int(rand.Reader, idRange)
		if err != nil {
			return "", err
		}
		id := strconv.FormatInt(10000000+n.Int64(), 10)
		if taken == nil || !taken(id) {
			return id, nil
		}
	}
	return "", ErrExhausted
}

// NewRecordID returns the millisecond-timestamp ID used for friend and
// withdrawal records, same format the existing documents carry.
func NewRecordID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}
