// Package shared holds the archive server's service errors and small
// helpers for random identifiers and wiping secrets.
package shared

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

var errBadSize = errors.New("size must be positive")

// MakeRandHexString returns size random bytes hex-encoded, so the result is
// 2*size characters long. Token IDs use it.
func MakeRandHexString(size int) (string, error) {
	if size <= 0 {
		return "", errBadSize
	}
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeroes a password buffer once it has been sent.
func WipeByteArray(b []byte) {
	clear(b)
}
