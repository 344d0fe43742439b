// Package random provides cryptographically secure random values backed by
// the operating system CSPRNG (crypto/rand).
//
// The helpers here are shared by every driver that needs salt or token
// material.  None of them fall back to a weaker source: any failure of the
// underlying reader is reported as an error rather than papered over.
package random

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// Bytes returns n cryptographically random bytes.
func Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("random: byte count must not be negative, got %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("random: failed to read %d bytes: %w", n, err)
	}
	return b, nil
}

// Int returns a uniformly distributed random integer in [0, max).
// max must be positive.
func Int(max int64) (int64, error) {
	if max <= 0 {
		return 0, fmt.Errorf("random: max must be positive, got %d", max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, fmt.Errorf("random: %w", err)
	}
	return n.Int64(), nil
}

// String returns a string of n symbols drawn uniformly from charset.
// Selection goes through [Int], so there is no modulo bias regardless of
// the charset length.
func String(n int, charset string) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("random: length must not be negative, got %d", n)
	}
	if charset == "" {
		return "", errors.New("random: charset must not be empty")
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := Int(int64(len(charset)))
		if err != nil {
			return "", err
		}
		b.WriteByte(charset[idx])
	}
	return b.String(), nil
}
