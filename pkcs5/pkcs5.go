// Package pkcs5 implements the PBKDF2 key derivation function defined in
// PKCS #5 v2.0 (RFC 2898, RFC 8018).
//
// PBKDF2 stretches a low-entropy password into a cryptographic key by
// iterating an HMAC pseudo-random function.  The iteration count is the
// work factor: the higher it is, the more expensive a brute-force attack
// on the password/salt pair becomes.
package pkcs5

import (
	"crypto/hmac"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
)

// Argument errors returned by [Key].  Use [errors.Is] for comparisons.
var (
	// ErrInvalidIterations is returned when the iteration count is below 1.
	ErrInvalidIterations = errors.New("pkcs5: iteration count must be at least 1")

	// ErrInvalidKeyLength is returned when the requested key length is below 1.
	ErrInvalidKeyLength = errors.New("pkcs5: key length must be at least 1")
)

// Key derives a keyLen-byte key from password and salt using iter rounds of
// HMAC over the hash function constructed by h.
//
// Per RFC 2898 §5.2, the derived key is the concatenation of blocks
//
//	T_i = U_1 xor U_2 xor ... xor U_iter
//	U_1 = HMAC(password, salt || INT_32_BE(i))
//	U_j = HMAC(password, U_{j-1})
//
// truncated to keyLen bytes.  Key returns an error, before doing any work,
// when iter or keyLen is below 1.
//
// Key is deterministic and allocation-bounded; it is safe for concurrent
// use since all state is local.
func Key(password, salt []byte, iter, keyLen int, h func() hash.Hash) ([]byte, error) {
	if iter < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidIterations, iter)
	}
	if keyLen < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidKeyLength, keyLen)
	}

	prf := hmac.New(h, password)
	hLen := prf.Size()
	numBlocks := (keyLen + hLen - 1) / hLen

	var ctr [4]byte
	dk := make([]byte, 0, numBlocks*hLen)
	u := make([]byte, 0, hLen)
	for block := 1; block <= numBlocks; block++ {
		// U_1 = HMAC(password, salt || INT_32_BE(block))
		prf.Reset()
		prf.Write(salt)
		binary.BigEndian.PutUint32(ctr[:], uint32(block))
		prf.Write(ctr[:])
		u = prf.Sum(u[:0])

		dk = append(dk, u...)
		t := dk[len(dk)-hLen:]
		for j := 2; j <= iter; j++ {
			prf.Reset()
			prf.Write(u)
			u = prf.Sum(u[:0])
			for k, b := range u {
				t[k] ^= b
			}
		}
	}
	return dk[:keyLen], nil
}
