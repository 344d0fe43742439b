package hashing

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"regexp"
	"strings"

	"github.com/hasbyte1/go-password-hashing/pkcs5"
	"github.com/hasbyte1/go-password-hashing/random"
)

// ──────────────────────────────────────────────────────────────────────────────
// Options
// ──────────────────────────────────────────────────────────────────────────────

const (
	// DefaultPBKDF2IterationLog2 is the default base-2 logarithm of the
	// PBKDF2 iteration count (2^12 = 4096 iterations).
	DefaultPBKDF2IterationLog2 = 12

	// MinPBKDF2IterationLog2 and MaxPBKDF2IterationLog2 bound the valid
	// iteration log2 range.  Values outside [1, 30] are rejected with
	// [ErrInvalidOption].
	MinPBKDF2IterationLog2 = 1
	MaxPBKDF2IterationLog2 = 30

	// pbkdf2Magic is the fixed format identifier prefixing every salt and
	// hash produced by this driver.
	pbkdf2Magic = "$p5v2$"

	pbkdf2SaltBytes  = 6  // raw random bytes per salt, encoded to 8 symbols
	pbkdf2KeyBytes   = 24 // derived key length, encoded to 32 symbols
	pbkdf2DigestLen  = 32 // encoded digest symbols
	pbkdf2SaltStrLen = 16 // "$p5v2$" + count symbol + 8 salt symbols + "$"
)

// Failure sentinels returned by [PBKDF2Hasher.Crypt].  Both are guaranteed
// to be invalid as a salt or a hash, which makes an equality check (or
// [PBKDF2Hasher.ValidHash]) a reliable failure test for callers that prefer
// not to inspect the error.
const (
	// SentinelFailure signals that hash generation failed.
	SentinelFailure = "*0"
	// SentinelFailureAlt replaces SentinelFailure when the input salt was
	// itself "*0", guaranteeing the failure value never equals the input.
	SentinelFailureAlt = "*1"
)

var (
	// One iteration-count symbol followed by eight salt symbols; the
	// trailing "$" is optional so that the bare salt prefix of a full hash
	// also validates.
	pbkdf2SaltPattern   = regexp.MustCompile(`^\$p5v2\$[./0-9A-Za-z]{9}\$?$`)
	pbkdf2DigestPattern = regexp.MustCompile(`^[./0-9A-Za-z]{32}$`)
)

// PBKDF2Options configures a [PBKDF2Hasher].
type PBKDF2Options struct {
	// IterationCountLog2 is the base-2 logarithm of the PBKDF2 iteration
	// count; the driver performs 2^IterationCountLog2 HMAC-SHA256 rounds.
	// Valid range: [MinPBKDF2IterationLog2, MaxPBKDF2IterationLog2].
	// Default: [DefaultPBKDF2IterationLog2] (4096 iterations).
	IterationCountLog2 int
}

// DefaultPBKDF2Options returns PBKDF2Options with the recommended defaults.
func DefaultPBKDF2Options() PBKDF2Options {
	return PBKDF2Options{IterationCountLog2: DefaultPBKDF2IterationLog2}
}

func validatePBKDF2Options(opts PBKDF2Options) error {
	if opts.IterationCountLog2 < MinPBKDF2IterationLog2 || opts.IterationCountLog2 > MaxPBKDF2IterationLog2 {
		return fmt.Errorf("%w: pbkdf2 iterationCountLog2 %d must be in [%d, %d]",
			ErrInvalidOption, opts.IterationCountLog2, MinPBKDF2IterationLog2, MaxPBKDF2IterationLog2)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// PBKDF2Hasher
// ──────────────────────────────────────────────────────────────────────────────

// PBKDF2Hasher hashes passwords with PBKDF2-HMAC-SHA256 (PKCS #5 v2.0) and
// encodes the result in a crypt-style textual format:
//
//	$p5v2$CSSSSSSSS$HHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHH
//
// where C is one crypt alphabet symbol carrying log2 of the iteration count,
// SSSSSSSS is the 6-byte random salt encoded to 8 symbols, and the final 32
// symbols encode the 24-byte derived key.
//
// # Format quirk
//
// For compatibility with existing $p5v2$ hashes, the key derivation consumes
// the eight *encoded* salt symbols as its salt input, not the six raw random
// bytes they were packed from.  This is intentional and must not be changed:
// doing so would invalidate every stored hash.
//
// # Thread safety
//
// PBKDF2Hasher is immutable after construction and safe for concurrent use.
// [PBKDF2Hasher.SetOptions] returns a new hasher instead of mutating the
// receiver.
type PBKDF2Hasher struct {
	iterLog2 int
}

// NewPBKDF2Hasher constructs a PBKDF2Hasher with the given options.
// Use [DefaultPBKDF2Options] for recommended defaults.
func NewPBKDF2Hasher(opts PBKDF2Options) (*PBKDF2Hasher, error) {
	if err := validatePBKDF2Options(opts); err != nil {
		return nil, err
	}
	return &PBKDF2Hasher{iterLog2: opts.IterationCountLog2}, nil
}

// Driver returns [DriverPBKDF2SHA256].
func (h *PBKDF2Hasher) Driver() DriverName { return DriverPBKDF2SHA256 }

// IterationCountLog2 returns the configured iteration count log2.
func (h *PBKDF2Hasher) IterationCountLog2() int { return h.iterLog2 }

// SetOptions derives a new PBKDF2Hasher from h with the given options
// applied.  Option keys are matched case-insensitively; unknown keys are
// ignored.  Recognised keys:
//
//	"iterationCountLog2" → integer in [1, 30]
//
// An out-of-range or non-integer value fails with [ErrInvalidOption] before
// any option is applied.  The receiver is never modified, so the returned
// hasher can be chained or discarded freely:
//
//	fast, err := h.SetOptions(map[string]any{"iterationCountLog2": 8})
func (h *PBKDF2Hasher) SetOptions(opts map[string]any) (*PBKDF2Hasher, error) {
	iterLog2 := h.iterLog2
	for key, val := range opts {
		if !strings.EqualFold(key, "iterationCountLog2") {
			continue
		}
		n, ok := asInt(val)
		if !ok {
			return nil, fmt.Errorf("%w: iterationCountLog2 must be an integer, got %T", ErrInvalidOption, val)
		}
		if n < MinPBKDF2IterationLog2 || n > MaxPBKDF2IterationLog2 {
			return nil, fmt.Errorf("%w: iterationCountLog2 %d must be in [%d, %d]",
				ErrInvalidOption, n, MinPBKDF2IterationLog2, MaxPBKDF2IterationLog2)
		}
		iterLog2 = n
	}
	return &PBKDF2Hasher{iterLog2: iterLog2}, nil
}

// asInt converts the integer-ish types an options map may carry.
// Floats are accepted only when they hold an integral value, so that
// JSON-decoded option maps round-trip cleanly.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case float32:
		if n == float32(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// ──────────────────────────────────────────────────────────────────────────────
// Salt generation and format validation
// ──────────────────────────────────────────────────────────────────────────────

// GenSalt builds a salt string from six raw bytes:
//
//	$p5v2$CSSSSSSSS$
//
// When raw is nil, six bytes are drawn from the operating system CSPRNG.
// A non-nil raw must be exactly six bytes; anything else fails with
// [ErrInvalidOption].  The iteration-count symbol C encodes the configured
// log2, clamped to [1, 30].
func (h *PBKDF2Hasher) GenSalt(raw []byte) (string, error) {
	if raw == nil {
		var err error
		raw, err = random.Bytes(pbkdf2SaltBytes)
		if err != nil {
			return "", fmt.Errorf("hashing: pbkdf2: failed to generate salt: %w", err)
		}
	}
	if len(raw) != pbkdf2SaltBytes {
		return "", fmt.Errorf("%w: pbkdf2 raw salt must be exactly %d bytes, got %d",
			ErrInvalidOption, pbkdf2SaltBytes, len(raw))
	}
	iterLog2 := min(max(h.iterLog2, MinPBKDF2IterationLog2), MaxPBKDF2IterationLog2)
	return pbkdf2Magic + string(itoa64[iterLog2]) + crypt64Encode(raw) + "$", nil
}

// ValidSalt reports whether s is a structurally valid $p5v2$ salt string:
// the magic prefix, one iteration-count symbol, eight salt symbols, and an
// optional trailing "$".
func (h *PBKDF2Hasher) ValidSalt(s string) bool {
	return pbkdf2SaltPattern.MatchString(s)
}

// ValidHash reports whether s is a structurally valid $p5v2$ hash string:
// a valid salt followed by 32 digest symbols.  The failure sentinels "*0"
// and "*1" never validate, so ValidHash doubles as the failure test for
// [PBKDF2Hasher.Crypt] output.
func (h *PBKDF2Hasher) ValidHash(s string) bool {
	if len(s) < pbkdf2DigestLen {
		return false
	}
	cut := len(s) - pbkdf2DigestLen
	return h.ValidSalt(s[:cut]) && pbkdf2DigestPattern.MatchString(s[cut:])
}

// decodeSaltIterations validates salt and extracts the iteration count log2
// from its count symbol.  Symbols whose value falls outside [1, 30] are
// rejected even though they belong to the alphabet: no salt this driver
// generates carries them, and accepting them would mean up to 2^63 rounds.
func decodeSaltIterations(salt string) (iterLog2 int, ok bool) {
	if !pbkdf2SaltPattern.MatchString(salt) {
		return 0, false
	}
	iterLog2 = crypt64Index(salt[6])
	if iterLog2 < MinPBKDF2IterationLog2 || iterLog2 > MaxPBKDF2IterationLog2 {
		return 0, false
	}
	return iterLog2, true
}

// ──────────────────────────────────────────────────────────────────────────────
// Crypt
// ──────────────────────────────────────────────────────────────────────────────

// Crypt hashes password with the salt string and returns the full $p5v2$
// hash.  Crypt is deterministic: the same password and salt always produce
// the same hash, which is how verification re-derives a stored hash from its
// own salt prefix.
//
// The salt must come from [PBKDF2Hasher.GenSalt] or be the 15- or 16-symbol
// salt prefix of an existing hash.  The iteration count is decoded from the
// salt itself (2^C where C is the count symbol's alphabet value), so Crypt
// honours the salt's parameters rather than the hasher's current options.
//
// On failure — an invalid salt, or an assembled hash that does not pass
// self-validation — Crypt returns the sentinel [SentinelFailure] together
// with [ErrHashGeneration].  When the input salt was itself "*0" the
// sentinel is [SentinelFailureAlt] instead, so the failure value never
// equals the input.  Callers may test either the error or the returned
// string; both always agree.
//
// Crypt performs no comparisons itself.  Callers verifying a password
// against a stored hash should use [PBKDF2Hasher.Check], which compares in
// constant time.
func (h *PBKDF2Hasher) Crypt(password []byte, salt string) (string, error) {
	out := SentinelFailure
	if iterLog2, ok := decodeSaltIterations(salt); ok {
		// The KDF consumes the eight encoded salt symbols, not the raw
		// bytes they encode.  See the format quirk note on PBKDF2Hasher.
		key, err := pkcs5.Key(password, []byte(salt[7:15]), 1<<iterLog2, pbkdf2KeyBytes, sha256.New)
		if err == nil {
			prefix := salt
			if len(prefix) == pbkdf2SaltStrLen {
				prefix = prefix[:pbkdf2SaltStrLen-1] // drop the trailing "$"
			}
			out = prefix + "$" + crypt64Encode(key)
		}
	}
	if !h.ValidHash(out) {
		out = SentinelFailure
		if salt == SentinelFailure {
			out = SentinelFailureAlt
		}
		return out, fmt.Errorf("%w: %s", ErrHashGeneration, out)
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Hasher interface
// ──────────────────────────────────────────────────────────────────────────────

// Make hashes password with a fresh random salt and the configured iteration
// count, returning a $p5v2$ hash string.
func (h *PBKDF2Hasher) Make(password string) (string, error) {
	salt, err := h.GenSalt(nil)
	if err != nil {
		return "", err
	}
	return h.Crypt([]byte(password), salt)
}

// Check verifies that password matches the $p5v2$ hash by re-deriving with
// the hash's own salt prefix and comparing in constant time.  The iteration
// count is read from the hash itself, so verification works correctly even
// when the hasher's options have changed since the hash was made.
func (h *PBKDF2Hasher) Check(password, hash string) (bool, error) {
	if !h.ValidHash(hash) {
		return false, fmt.Errorf("%w: not a $p5v2$ crypt hash", ErrInvalidHash)
	}
	computed, err := h.Crypt([]byte(password), hash[:len(hash)-pbkdf2DigestLen])
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1, nil
}

// NeedsRehash returns true if the iteration count encoded in hash differs
// from the hasher's configured iteration count.
func (h *PBKDF2Hasher) NeedsRehash(hash string) (bool, error) {
	if !h.ValidHash(hash) {
		return false, fmt.Errorf("%w: not a $p5v2$ crypt hash", ErrInvalidHash)
	}
	iterLog2, ok := decodeSaltIterations(hash[:len(hash)-pbkdf2DigestLen])
	if !ok {
		return false, fmt.Errorf("%w: iteration count symbol out of range", ErrInvalidHash)
	}
	return iterLog2 != h.iterLog2, nil
}

// Info parses the $p5v2$ string and returns the encoded parameters.
//
// Returned [HashInfo].Params:
//   - "algo"                 → string ("sha256")
//   - "iterations"           → int
//   - "iteration_count_log2" → int
func (h *PBKDF2Hasher) Info(hash string) (HashInfo, error) {
	if !h.ValidHash(hash) {
		return HashInfo{}, fmt.Errorf("%w: not a $p5v2$ crypt hash", ErrInvalidHash)
	}
	iterLog2, ok := decodeSaltIterations(hash[:len(hash)-pbkdf2DigestLen])
	if !ok {
		return HashInfo{}, fmt.Errorf("%w: iteration count symbol out of range", ErrInvalidHash)
	}
	return HashInfo{
		Driver: DriverPBKDF2SHA256,
		Params: map[string]any{
			"algo":                 "sha256",
			"iterations":           1 << iterLog2,
			"iteration_count_log2": iterLog2,
		},
	}, nil
}
