package hashing

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/hasbyte1/go-password-hashing/random"
)

// ──────────────────────────────────────────────────────────────────────────────
// Options
// ──────────────────────────────────────────────────────────────────────────────

const (
	// DefaultArgon2Memory is the default memory cost in KiB (64 MiB).
	// OWASP ASVS Level 2 requires ≥ 19 MiB; 64 MiB is the standard
	// production recommendation for Argon2id.
	DefaultArgon2Memory uint32 = 64 * 1024

	// DefaultArgon2Time is the default number of iterations.
	DefaultArgon2Time uint32 = 3

	// DefaultArgon2Threads is the default degree of parallelism.
	DefaultArgon2Threads uint8 = 2

	// DefaultArgon2KeyLen is the default output key length in bytes.
	DefaultArgon2KeyLen uint32 = 32

	// DefaultArgon2SaltLen is the default random salt length in bytes.
	DefaultArgon2SaltLen uint32 = 16

	// argon2Version is the Argon2 specification version encoded in hashes.
	argon2Version = argon2.Version // 0x13 = 19
)

// Argon2Options configures an [Argon2Hasher].
//
// All parameters are directly encoded into the output hash string (PHC
// format), so changing them only affects newly produced hashes; existing
// hashes remain verifiable.
type Argon2Options struct {
	// Memory is the memory cost in KiB.
	// Minimum: 8 * Threads.  Default: [DefaultArgon2Memory] (64 MiB).
	Memory uint32

	// Time is the number of passes over memory (iterations).
	// Minimum: 1.  Default: [DefaultArgon2Time] (3).
	Time uint32

	// Threads is the degree of parallelism.
	// Minimum: 1.  Default: [DefaultArgon2Threads] (2).
	Threads uint8

	// KeyLen is the length of the derived key in bytes.
	// Default: [DefaultArgon2KeyLen] (32).
	KeyLen uint32

	// SaltLen is the length of the random salt in bytes.
	// Minimum: 8.  Default: [DefaultArgon2SaltLen] (16).
	SaltLen uint32
}

// DefaultArgon2Options returns Argon2Options with the recommended defaults.
// These exceed OWASP ASVS Level 2 requirements.
func DefaultArgon2Options() Argon2Options {
	return Argon2Options{
		Memory:  DefaultArgon2Memory,
		Time:    DefaultArgon2Time,
		Threads: DefaultArgon2Threads,
		KeyLen:  DefaultArgon2KeyLen,
		SaltLen: DefaultArgon2SaltLen,
	}
}

func validateArgon2Options(opts Argon2Options) error {
	if opts.Time < 1 {
		return fmt.Errorf("%w: argon2 time must be ≥ 1, got %d", ErrInvalidOption, opts.Time)
	}
	if opts.Threads < 1 {
		return fmt.Errorf("%w: argon2 threads must be ≥ 1, got %d", ErrInvalidOption, opts.Threads)
	}
	if opts.Memory < 8*uint32(opts.Threads) {
		return fmt.Errorf("%w: argon2 memory (%d KiB) must be ≥ 8×threads (%d KiB)",
			ErrInvalidOption, opts.Memory, 8*uint32(opts.Threads))
	}
	if opts.KeyLen < 4 {
		return fmt.Errorf("%w: argon2 key_len must be ≥ 4, got %d", ErrInvalidOption, opts.KeyLen)
	}
	if opts.SaltLen < 8 {
		return fmt.Errorf("%w: argon2 salt_len must be ≥ 8, got %d", ErrInvalidOption, opts.SaltLen)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Argon2Hasher
// ──────────────────────────────────────────────────────────────────────────────

// Argon2Hasher hashes passwords with Argon2, in either the argon2i or the
// argon2id variant.  Both share the options, the PHC output format, and all
// verification logic; only the key-derivation call differs, so a single
// implementation carries both drivers.
//
// Argon2id is a hybrid of Argon2i and Argon2d and is the recommended choice
// for password hashing per RFC 9106 and OWASP.  Argon2i uses purely
// data-independent memory access; keep it only for compatibility with
// existing argon2i hashes.
//
// Output format: PHC string ($argon2id$v=19$m=…,t=…,p=…$<salt>$<hash>)
// with unpadded standard base64, the convention used by the Argon2
// reference implementation.
//
// # Thread safety
//
// Argon2Hasher is immutable after construction and safe for concurrent use.
type Argon2Hasher struct {
	variant DriverName
	opts    Argon2Options
}

// NewArgon2iHasher constructs an Argon2Hasher using the Argon2i variant.
// Use [DefaultArgon2Options] for recommended defaults.
func NewArgon2iHasher(opts Argon2Options) (*Argon2Hasher, error) {
	return newArgon2Hasher(DriverArgon2i, opts)
}

// NewArgon2idHasher constructs an Argon2Hasher using the Argon2id variant.
// Use [DefaultArgon2Options] for recommended defaults.
func NewArgon2idHasher(opts Argon2Options) (*Argon2Hasher, error) {
	return newArgon2Hasher(DriverArgon2id, opts)
}

func newArgon2Hasher(variant DriverName, opts Argon2Options) (*Argon2Hasher, error) {
	if err := validateArgon2Options(opts); err != nil {
		return nil, err
	}
	return &Argon2Hasher{variant: variant, opts: opts}, nil
}

// Driver returns [DriverArgon2i] or [DriverArgon2id] depending on the
// variant the hasher was constructed with.
func (h *Argon2Hasher) Driver() DriverName { return h.variant }

// Options returns the current Argon2 parameter set.
func (h *Argon2Hasher) Options() Argon2Options { return h.opts }

// deriveArgon2Key runs the variant's key derivation with the given parameters.
func deriveArgon2Key(variant DriverName, password string, salt []byte, time, memory uint32, threads uint8, keyLen uint32) []byte {
	if variant == DriverArgon2i {
		return argon2.Key([]byte(password), salt, time, memory, threads, keyLen)
	}
	return argon2.IDKey([]byte(password), salt, time, memory, threads, keyLen)
}

// Make hashes password and returns a PHC-formatted string.  A fresh random
// salt of the configured length is generated for each call.
func (h *Argon2Hasher) Make(password string) (string, error) {
	salt, err := random.Bytes(int(h.opts.SaltLen))
	if err != nil {
		return "", fmt.Errorf("hashing: argon2: failed to generate salt: %w", err)
	}
	key := deriveArgon2Key(h.variant, password, salt,
		h.opts.Time, h.opts.Memory, h.opts.Threads, h.opts.KeyLen)
	return encodePHC(h.variant, argon2Version,
		h.opts.Memory, h.opts.Time, h.opts.Threads, salt, key), nil
}

// Check verifies that password matches the PHC hash.  The parameters
// (memory, time, threads) are read from the hash string itself, so
// verification works correctly even when the hasher's options have changed.
func (h *Argon2Hasher) Check(password, hash string) (bool, error) {
	p, err := h.decodeOwn(hash)
	if err != nil {
		return false, err
	}
	computed := deriveArgon2Key(h.variant, password, p.salt, p.time, p.memory, p.threads, p.keyLen)
	return subtle.ConstantTimeCompare(computed, p.hash) == 1, nil
}

// NeedsRehash returns true if any parameter stored in hash differs from the
// hasher's current configuration.
func (h *Argon2Hasher) NeedsRehash(hash string) (bool, error) {
	p, err := h.decodeOwn(hash)
	if err != nil {
		return false, err
	}
	return p.memory != h.opts.Memory ||
		p.time != h.opts.Time ||
		p.threads != h.opts.Threads ||
		p.keyLen != h.opts.KeyLen, nil
}

// Info parses the PHC string and returns the encoded parameters.
//
// Returned [HashInfo].Params:
//   - "version" → int
//   - "memory"  → uint32 (KiB)
//   - "time"    → uint32
//   - "threads" → uint8
//   - "key_len" → uint32
func (h *Argon2Hasher) Info(hash string) (HashInfo, error) {
	p, err := h.decodeOwn(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Driver: p.variant,
		Params: map[string]any{
			"version": int(p.version),
			"memory":  p.memory,
			"time":    p.time,
			"threads": p.threads,
			"key_len": p.keyLen,
		},
	}, nil
}

// decodeOwn parses hash and rejects it when it belongs to the other variant.
func (h *Argon2Hasher) decodeOwn(hash string) (*argon2Params, error) {
	p, err := decodePHC(hash)
	if err != nil {
		return nil, err
	}
	if p.variant != h.variant {
		return nil, fmt.Errorf("%w: hash is %s, not %s", ErrAlgorithmMismatch, p.variant, h.variant)
	}
	return p, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// PHC string format
// ──────────────────────────────────────────────────────────────────────────────

// argon2Params holds parameters and raw values decoded from a PHC hash string.
type argon2Params struct {
	variant DriverName
	version uint32
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
	salt    []byte
	hash    []byte
}

// encodePHC serialises an Argon2 hash in PHC String Format:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func encodePHC(variant DriverName, version, memory, time uint32, threads uint8, salt, hash []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		string(variant),
		version,
		memory,
		time,
		threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

// decodePHC parses an Argon2 PHC hash string and returns its components.
//
// Expected format (6 dollar-delimited segments, first is empty):
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
func decodePHC(encoded string) (*argon2Params, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: expected 5-segment PHC string, got %d segments",
			ErrInvalidHash, len(parts)-1)
	}

	var variant DriverName
	switch parts[1] {
	case string(DriverArgon2i):
		variant = DriverArgon2i
	case string(DriverArgon2id):
		variant = DriverArgon2id
	default:
		return nil, fmt.Errorf("%w: unknown argon2 variant %q", ErrInvalidHash, parts[1])
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, fmt.Errorf("%w: expected version segment, got %q", ErrInvalidHash, parts[2])
	}
	ver, err := strconv.ParseUint(version, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: non-numeric version %q", ErrInvalidHash, version)
	}

	kvs, err := parseArgon2Params(parts[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	memory, ok1 := kvs["m"]
	time, ok2 := kvs["t"]
	threads, ok3 := kvs["p"]
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("%w: missing m/t/p in parameter segment %q", ErrInvalidHash, parts[3])
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid salt base64: %v", ErrInvalidHash, err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hash base64: %v", ErrInvalidHash, err)
	}

	return &argon2Params{
		variant: variant,
		version: uint32(ver),
		memory:  uint32(memory),
		time:    uint32(time),
		threads: uint8(threads),
		keyLen:  uint32(len(hash)),
		salt:    salt,
		hash:    hash,
	}, nil
}

// parseArgon2Params splits "m=65536,t=3,p=2" into a map.
func parseArgon2Params(s string) (map[string]uint64, error) {
	out := make(map[string]uint64)
	for _, kv := range strings.Split(s, ",") {
		k, v, found := strings.Cut(kv, "=")
		if !found || k == "" {
			return nil, fmt.Errorf("malformed param %q", kv)
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric value in %q: %v", kv, err)
		}
		out[k] = n
	}
	return out, nil
}
