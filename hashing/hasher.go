package hashing

import "strings"

// DriverName identifies a hashing algorithm driver.
// Using a named string type prevents accidental confusion with plain strings.
type DriverName string

const (
	// DriverBcrypt selects the bcrypt driver.
	DriverBcrypt DriverName = "bcrypt"
	// DriverArgon2i selects the Argon2i driver.
	DriverArgon2i DriverName = "argon2i"
	// DriverArgon2id selects the Argon2id driver (recommended for new systems).
	DriverArgon2id DriverName = "argon2id"
	// DriverPBKDF2SHA256 selects the crypt-format PBKDF2-HMAC-SHA256 driver.
	// Its hashes use the $p5v2$ modular crypt format.
	DriverPBKDF2SHA256 DriverName = "pbkdf2-sha256"
)

// Hasher is the core interface satisfied by all password-hashing drivers.
//
// All implementations are immutable after construction and safe for
// concurrent use by multiple goroutines.  Reconfiguration always produces a
// new hasher value rather than mutating an existing one.
type Hasher interface {
	// Make hashes a plaintext password and returns the encoded hash string.
	// A fresh cryptographic salt is generated for every call, so two calls
	// with the same password will produce different outputs.
	Make(password string) (string, error)

	// Check verifies that password matches the previously encoded hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or
	// (false, err) if the hash is structurally invalid.
	//
	// Comparison is performed in constant time to prevent timing attacks.
	Check(password, hash string) (bool, error)

	// NeedsRehash returns true when the hash was produced with parameters
	// that are weaker than — or simply different from — the hasher's current
	// configuration.  Callers should re-hash the password on next successful
	// login when this returns true.
	NeedsRehash(hash string) (bool, error)

	// Info extracts metadata from an encoded hash string without verifying it.
	// Useful for auditing, migration tooling, or logging.
	Info(hash string) (HashInfo, error)

	// Driver returns the DriverName implemented by this hasher.
	Driver() DriverName
}

// HashInfo carries metadata parsed from an encoded hash string.
type HashInfo struct {
	// Driver is the hashing algorithm that produced the hash.
	Driver DriverName

	// Params holds algorithm-specific parameters extracted from the hash string.
	//
	// For bcrypt:
	//   "cost" → int
	//
	// For Argon2i and Argon2id:
	//   "version" → int    (Argon2 version number, typically 19)
	//   "memory"  → uint32 (KiB)
	//   "time"    → uint32 (iterations)
	//   "threads" → uint8  (degree of parallelism)
	//   "key_len" → uint32 (output key length in bytes)
	//
	// For pbkdf2-sha256:
	//   "algo"                 → string ("sha256")
	//   "iterations"           → int
	//   "iteration_count_log2" → int
	Params map[string]any
}

// DetectDriver inspects a hash string and returns the [DriverName] that
// produced it.  It is a best-effort heuristic based on the hash prefix and
// does not verify the hash itself.
//
// The second return value is false when the hash format is not recognised.
func DetectDriver(hash string) (DriverName, bool) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return DriverArgon2id, true
	case strings.HasPrefix(hash, "$argon2i$"):
		return DriverArgon2i, true
	case strings.HasPrefix(hash, "$p5v2$"):
		return DriverPBKDF2SHA256, true
	// bcrypt hashes start with $2a$, $2b$, or $2y$
	case strings.HasPrefix(hash, "$2a$"),
		strings.HasPrefix(hash, "$2b$"),
		strings.HasPrefix(hash, "$2y$"):
		return DriverBcrypt, true
	default:
		return "", false
	}
}
