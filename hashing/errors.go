package hashing

import "errors"

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	ok, err := hasher.Check(password, hash)
//	if errors.Is(err, hashing.ErrInvalidHash) {
//	    // hash string is malformed
//	}
var (
	// ErrInvalidHash is returned when a hash string cannot be parsed because
	// it has an unrecognised format, missing fields, or invalid encoding.
	ErrInvalidHash = errors.New("hashing: invalid or unrecognised hash string")

	// ErrInvalidOption is returned when a constructor or SetOptions call
	// receives a parameter value that falls outside the allowed range (e.g.,
	// a bcrypt cost below 4 or a pbkdf2 iteration log2 above 30).  Validation
	// always happens before any configuration is applied.
	ErrInvalidOption = errors.New("hashing: invalid option value")

	// ErrHashGeneration is returned by [PBKDF2Hasher.Crypt] when the
	// assembled hash string fails structural self-validation.  The string
	// returned alongside it is the failure sentinel ("*0", or "*1" when the
	// input salt itself was "*0"), which is guaranteed never to be a valid
	// salt or hash.
	ErrHashGeneration = errors.New("hashing: hash generation failed")

	// ErrDriverNotFound is returned by [Manager.Driver] or indirectly by
	// [Manager.Make] / [Manager.Check] when the requested driver has not been
	// registered.
	ErrDriverNotFound = errors.New("hashing: driver not found")

	// ErrEmptyDriverName is returned by [Manager.RegisterDriver] when the
	// supplied driver name is an empty string.
	ErrEmptyDriverName = errors.New("hashing: driver name must not be empty")

	// ErrNilHasher is returned by [Manager.RegisterDriver] when a nil [Hasher]
	// is supplied.
	ErrNilHasher = errors.New("hashing: hasher must not be nil")

	// ErrAlgorithmMismatch is returned by a [Hasher]'s Check or NeedsRehash
	// method when the hash string was produced by a different algorithm than
	// the one implemented by that hasher.
	ErrAlgorithmMismatch = errors.New("hashing: hash was produced by a different algorithm")
)
