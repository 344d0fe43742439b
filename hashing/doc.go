// Package hashing provides extensible password hashing behind a single
// driver interface.
//
// # Architecture
//
// The central abstraction is the [Hasher] interface.  Four drivers ship with
// this package:
//
//   - [BcryptHasher] — bcrypt (widest ecosystem support)
//   - [Argon2Hasher] — Argon2i and Argon2id (recommended for new systems)
//   - [PBKDF2Hasher] — PBKDF2-HMAC-SHA256 in the crypt-style $p5v2$ format
//
// All of them implement [Hasher], so callers can depend on the interface
// rather than a concrete type.
//
// The [Manager] is a named driver registry and dispatcher.  Register one or
// more [Hasher] implementations, designate a default driver, then delegate
// all hashing operations through the [Manager].
//
// # Quick start
//
//	m, err := hashing.NewDefaultManager() // Argon2id default, all drivers registered
//	if err != nil { log.Fatal(err) }
//
//	hash, _ := m.Make("my-secret-password")
//	ok, _   := m.Check("my-secret-password", hash) // true
//
// # Security defaults
//
//   - bcrypt:  cost 12 (≈ 250 ms on modern hardware; exceeds OWASP minimum of 10).
//   - Argon2id: m=64 MiB, t=3 iterations, p=2 threads, 32-byte key.
//     Exceeds OWASP ASVS Level 2 (m≥19 MiB, t≥2, p≥1).
//   - pbkdf2-sha256: 2^12 = 4096 iterations, 24-byte key.  Kept for
//     compatibility with stored $p5v2$ hashes; prefer Argon2id for new ones.
//
// # Cross-driver migration
//
// Call [Manager.NeedsRehash] on every successful login.  It returns true
// when the stored hash was produced by a different driver or with weaker
// parameters than the current default.  Re-hash and persist immediately:
//
//	ok, _ := m.CheckWithDetect(password, storedHash)
//	if ok {
//	    if needs, _ := m.NeedsRehash(storedHash); needs {
//	        newHash, _ := m.Make(password)
//	        persist(userID, newHash)
//	    }
//	}
//
// # The $p5v2$ crypt format
//
// The PBKDF2 driver reads and writes a self-describing crypt-style format:
//
//	$p5v2$CSSSSSSSS$HHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHH
//
// C is one symbol of the 64-symbol crypt alphabet (./0-9A-Za-z) carrying
// log2 of the iteration count, SSSSSSSS encodes the 6-byte random salt, and
// the last 32 symbols encode the 24-byte derived key.  All parameters are
// self-contained in the string, so no external configuration is needed to
// verify a previously produced hash.  See [PBKDF2Hasher] for the format's
// salt-encoding quirk and its failure sentinels.
package hashing
