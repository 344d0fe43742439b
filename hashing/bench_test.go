package hashing_test

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hasbyte1/go-password-hashing/hashing"
)

// ──────────────────────────────────────────────────────────────────────────────
// PBKDF2 benchmarks
// ──────────────────────────────────────────────────────────────────────────────

func BenchmarkPBKDF2_Default_Make(b *testing.B) {
	h, _ := hashing.NewPBKDF2Hasher(hashing.DefaultPBKDF2Options())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Make("bench-password")
	}
}

func BenchmarkPBKDF2_Default_Check(b *testing.B) {
	h, _ := hashing.NewPBKDF2Hasher(hashing.DefaultPBKDF2Options())
	hash, _ := h.Make("bench-password")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Check("bench-password", hash)
	}
}

func BenchmarkPBKDF2_Log2_16_Make(b *testing.B) {
	h, _ := hashing.NewPBKDF2Hasher(hashing.PBKDF2Options{IterationCountLog2: 16})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Make("bench-password")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Bcrypt benchmarks
// ──────────────────────────────────────────────────────────────────────────────
//
// Note: bcrypt is intentionally slow.  BenchmarkBcrypt_Cost12 is the
// real-world cost; BenchmarkBcrypt_MinCost measures framework overhead only.

func BenchmarkBcrypt_MinCost_Make(b *testing.B) {
	h, _ := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: bcrypt.MinCost})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Make("bench-password")
	}
}

func BenchmarkBcrypt_Cost12_Make(b *testing.B) {
	h, _ := hashing.NewBcryptHasher(hashing.DefaultBcryptOptions())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Make("bench-password")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Argon2 benchmarks
// ──────────────────────────────────────────────────────────────────────────────

func BenchmarkArgon2id_Default_Make(b *testing.B) {
	h, _ := hashing.NewArgon2idHasher(hashing.DefaultArgon2Options())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Make("bench-password")
	}
}

func BenchmarkArgon2id_Default_Check(b *testing.B) {
	h, _ := hashing.NewArgon2idHasher(hashing.DefaultArgon2Options())
	hash, _ := h.Make("bench-password")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Check("bench-password", hash)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Manager benchmarks
// ──────────────────────────────────────────────────────────────────────────────

func BenchmarkManager_Make_Argon2id(b *testing.B) {
	m := newTestManager(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Make("bench-password")
	}
}

func BenchmarkManager_CheckWithDetect_PBKDF2(b *testing.B) {
	m := newTestManager(b)
	pbH, _ := m.Driver(hashing.DriverPBKDF2SHA256)
	hash, _ := pbH.Make("bench-password")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.CheckWithDetect("bench-password", hash)
	}
}
