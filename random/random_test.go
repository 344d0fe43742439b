package random_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hasbyte1/go-password-hashing/random"
)

func TestBytes_Length(t *testing.T) {
	for _, n := range []int{0, 1, 6, 16, 64, 1024} {
		b, err := random.Bytes(n)
		if err != nil {
			t.Fatalf("Bytes(%d): %v", n, err)
		}
		if len(b) != n {
			t.Errorf("Bytes(%d) returned %d bytes", n, len(b))
		}
	}
}

func TestBytes_Negative(t *testing.T) {
	if _, err := random.Bytes(-1); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestBytes_Unique(t *testing.T) {
	a, _ := random.Bytes(32)
	b, _ := random.Bytes(32)
	if bytes.Equal(a, b) {
		t.Error("two 32-byte reads should never collide")
	}
}

func TestInt_Bounds(t *testing.T) {
	for i := 0; i < 200; i++ {
		n, err := random.Int(10)
		if err != nil {
			t.Fatalf("Int: %v", err)
		}
		if n < 0 || n >= 10 {
			t.Fatalf("Int(10) = %d, out of [0, 10)", n)
		}
	}
}

func TestInt_InvalidMax(t *testing.T) {
	for _, max := range []int64{0, -1} {
		if _, err := random.Int(max); err == nil {
			t.Errorf("Int(%d): expected error", max)
		}
	}
}

func TestString_CharsetMembership(t *testing.T) {
	const charset = "abc123"
	s, err := random.String(64, charset)
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("length = %d, want 64", len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune(charset, c) {
			t.Errorf("symbol %q not in charset", c)
		}
	}
}

func TestString_EmptyCharset(t *testing.T) {
	if _, err := random.String(8, ""); err == nil {
		t.Error("expected error for empty charset")
	}
}

func TestString_ZeroLength(t *testing.T) {
	s, err := random.String(0, "ab")
	if err != nil || s != "" {
		t.Errorf("String(0) = (%q, %v), want empty", s, err)
	}
}
