package hashing

import "strings"

// itoa64 is the 64-symbol alphabet used by Unix crypt-style hash formats.
// It is shared by every driver that emits a modular crypt format.  Note that
// this is not base64: the symbol order and the bit packing both differ.
const itoa64 = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// crypt64Encode packs src into crypt alphabet symbols, three bytes to four
// symbols, least-significant bits first.  len(src) must be a multiple of 3;
// trailing bytes beyond the last full group are ignored.
func crypt64Encode(src []byte) string {
	out := make([]byte, 0, len(src)/3*4)
	for i := 0; i+2 < len(src); i += 3 {
		b0, b1, b2 := src[i], src[i+1], src[i+2]
		out = append(out,
			itoa64[b0&0x3f],
			itoa64[(b0>>6|b1<<2)&0x3f],
			itoa64[(b1>>4|b2<<4)&0x3f],
			itoa64[(b2>>2)&0x3f],
		)
	}
	return string(out)
}

// crypt64Index returns the numeric value of a crypt alphabet symbol,
// or -1 when c is not part of the alphabet.
func crypt64Index(c byte) int {
	return strings.IndexByte(itoa64, c)
}
