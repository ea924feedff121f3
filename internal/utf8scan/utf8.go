// Package utf8scan converts between Unicode scalar value sequences and
// well-formed UTF-8 byte sequences.
// The wire "string" type is strictly UTF-8 with no byte-order mark;
// ill-formed input is rejected rather than replaced.
package utf8scan

import (
	"unicode/utf8"

	"github.com/rawbytedev/barewire/errs"
)

// Encode converts a rune sequence to its UTF-8 byte form.
func Encode(runes []rune) []byte {
	out := make([]byte, 0, len(runes))
	var scratch [utf8.UTFMax]byte
	for _, r := range runes {
		n := utf8.EncodeRune(scratch[:], r)
		out = append(out, scratch[:n]...)
	}
	return out
}

// Decode validates b as well-formed UTF-8 and returns its scalar values.
// Any ill-formed byte sequence fails with a Decoding error; Go's
// utf8.DecodeRune reports utf8.RuneError width 1 for such bytes, which we
// treat as a hard failure rather than silently substituting U+FFFD.
func Decode(b []byte) ([]rune, error) {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, errs.Newf(errs.Decoding, "invalid UTF-8 at byte %d", i)
		}
		runes = append(runes, r)
		i += size
	}
	return runes, nil
}

// Valid reports whether b is well-formed UTF-8, matching the check
// Decode performs without allocating the rune slice.
func Valid(b []byte) bool {
	return utf8.Valid(b)
}
