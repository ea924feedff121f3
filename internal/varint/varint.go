// Package varint implements ULEB128 unsigned and zigzag-mapped signed
// variable-length integers.
//
// Writers emit the minimal number of bytes; readers tolerate redundant
// continuation bytes (a value re-encoded with trailing zero-continuations
// still decodes), but never accept more than 10 bytes or a shift past 64
// bits for a 64-bit value.
package varint

import "github.com/rawbytedev/barewire/errs"

// MaxBytes is the maximum legal width of a ULEB128-encoded 64-bit value.
const MaxBytes = 10

// AppendUint appends the minimal ULEB128 encoding of x to dst.
func AppendUint(dst []byte, x uint64) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}

// SizeUint returns the number of bytes AppendUint would write for x.
func SizeUint(x uint64) int {
	n := 1
	for x >= 0x80 {
		x >>= 7
		n++
	}
	return n
}

// ReadUint decodes a ULEB128 value from b, returning the value and the
// number of bytes consumed. It fails with a Decoding error on overflow
// (more than 64 bits of payload) or an unterminated sequence (input
// exhausted with the continuation bit still set).
func ReadUint(b []byte) (uint64, int, error) {
	var x uint64
	var shift uint
	for i := 0; i < len(b); i++ {
		c := b[i]
		if shift >= 64 || (shift == 63 && c&0x7E != 0) {
			return 0, 0, errs.New(errs.Decoding, "varint overflow")
		}
		x |= uint64(c&0x7F) << shift
		if c&0x80 == 0 {
			return x, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errs.New(errs.Decoding, "unterminated varint")
}

// AppendInt zigzag-maps i and appends its ULEB128 encoding to dst.
func AppendInt(dst []byte, i int64) []byte {
	return AppendUint(dst, zigzagEncode(i))
}

// SizeInt returns the number of bytes AppendInt would write for i.
func SizeInt(i int64) int {
	return SizeUint(zigzagEncode(i))
}

// ReadInt decodes a zigzag-mapped signed varint.
func ReadInt(b []byte) (int64, int, error) {
	u, n, err := ReadUint(b)
	if err != nil {
		return 0, 0, err
	}
	return zigzagDecode(u), n, nil
}

func zigzagEncode(n int64) uint64 {
	return (uint64(n) << 1) ^ uint64(n>>63)
}

func zigzagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
