// Package wireprim packs and unpacks fixed-width integers and IEEE-754
// floats as little-endian bytes. Decoders read from a byte slice at a
// given start index and never advance an external cursor -- the caller
// tracks position.
package wireprim

import (
	"encoding/binary"
	"math"
)

// PutU8 / U8 are raw single bytes; no byte order applies.
func PutU8(dst []byte, v uint8) { dst[0] = v }
func U8(src []byte) uint8       { return src[0] }

func PutU16(dst []byte, v uint16) { binary.LittleEndian.PutUint16(dst, v) }
func U16(src []byte) uint16       { return binary.LittleEndian.Uint16(src) }

func PutU32(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }
func U32(src []byte) uint32       { return binary.LittleEndian.Uint32(src) }

func PutU64(dst []byte, v uint64) { binary.LittleEndian.PutUint64(dst, v) }
func U64(src []byte) uint64       { return binary.LittleEndian.Uint64(src) }

func PutI8(dst []byte, v int8) { dst[0] = byte(v) }
func I8(src []byte) int8       { return int8(src[0]) }

func PutI16(dst []byte, v int16) { binary.LittleEndian.PutUint16(dst, uint16(v)) }
func I16(src []byte) int16       { return int16(binary.LittleEndian.Uint16(src)) }

func PutI32(dst []byte, v int32) { binary.LittleEndian.PutUint32(dst, uint32(v)) }
func I32(src []byte) int32       { return int32(binary.LittleEndian.Uint32(src)) }

func PutI64(dst []byte, v int64) { binary.LittleEndian.PutUint64(dst, uint64(v)) }
func I64(src []byte) int64       { return int64(binary.LittleEndian.Uint64(src)) }

// PutF32 / F32 serialize as the bit pattern of the underlying uint32.
// The round trip F32(PutF32(x)) is the identity on all 2^32 bit
// patterns, including every quiet/signaling NaN encoding, because
// Float32bits/Float32frombits never normalize NaN payloads.
func PutF32(dst []byte, v float32) { binary.LittleEndian.PutUint32(dst, math.Float32bits(v)) }
func F32(src []byte) float32       { return math.Float32frombits(binary.LittleEndian.Uint32(src)) }

func PutF64(dst []byte, v float64) { binary.LittleEndian.PutUint64(dst, math.Float64bits(v)) }
func F64(src []byte) float64       { return math.Float64frombits(binary.LittleEndian.Uint64(src)) }

// PutBool writes 0x00 or 0x01; Bool accepts only those two values.
func PutBool(dst []byte, v bool) {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
}

// Bool reports the decoded value and whether the byte was a legal bool
// tag (0x00 or 0x01).
func Bool(src []byte) (bool, bool) {
	switch src[0] {
	case 0x00:
		return false, true
	case 0x01:
		return true, true
	default:
		return false, false
	}
}

// Size in bytes of each fixed-width kind this package handles.
const (
	SizeU8   = 1
	SizeU16  = 2
	SizeU32  = 4
	SizeU64  = 8
	SizeF32  = 4
	SizeF64  = 8
	SizeBool = 1
)
