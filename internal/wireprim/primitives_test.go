package wireprim

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestIntegerRoundTrip(t *testing.T) {
	buf := make([]byte, 8)

	PutU32(buf, 0x12345678)
	require.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, buf[:4])
	require.Equal(t, uint32(0x12345678), U32(buf))

	condition := func(x uint64) bool {
		PutU64(buf, x)
		return U64(buf) == x
	}
	require.NoError(t, quick.Check(condition, nil))

	conditionI := func(x int64) bool {
		PutI64(buf, x)
		return I64(buf) == x
	}
	require.NoError(t, quick.Check(conditionI, nil))
}

func TestFloatBitExactRoundTrip(t *testing.T) {
	buf := make([]byte, 8)

	patterns32 := []uint32{
		0x00000000, 0x80000000, // +0, -0
		0x7F800000, 0xFF800000, // +Inf, -Inf
		0x7FC00000, // quiet NaN
		0x7F800001, // signaling NaN
		0xFFFFFFFF,
	}
	for _, bits := range patterns32 {
		f := math.Float32frombits(bits)
		PutF32(buf, f)
		require.Equal(t, bits, math.Float32bits(F32(buf)))
	}

	condition := func(bits uint32) bool {
		f := math.Float32frombits(bits)
		PutF32(buf, f)
		return math.Float32bits(F32(buf)) == bits
	}
	require.NoError(t, quick.Check(condition, &quick.Config{MaxCount: 5000}))

	condition64 := func(bits uint64) bool {
		f := math.Float64frombits(bits)
		PutF64(buf, f)
		return math.Float64bits(F64(buf)) == bits
	}
	require.NoError(t, quick.Check(condition64, &quick.Config{MaxCount: 5000}))
}

func TestBoolTags(t *testing.T) {
	v, ok := Bool([]byte{0x00})
	require.True(t, ok)
	require.False(t, v)

	v, ok = Bool([]byte{0x01})
	require.True(t, ok)
	require.True(t, v)

	_, ok = Bool([]byte{0x02})
	require.False(t, ok)
}
