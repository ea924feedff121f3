package varint

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/rawbytedev/barewire/errs"
	"github.com/stretchr/testify/require"
)

func TestUnsignedMinimalityAndRange(t *testing.T) {
	cases := map[uint64][]byte{
		0:   {0x00},
		300: {0xAC, 0x02},
	}
	for in, want := range cases {
		got := AppendUint(nil, in)
		require.Equal(t, want, got)
		require.LessOrEqual(t, len(got), MaxBytes)

		v, n, err := ReadUint(got)
		require.NoError(t, err)
		require.Equal(t, len(got), n)
		require.Equal(t, in, v)
	}

	condition := func(x uint64) bool {
		enc := AppendUint(nil, x)
		if len(enc) < 1 || len(enc) > MaxBytes {
			return false
		}
		v, n, err := ReadUint(enc)
		return err == nil && n == len(enc) && v == x
	}
	require.NoError(t, quick.Check(condition, nil))
}

func TestSignedRoundTrip(t *testing.T) {
	got := AppendInt(nil, -1)
	require.Equal(t, []byte{0x01}, got)

	condition := func(i int64) bool {
		enc := AppendInt(nil, i)
		v, n, err := ReadInt(enc)
		return err == nil && n == len(enc) && v == i
	}
	require.NoError(t, quick.Check(condition, nil))

	// exercise the extremes explicitly.
	for _, i := range []int64{math.MinInt64, math.MaxInt64, 0, -1, 1} {
		enc := AppendInt(nil, i)
		v, _, err := ReadInt(enc)
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
}

func TestReadRejectsTruncatedContinuation(t *testing.T) {
	_, _, err := ReadUint([]byte{0x80})
	require.Error(t, err)
	var be *errs.Error
	require.ErrorAs(t, err, &be)
	require.Equal(t, errs.Decoding, be.Kind)
}

func TestReadToleratesRedundantContinuation(t *testing.T) {
	// 0 re-encoded with an extra continuation byte still decodes to 0.
	v, n, err := ReadUint([]byte{0x80, 0x00})
	require.NoError(t, err)
	require.Equal(t, uint64(0), v)
	require.Equal(t, 2, n)
}

func TestReadOverflow(t *testing.T) {
	// 10 continuation bytes all with high bit set push shift to 70.
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0xFF
	}
	buf[10] = 0x01
	_, _, err := ReadUint(buf)
	require.Error(t, err)

	// A 10th byte carrying bits past bit 63 also overflows.
	tenth := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x02}
	_, _, err = ReadUint(tenth)
	require.Error(t, err)

	// math.MaxUint64 itself still decodes: 9 full bytes plus a final 0x01.
	legal := AppendUint(nil, math.MaxUint64)
	require.Len(t, legal, MaxBytes)
	v, _, err := ReadUint(legal)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v)
}
