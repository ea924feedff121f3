package frame

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rawbytedev/barewire/errs"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte{0x02, 0x68, 0x69} // a wire-encoded "hi"
	var e Encoder
	data, err := e.Encode(payload, 0, nil)
	require.NoError(t, err)

	msg, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, Flags(0), msg.Flags)
	require.Equal(t, payload, msg.Payload)
	require.Nil(t, msg.Offsets)
}

func TestFrameZstdRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("barewire"), 512)
	var e Encoder
	data, err := e.Encode(payload, FlagZstd, nil)
	require.NoError(t, err)
	require.Less(t, len(data), len(payload), "repetitive payload should compress")

	msg, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, payload, msg.Payload)
}

func TestFrameOffsetIndex(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	offsets := []uint32{0, 4}
	var e Encoder
	data, err := e.Encode(payload, FlagOffsetIndex, offsets)
	require.NoError(t, err)

	msg, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, offsets, msg.Offsets)
	require.Equal(t, payload, msg.Payload)
}

func TestFrameCRCCorruptionDetected(t *testing.T) {
	var e Encoder
	data, err := e.Encode([]byte("payload"), 0, nil)
	require.NoError(t, err)

	corrupt := append([]byte(nil), data...)
	corrupt[len(corrupt)-6] ^= 0xFF
	_, err = Decode(corrupt)
	requireDecoding(t, err)
}

func TestFrameBadMagic(t *testing.T) {
	var e Encoder
	data, err := e.Encode([]byte("payload"), 0, nil)
	require.NoError(t, err)

	corrupt := append([]byte(nil), data...)
	corrupt[0] = 0x00
	_, err = Decode(corrupt)
	requireDecoding(t, err)
}

func TestFrameLengthMismatch(t *testing.T) {
	var e Encoder
	data, err := e.Encode([]byte("payload"), 0, nil)
	require.NoError(t, err)

	_, err = Decode(data[:len(data)-1])
	requireDecoding(t, err)
}

func TestFrameTruncated(t *testing.T) {
	_, err := Decode([]byte{0x42, 0x41})
	requireDecoding(t, err)
}

func requireDecoding(t *testing.T, err error) {
	t.Helper()
	var be *errs.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.Decoding, be.Kind)
}
