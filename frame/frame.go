// Package frame wraps an already wire-encoded message in a length-prefixed,
// magic-tagged, CRC32-checked envelope. It is a container layer above the
// schema-directed codec: the codec stays pure and non-self-describing, and
// frame supplies what a deployment needs to move those bytes around --
// integrity checking, optional zstd compression, and an optional offset
// index into the payload for hot-field access without a full decode.
package frame

import (
	"hash/crc32"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/barewire/errs"
	"github.com/rawbytedev/barewire/internal/wireprim"
)

const (
	Magic   uint32 = 0x45524142 // "BARE" little-endian
	Version uint16 = 1

	// magic(4) + version(2) + flags(2) + length(4)
	headerSize  = 12
	trailerSize = 4
)

// Flags select optional envelope features.
type Flags uint16

const (
	// FlagZstd compresses the payload with zstd before framing.
	FlagZstd Flags = 1 << 0
	// FlagOffsetIndex carries a table of payload offsets so a reader can
	// seek to hot fields without decoding the whole message.
	FlagOffsetIndex Flags = 1 << 1
)

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

func zstdInit() {
	zstdOnce.Do(func() {
		zstdEnc, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil)
	})
}

// Encoder frames payloads into a reusable buffer. The zero value is ready
// to use; the buffer grows once and is recycled across calls.
type Encoder struct {
	buf []byte
}

// Encode frames payload under flags. The offsets table is written only
// when FlagOffsetIndex is set. The returned slice aliases the encoder's
// internal buffer and is valid until the next Encode call.
func (e *Encoder) Encode(payload []byte, flags Flags, offsets []uint32) ([]byte, error) {
	if flags&FlagZstd != 0 {
		zstdInit()
		if zstdErr != nil {
			return nil, errs.Newf(errs.Encoding, "zstd init: %v", zstdErr)
		}
		payload = zstdEnc.EncodeAll(payload, nil)
	}

	indexSize := 0
	if flags&FlagOffsetIndex != 0 {
		indexSize = 2 + 4*len(offsets)
	}
	total := headerSize + indexSize + len(payload) + trailerSize

	if cap(e.buf) < total {
		e.buf = make([]byte, 0, total)
	}
	e.buf = e.buf[:0]

	var tmp [4]byte
	wireprim.PutU32(tmp[:], Magic)
	e.buf = append(e.buf, tmp[:4]...)
	wireprim.PutU16(tmp[:], Version)
	e.buf = append(e.buf, tmp[:2]...)
	wireprim.PutU16(tmp[:], uint16(flags))
	e.buf = append(e.buf, tmp[:2]...)
	wireprim.PutU32(tmp[:], uint32(total))
	e.buf = append(e.buf, tmp[:4]...)

	if flags&FlagOffsetIndex != 0 {
		wireprim.PutU16(tmp[:], uint16(len(offsets)))
		e.buf = append(e.buf, tmp[:2]...)
		for _, off := range offsets {
			wireprim.PutU32(tmp[:], off)
			e.buf = append(e.buf, tmp[:4]...)
		}
	}

	e.buf = append(e.buf, payload...)

	// CRC over everything after the magic, up to the trailer.
	crc := crc32.ChecksumIEEE(e.buf[4:])
	wireprim.PutU32(tmp[:], crc)
	e.buf = append(e.buf, tmp[:4]...)
	return e.buf, nil
}

// Message is the decoded envelope. Payload is decompressed when the frame
// carried FlagZstd; otherwise it aliases the input frame.
type Message struct {
	Flags   Flags
	Offsets []uint32
	Payload []byte
}

// Decode parses and verifies one frame. Any structural defect -- wrong
// magic, unsupported version, length mismatch, truncated index, CRC
// mismatch, corrupt compressed payload -- is a Decoding error.
func Decode(data []byte) (Message, error) {
	if len(data) < headerSize+trailerSize {
		return Message{}, errs.Newf(errs.Decoding, "frame truncated: %d bytes", len(data))
	}
	if wireprim.U32(data) != Magic {
		return Message{}, errs.New(errs.Decoding, "bad frame magic")
	}
	if v := wireprim.U16(data[4:]); v != Version {
		return Message{}, errs.Newf(errs.Decoding, "unsupported frame version: %d", v)
	}
	flags := Flags(wireprim.U16(data[6:]))
	if total := wireprim.U32(data[8:]); int(total) != len(data) {
		return Message{}, errs.Newf(errs.Decoding, "frame length mismatch: header says %d, have %d", total, len(data))
	}

	payloadEnd := len(data) - trailerSize
	want := wireprim.U32(data[payloadEnd:])
	if crc32.ChecksumIEEE(data[4:payloadEnd]) != want {
		return Message{}, errs.New(errs.Decoding, "frame crc mismatch")
	}

	cursor := headerSize
	var offsets []uint32
	if flags&FlagOffsetIndex != 0 {
		if cursor+2 > payloadEnd {
			return Message{}, errs.New(errs.Decoding, "frame offset index truncated")
		}
		count := int(wireprim.U16(data[cursor:]))
		cursor += 2
		if cursor+4*count > payloadEnd {
			return Message{}, errs.New(errs.Decoding, "frame offset index truncated")
		}
		offsets = make([]uint32, count)
		for i := range offsets {
			offsets[i] = wireprim.U32(data[cursor:])
			cursor += 4
		}
	}

	payload := data[cursor:payloadEnd]
	if flags&FlagZstd != 0 {
		zstdInit()
		if zstdErr != nil {
			return Message{}, errs.Newf(errs.Decoding, "zstd init: %v", zstdErr)
		}
		raw, err := zstdDec.DecodeAll(payload, nil)
		if err != nil {
			return Message{}, errs.Newf(errs.Decoding, "zstd payload: %v", err)
		}
		payload = raw
	}
	return Message{Flags: flags, Offsets: offsets, Payload: payload}, nil
}
