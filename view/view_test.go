package view

import (
	"errors"
	"testing"

	"github.com/rawbytedev/barewire/errs"
	"github.com/rawbytedev/barewire/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deviceSchema() *schema.Schema {
	return schema.New().
		Define("Header", schema.Struct(
			schema.StructField{Name: "version", Type: schema.Primitive(schema.KindU8, schema.Fixed)},
			schema.StructField{Name: "id", Type: schema.Primitive(schema.KindU32, schema.Fixed)},
		)).
		Define("Device", schema.Struct(
			schema.StructField{Name: "enabled", Type: schema.Primitive(schema.KindBool, schema.Fixed)},
			schema.StructField{Name: "header", Type: schema.TypeRef("Header")},
			schema.StructField{Name: "reading", Type: schema.Primitive(schema.KindF64, schema.Fixed)},
			schema.StructField{Name: "serial", Type: schema.FixedData(6)},
		)).
		SetRoot("Device")
}

func TestBuildOffsetsAlignment(t *testing.T) {
	p := schema.Native64()
	l, err := BuildOffsets(p, deviceSchema())
	require.NoError(t, err)

	// Every offset is a multiple of its field's alignment, and offsets are
	// non-decreasing in declaration order.
	for path, f := range l.Fields {
		assert.Zerof(t, f.Offset%f.Alignment, "field %s offset %d not aligned to %d", path, f.Offset, f.Alignment)
	}
	require.Zero(t, l.Size%l.Align)

	// enabled at 0; header is a nested struct aligned to 4 (its u32).
	require.Equal(t, 0, l.Fields["enabled"].Offset)
	require.Equal(t, 4, l.Fields["header"].Offset)
	require.Equal(t, 4, l.Fields["header.version"].Offset)
	require.Equal(t, 8, l.Fields["header.id"].Offset)
	// reading needs 8-byte alignment; header ends at 12, so it lands at 16.
	require.Equal(t, 16, l.Fields["reading"].Offset)
	require.Equal(t, 24, l.Fields["serial"].Offset)
	// 30 rounded up to the struct alignment of 8.
	require.Equal(t, 32, l.Size)
	require.Equal(t, 8, l.Align)
}

func TestViewGetSetRoundTrip(t *testing.T) {
	p := schema.Native64()
	s := deviceSchema()
	l, err := BuildOffsets(p, s)
	require.NoError(t, err)

	region := make([]byte, l.Size)
	v, err := NewWithLayout(l, region, ReadWrite)
	require.NoError(t, err)

	require.NoError(t, v.SetBool("enabled", true))
	require.NoError(t, v.SetU8("header.version", 3))
	require.NoError(t, v.SetU32("header.id", 0xDEADBEEF))
	require.NoError(t, v.SetF64("reading", 21.5))
	require.NoError(t, v.SetFixedData("serial", []byte("AB12CD")))

	got, err := v.GetBool("enabled")
	require.NoError(t, err)
	require.True(t, got)

	ver, err := v.GetU8("header.version")
	require.NoError(t, err)
	require.Equal(t, uint8(3), ver)

	id, err := v.GetU32("header.id")
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), id)

	reading, err := v.GetF64("reading")
	require.NoError(t, err)
	require.Equal(t, 21.5, reading)

	serial, err := v.GetFixedData("serial")
	require.NoError(t, err)
	require.Equal(t, []byte("AB12CD"), serial)
}

func TestViewUnknownPath(t *testing.T) {
	v, err := New(schema.Native64(), deviceSchema(), make([]byte, 64), ReadWrite)
	require.NoError(t, err)

	_, err = v.GetU32("missing")
	var be *errs.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.InvalidValue, be.Kind)
	require.Contains(t, be.Message, "Field path not found: missing")
}

func TestViewTypeMismatch(t *testing.T) {
	v, err := New(schema.Native64(), deviceSchema(), make([]byte, 64), ReadWrite)
	require.NoError(t, err)

	_, err = v.GetU32("reading")
	var be *errs.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.TypeMismatch, be.Kind)
}

func TestReadOnlyViewRefusesWrites(t *testing.T) {
	v, err := New(schema.Native64(), deviceSchema(), make([]byte, 64), ReadOnly)
	require.NoError(t, err)

	err = v.SetU32("header.id", 1)
	var be *errs.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.TypeMismatch, be.Kind)

	// Reads still work through the same view.
	_, err = v.GetU32("header.id")
	require.NoError(t, err)
}

func TestViewRegionTooSmall(t *testing.T) {
	_, err := New(schema.Native64(), deviceSchema(), make([]byte, 4), ReadWrite)
	var be *errs.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.OutOfBounds, be.Kind)
}

func TestViewEnum(t *testing.T) {
	s := schema.New().
		Define("Status", schema.Struct(
			schema.StructField{Name: "state", Type: schema.Enum(schema.KindU8, map[string]uint64{
				"idle": 0, "busy": 1, "halted": 200,
			})},
			schema.StructField{Name: "code", Type: schema.Primitive(schema.KindU8, schema.Fixed)},
		)).
		SetRoot("Status")

	v, err := New(schema.Native64(), s, make([]byte, 16), ReadWrite)
	require.NoError(t, err)

	require.NoError(t, v.SetEnum("state", "busy"))
	n, name, err := v.GetEnum("state")
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)
	require.Equal(t, "busy", name)

	err = v.SetEnum("state", "unknown")
	var be *errs.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.InvalidValue, be.Kind)
}

func labelSchema() *schema.Schema {
	return schema.New().
		Define("Label", schema.Struct(
			schema.StructField{Name: "id", Type: schema.Primitive(schema.KindU8, schema.Fixed)},
			schema.StructField{Name: "name", Type: schema.Primitive(schema.KindString, schema.LengthPrefixed)},
			schema.StructField{Name: "blob", Type: schema.Primitive(schema.KindData, schema.LengthPrefixed)},
		)).
		SetRoot("Label")
}

// String and data leaves occupy a platform-word-sized window, so their
// layout follows the PlatformContext rather than the wire form.
func TestStringDataLayoutFollowsPlatform(t *testing.T) {
	l64, err := BuildOffsets(schema.Native64(), labelSchema())
	require.NoError(t, err)
	require.Equal(t, 8, l64.Fields["name"].Size)
	require.Equal(t, 8, l64.Fields["name"].Offset)
	require.Equal(t, 16, l64.Fields["blob"].Offset)
	require.Equal(t, 24, l64.Size)

	l32, err := BuildOffsets(schema.Native32(), labelSchema())
	require.NoError(t, err)
	require.Equal(t, 4, l32.Fields["name"].Size)
	require.Equal(t, 4, l32.Fields["name"].Offset)
	require.Equal(t, 8, l32.Fields["blob"].Offset)
	require.Equal(t, 12, l32.Size)
}

func TestViewStringDataRoundTrip(t *testing.T) {
	v, err := New(schema.Native64(), labelSchema(), make([]byte, 32), ReadWrite)
	require.NoError(t, err)

	require.NoError(t, v.SetString("name", "go"))
	got, err := v.GetString("name")
	require.NoError(t, err)
	require.Equal(t, "go", got)

	require.NoError(t, v.SetData("blob", []byte{1, 2, 3}))
	blob, err := v.GetData("blob")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, blob)

	// Overwriting with a shorter value re-reads cleanly.
	require.NoError(t, v.SetString("name", "x"))
	got, err = v.GetString("name")
	require.NoError(t, err)
	require.Equal(t, "x", got)

	// An empty window reads as empty, not as an error.
	fresh, err := New(schema.Native64(), labelSchema(), make([]byte, 32), ReadOnly)
	require.NoError(t, err)
	got, err = fresh.GetString("name")
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestViewStringExceedingWindowFails(t *testing.T) {
	v, err := New(schema.Native64(), labelSchema(), make([]byte, 32), ReadWrite)
	require.NoError(t, err)

	// An 8-byte window holds a 1-byte length prefix plus at most 7 bytes.
	require.NoError(t, v.SetString("name", "1234567"))
	err = v.SetString("name", "12345678")
	var be *errs.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.Encoding, be.Kind)

	err = v.SetData("blob", make([]byte, 8))
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.Encoding, be.Kind)
}

func TestViewStringInvalidUTF8(t *testing.T) {
	s := labelSchema()
	l, err := BuildOffsets(schema.Native64(), s)
	require.NoError(t, err)
	region := make([]byte, l.Size)
	off := l.Fields["name"].Offset
	copy(region[off:], []byte{0x02, 0xFF, 0xFE})

	v, err := NewWithLayout(l, region, ReadOnly)
	require.NoError(t, err)
	_, err = v.GetString("name")
	var be *errs.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.Decoding, be.Kind)
}

func TestViewStringTypeMismatch(t *testing.T) {
	v, err := New(schema.Native64(), labelSchema(), make([]byte, 32), ReadWrite)
	require.NoError(t, err)

	err = v.SetData("name", []byte{1})
	var be *errs.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.TypeMismatch, be.Kind)

	_, err = v.GetString("blob")
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.TypeMismatch, be.Kind)
}

func TestReadOnlyViewRefusesStringAndDataWrites(t *testing.T) {
	v, err := New(schema.Native64(), labelSchema(), make([]byte, 32), ReadOnly)
	require.NoError(t, err)

	var be *errs.Error
	err = v.SetString("name", "x")
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.TypeMismatch, be.Kind)

	err = v.SetData("blob", []byte{1})
	require.True(t, errors.As(err, &be))
	require.Equal(t, errs.TypeMismatch, be.Kind)
}

func TestViewRootMustBeStruct(t *testing.T) {
	s := schema.New().
		Define("Root", schema.Primitive(schema.KindU32, schema.Fixed)).
		SetRoot("Root")
	_, err := BuildOffsets(schema.Native64(), s)
	require.Error(t, err)
}
