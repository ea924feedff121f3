package view

import (
	"github.com/rawbytedev/barewire/errs"
	"github.com/rawbytedev/barewire/internal/utf8scan"
	"github.com/rawbytedev/barewire/internal/varint"
	"github.com/rawbytedev/barewire/internal/wireprim"
	"github.com/rawbytedev/barewire/schema"
)

// Access is the capability a view carries over its region. A read-only
// view's Set methods fail rather than mutate.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

func (a Access) String() string {
	if a == ReadOnly {
		return "read-only view"
	}
	return "read-write view"
}

// View borrows a byte region and holds a precomputed immutable field-offset
// map. Concurrent reads of an immutable region through separate views are
// safe; mutation is the caller's exclusive-borrow responsibility.
type View struct {
	region []byte
	layout *Layout
	access Access
}

// New builds a view over region for the validated schema s under platform
// p. The region must be at least as large as the computed struct size.
func New(p schema.PlatformContext, s *schema.Schema, region []byte, access Access) (*View, error) {
	l, err := BuildOffsets(p, s)
	if err != nil {
		return nil, err
	}
	return NewWithLayout(l, region, access)
}

// NewWithLayout builds a view from an already-computed layout, so callers
// mapping many regions with one schema pay the offset walk once.
func NewWithLayout(l *Layout, region []byte, access Access) (*View, error) {
	if len(region) < l.Size {
		return nil, errs.OutOfBoundsErr(l.Size, len(region))
	}
	return &View{region: region, layout: l, access: access}, nil
}

// Layout exposes the view's precomputed offset map.
func (v *View) Layout() *Layout { return v.layout }

// Access reports the view's capability.
func (v *View) Access() Access { return v.access }

func (v *View) field(path string) (FieldOffset, error) {
	f, ok := v.layout.Fields[path]
	if !ok {
		return FieldOffset{}, errs.Newf(errs.InvalidValue, "Field path not found: %s", path)
	}
	return f, nil
}

func (v *View) need(offset, n int) error {
	if offset < 0 || n < 0 || offset+n > len(v.region) {
		return errs.OutOfBoundsErr(offset, n)
	}
	return nil
}

func (v *View) writable() error {
	if v.access != ReadWrite {
		return errs.TypeMismatchErr(ReadWrite.String(), v.access.String())
	}
	return nil
}

// prim resolves path and checks the stored type is a primitive of the
// wanted kind. Every kind except string and data must also be
// fixed-encoded.
func (v *View) prim(path string, want schema.TypeKind) (FieldOffset, error) {
	f, err := v.field(path)
	if err != nil {
		return FieldOffset{}, err
	}
	if f.Type.Kind != schema.KPrimitive || f.Type.PrimKind != want {
		return FieldOffset{}, errs.TypeMismatchErr(want.String(), describeType(f.Type))
	}
	if want != schema.KindString && want != schema.KindData && f.Type.PrimEncoding != schema.Fixed {
		return FieldOffset{}, errs.TypeMismatchErr("fixed "+want.String(), "non-fixed "+want.String())
	}
	return f, nil
}

func describeType(t schema.SchemaType) string {
	switch t.Kind {
	case schema.KPrimitive:
		return t.PrimKind.String()
	case schema.KFixedData:
		return "fixed data"
	case schema.KEnum:
		return "enum"
	case schema.KStruct:
		return "struct"
	case schema.KOptional:
		return "optional"
	case schema.KList, schema.KFixedList:
		return "list"
	case schema.KMap:
		return "map"
	case schema.KUnion:
		return "union"
	default:
		return "unknown"
	}
}

func (v *View) GetU8(path string) (uint8, error) {
	f, err := v.prim(path, schema.KindU8)
	if err != nil {
		return 0, err
	}
	if err := v.need(f.Offset, wireprim.SizeU8); err != nil {
		return 0, err
	}
	return wireprim.U8(v.region[f.Offset:]), nil
}

func (v *View) GetU16(path string) (uint16, error) {
	f, err := v.prim(path, schema.KindU16)
	if err != nil {
		return 0, err
	}
	if err := v.need(f.Offset, wireprim.SizeU16); err != nil {
		return 0, err
	}
	return wireprim.U16(v.region[f.Offset:]), nil
}

func (v *View) GetU32(path string) (uint32, error) {
	f, err := v.prim(path, schema.KindU32)
	if err != nil {
		return 0, err
	}
	if err := v.need(f.Offset, wireprim.SizeU32); err != nil {
		return 0, err
	}
	return wireprim.U32(v.region[f.Offset:]), nil
}

func (v *View) GetU64(path string) (uint64, error) {
	f, err := v.prim(path, schema.KindU64)
	if err != nil {
		return 0, err
	}
	if err := v.need(f.Offset, wireprim.SizeU64); err != nil {
		return 0, err
	}
	return wireprim.U64(v.region[f.Offset:]), nil
}

func (v *View) GetI8(path string) (int8, error) {
	f, err := v.prim(path, schema.KindI8)
	if err != nil {
		return 0, err
	}
	if err := v.need(f.Offset, wireprim.SizeU8); err != nil {
		return 0, err
	}
	return wireprim.I8(v.region[f.Offset:]), nil
}

func (v *View) GetI16(path string) (int16, error) {
	f, err := v.prim(path, schema.KindI16)
	if err != nil {
		return 0, err
	}
	if err := v.need(f.Offset, wireprim.SizeU16); err != nil {
		return 0, err
	}
	return wireprim.I16(v.region[f.Offset:]), nil
}

func (v *View) GetI32(path string) (int32, error) {
	f, err := v.prim(path, schema.KindI32)
	if err != nil {
		return 0, err
	}
	if err := v.need(f.Offset, wireprim.SizeU32); err != nil {
		return 0, err
	}
	return wireprim.I32(v.region[f.Offset:]), nil
}

func (v *View) GetI64(path string) (int64, error) {
	f, err := v.prim(path, schema.KindI64)
	if err != nil {
		return 0, err
	}
	if err := v.need(f.Offset, wireprim.SizeU64); err != nil {
		return 0, err
	}
	return wireprim.I64(v.region[f.Offset:]), nil
}

func (v *View) GetF32(path string) (float32, error) {
	f, err := v.prim(path, schema.KindF32)
	if err != nil {
		return 0, err
	}
	if err := v.need(f.Offset, wireprim.SizeF32); err != nil {
		return 0, err
	}
	return wireprim.F32(v.region[f.Offset:]), nil
}

func (v *View) GetF64(path string) (float64, error) {
	f, err := v.prim(path, schema.KindF64)
	if err != nil {
		return 0, err
	}
	if err := v.need(f.Offset, wireprim.SizeF64); err != nil {
		return 0, err
	}
	return wireprim.F64(v.region[f.Offset:]), nil
}

func (v *View) GetBool(path string) (bool, error) {
	f, err := v.prim(path, schema.KindBool)
	if err != nil {
		return false, err
	}
	if err := v.need(f.Offset, wireprim.SizeBool); err != nil {
		return false, err
	}
	b, ok := wireprim.Bool(v.region[f.Offset:])
	if !ok {
		return false, errs.Newf(errs.Decoding, "invalid bool tag: 0x%02x", v.region[f.Offset])
	}
	return b, nil
}

// GetEnum reads the varint-encoded numeric value of an enum field and, if
// the value has a registered name, that name.
func (v *View) GetEnum(path string) (uint64, string, error) {
	f, err := v.field(path)
	if err != nil {
		return 0, "", err
	}
	if f.Type.Kind != schema.KEnum {
		return 0, "", errs.TypeMismatchErr("enum", describeType(f.Type))
	}
	if err := v.need(f.Offset, 1); err != nil {
		return 0, "", err
	}
	n, _, err := varint.ReadUint(v.region[f.Offset:])
	if err != nil {
		return 0, "", err
	}
	for name, val := range f.Type.EnumValues {
		if val == n {
			return n, name, nil
		}
	}
	return n, "", nil
}

// GetFixedData returns a copy of the field's n bytes.
func (v *View) GetFixedData(path string) ([]byte, error) {
	f, err := v.field(path)
	if err != nil {
		return nil, err
	}
	if f.Type.Kind != schema.KFixedData {
		return nil, errs.TypeMismatchErr("fixed data", describeType(f.Type))
	}
	if err := v.need(f.Offset, f.Type.FixedLen); err != nil {
		return nil, err
	}
	out := make([]byte, f.Type.FixedLen)
	copy(out, v.region[f.Offset:])
	return out, nil
}

// GetString reads a string leaf: a varint byte length followed by that
// many UTF-8 bytes, both inside the field's platform-word-sized window.
func (v *View) GetString(path string) (string, error) {
	f, err := v.prim(path, schema.KindString)
	if err != nil {
		return "", err
	}
	b, err := v.readInline(f)
	if err != nil {
		return "", err
	}
	if !utf8scan.Valid(b) {
		return "", errs.New(errs.Decoding, "invalid UTF-8 in string")
	}
	return string(b), nil
}

// GetData returns a copy of a data leaf's inline payload.
func (v *View) GetData(path string) ([]byte, error) {
	f, err := v.prim(path, schema.KindData)
	if err != nil {
		return nil, err
	}
	b, err := v.readInline(f)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// readInline reads the varint length and payload of a length-prefixed leaf
// without letting either escape the field's reserved window.
func (v *View) readInline(f FieldOffset) ([]byte, error) {
	if err := v.need(f.Offset, f.Size); err != nil {
		return nil, err
	}
	n, w, err := varint.ReadUint(v.region[f.Offset : f.Offset+f.Size])
	if err != nil {
		return nil, err
	}
	if w+int(n) > f.Size {
		return nil, errs.Newf(errs.Decoding, "inline payload of %d bytes exceeds %d-byte field window", n, f.Size)
	}
	return v.region[f.Offset+w : f.Offset+w+int(n)], nil
}

func (v *View) SetU8(path string, val uint8) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindU8)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeU8); err != nil {
		return err
	}
	wireprim.PutU8(v.region[f.Offset:], val)
	return nil
}

func (v *View) SetU16(path string, val uint16) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindU16)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeU16); err != nil {
		return err
	}
	wireprim.PutU16(v.region[f.Offset:], val)
	return nil
}

func (v *View) SetU32(path string, val uint32) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindU32)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeU32); err != nil {
		return err
	}
	wireprim.PutU32(v.region[f.Offset:], val)
	return nil
}

func (v *View) SetU64(path string, val uint64) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindU64)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeU64); err != nil {
		return err
	}
	wireprim.PutU64(v.region[f.Offset:], val)
	return nil
}

func (v *View) SetI8(path string, val int8) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindI8)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeU8); err != nil {
		return err
	}
	wireprim.PutI8(v.region[f.Offset:], val)
	return nil
}

func (v *View) SetI16(path string, val int16) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindI16)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeU16); err != nil {
		return err
	}
	wireprim.PutI16(v.region[f.Offset:], val)
	return nil
}

func (v *View) SetI32(path string, val int32) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindI32)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeU32); err != nil {
		return err
	}
	wireprim.PutI32(v.region[f.Offset:], val)
	return nil
}

func (v *View) SetI64(path string, val int64) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindI64)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeU64); err != nil {
		return err
	}
	wireprim.PutI64(v.region[f.Offset:], val)
	return nil
}

func (v *View) SetF32(path string, val float32) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindF32)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeF32); err != nil {
		return err
	}
	wireprim.PutF32(v.region[f.Offset:], val)
	return nil
}

func (v *View) SetF64(path string, val float64) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindF64)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeF64); err != nil {
		return err
	}
	wireprim.PutF64(v.region[f.Offset:], val)
	return nil
}

func (v *View) SetBool(path string, val bool) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindBool)
	if err != nil {
		return err
	}
	if err := v.need(f.Offset, wireprim.SizeBool); err != nil {
		return err
	}
	wireprim.PutBool(v.region[f.Offset:], val)
	return nil
}

// SetFixedData writes exactly the field's n bytes; b must be that length.
func (v *View) SetFixedData(path string, b []byte) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.field(path)
	if err != nil {
		return err
	}
	if f.Type.Kind != schema.KFixedData {
		return errs.TypeMismatchErr("fixed data", describeType(f.Type))
	}
	if len(b) != f.Type.FixedLen {
		return errs.Newf(errs.Encoding, "fixed data length mismatch: want %d got %d", f.Type.FixedLen, len(b))
	}
	if err := v.need(f.Offset, f.Type.FixedLen); err != nil {
		return err
	}
	copy(v.region[f.Offset:], b)
	return nil
}

// SetString writes a string leaf: varint byte length plus the bytes. The
// whole encoding must fit the field's platform-word-sized window.
func (v *View) SetString(path string, val string) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindString)
	if err != nil {
		return err
	}
	return v.setInline(f, []byte(val))
}

// SetData writes a data leaf's inline payload.
func (v *View) SetData(path string, val []byte) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.prim(path, schema.KindData)
	if err != nil {
		return err
	}
	return v.setInline(f, val)
}

func (v *View) setInline(f FieldOffset, b []byte) error {
	var tmp [varint.MaxBytes]byte
	prefix := varint.AppendUint(tmp[:0], uint64(len(b)))
	if len(prefix)+len(b) > f.Size {
		return errs.Newf(errs.Encoding, "inline payload of %d bytes exceeds %d-byte field window", len(b), f.Size)
	}
	if err := v.need(f.Offset, f.Size); err != nil {
		return err
	}
	copy(v.region[f.Offset:], prefix)
	copy(v.region[f.Offset+len(prefix):], b)
	return nil
}

// SetEnum writes the varint encoding of the named constant. The encoding
// must fit in the space the layout reserved for the field.
func (v *View) SetEnum(path string, name string) error {
	if err := v.writable(); err != nil {
		return err
	}
	f, err := v.field(path)
	if err != nil {
		return err
	}
	if f.Type.Kind != schema.KEnum {
		return errs.TypeMismatchErr("enum", describeType(f.Type))
	}
	n, ok := f.Type.EnumValues[name]
	if !ok {
		return errs.Newf(errs.InvalidValue, "unknown enum constant: %s", name)
	}
	var tmp [varint.MaxBytes]byte
	encoded := varint.AppendUint(tmp[:0], n)
	if len(encoded) > f.Size {
		return errs.Newf(errs.Encoding, "enum value %d needs %d bytes, field holds %d", n, len(encoded), f.Size)
	}
	if err := v.need(f.Offset, len(encoded)); err != nil {
		return err
	}
	copy(v.region[f.Offset:], encoded)
	return nil
}
