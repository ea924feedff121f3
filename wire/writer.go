package wire

import (
	"github.com/rawbytedev/barewire/errs"
	"github.com/rawbytedev/barewire/internal/utf8scan"
	"github.com/rawbytedev/barewire/internal/varint"
	"github.com/rawbytedev/barewire/internal/wireprim"
	"github.com/rawbytedev/barewire/schema"
)

// Writer owns a growable byte buffer and appends to it sequentially.
// It never retains a reference to the schema or values passed to it
// beyond the call in progress.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity pre-reserved.
func NewWriter(capacityHint int) *Writer {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Writer{buf: make([]byte, 0, capacityHint)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Position is the current write cursor, equal to len(Bytes()).
func (w *Writer) Position() int { return len(w.buf) }

// Reset empties the buffer for reuse, retaining its capacity.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

func (w *Writer) WriteU8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) WriteU16(v uint16) {
	var tmp [2]byte
	wireprim.PutU16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteU32(v uint32) {
	var tmp [4]byte
	wireprim.PutU32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteU64(v uint64) {
	var tmp [8]byte
	wireprim.PutU64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteI8(v int8)   { w.buf = append(w.buf, byte(v)) }
func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }
func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }
func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

func (w *Writer) WriteF32(bits uint32) { w.WriteU32(bits) }
func (w *Writer) WriteF64(bits uint64) { w.WriteU64(bits) }

func (w *Writer) WriteBool(v bool) {
	var tmp [1]byte
	wireprim.PutBool(tmp[:], v)
	w.buf = append(w.buf, tmp[0])
}

func (w *Writer) WriteVarUint(v uint64) { w.buf = varint.AppendUint(w.buf, v) }
func (w *Writer) WriteVarInt(v int64)   { w.buf = varint.AppendInt(w.buf, v) }

func (w *Writer) WriteFixedData(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) WriteData(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteString(s string) {
	b := utf8scan.Encode([]rune(s))
	w.WriteData(b)
}

// Encode writes value as an instance of t, recursively.
func Encode(w *Writer, s *schema.Schema, t schema.SchemaType, value Value) error {
	switch t.Kind {
	case schema.KPrimitive:
		return encodePrimitive(w, t, value)
	case schema.KFixedData:
		if len(value.Data) != t.FixedLen {
			return errs.Newf(errs.Encoding, "fixed data length mismatch: want %d got %d", t.FixedLen, len(value.Data))
		}
		w.WriteFixedData(value.Data)
		return nil
	case schema.KEnum:
		n, ok := t.EnumValues[value.EnumName]
		if !ok {
			n = value.U
		}
		w.WriteVarUint(n)
		return nil
	case schema.KOptional:
		if value.Opt == nil {
			w.WriteU8(0x00)
			return nil
		}
		w.WriteU8(0x01)
		return Encode(w, s, *t.Elem, *value.Opt)
	case schema.KList:
		w.WriteVarUint(uint64(len(value.List)))
		for _, item := range value.List {
			if err := Encode(w, s, *t.Elem, item); err != nil {
				return err
			}
		}
		return nil
	case schema.KFixedList:
		for _, item := range value.List {
			if err := Encode(w, s, *t.Elem, item); err != nil {
				return err
			}
		}
		return nil
	case schema.KMap:
		w.WriteVarUint(uint64(len(value.MapEntries)))
		for _, e := range value.MapEntries {
			if err := Encode(w, s, *t.Key, e.Key); err != nil {
				return err
			}
			if err := Encode(w, s, *t.Value, e.Value); err != nil {
				return err
			}
		}
		return nil
	case schema.KUnion:
		c, ok := findCaseType(t, value.UnionTag)
		if !ok {
			return errs.Newf(errs.Encoding, "unknown union tag: %d", value.UnionTag)
		}
		w.WriteVarUint(uint64(value.UnionTag))
		if value.UnionVal == nil {
			return Encode(w, s, c, Value{Kind: schema.KPrimitive})
		}
		return Encode(w, s, c, *value.UnionVal)
	case schema.KStruct:
		if len(value.StructFields) != len(t.Fields) {
			return errs.Newf(errs.Encoding, "struct field count mismatch: want %d got %d", len(t.Fields), len(value.StructFields))
		}
		for i, f := range t.Fields {
			if err := Encode(w, s, f.Type, value.StructFields[i]); err != nil {
				return err
			}
		}
		return nil
	case schema.KTypeRef:
		resolved, ok := s.Types[t.RefName]
		if !ok {
			return errs.Newf(errs.Encoding, "undefined type: %s", t.RefName)
		}
		return Encode(w, s, resolved, value)
	default:
		return errs.Newf(errs.Encoding, "unknown schema type kind %d", t.Kind)
	}
}

func encodePrimitive(w *Writer, t schema.SchemaType, v Value) error {
	switch t.PrimEncoding {
	case schema.Fixed:
		switch t.PrimKind {
		case schema.KindVoid:
			return nil
		case schema.KindBool:
			w.WriteBool(v.B)
		case schema.KindU8:
			w.WriteU8(uint8(v.U))
		case schema.KindU16:
			w.WriteU16(uint16(v.U))
		case schema.KindU32:
			w.WriteU32(uint32(v.U))
		case schema.KindU64:
			w.WriteU64(v.U)
		case schema.KindI8:
			w.WriteI8(int8(v.I))
		case schema.KindI16:
			w.WriteI16(int16(v.I))
		case schema.KindI32:
			w.WriteI32(int32(v.I))
		case schema.KindI64:
			w.WriteI64(v.I)
		case schema.KindF32:
			w.WriteF32(uint32(v.F))
		case schema.KindF64:
			w.WriteF64(v.F)
		default:
			return errs.Newf(errs.Encoding, "unsupported fixed primitive kind %s", t.PrimKind)
		}
		return nil
	case schema.VarInt:
		switch t.PrimKind {
		case schema.KindU8, schema.KindU16, schema.KindU32, schema.KindU64:
			w.WriteVarUint(v.U)
		case schema.KindI8, schema.KindI16, schema.KindI32, schema.KindI64:
			w.WriteVarInt(v.I)
		default:
			return errs.Newf(errs.Encoding, "varint encoding not applicable to kind %s", t.PrimKind)
		}
		return nil
	case schema.LengthPrefixed:
		switch t.PrimKind {
		case schema.KindString:
			w.WriteString(v.Str)
		case schema.KindData:
			w.WriteData(v.Data)
		default:
			return errs.Newf(errs.Encoding, "length-prefixed encoding not applicable to kind %s", t.PrimKind)
		}
		return nil
	default:
		return errs.Newf(errs.Encoding, "unknown encoding %d", t.PrimEncoding)
	}
}

func findCaseType(u schema.SchemaType, tag uint32) (schema.SchemaType, bool) {
	for _, c := range u.Cases {
		if c.Tag == tag {
			return c.Type, true
		}
	}
	return schema.SchemaType{}, false
}
