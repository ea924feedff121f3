package wire

import (
	"github.com/rawbytedev/barewire/errs"
	"github.com/rawbytedev/barewire/internal/utf8scan"
	"github.com/rawbytedev/barewire/internal/varint"
	"github.com/rawbytedev/barewire/internal/wireprim"
	"github.com/rawbytedev/barewire/schema"
)

// Reader borrows a byte slice and advances an explicit cursor over it.
// It never copies the input except where string/data results require
// an owned copy on decode.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reads starting at offset 0.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Position is the current read cursor.
func (r *Reader) Position() int { return r.pos }

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.buf) {
		return errs.OutOfBoundsErr(r.pos, n)
	}
	return nil
}

func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := wireprim.U8(r.buf[r.pos:])
	r.pos++
	return v, nil
}

func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := wireprim.U16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := wireprim.U32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadU64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := wireprim.U64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadF32Bits() (uint32, error) { return r.ReadU32() }
func (r *Reader) ReadF64Bits() (uint64, error) { return r.ReadU64() }

func (r *Reader) ReadBool() (bool, error) {
	if err := r.need(1); err != nil {
		return false, err
	}
	v, ok := wireprim.Bool(r.buf[r.pos:])
	if !ok {
		return false, errs.Newf(errs.Decoding, "invalid bool tag: 0x%02x", r.buf[r.pos])
	}
	r.pos++
	return v, nil
}

func (r *Reader) ReadVarUint() (uint64, error) {
	v, n, err := varint.ReadUint(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

func (r *Reader) ReadVarInt() (int64, error) {
	v, n, err := varint.ReadInt(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

func (r *Reader) ReadFixedData(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

func (r *Reader) ReadData() ([]byte, error) {
	n, err := r.ReadVarUint()
	if err != nil {
		return nil, err
	}
	return r.ReadFixedData(int(n))
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadData()
	if err != nil {
		return "", err
	}
	runes, err := utf8scan.Decode(b)
	if err != nil {
		return "", err
	}
	return string(runes), nil
}

// Decode reads one value of type t, recursively.
func Decode(r *Reader, s *schema.Schema, t schema.SchemaType) (Value, error) {
	switch t.Kind {
	case schema.KPrimitive:
		return decodePrimitive(r, t)
	case schema.KFixedData:
		b, err := r.ReadFixedData(t.FixedLen)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: schema.KFixedData, Data: b}, nil
	case schema.KEnum:
		n, err := r.ReadVarUint()
		if err != nil {
			return Value{}, err
		}
		name := ""
		for k, v := range t.EnumValues {
			if v == n {
				name = k
				break
			}
		}
		return Value{Kind: schema.KEnum, U: n, EnumName: name}, nil
	case schema.KOptional:
		tag, err := r.ReadU8()
		if err != nil {
			return Value{}, err
		}
		switch tag {
		case 0x00:
			return Value{Kind: schema.KOptional}, nil
		case 0x01:
			inner, err := Decode(r, s, *t.Elem)
			if err != nil {
				return Value{}, err
			}
			return Value{Kind: schema.KOptional, Opt: &inner}, nil
		default:
			return Value{}, errs.Newf(errs.Decoding, "invalid optional tag: 0x%02x", tag)
		}
	case schema.KList:
		n, err := r.ReadVarUint()
		if err != nil {
			return Value{}, err
		}
		items := make([]Value, 0, n)
		for i := uint64(0); i < n; i++ {
			item, err := Decode(r, s, *t.Elem)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{Kind: schema.KList, List: items}, nil
	case schema.KFixedList:
		items := make([]Value, 0, t.FixedLen)
		for i := 0; i < t.FixedLen; i++ {
			item, err := Decode(r, s, *t.Elem)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{Kind: schema.KFixedList, List: items}, nil
	case schema.KMap:
		n, err := r.ReadVarUint()
		if err != nil {
			return Value{}, err
		}
		entries := make([]MapEntry, 0, n)
		for i := uint64(0); i < n; i++ {
			k, err := Decode(r, s, *t.Key)
			if err != nil {
				return Value{}, err
			}
			v, err := Decode(r, s, *t.Value)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, MapEntry{Key: k, Value: v})
		}
		return Value{Kind: schema.KMap, MapEntries: entries}, nil
	case schema.KUnion:
		tag, err := r.ReadVarUint()
		if err != nil {
			return Value{}, err
		}
		c, ok := findCaseType(t, uint32(tag))
		if !ok {
			return Value{}, errs.Newf(errs.Decoding, "unknown union tag: %d", tag)
		}
		payload, err := Decode(r, s, c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: schema.KUnion, UnionTag: uint32(tag), UnionVal: &payload}, nil
	case schema.KStruct:
		fields := make([]Value, 0, len(t.Fields))
		for _, f := range t.Fields {
			v, err := Decode(r, s, f.Type)
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, v)
		}
		return Value{Kind: schema.KStruct, StructFields: fields}, nil
	case schema.KTypeRef:
		resolved, ok := s.Types[t.RefName]
		if !ok {
			return Value{}, errs.Newf(errs.Decoding, "undefined type: %s", t.RefName)
		}
		return Decode(r, s, resolved)
	default:
		return Value{}, errs.Newf(errs.Decoding, "unknown schema type kind %d", t.Kind)
	}
}

func decodePrimitive(r *Reader, t schema.SchemaType) (Value, error) {
	switch t.PrimEncoding {
	case schema.Fixed:
		switch t.PrimKind {
		case schema.KindVoid:
			return Value{Kind: schema.KPrimitive}, nil
		case schema.KindBool:
			v, err := r.ReadBool()
			return Value{Kind: schema.KPrimitive, B: v}, err
		case schema.KindU8:
			v, err := r.ReadU8()
			return Value{Kind: schema.KPrimitive, U: uint64(v)}, err
		case schema.KindU16:
			v, err := r.ReadU16()
			return Value{Kind: schema.KPrimitive, U: uint64(v)}, err
		case schema.KindU32:
			v, err := r.ReadU32()
			return Value{Kind: schema.KPrimitive, U: uint64(v)}, err
		case schema.KindU64:
			v, err := r.ReadU64()
			return Value{Kind: schema.KPrimitive, U: v}, err
		case schema.KindI8:
			v, err := r.ReadI8()
			return Value{Kind: schema.KPrimitive, I: int64(v)}, err
		case schema.KindI16:
			v, err := r.ReadI16()
			return Value{Kind: schema.KPrimitive, I: int64(v)}, err
		case schema.KindI32:
			v, err := r.ReadI32()
			return Value{Kind: schema.KPrimitive, I: int64(v)}, err
		case schema.KindI64:
			v, err := r.ReadI64()
			return Value{Kind: schema.KPrimitive, I: v}, err
		case schema.KindF32:
			v, err := r.ReadF32Bits()
			return Value{Kind: schema.KPrimitive, F: uint64(v)}, err
		case schema.KindF64:
			v, err := r.ReadF64Bits()
			return Value{Kind: schema.KPrimitive, F: v}, err
		default:
			return Value{}, errs.Newf(errs.Decoding, "unsupported fixed primitive kind %s", t.PrimKind)
		}
	case schema.VarInt:
		switch t.PrimKind {
		case schema.KindU8, schema.KindU16, schema.KindU32, schema.KindU64:
			v, err := r.ReadVarUint()
			return Value{Kind: schema.KPrimitive, U: v}, err
		case schema.KindI8, schema.KindI16, schema.KindI32, schema.KindI64:
			v, err := r.ReadVarInt()
			return Value{Kind: schema.KPrimitive, I: v}, err
		default:
			return Value{}, errs.Newf(errs.Decoding, "varint encoding not applicable to kind %s", t.PrimKind)
		}
	case schema.LengthPrefixed:
		switch t.PrimKind {
		case schema.KindString:
			v, err := r.ReadString()
			return Value{Kind: schema.KPrimitive, Str: v}, err
		case schema.KindData:
			v, err := r.ReadData()
			return Value{Kind: schema.KPrimitive, Data: v}, err
		default:
			return Value{}, errs.Newf(errs.Decoding, "length-prefixed encoding not applicable to kind %s", t.PrimKind)
		}
	default:
		return Value{}, errs.Newf(errs.Decoding, "unknown encoding %d", t.PrimEncoding)
	}
}
