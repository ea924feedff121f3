package barewire

import (
	"math"
	"reflect"
	"sort"
	"unsafe"

	"github.com/rawbytedev/barewire/errs"
	"github.com/rawbytedev/barewire/internal/utf8scan"
	"github.com/rawbytedev/barewire/schema"
	"github.com/rawbytedev/barewire/wire"
)

// encodeValue walks the derived schema and the reflect value in lockstep,
// appending the BARE wire form to w.
func encodeValue(w *wire.Writer, st schema.SchemaType, v reflect.Value) error {
	switch st.Kind {
	case schema.KPrimitive:
		return encodePrimitive(w, st, v)
	case schema.KFixedData:
		buf := make([]byte, st.FixedLen)
		reflect.Copy(reflect.ValueOf(buf), v)
		w.WriteFixedData(buf)
		return nil
	case schema.KOptional:
		if v.IsNil() {
			w.WriteU8(0x00)
			return nil
		}
		w.WriteU8(0x01)
		return encodeValue(w, *st.Elem, v.Elem())
	case schema.KList:
		w.WriteVarUint(uint64(v.Len()))
		for i := 0; i < v.Len(); i++ {
			if err := encodeValue(w, *st.Elem, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case schema.KFixedList:
		for i := 0; i < st.FixedLen; i++ {
			if err := encodeValue(w, *st.Elem, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case schema.KMap:
		keys := v.MapKeys()
		sortKeys(keys)
		w.WriteVarUint(uint64(len(keys)))
		for _, k := range keys {
			if err := encodeValue(w, *st.Key, k); err != nil {
				return err
			}
			if err := encodeValue(w, *st.Value, v.MapIndex(k)); err != nil {
				return err
			}
		}
		return nil
	case schema.KStruct:
		idx := exportedFieldIndexes(v.Type())
		for i, f := range st.Fields {
			if err := encodeValue(w, f.Type, v.Field(idx[i])); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrUnsupported
	}
}

func encodePrimitive(w *wire.Writer, st schema.SchemaType, v reflect.Value) error {
	switch st.PrimKind {
	case schema.KindBool:
		w.WriteBool(v.Bool())
	case schema.KindU8:
		w.WriteU8(uint8(v.Uint()))
	case schema.KindU16:
		w.WriteU16(uint16(v.Uint()))
	case schema.KindU32:
		w.WriteU32(uint32(v.Uint()))
	case schema.KindU64:
		w.WriteU64(v.Uint())
	case schema.KindI8:
		w.WriteI8(int8(v.Int()))
	case schema.KindI16:
		w.WriteI16(int16(v.Int()))
	case schema.KindI32:
		w.WriteI32(int32(v.Int()))
	case schema.KindI64:
		w.WriteI64(v.Int())
	case schema.KindF32:
		w.WriteF32(math.Float32bits(float32(v.Float())))
	case schema.KindF64:
		w.WriteF64(math.Float64bits(v.Float()))
	case schema.KindString:
		s := v.String()
		w.WriteData(unsafe.Slice(unsafe.StringData(s), len(s)))
	case schema.KindData:
		w.WriteData(v.Bytes())
	default:
		return ErrUnsupported
	}
	return nil
}

// decodeValue reads one value of type st from r into the settable v.
func decodeValue(r *wire.Reader, st schema.SchemaType, v reflect.Value, opts Options) error {
	switch st.Kind {
	case schema.KPrimitive:
		return decodePrimitive(r, st, v, opts)
	case schema.KFixedData:
		b, err := r.ReadFixedData(st.FixedLen)
		if err != nil {
			return err
		}
		reflect.Copy(v, reflect.ValueOf(b))
		return nil
	case schema.KOptional:
		tag, err := r.ReadU8()
		if err != nil {
			return err
		}
		switch tag {
		case 0x00:
			v.SetZero()
			return nil
		case 0x01:
			elem := reflect.New(v.Type().Elem())
			if err := decodeValue(r, *st.Elem, elem.Elem(), opts); err != nil {
				return err
			}
			v.Set(elem)
			return nil
		default:
			return errs.Newf(errs.Decoding, "invalid optional tag: 0x%02x", tag)
		}
	case schema.KList:
		n, err := r.ReadVarUint()
		if err != nil {
			return err
		}
		slice := reflect.MakeSlice(v.Type(), int(n), int(n))
		for i := 0; i < int(n); i++ {
			if err := decodeValue(r, *st.Elem, slice.Index(i), opts); err != nil {
				return err
			}
		}
		v.Set(slice)
		return nil
	case schema.KFixedList:
		for i := 0; i < st.FixedLen; i++ {
			if err := decodeValue(r, *st.Elem, v.Index(i), opts); err != nil {
				return err
			}
		}
		return nil
	case schema.KMap:
		n, err := r.ReadVarUint()
		if err != nil {
			return err
		}
		m := reflect.MakeMapWithSize(v.Type(), int(n))
		for i := 0; i < int(n); i++ {
			key := reflect.New(v.Type().Key()).Elem()
			if err := decodeValue(r, *st.Key, key, opts); err != nil {
				return err
			}
			val := reflect.New(v.Type().Elem()).Elem()
			if err := decodeValue(r, *st.Value, val, opts); err != nil {
				return err
			}
			m.SetMapIndex(key, val)
		}
		v.Set(m)
		return nil
	case schema.KStruct:
		idx := exportedFieldIndexes(v.Type())
		for i, f := range st.Fields {
			if err := decodeValue(r, f.Type, v.Field(idx[i]), opts); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrUnsupported
	}
}

func decodePrimitive(r *wire.Reader, st schema.SchemaType, v reflect.Value, opts Options) error {
	switch st.PrimKind {
	case schema.KindBool:
		b, err := r.ReadBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
	case schema.KindU8:
		n, err := r.ReadU8()
		if err != nil {
			return err
		}
		v.SetUint(uint64(n))
	case schema.KindU16:
		n, err := r.ReadU16()
		if err != nil {
			return err
		}
		v.SetUint(uint64(n))
	case schema.KindU32:
		n, err := r.ReadU32()
		if err != nil {
			return err
		}
		v.SetUint(uint64(n))
	case schema.KindU64:
		n, err := r.ReadU64()
		if err != nil {
			return err
		}
		v.SetUint(n)
	case schema.KindI8:
		n, err := r.ReadI8()
		if err != nil {
			return err
		}
		v.SetInt(int64(n))
	case schema.KindI16:
		n, err := r.ReadI16()
		if err != nil {
			return err
		}
		v.SetInt(int64(n))
	case schema.KindI32:
		n, err := r.ReadI32()
		if err != nil {
			return err
		}
		v.SetInt(int64(n))
	case schema.KindI64:
		n, err := r.ReadI64()
		if err != nil {
			return err
		}
		v.SetInt(n)
	case schema.KindF32:
		bits32, err := r.ReadF32Bits()
		if err != nil {
			return err
		}
		v.SetFloat(float64(math.Float32frombits(bits32)))
	case schema.KindF64:
		bits64, err := r.ReadF64Bits()
		if err != nil {
			return err
		}
		v.SetFloat(math.Float64frombits(bits64))
	case schema.KindString:
		b, err := r.ReadData()
		if err != nil {
			return err
		}
		if !utf8scan.Valid(b) {
			return errs.New(errs.Decoding, "invalid UTF-8 in string")
		}
		if opts.UnsafeStrings && len(b) > 0 {
			v.SetString(unsafe.String(&b[0], len(b)))
		} else {
			v.SetString(string(b))
		}
	case schema.KindData:
		b, err := r.ReadData()
		if err != nil {
			return err
		}
		v.SetBytes(b)
	default:
		return ErrUnsupported
	}
	return nil
}

// sortKeys orders map keys so Marshal is deterministic for any map value.
func sortKeys(keys []reflect.Value) {
	if len(keys) < 2 {
		return
	}
	switch keys[0].Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	case reflect.Bool:
		sort.Slice(keys, func(i, j int) bool { return !keys[i].Bool() && keys[j].Bool() })
	}
}
