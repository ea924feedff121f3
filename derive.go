package barewire

import (
	"math/bits"
	"reflect"

	"github.com/rawbytedev/barewire/schema"
)

// deriveType maps a Go type to its BARE schema type. Machine-sized int and
// uint follow the running platform's word width rather than a hard-coded 8.
func deriveType(t reflect.Type) (schema.SchemaType, error) {
	switch t.Kind() {
	case reflect.Bool:
		return schema.Primitive(schema.KindBool, schema.Fixed), nil
	case reflect.Int8:
		return schema.Primitive(schema.KindI8, schema.Fixed), nil
	case reflect.Int16:
		return schema.Primitive(schema.KindI16, schema.Fixed), nil
	case reflect.Int32:
		return schema.Primitive(schema.KindI32, schema.Fixed), nil
	case reflect.Int64:
		return schema.Primitive(schema.KindI64, schema.Fixed), nil
	case reflect.Int:
		if bits.UintSize == 32 {
			return schema.Primitive(schema.KindI32, schema.Fixed), nil
		}
		return schema.Primitive(schema.KindI64, schema.Fixed), nil
	case reflect.Uint8:
		return schema.Primitive(schema.KindU8, schema.Fixed), nil
	case reflect.Uint16:
		return schema.Primitive(schema.KindU16, schema.Fixed), nil
	case reflect.Uint32:
		return schema.Primitive(schema.KindU32, schema.Fixed), nil
	case reflect.Uint64:
		return schema.Primitive(schema.KindU64, schema.Fixed), nil
	case reflect.Uint:
		if bits.UintSize == 32 {
			return schema.Primitive(schema.KindU32, schema.Fixed), nil
		}
		return schema.Primitive(schema.KindU64, schema.Fixed), nil
	case reflect.Float32:
		return schema.Primitive(schema.KindF32, schema.Fixed), nil
	case reflect.Float64:
		return schema.Primitive(schema.KindF64, schema.Fixed), nil
	case reflect.String:
		return schema.Primitive(schema.KindString, schema.LengthPrefixed), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return schema.Primitive(schema.KindData, schema.LengthPrefixed), nil
		}
		elem, err := deriveType(t.Elem())
		if err != nil {
			return schema.SchemaType{}, err
		}
		return schema.List(elem), nil
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return schema.FixedData(t.Len()), nil
		}
		elem, err := deriveType(t.Elem())
		if err != nil {
			return schema.SchemaType{}, err
		}
		return schema.FixedListOf(elem, t.Len()), nil
	case reflect.Pointer:
		elem, err := deriveType(t.Elem())
		if err != nil {
			return schema.SchemaType{}, err
		}
		return schema.Optional(elem), nil
	case reflect.Map:
		key, err := deriveType(t.Key())
		if err != nil {
			return schema.SchemaType{}, err
		}
		if key.Kind != schema.KPrimitive {
			return schema.SchemaType{}, ErrUnsupported
		}
		switch key.PrimKind {
		case schema.KindF32, schema.KindF64, schema.KindVoid:
			return schema.SchemaType{}, ErrUnsupported
		}
		val, err := deriveType(t.Elem())
		if err != nil {
			return schema.SchemaType{}, err
		}
		return schema.Map(key, val), nil
	case reflect.Struct:
		fields := make([]schema.StructField, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.PkgPath != "" && !sf.Anonymous {
				continue // skip unexported
			}
			ft, err := deriveType(sf.Type)
			if err != nil {
				return schema.SchemaType{}, err
			}
			fields = append(fields, schema.StructField{Name: sf.Name, Type: ft})
		}
		if len(fields) == 0 {
			return schema.SchemaType{}, ErrUnsupported
		}
		return schema.Struct(fields...), nil
	default:
		return schema.SchemaType{}, ErrUnsupported
	}
}

// exportedFieldIndexes returns the struct field indexes the derivation kept,
// in declaration order. encode/decode walk this list in lockstep with the
// derived schema's field list.
func exportedFieldIndexes(t reflect.Type) []int {
	idx := make([]int, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" && !sf.Anonymous {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}
