// Package wire implements the BARE wire codec: a
// schema-directed streaming encoder and decoder operating over a
// generic Value representation. The codec never inspects Go struct
// tags or uses reflection -- the caller supplies a schema.SchemaType
// and a matching Value, and the codec walks both in lockstep.
package wire

import "github.com/rawbytedev/barewire/schema"

// Value is a tagged union mirroring schema.SchemaType's shape. Only the
// fields relevant to the type being encoded/decoded are meaningful; it
// is the boxed value the spec's dynamic dispatch interface describes
// (§4.H design notes), kept separate from any Go reflection.
type Value struct {
	Kind schema.Kind

	U uint64 // unsigned primitive / enum numeric value
	I int64  // signed primitive
	F uint64 // float bit pattern (32 or 64 bit, per PrimKind)
	B bool   // bool

	Str  string // string
	Data []byte // data / FixedData

	EnumName string // Enum, decoded side

	Opt *Value // Optional: nil means absent

	List []Value // List / FixedList

	MapEntries []MapEntry // Map

	UnionTag uint32 // Union
	UnionVal *Value

	StructFields []Value // Struct, positional, in declaration order
}

// MapEntry is one key/value pair of a Map value, in encode/decode order.
type MapEntry struct {
	Key   Value
	Value Value
}

func U(v uint64) Value                      { return Value{Kind: schema.KPrimitive, U: v} }
func I(v int64) Value                       { return Value{Kind: schema.KPrimitive, I: v} }
func F32(bits uint32) Value                 { return Value{Kind: schema.KPrimitive, F: uint64(bits)} }
func F64(bits uint64) Value                 { return Value{Kind: schema.KPrimitive, F: bits} }
func Bool(b bool) Value                     { return Value{Kind: schema.KPrimitive, B: b} }
func Str(s string) Value                    { return Value{Kind: schema.KPrimitive, Str: s} }
func Bytes(b []byte) Value                  { return Value{Kind: schema.KPrimitive, Data: b} }
func FixedBytes(b []byte) Value             { return Value{Kind: schema.KFixedData, Data: b} }
func EnumValue(name string, n uint64) Value { return Value{Kind: schema.KEnum, EnumName: name, U: n} }
func Some(v Value) Value                    { inner := v; return Value{Kind: schema.KOptional, Opt: &inner} }
func None() Value                           { return Value{Kind: schema.KOptional} }
func ListOf(items ...Value) Value           { return Value{Kind: schema.KList, List: items} }
func FixedListOf(items ...Value) Value      { return Value{Kind: schema.KFixedList, List: items} }
func MapOf(entries ...MapEntry) Value       { return Value{Kind: schema.KMap, MapEntries: entries} }
func UnionOf(tag uint32, v Value) Value {
	return Value{Kind: schema.KUnion, UnionTag: tag, UnionVal: &v}
}
func StructOf(fields ...Value) Value { return Value{Kind: schema.KStruct, StructFields: fields} }
