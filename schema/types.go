// Package schema represents BARE schema types and schemas: the algebraic
// SchemaType variant, the Schema type-name map plus root, and the
// constructor helpers used to build them. Construction is purely
// additive -- there is no mutation API beyond insertion, and nothing
// here depends on reflection.
package schema

// TypeKind enumerates the host primitive vocabulary the schema model
// consumes: the BARE primitive kinds, plus KindData to express the
// unbounded byte-blob wire type distinctly from string.
type TypeKind int

const (
	KindU8 TypeKind = iota
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindBool
	KindVoid
	KindString
	KindData
)

func (k TypeKind) String() string {
	names := [...]string{"u8", "u16", "u32", "u64", "i8", "i16", "i32", "i64",
		"f32", "f64", "bool", "void", "string", "data"}
	if int(k) < 0 || int(k) >= len(names) {
		return "unknown"
	}
	return names[k]
}

// PlatformContext answers the two questions the schema model needs per
// TypeKind: natural byte size and natural byte alignment. Implementations
// may vary the size/alignment of pointer-sized integers per target; the
// core never hard-codes them.
type PlatformContext interface {
	Size(k TypeKind) int
	Align(k TypeKind) int
}

// Encoding selects how a Primitive is represented on the wire.
type Encoding int

const (
	// Fixed is the natural little-endian byte representation.
	Fixed Encoding = iota
	// VarInt is ULEB128 (zigzag-mapped for signed kinds).
	VarInt
	// LengthPrefixed is varint(length) followed by that many bytes
	// (string, and the unbounded data kind).
	LengthPrefixed
)

// Kind discriminates the SchemaType variant.
type Kind int

const (
	KPrimitive Kind = iota
	KFixedData
	KEnum
	KOptional
	KList
	KFixedList
	KMap
	KUnion
	KStruct
	KTypeRef
)

// StructField is an ordered (name, type) pair; field order is part of
// the type's identity.
type StructField struct {
	Name string
	Type SchemaType
}

// UnionCase pairs a 32-bit tag with its payload type. Tags are unique
// within a union but need not be dense.
type UnionCase struct {
	Tag  uint32
	Type SchemaType
}

// SchemaType is a tagged variant over every BARE type-former. Only the
// fields relevant to Kind are meaningful; the flat shape keeps schemas
// plain comparable data rather than an interface hierarchy.
type SchemaType struct {
	Kind Kind

	// KPrimitive
	PrimKind     TypeKind
	PrimEncoding Encoding

	// KFixedData / KFixedList length
	FixedLen int

	// KEnum
	EnumBase   TypeKind
	EnumValues map[string]uint64

	// KOptional / KList / KFixedList element type
	Elem *SchemaType

	// KMap
	Key   *SchemaType
	Value *SchemaType

	// KUnion
	Cases []UnionCase

	// KStruct
	Fields []StructField

	// KTypeRef
	RefName string
}

// Primitive builds a Primitive(kind, encoding) type.
func Primitive(kind TypeKind, enc Encoding) SchemaType {
	return SchemaType{Kind: KPrimitive, PrimKind: kind, PrimEncoding: enc}
}

// Void is the tag-only payload legal solely inside a Union case.
func Void() SchemaType { return Primitive(KindVoid, Fixed) }

// FixedData builds a FixedData(n) type: exactly n bytes, no prefix.
func FixedData(n int) SchemaType { return SchemaType{Kind: KFixedData, FixedLen: n} }

// Enum builds an Enum(baseKind, values) type.
func Enum(base TypeKind, values map[string]uint64) SchemaType {
	return SchemaType{Kind: KEnum, EnumBase: base, EnumValues: values}
}

// Optional builds an Optional(T) type.
func Optional(t SchemaType) SchemaType { return SchemaType{Kind: KOptional, Elem: &t} }

// List builds a List(T) type.
func List(t SchemaType) SchemaType { return SchemaType{Kind: KList, Elem: &t} }

// FixedListOf builds a FixedList(T, n) type.
func FixedListOf(t SchemaType, n int) SchemaType {
	return SchemaType{Kind: KFixedList, Elem: &t, FixedLen: n}
}

// Map builds a Map(K, V) type.
func Map(k, v SchemaType) SchemaType { return SchemaType{Kind: KMap, Key: &k, Value: &v} }

// Union builds a Union(cases) type.
func Union(cases ...UnionCase) SchemaType { return SchemaType{Kind: KUnion, Cases: cases} }

// Struct builds a Struct(fields) type.
func Struct(fields ...StructField) SchemaType { return SchemaType{Kind: KStruct, Fields: fields} }

// TypeRef builds a named reference resolved in the owning schema.
func TypeRef(name string) SchemaType { return SchemaType{Kind: KTypeRef, RefName: name} }

// Schema maps type names to SchemaTypes plus a designated root name.
type Schema struct {
	Types map[string]SchemaType
	Root  string
}

// New returns an empty Schema ready for additive construction.
func New() *Schema {
	return &Schema{Types: make(map[string]SchemaType)}
}

// Define inserts or overwrites the type named name. It returns the
// receiver so calls can be chained.
func (s *Schema) Define(name string, t SchemaType) *Schema {
	s.Types[name] = t
	return s
}

// SetRoot designates the schema's entry-point type name.
func (s *Schema) SetRoot(name string) *Schema {
	s.Root = name
	return s
}

// Lookup resolves a type name in the schema.
func (s *Schema) Lookup(name string) (SchemaType, bool) {
	t, ok := s.Types[name]
	return t, ok
}

// RootType resolves the schema's root type.
func (s *Schema) RootType() (SchemaType, bool) {
	return s.Lookup(s.Root)
}
