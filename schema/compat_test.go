package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func structSchema(fields ...StructField) *Schema {
	return New().Define("Root", Struct(fields...)).SetRoot("Root")
}

func TestCheckCompatibilityReflexive(t *testing.T) {
	s := structSchema(
		StructField{Name: "a", Type: Primitive(KindU32, Fixed)},
		StructField{Name: "b", Type: Primitive(KindString, LengthPrefixed)},
	)
	got := CheckCompatibility(s, s)
	require.Equal(t, FullyCompatible, got.Class)
}

// old struct {a:u32} vs new struct {a:u32, b:u8} is BackwardCompatible
// (old readers can still parse data written by new writers' shared prefix).
func TestCheckCompatibilityAppendedFieldIsBackwardCompatible(t *testing.T) {
	oldS := structSchema(StructField{Name: "a", Type: Primitive(KindU32, Fixed)})
	newS := structSchema(
		StructField{Name: "a", Type: Primitive(KindU32, Fixed)},
		StructField{Name: "b", Type: Primitive(KindU8, Fixed)},
	)
	got := CheckCompatibility(oldS, newS)
	require.Equal(t, BackwardCompatible, got.Class)
}

func TestCheckCompatibilityRemovedFieldIsIncompatible(t *testing.T) {
	oldS := structSchema(
		StructField{Name: "a", Type: Primitive(KindU32, Fixed)},
		StructField{Name: "b", Type: Primitive(KindU8, Fixed)},
	)
	newS := structSchema(StructField{Name: "a", Type: Primitive(KindU32, Fixed)})
	got := CheckCompatibility(oldS, newS)
	require.Equal(t, Incompatible, got.Class)
}

func TestCheckCompatibilityRenamedFieldIsIncompatible(t *testing.T) {
	oldS := structSchema(StructField{Name: "a", Type: Primitive(KindU32, Fixed)})
	newS := structSchema(StructField{Name: "renamed", Type: Primitive(KindU32, Fixed)})
	got := CheckCompatibility(oldS, newS)
	require.Equal(t, Incompatible, got.Class)
}

func TestCheckCompatibilityUnionSubsetIsBackwardCompatible(t *testing.T) {
	oldS := New().Define("Root", Union(
		UnionCase{Tag: 0, Type: Primitive(KindU32, Fixed)},
	)).SetRoot("Root")
	newS := New().Define("Root", Union(
		UnionCase{Tag: 0, Type: Primitive(KindU32, Fixed)},
		UnionCase{Tag: 1, Type: Primitive(KindString, LengthPrefixed)},
	)).SetRoot("Root")

	got := CheckCompatibility(oldS, newS)
	require.Equal(t, BackwardCompatible, got.Class)

	got = CheckCompatibility(newS, oldS)
	require.Equal(t, ForwardCompatible, got.Class)
}

func TestCheckCompatibilityUnionDisjointIsIncompatible(t *testing.T) {
	oldS := New().Define("Root", Union(
		UnionCase{Tag: 0, Type: Primitive(KindU32, Fixed)},
	)).SetRoot("Root")
	newS := New().Define("Root", Union(
		UnionCase{Tag: 1, Type: Primitive(KindString, LengthPrefixed)},
	)).SetRoot("Root")

	got := CheckCompatibility(oldS, newS)
	require.Equal(t, Incompatible, got.Class)
}
