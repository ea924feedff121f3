// Package view implements the typed memory view: schema-driven
// computation of struct field offsets with natural alignment padding, and
// random-access read/write over a borrowed in-memory byte region.
//
// A view borrows its region; it never copies or resizes it, and its lifetime
// must not exceed the region's. Aggregate types (nested List, Map, Union) are
// not directly addressable -- the view supports primitives, enums, and
// fixed-data at leaf positions, reached through dotted struct paths.
package view

import (
	"github.com/rawbytedev/barewire/errs"
	"github.com/rawbytedev/barewire/schema"
)

// FieldOffset is one entry of the precomputed offset map: where a field
// lives, what type it holds, and the size/alignment that placed it there.
// Size is the field's footprint in the region: the platform-word-sized
// window for string and data leaves, and the minimum encoded size for
// other variable-sized fields.
type FieldOffset struct {
	Offset    int
	Type      schema.SchemaType
	Size      int
	Alignment int
}

// Layout is the immutable result of BuildOffsets: a dotted-path offset map
// plus the struct's total size and alignment.
type Layout struct {
	Fields map[string]FieldOffset
	Size   int
	Align  int
}

// BuildOffsets walks the schema's root struct in declaration order and
// returns the dotted-path offset map. Each field's offset is rounded up to
// the field's alignment; nested structs (directly or through a TypeRef)
// extend the dotted path with the field name; the total size is rounded up
// to the struct's alignment. The schema must have passed Validate.
func BuildOffsets(p schema.PlatformContext, s *schema.Schema) (*Layout, error) {
	root, ok := s.RootType()
	if !ok {
		return nil, errs.Newf(errs.InvalidValue, "undefined root type: %s", s.Root)
	}
	st, err := resolveStruct(s, root)
	if err != nil {
		return nil, err
	}
	l := &Layout{Fields: make(map[string]FieldOffset)}
	size, align, err := walkStruct(p, s, st, "", 0, l)
	if err != nil {
		return nil, err
	}
	l.Size = size
	l.Align = align
	return l, nil
}

func resolveStruct(s *schema.Schema, t schema.SchemaType) (schema.SchemaType, error) {
	for t.Kind == schema.KTypeRef {
		resolved, ok := s.Lookup(t.RefName)
		if !ok {
			return schema.SchemaType{}, errs.Newf(errs.InvalidValue, "undefined type: %s", t.RefName)
		}
		t = resolved
	}
	if t.Kind != schema.KStruct {
		return schema.SchemaType{}, errs.Newf(errs.InvalidValue, "view root must be a struct, got kind %d", t.Kind)
	}
	return t, nil
}

// walkStruct lays out one struct starting at base, recording every field
// under prefix. Returns the struct's total size and alignment.
func walkStruct(p schema.PlatformContext, s *schema.Schema, t schema.SchemaType, prefix string, base int, l *Layout) (int, int, error) {
	cursor := 0
	maxAlign := 1
	for _, f := range t.Fields {
		fsize, falign, err := fieldLayout(p, s, f.Type)
		if err != nil {
			return 0, 0, err
		}
		if falign > maxAlign {
			maxAlign = falign
		}
		cursor = alignUp(cursor, falign)

		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}

		ft := f.Type
		for ft.Kind == schema.KTypeRef {
			resolved, ok := s.Lookup(ft.RefName)
			if !ok {
				return 0, 0, errs.Newf(errs.InvalidValue, "undefined type: %s", ft.RefName)
			}
			ft = resolved
		}
		l.Fields[path] = FieldOffset{
			Offset:    base + cursor,
			Type:      ft,
			Size:      fsize,
			Alignment: falign,
		}
		if ft.Kind == schema.KStruct {
			if _, _, err := walkStruct(p, s, ft, path, base+cursor, l); err != nil {
				return 0, 0, err
			}
		}
		cursor += fsize
	}
	return alignUp(cursor, maxAlign), maxAlign, nil
}

// fieldLayout computes the in-memory size and alignment a field occupies
// inside a view region. It departs from the wire sizing in one place:
// length-prefixed primitives (string, data) occupy a platform-word-sized
// window holding a varint length plus the inline payload, so their
// footprint and alignment come from the PlatformContext rather than the
// unbounded wire form. Structs recurse so nested windows land where the
// recorded offsets say they do.
func fieldLayout(p schema.PlatformContext, s *schema.Schema, t schema.SchemaType) (int, int, error) {
	for t.Kind == schema.KTypeRef {
		resolved, ok := s.Lookup(t.RefName)
		if !ok {
			return 0, 0, errs.Newf(errs.InvalidValue, "undefined type: %s", t.RefName)
		}
		t = resolved
	}
	switch t.Kind {
	case schema.KPrimitive:
		if t.PrimEncoding == schema.LengthPrefixed {
			return p.Size(t.PrimKind), p.Align(t.PrimKind), nil
		}
	case schema.KStruct:
		cursor := 0
		align := 1
		for _, f := range t.Fields {
			fsize, falign, err := fieldLayout(p, s, f.Type)
			if err != nil {
				return 0, 0, err
			}
			if falign > align {
				align = falign
			}
			cursor = alignUp(cursor, falign) + fsize
		}
		return alignUp(cursor, align), align, nil
	}
	fa, err := schema.AlignOf(p, s, t)
	if err != nil {
		return 0, 0, err
	}
	fsz, err := schema.SizeOf(p, s, t)
	if err != nil {
		return 0, 0, err
	}
	return fsz.Min, fa, nil
}

func alignUp(offset, alignment int) int {
	if alignment <= 1 {
		return offset
	}
	rem := offset % alignment
	if rem == 0 {
		return offset
	}
	return offset + (alignment - rem)
}
