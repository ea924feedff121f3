package schema

import "github.com/rawbytedev/barewire/errs"

// Size is a type's derived (min, max) encoded byte range. Max is -1 to
// mean unbounded. IsFixed is derived, not stored: fixed-size means min
// equals max equals a concrete integer, so it is a function of the two
// fields rather than a third independently-set one.
type Size struct {
	Min int
	Max int
}

// IsFixed reports whether the type's encoded length is a compile-time
// constant independent of the value.
func (s Size) IsFixed() bool { return s.Max >= 0 && s.Min == s.Max }

// maxVarintWidth is the widest a ULEB128 varint (including a union tag)
// may legally be for a 64-bit value.
const maxVarintWidth = 10

// SizeOf computes the (min, max) encoded byte range of t under platform p
// within schema s. Callers should only invoke this on a schema that has
// passed Validate, since TypeRef resolution assumes an acyclic graph.
func SizeOf(p PlatformContext, s *Schema, t SchemaType) (Size, error) {
	switch t.Kind {
	case KPrimitive:
		return sizeOfPrimitive(p, t)
	case KFixedData:
		return Size{t.FixedLen, t.FixedLen}, nil
	case KEnum:
		return Size{1, maxVarintWidth}, nil
	case KOptional:
		inner, err := SizeOf(p, s, *t.Elem)
		if err != nil {
			return Size{}, err
		}
		if inner.Max == -1 {
			return Size{1 + inner.Min, -1}, nil
		}
		return Size{1 + inner.Min, 1 + inner.Max}, nil
	case KList:
		return Size{1, -1}, nil
	case KFixedList:
		inner, err := SizeOf(p, s, *t.Elem)
		if err != nil {
			return Size{}, err
		}
		if inner.Max == -1 {
			return Size{inner.Min * t.FixedLen, -1}, nil
		}
		return Size{inner.Min * t.FixedLen, inner.Max * t.FixedLen}, nil
	case KMap:
		ksz, err := SizeOf(p, s, *t.Key)
		if err != nil {
			return Size{}, err
		}
		vsz, err := SizeOf(p, s, *t.Value)
		if err != nil {
			return Size{}, err
		}
		return Size{1 + ksz.Min + vsz.Min, -1}, nil
	case KUnion:
		return sizeOfUnion(p, s, t)
	case KStruct:
		return sizeOfStruct(p, s, t)
	case KTypeRef:
		resolved, ok := s.Types[t.RefName]
		if !ok {
			return Size{}, errs.Newf(errs.InvalidValue, "undefined type: %s", t.RefName)
		}
		return SizeOf(p, s, resolved)
	default:
		return Size{}, errs.Newf(errs.InvalidValue, "unknown schema type kind %d", t.Kind)
	}
}

func sizeOfPrimitive(p PlatformContext, t SchemaType) (Size, error) {
	switch t.PrimEncoding {
	case Fixed:
		if t.PrimKind == KindVoid {
			return Size{0, 0}, nil
		}
		sz := p.Size(t.PrimKind)
		return Size{sz, sz}, nil
	case VarInt:
		return Size{1, maxVarintWidth}, nil
	case LengthPrefixed:
		return Size{1, -1}, nil
	default:
		return Size{}, errs.Newf(errs.InvalidValue, "unknown encoding %d", t.PrimEncoding)
	}
}

func sizeOfUnion(p PlatformContext, s *Schema, t SchemaType) (Size, error) {
	minCase := -1
	maxCase := 0
	unbounded := false
	for _, c := range t.Cases {
		sz, err := SizeOf(p, s, c.Type)
		if err != nil {
			return Size{}, err
		}
		if minCase == -1 || sz.Min < minCase {
			minCase = sz.Min
		}
		if sz.Max == -1 {
			unbounded = true
		} else if sz.Max > maxCase {
			maxCase = sz.Max
		}
	}
	if minCase == -1 {
		minCase = 0
	}
	if unbounded {
		return Size{1 + minCase, -1}, nil
	}
	return Size{1 + minCase, maxVarintWidth + maxCase}, nil
}

func sizeOfStruct(p PlatformContext, s *Schema, t SchemaType) (Size, error) {
	minCursor, maxCursor := 0, 0
	align := 1
	maxUnbounded := false
	for _, f := range t.Fields {
		fa, err := AlignOf(p, s, f.Type)
		if err != nil {
			return Size{}, err
		}
		fsz, err := SizeOf(p, s, f.Type)
		if err != nil {
			return Size{}, err
		}
		if fa > align {
			align = fa
		}
		minCursor = alignUp(minCursor, fa) + fsz.Min
		if !maxUnbounded {
			if fsz.Max == -1 {
				maxUnbounded = true
			} else {
				maxCursor = alignUp(maxCursor, fa) + fsz.Max
			}
		}
	}
	minTotal := alignUp(minCursor, align)
	if maxUnbounded {
		return Size{minTotal, -1}, nil
	}
	return Size{minTotal, alignUp(maxCursor, align)}, nil
}

// AlignOf computes t's natural alignment under platform p within schema
// s, recursively.
func AlignOf(p PlatformContext, s *Schema, t SchemaType) (int, error) {
	switch t.Kind {
	case KPrimitive:
		if t.PrimKind == KindVoid {
			return 1, nil
		}
		return p.Align(t.PrimKind), nil
	case KFixedData:
		return 1, nil
	case KEnum:
		return p.Align(t.EnumBase), nil
	case KOptional:
		inner, err := AlignOf(p, s, *t.Elem)
		if err != nil {
			return 0, err
		}
		return max(1, inner), nil
	case KList, KFixedList:
		return AlignOf(p, s, *t.Elem)
	case KMap:
		ka, err := AlignOf(p, s, *t.Key)
		if err != nil {
			return 0, err
		}
		va, err := AlignOf(p, s, *t.Value)
		if err != nil {
			return 0, err
		}
		return max(ka, va), nil
	case KUnion:
		align := 1
		for _, c := range t.Cases {
			a, err := AlignOf(p, s, c.Type)
			if err != nil {
				return 0, err
			}
			if a > align {
				align = a
			}
		}
		return align, nil
	case KStruct:
		align := 1
		for _, f := range t.Fields {
			a, err := AlignOf(p, s, f.Type)
			if err != nil {
				return 0, err
			}
			if a > align {
				align = a
			}
		}
		return align, nil
	case KTypeRef:
		resolved, ok := s.Types[t.RefName]
		if !ok {
			return 0, errs.Newf(errs.InvalidValue, "undefined type: %s", t.RefName)
		}
		return AlignOf(p, s, resolved)
	default:
		return 0, errs.Newf(errs.InvalidValue, "unknown schema type kind %d", t.Kind)
	}
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

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
