package schema

// Compatibility classifies how two schema versions relate to each other.
type Compatibility int

const (
	FullyCompatible Compatibility = iota
	BackwardCompatible
	ForwardCompatible
	Incompatible
)

func (c Compatibility) String() string {
	switch c {
	case FullyCompatible:
		return "FullyCompatible"
	case BackwardCompatible:
		return "BackwardCompatible"
	case ForwardCompatible:
		return "ForwardCompatible"
	default:
		return "Incompatible"
	}
}

// CompatResult is the outcome of CheckCompatibility: a classification
// plus, for Incompatible, a human-readable reason.
type CompatResult struct {
	Class  Compatibility
	Reason string
}

// CheckCompatibility classifies the relationship between the roots of
// oldSchema and newSchema. The classifier never attempts field renaming,
// reordering, or case renumbering -- only identical field prefixes and
// union case subsets are recognized.
func CheckCompatibility(oldSchema, newSchema *Schema) CompatResult {
	oldRoot, ok := oldSchema.RootType()
	if !ok {
		return CompatResult{Incompatible, "old schema root is undefined"}
	}
	newRoot, ok := newSchema.RootType()
	if !ok {
		return CompatResult{Incompatible, "new schema root is undefined"}
	}

	switch {
	case oldRoot.Kind == KStruct && newRoot.Kind == KStruct:
		return compareStructs(oldSchema, oldRoot, newSchema, newRoot)
	case oldRoot.Kind == KUnion && newRoot.Kind == KUnion:
		return compareUnions(oldSchema, oldRoot, newSchema, newRoot)
	default:
		if structurallyCompatible(oldSchema, oldRoot, newSchema, newRoot) {
			return CompatResult{Class: FullyCompatible}
		}
		return CompatResult{Incompatible, "Root types are different"}
	}
}

func compareStructs(oldS *Schema, a SchemaType, newS *Schema, b SchemaType) CompatResult {
	n := len(a.Fields)
	if len(b.Fields) < n {
		n = len(b.Fields)
	}
	for i := 0; i < n; i++ {
		if a.Fields[i].Name != b.Fields[i].Name {
			return CompatResult{Incompatible, "Incompatible struct types"}
		}
		if !structurallyCompatible(oldS, a.Fields[i].Type, newS, b.Fields[i].Type) {
			return CompatResult{Incompatible, "Incompatible struct types"}
		}
	}
	switch {
	case len(a.Fields) == len(b.Fields):
		return CompatResult{Class: FullyCompatible}
	case len(b.Fields) > len(a.Fields):
		return CompatResult{Class: BackwardCompatible}
	default:
		return CompatResult{Incompatible, "Incompatible struct types"}
	}
}

func compareUnions(oldS *Schema, a SchemaType, newS *Schema, b SchemaType) CompatResult {
	oldToNew := unionSubsetCompatible(oldS, a, newS, b)
	newToOld := unionSubsetCompatible(newS, b, oldS, a)
	switch {
	case oldToNew && newToOld:
		return CompatResult{Class: FullyCompatible}
	case oldToNew:
		return CompatResult{Class: BackwardCompatible}
	case newToOld:
		return CompatResult{Class: ForwardCompatible}
	default:
		return CompatResult{Incompatible, "Incompatible union types"}
	}
}

// unionSubsetCompatible reports whether every case of src exists in dst
// with a compatible payload.
func unionSubsetCompatible(srcS *Schema, src SchemaType, dstS *Schema, dst SchemaType) bool {
	for _, c := range src.Cases {
		dc, ok := findCase(dst, c.Tag)
		if !ok {
			return false
		}
		if !structurallyCompatible(srcS, c.Type, dstS, dc.Type) {
			return false
		}
	}
	return true
}

func findCase(u SchemaType, tag uint32) (UnionCase, bool) {
	for _, c := range u.Cases {
		if c.Tag == tag {
			return c, true
		}
	}
	return UnionCase{}, false
}

// structurallyCompatible recurses through matching constructors. TypeRef
// compares by name -- the names themselves must match, no alpha-renaming.
// Nested struct/union positions require strict structural equality
// (recursively FullyCompatible); only the two schema roots may exhibit
// the asymmetric Backward/Forward relationship.
func structurallyCompatible(oldS *Schema, a SchemaType, newS *Schema, b SchemaType) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KTypeRef:
		return a.RefName == b.RefName
	case KPrimitive:
		return a.PrimKind == b.PrimKind && a.PrimEncoding == b.PrimEncoding
	case KFixedData:
		return a.FixedLen == b.FixedLen
	case KEnum:
		return a.EnumBase == b.EnumBase
	case KOptional, KList:
		return structurallyCompatible(oldS, *a.Elem, newS, *b.Elem)
	case KFixedList:
		return a.FixedLen == b.FixedLen && structurallyCompatible(oldS, *a.Elem, newS, *b.Elem)
	case KMap:
		return structurallyCompatible(oldS, *a.Key, newS, *b.Key) &&
			structurallyCompatible(oldS, *a.Value, newS, *b.Value)
	case KUnion:
		if len(a.Cases) != len(b.Cases) {
			return false
		}
		for _, ca := range a.Cases {
			cb, ok := findCase(b, ca.Tag)
			if !ok || !structurallyCompatible(oldS, ca.Type, newS, cb.Type) {
				return false
			}
		}
		return true
	case KStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name {
				return false
			}
			if !structurallyCompatible(oldS, a.Fields[i].Type, newS, b.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
