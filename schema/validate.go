package schema

import (
	"fmt"
	"sort"

	"github.com/rawbytedev/barewire/errs"
)

// PathKind identifies the position of a breadcrumb in a validation path.
type PathKind int

const (
	TypeRootBreadcrumb PathKind = iota
	StructFieldBreadcrumb
	UnionCaseBreadcrumb
	OptionalValueBreadcrumb
	ListItemBreadcrumb
	MapKeyBreadcrumb
	MapValueBreadcrumb
)

// PathElem is one breadcrumb of a validation path.
type PathElem struct {
	Kind PathKind
	Name string // set for StructFieldBreadcrumb
}

// Path is a walk context used to describe where a violation occurred.
type Path []PathElem

func (p Path) String() string {
	s := ""
	for i, e := range p {
		if i > 0 {
			s += "."
		}
		switch e.Kind {
		case TypeRootBreadcrumb:
			s += e.Name
		case StructFieldBreadcrumb:
			s += "field(" + e.Name + ")"
		case UnionCaseBreadcrumb:
			s += "case"
		case OptionalValueBreadcrumb:
			s += "optional"
		case ListItemBreadcrumb:
			s += "item"
		case MapKeyBreadcrumb:
			s += "key"
		case MapValueBreadcrumb:
			s += "value"
		}
	}
	return s
}

func (p Path) push(e PathElem) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, e)
}

// Validate checks s against every structural invariant and returns
// either the schema itself (unchanged, now safe to analyze/encode) or a
// single batched error wrapping every violation found. The validator
// never fails fast: all errors are collected before returning.
func Validate(s *Schema) (*Schema, error) {
	var violations []error

	if _, ok := s.RootType(); !ok {
		violations = append(violations, errs.Newf(errs.SchemaValidation, "undefined root type: %s", s.Root))
	}

	violations = append(violations, detectCycles(s)...)
	violations = append(violations, checkInvariants(s)...)

	if len(violations) > 0 {
		return nil, errs.Validation(violations)
	}
	return s, nil
}

// detectCycles performs a DFS from every defined type name through
// TypeRef edges, keeping a per-walk path set. A name already on the
// current path is a cycle; a name absent from the type map is undefined.
// Completed subtrees are memoized as visited to avoid re-walking shared
// structure, following the visited-map DFS idiom used for type-chain
// walks elsewhere in the ecosystem.
func detectCycles(s *Schema) []error {
	var out []error
	visited := make(map[string]bool)

	// Deterministic order so error output doesn't depend on map iteration.
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] {
			walkCycle(s, name, make(map[string]bool), visited, &out)
		}
	}
	return out
}

func walkCycle(s *Schema, name string, path map[string]bool, visited map[string]bool, out *[]error) {
	if visited[name] {
		return
	}
	if path[name] {
		*out = append(*out, errs.Newf(errs.SchemaValidation, "cyclic type reference: %s", name))
		return
	}
	t, ok := s.Types[name]
	if !ok {
		*out = append(*out, errs.Newf(errs.SchemaValidation, "undefined type: %s", name))
		return
	}
	path[name] = true
	walkRefs(s, t, path, visited, out)
	delete(path, name)
	visited[name] = true
}

func walkRefs(s *Schema, t SchemaType, path map[string]bool, visited map[string]bool, out *[]error) {
	switch t.Kind {
	case KTypeRef:
		walkCycle(s, t.RefName, path, visited, out)
	case KOptional, KList, KFixedList:
		walkRefs(s, *t.Elem, path, visited, out)
	case KMap:
		walkRefs(s, *t.Key, path, visited, out)
		walkRefs(s, *t.Value, path, visited, out)
	case KUnion:
		for _, c := range t.Cases {
			walkRefs(s, c.Type, path, visited, out)
		}
	case KStruct:
		for _, f := range t.Fields {
			walkRefs(s, f.Type, path, visited, out)
		}
	}
}

// checkInvariants walks every defined type's structure emitting
// breadcrumb-tagged violations. A recursion guard
// (separate from the cycle detector) prevents infinite descent through a
// cyclic schema; cycle errors are already reported by detectCycles.
func checkInvariants(s *Schema) []error {
	var out []error
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := s.Types[name]
		path := Path{{Kind: TypeRootBreadcrumb, Name: name}}
		walkInvariant(s, t, path, false, make(map[string]bool), &out)
	}
	return out
}

func walkInvariant(s *Schema, t SchemaType, path Path, underUnion bool, guard map[string]bool, out *[]error) {
	switch t.Kind {
	case KPrimitive:
		if t.PrimKind == KindVoid && !underUnion {
			*out = append(*out, errs.Newf(errs.SchemaValidation, "InvalidVoidUsage(%s)", path))
		}
	case KFixedData:
		if t.FixedLen <= 0 {
			*out = append(*out, errs.Newf(errs.SchemaValidation, "InvalidFixedLength(%d, %s)", t.FixedLen, path))
		}
	case KEnum:
		if len(t.EnumValues) == 0 {
			*out = append(*out, errs.Newf(errs.SchemaValidation, "EmptyEnum(%s)", path))
		}
	case KOptional:
		walkInvariant(s, *t.Elem, path.push(PathElem{Kind: OptionalValueBreadcrumb}), false, guard, out)
	case KList:
		walkInvariant(s, *t.Elem, path.push(PathElem{Kind: ListItemBreadcrumb}), false, guard, out)
	case KFixedList:
		if t.FixedLen <= 0 {
			*out = append(*out, errs.Newf(errs.SchemaValidation, "InvalidFixedLength(%d, %s)", t.FixedLen, path))
		}
		walkInvariant(s, *t.Elem, path.push(PathElem{Kind: ListItemBreadcrumb}), false, guard, out)
	case KMap:
		if !validMapKey(*t.Key) {
			*out = append(*out, errs.Newf(errs.SchemaValidation, "InvalidMapKeyType(%s)", describeKey(*t.Key)))
		}
		walkInvariant(s, *t.Key, path.push(PathElem{Kind: MapKeyBreadcrumb}), false, guard, out)
		walkInvariant(s, *t.Value, path.push(PathElem{Kind: MapValueBreadcrumb}), false, guard, out)
	case KUnion:
		if len(t.Cases) == 0 {
			*out = append(*out, errs.Newf(errs.SchemaValidation, "EmptyUnion(%s)", path))
		}
		seenTags := make(map[uint32]bool, len(t.Cases))
		for _, c := range t.Cases {
			if seenTags[c.Tag] {
				*out = append(*out, errs.Newf(errs.SchemaValidation, "duplicate union tag %d at %s", c.Tag, path))
			}
			seenTags[c.Tag] = true
			walkInvariant(s, c.Type, path.push(PathElem{Kind: UnionCaseBreadcrumb}), true, guard, out)
		}
	case KStruct:
		if len(t.Fields) == 0 {
			*out = append(*out, errs.Newf(errs.SchemaValidation, "EmptyStruct(%s)", path))
		}
		for _, f := range t.Fields {
			walkInvariant(s, f.Type, path.push(PathElem{Kind: StructFieldBreadcrumb, Name: f.Name}), false, guard, out)
		}
	case KTypeRef:
		if guard[t.RefName] {
			return
		}
		resolved, ok := s.Types[t.RefName]
		if !ok {
			return // already reported by detectCycles
		}
		guard[t.RefName] = true
		walkInvariant(s, resolved, path, underUnion, guard, out)
		delete(guard, t.RefName)
	}
}

// validMapKey reports whether a type may key a map: it must be a
// non-floating, non-void, non-FixedData primitive type.
func validMapKey(t SchemaType) bool {
	if t.Kind != KPrimitive {
		return false
	}
	switch t.PrimKind {
	case KindF32, KindF64, KindVoid:
		return false
	default:
		return true
	}
}

func describeKey(t SchemaType) string {
	if t.Kind == KPrimitive {
		return fmt.Sprintf("primitive(%s)", t.PrimKind)
	}
	return fmt.Sprintf("kind(%d)", t.Kind)
}
