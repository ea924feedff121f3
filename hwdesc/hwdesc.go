// Package hwdesc defines the hardware peripheral descriptor data contract
// consumed by external code generators: register layouts, bit fields,
// access kinds, and memory-region classification. The package carries data
// shapes only -- no generator lives here. Descriptor sets are authored as
// YAML files and loaded with Load; layouts can also be derived from a
// validated schema through the view package's offset computation.
package hwdesc

import (
	"fmt"
	"sort"

	"github.com/rawbytedev/barewire/schema"
	"github.com/rawbytedev/barewire/view"
	"gopkg.in/yaml.v3"
)

// AccessKind is a register or bit field's permitted access.
type AccessKind int

const (
	ReadOnly AccessKind = iota
	WriteOnly
	ReadWrite
)

func (a AccessKind) String() string {
	switch a {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

// MarshalYAML writes the kind as its string form.
func (a AccessKind) MarshalYAML() (any, error) { return a.String(), nil }

// UnmarshalYAML accepts the string forms emitted by MarshalYAML.
func (a *AccessKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "read-only":
		*a = ReadOnly
	case "write-only":
		*a = WriteOnly
	case "read-write":
		*a = ReadWrite
	default:
		return fmt.Errorf("unknown access kind: %q", s)
	}
	return nil
}

// BitFieldDescriptor names a contiguous bit range within a register.
type BitFieldDescriptor struct {
	Name     string     `yaml:"name"`
	Position int        `yaml:"position"`
	Width    int        `yaml:"width"`
	Access   AccessKind `yaml:"access"`
}

// FieldDescriptor is one register of a peripheral layout.
type FieldDescriptor struct {
	Name          string               `yaml:"name"`
	Offset        int                  `yaml:"offset"`
	Type          string               `yaml:"type"`
	Access        AccessKind           `yaml:"access"`
	BitFields     []BitFieldDescriptor `yaml:"bitFields,omitempty"`
	Documentation string               `yaml:"documentation,omitempty"`
}

// PeripheralLayout is the sized register map of one peripheral.
type PeripheralLayout struct {
	Size      int               `yaml:"size"`
	Alignment int               `yaml:"alignment"`
	Fields    []FieldDescriptor `yaml:"fields"`
}

// Instance is one placement of a peripheral in the address space.
type Instance struct {
	Name        string `yaml:"name"`
	BaseAddress uint64 `yaml:"baseAddress"`
}

// PeripheralDescriptor is the complete description of one peripheral kind
// and its instances.
type PeripheralDescriptor struct {
	Name         string           `yaml:"name"`
	Instances    []Instance       `yaml:"instances"`
	Layout       PeripheralLayout `yaml:"layout"`
	MemoryRegion MemoryRegionKind `yaml:"memoryRegion"`
}

// Load parses one peripheral descriptor from YAML.
func Load(data []byte) (*PeripheralDescriptor, error) {
	var d PeripheralDescriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Dump serializes a descriptor back to YAML.
func Dump(d *PeripheralDescriptor) ([]byte, error) {
	return yaml.Marshal(d)
}

// LayoutFrom converts a computed view layout into a peripheral layout:
// every addressable field becomes a register descriptor with the same
// offset, carrying the given access kind. Fields are emitted in offset
// order; nested struct containers are skipped in favor of their leaves.
func LayoutFrom(l *view.Layout, access AccessKind) PeripheralLayout {
	fields := make([]FieldDescriptor, 0, len(l.Fields))
	for path, f := range l.Fields {
		if hasNestedFields(l, path) {
			continue
		}
		fields = append(fields, FieldDescriptor{
			Name:   path,
			Offset: f.Offset,
			Type:   typeName(f),
			Access: access,
		})
	}
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Offset != fields[j].Offset {
			return fields[i].Offset < fields[j].Offset
		}
		return fields[i].Name < fields[j].Name
	})
	return PeripheralLayout{Size: l.Size, Alignment: l.Align, Fields: fields}
}

func hasNestedFields(l *view.Layout, path string) bool {
	prefix := path + "."
	for other := range l.Fields {
		if len(other) > len(prefix) && other[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func typeName(f view.FieldOffset) string {
	switch f.Type.Kind {
	case schema.KPrimitive:
		return f.Type.PrimKind.String()
	case schema.KEnum:
		return "enum:" + f.Type.EnumBase.String()
	case schema.KFixedData:
		return fmt.Sprintf("data[%d]", f.Type.FixedLen)
	default:
		return "opaque"
	}
}
