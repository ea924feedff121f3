package hwdesc

import (
	"testing"

	"github.com/rawbytedev/barewire/schema"
	"github.com/rawbytedev/barewire/view"
	"github.com/stretchr/testify/require"
)

func TestDescriptorYAMLRoundTrip(t *testing.T) {
	d := &PeripheralDescriptor{
		Name: "UART",
		Instances: []Instance{
			{Name: "UART1", BaseAddress: 0x4001_3800},
			{Name: "UART2", BaseAddress: 0x4000_4400},
		},
		Layout: PeripheralLayout{
			Size:      8,
			Alignment: 4,
			Fields: []FieldDescriptor{
				{
					Name:   "SR",
					Offset: 0,
					Type:   "u32",
					Access: ReadOnly,
					BitFields: []BitFieldDescriptor{
						{Name: "TXE", Position: 7, Width: 1, Access: ReadOnly},
						{Name: "RXNE", Position: 5, Width: 1, Access: ReadWrite},
					},
					Documentation: "status register",
				},
				{Name: "DR", Offset: 4, Type: "u32", Access: ReadWrite},
			},
		},
		MemoryRegion: Peripheral,
	}

	data, err := Dump(d)
	require.NoError(t, err)

	got, err := Load(data)
	require.NoError(t, err)
	require.Equal(t, d, got)
}

func TestLoadRejectsUnknownEnums(t *testing.T) {
	_, err := Load([]byte("name: X\nmemoryRegion: bogus\n"))
	require.Error(t, err)

	_, err = Load([]byte("name: X\nlayout:\n  fields:\n    - name: R\n      access: sometimes\n"))
	require.Error(t, err)
}

func TestMemoryRegionClassifiers(t *testing.T) {
	cases := []struct {
		kind                            MemoryRegionKind
		volatile, cacheable, executable bool
	}{
		{Flash, false, true, true},
		{SRAM, false, true, true},
		{Peripheral, true, false, false},
		{SystemControl, true, false, false},
		{DMA, true, false, false},
		{CCM, false, false, true},
	}
	for _, c := range cases {
		require.Equal(t, c.volatile, c.kind.Volatile(), c.kind)
		require.Equal(t, c.cacheable, c.kind.Cacheable(), c.kind)
		require.Equal(t, c.executable, c.kind.Executable(), c.kind)
	}
}

func TestLayoutFromViewOffsets(t *testing.T) {
	s := schema.New().
		Define("Regs", schema.Struct(
			schema.StructField{Name: "ctrl", Type: schema.Primitive(schema.KindU32, schema.Fixed)},
			schema.StructField{Name: "status", Type: schema.Primitive(schema.KindU8, schema.Fixed)},
			schema.StructField{Name: "count", Type: schema.Primitive(schema.KindU16, schema.Fixed)},
		)).
		SetRoot("Regs")
	l, err := view.BuildOffsets(schema.Native64(), s)
	require.NoError(t, err)

	layout := LayoutFrom(l, ReadWrite)
	require.Equal(t, l.Size, layout.Size)
	require.Equal(t, l.Align, layout.Alignment)
	require.Len(t, layout.Fields, 3)

	// Offset-ordered: ctrl at 0, status at 4, count padded to 6.
	require.Equal(t, "ctrl", layout.Fields[0].Name)
	require.Equal(t, 0, layout.Fields[0].Offset)
	require.Equal(t, "status", layout.Fields[1].Name)
	require.Equal(t, 4, layout.Fields[1].Offset)
	require.Equal(t, "count", layout.Fields[2].Name)
	require.Equal(t, 6, layout.Fields[2].Offset)
	require.Equal(t, "u32", layout.Fields[0].Type)
}
