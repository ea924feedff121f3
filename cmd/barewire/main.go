// Command barewire is a small inspection tool over the library: it loads a
// peripheral descriptor, reports a derived layout, or unframes a
// wire-encoded payload from disk.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rawbytedev/barewire/errs"
	"github.com/rawbytedev/barewire/frame"
	"github.com/rawbytedev/barewire/hwdesc"
	"github.com/rawbytedev/barewire/schema"
	"github.com/rawbytedev/barewire/view"
)

func main() {
	descPath := flag.String("desc", "", "print a peripheral descriptor YAML file with region classifiers")
	framePath := flag.String("unframe", "", "verify and unwrap a frame file, hex-dumping the payload")
	demo := flag.Bool("demo", false, "build, validate and size a sample schema")
	flag.Parse()

	switch {
	case *descPath != "":
		if err := dumpDescriptor(*descPath); err != nil {
			log.Fatal(errs.Render(err))
		}
	case *framePath != "":
		if err := unframe(*framePath); err != nil {
			log.Fatal(errs.Render(err))
		}
	case *demo:
		if err := runDemo(); err != nil {
			log.Fatal(errs.Render(err))
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func dumpDescriptor(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	d, err := hwdesc.Load(data)
	if err != nil {
		return err
	}
	fmt.Printf("%s (region %s: volatile=%v cacheable=%v executable=%v)\n",
		d.Name, d.MemoryRegion, d.MemoryRegion.Volatile(), d.MemoryRegion.Cacheable(), d.MemoryRegion.Executable())
	for _, inst := range d.Instances {
		fmt.Printf("  %s @ 0x%08X\n", inst.Name, inst.BaseAddress)
	}
	fmt.Printf("  layout: %d bytes, align %d\n", d.Layout.Size, d.Layout.Alignment)
	for _, f := range d.Layout.Fields {
		fmt.Printf("    +0x%04X %-12s %-8s %s\n", f.Offset, f.Name, f.Type, f.Access)
		for _, b := range f.BitFields {
			fmt.Printf("             [%d:%d] %-10s %s\n", b.Position+b.Width-1, b.Position, b.Name, b.Access)
		}
	}
	return nil
}

func unframe(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	msg, err := frame.Decode(data)
	if err != nil {
		return err
	}
	fmt.Printf("flags=0x%04X payload=%d bytes offsets=%v\n", uint16(msg.Flags), len(msg.Payload), msg.Offsets)
	fmt.Print(hex.Dump(msg.Payload))
	return nil
}

func runDemo() error {
	s := schema.New().
		Define("Reading", schema.Struct(
			schema.StructField{Name: "sensor", Type: schema.Primitive(schema.KindU16, schema.Fixed)},
			schema.StructField{Name: "value", Type: schema.Primitive(schema.KindF64, schema.Fixed)},
			schema.StructField{Name: "ok", Type: schema.Primitive(schema.KindBool, schema.Fixed)},
		)).
		SetRoot("Reading")
	if _, err := schema.Validate(s); err != nil {
		return err
	}

	p := schema.Native64()
	root, _ := s.RootType()
	sz, err := schema.SizeOf(p, s, root)
	if err != nil {
		return err
	}
	al, err := schema.AlignOf(p, s, root)
	if err != nil {
		return err
	}
	fmt.Printf("Reading: wire size min=%d max=%d fixed=%v, align=%d\n", sz.Min, sz.Max, sz.IsFixed(), al)

	l, err := view.BuildOffsets(p, s)
	if err != nil {
		return err
	}
	layout := hwdesc.LayoutFrom(l, hwdesc.ReadWrite)
	fmt.Printf("view layout: %d bytes, align %d\n", layout.Size, layout.Alignment)
	for _, f := range layout.Fields {
		fmt.Printf("  +0x%04X %-8s %s\n", f.Offset, f.Name, f.Type)
	}
	return nil
}
