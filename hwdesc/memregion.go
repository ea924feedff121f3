package hwdesc

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MemoryRegionKind classifies which kind of address space a peripheral's
// registers live in. The derived properties come from a fixed table: the
// classification is part of the data contract, not a per-target tunable.
type MemoryRegionKind int

const (
	Flash MemoryRegionKind = iota
	SRAM
	Peripheral
	SystemControl
	DMA
	CCM
)

func (k MemoryRegionKind) String() string {
	switch k {
	case Flash:
		return "flash"
	case SRAM:
		return "sram"
	case Peripheral:
		return "peripheral"
	case SystemControl:
		return "system-control"
	case DMA:
		return "dma"
	case CCM:
		return "ccm"
	default:
		return "unknown"
	}
}

// Volatile reports whether reads from the region may observe values not
// written by the program, so accesses must not be cached or elided.
func (k MemoryRegionKind) Volatile() bool {
	switch k {
	case Peripheral, SystemControl, DMA:
		return true
	default:
		return false
	}
}

// Cacheable reports whether the region tolerates processor caching.
func (k MemoryRegionKind) Cacheable() bool {
	switch k {
	case Flash, SRAM:
		return true
	default:
		return false
	}
}

// Executable reports whether code may run from the region.
func (k MemoryRegionKind) Executable() bool {
	switch k {
	case Flash, SRAM, CCM:
		return true
	default:
		return false
	}
}

// MarshalYAML writes the kind as its string form.
func (k MemoryRegionKind) MarshalYAML() (any, error) { return k.String(), nil }

// UnmarshalYAML accepts the string forms emitted by MarshalYAML.
func (k *MemoryRegionKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "flash":
		*k = Flash
	case "sram":
		*k = SRAM
	case "peripheral":
		*k = Peripheral
	case "system-control":
		*k = SystemControl
	case "dma":
		*k = DMA
	case "ccm":
		*k = CCM
	default:
		return fmt.Errorf("unknown memory region kind: %q", s)
	}
	return nil
}
