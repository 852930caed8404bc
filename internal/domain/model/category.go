package model

import (
	"fmt"
	"strings"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
)

// PartCategory identifies one of the fixed component catalogues. The value is
// the catalogue table name and is what builds and order items store as part type.
type PartCategory string

const (
	CategoryCase        PartCategory = "cases_detailed"
	CategoryCPU         PartCategory = "cpus_detailed"
	CategoryGPU         PartCategory = "gpus_detailed"
	CategoryMotherboard PartCategory = "motherboards_detailed"
	CategoryMemory      PartCategory = "memory_detailed"
	CategoryStorage     PartCategory = "storage_detailed"
	CategoryPowerSupply PartCategory = "power_supplies_detailed"
	CategoryCPUCooler   PartCategory = "cpu_coolers_detailed"
)

// CategoryInfo describes a catalogue for pickers and query construction.
type CategoryInfo struct {
	Category    PartCategory `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ProductType string       `json:"productType"`
	SpecColumns []string     `json:"-"`
}

var categoryInfos = []CategoryInfo{
	{
		Category:    CategoryCase,
		Name:        "PC Cases",
		Description: "Browse computer cases and enclosures",
		ProductType: "Case",
		SpecColumns: []string{"type", "color", "power_supply", "side_panel", "motherboard_form_factor", "maximum_video_card_length", "drive_bays", "dimensions"},
	},
	{
		Category:    CategoryCPU,
		Name:        "CPUs",
		Description: "Browse processors and CPUs",
		ProductType: "Cpu",
		SpecColumns: []string{"series", "microarchitecture", "core_family", "socket", "core_count", "performance_core_clock", "performance_core_boost_clock", "tdp", "integrated_graphics"},
	},
	{
		Category:    CategoryGPU,
		Name:        "GPUs",
		Description: "Browse graphics cards and GPUs",
		ProductType: "Gpu",
		SpecColumns: []string{"chipset", "memory", "memory_type", "core_clock", "boost_clock", "length", "tdp"},
	},
	{
		Category:    CategoryMotherboard,
		Name:        "Motherboards",
		Description: "Browse motherboards and mainboards",
		ProductType: "Motherboard",
		SpecColumns: []string{"socket_over_cpu", "form_factor", "chipset", "memory_max", "memory_type", "memory_slots"},
	},
	{
		Category:    CategoryMemory,
		Name:        "Memory",
		Description: "Browse system memory and RAM",
		ProductType: "Memory",
		SpecColumns: []string{"speed", "form_factor", "modules", "timing", "voltage", "cas_latency"},
	},
	{
		Category:    CategoryStorage,
		Name:        "Storage",
		Description: "Browse hard drives and SSDs",
		ProductType: "Storage",
		SpecColumns: []string{"capacity", "type", "cache", "form_factor", "interface", "nvme"},
	},
	{
		Category:    CategoryPowerSupply,
		Name:        "Power Supplies",
		Description: "Browse power supply units",
		ProductType: "PowerSupply",
		SpecColumns: []string{"type", "efficiency_rating", "wattage", "modular"},
	},
	{
		Category:    CategoryCPUCooler,
		Name:        "CPU Coolers",
		Description: "Browse CPU cooling solutions",
		ProductType: "CpuCooler",
		SpecColumns: []string{"fan_rpm", "noise_level", "height", "cpu_socket", "water_cooled"},
	},
}

// AllCategories returns the closed category set in display order.
func AllCategories() []PartCategory {
	out := make([]PartCategory, 0, len(categoryInfos))
	for _, info := range categoryInfos {
		out = append(out, info.Category)
	}
	return out
}

// Categories returns descriptors for every category.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryInfos))
	copy(out, categoryInfos)
	return out
}

// Info returns the descriptor of a category.
func (c PartCategory) Info() (CategoryInfo, error) {
	for _, info := range categoryInfos {
		if info.Category == c {
			return info, nil
		}
	}
	return CategoryInfo{}, fmt.Errorf("%w: %q", domainErrors.ErrUnknownCategory, string(c))
}

// Valid reports whether c belongs to the closed set.
func (c PartCategory) Valid() bool {
	_, err := c.Info()
	return err == nil
}

// Table returns the catalogue table name.
func (c PartCategory) Table() string {
	return string(c)
}

// ParseCategory resolves a table name or product type (case-insensitive).
func ParseCategory(raw string) (PartCategory, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimSuffix(value, "_id")
	for _, info := range categoryInfos {
		if value == string(info.Category) || strings.EqualFold(value, info.ProductType) {
			return info.Category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domainErrors.ErrUnknownCategory, raw)
}
