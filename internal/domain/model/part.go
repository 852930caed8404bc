package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartSummary holds the fields shared by every catalogue.
type PartSummary struct {
	ID           uuid.UUID       `json:"id"`
	Category     PartCategory    `json:"category"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"imageUrl"`
	Price        decimal.Decimal `json:"price"`
	Manufacturer string          `json:"manufacturer"`
}

// Part is a catalogue entry with its category specific specification.
type Part struct {
	PartSummary
	ProductURL string    `json:"productUrl"`
	PartNumber string    `json:"part"`
	Specs      PartSpecs `json:"specs"`
}

// PartSpecs is implemented by exactly one struct per category.
type PartSpecs interface {
	Category() PartCategory
}

type CaseSpecs struct {
	Type                   string `json:"type"`
	Color                  string `json:"color"`
	PowerSupply            string `json:"powerSupply"`
	SidePanel              string `json:"sidePanel"`
	MotherboardFormFactor  string `json:"motherboardFormFactor"`
	MaximumVideoCardLength string `json:"maximumVideoCardLength"`
	DriveBays              string `json:"driveBays"`
	Dimensions             string `json:"dimensions"`
}

type CPUSpecs struct {
	Series                    string `json:"series"`
	Microarchitecture         string `json:"microarchitecture"`
	CoreFamily                string `json:"coreFamily"`
	Socket                    string `json:"socket"`
	CoreCount                 int    `json:"coreCount"`
	PerformanceCoreClock      string `json:"performanceCoreClock"`
	PerformanceCoreBoostClock string `json:"performanceCoreBoostClock"`
	TDP                       string `json:"tdp"`
	IntegratedGraphics        string `json:"integratedGraphics"`
}

type GPUSpecs struct {
	Chipset    string `json:"chipset"`
	Memory     string `json:"memory"`
	MemoryType string `json:"memoryType"`
	CoreClock  string `json:"coreClock"`
	BoostClock string `json:"boostClock"`
	Length     string `json:"length"`
	TDP        string `json:"tdp"`
}

type MotherboardSpecs struct {
	Socket      string `json:"socket"`
	FormFactor  string `json:"formFactor"`
	Chipset     string `json:"chipset"`
	MemoryMax   string `json:"memoryMax"`
	MemoryType  string `json:"memoryType"`
	MemorySlots int    `json:"memorySlots"`
}

type MemorySpecs struct {
	Speed      string `json:"speed"`
	FormFactor string `json:"formFactor"`
	Modules    string `json:"modules"`
	Timing     string `json:"timing"`
	Voltage    string `json:"voltage"`
	CASLatency int    `json:"casLatency"`
}

type StorageSpecs struct {
	Capacity   string `json:"capacity"`
	Type       string `json:"type"`
	Cache      string `json:"cache"`
	FormFactor string `json:"formFactor"`
	Interface  string `json:"interface"`
	NVMe       string `json:"nvme"`
}

type PowerSupplySpecs struct {
	Type             string `json:"type"`
	EfficiencyRating string `json:"efficiencyRating"`
	Wattage          string `json:"wattage"`
	Modular          string `json:"modular"`
}

type CPUCoolerSpecs struct {
	FanRPM      string `json:"fanRpm"`
	NoiseLevel  string `json:"noiseLevel"`
	Height      string `json:"height"`
	CPUSocket   string `json:"cpuSocket"`
	WaterCooled string `json:"waterCooled"`
}

func (CaseSpecs) Category() PartCategory        { return CategoryCase }
func (CPUSpecs) Category() PartCategory         { return CategoryCPU }
func (GPUSpecs) Category() PartCategory         { return CategoryGPU }
func (MotherboardSpecs) Category() PartCategory { return CategoryMotherboard }
func (MemorySpecs) Category() PartCategory      { return CategoryMemory }
func (StorageSpecs) Category() PartCategory     { return CategoryStorage }
func (PowerSupplySpecs) Category() PartCategory { return CategoryPowerSupply }
func (CPUCoolerSpecs) Category() PartCategory   { return CategoryCPUCooler }

// DecodeSpecs builds the category specific specs from column values ordered as
// CategoryInfo.SpecColumns.
func DecodeSpecs(c PartCategory, v []string) (PartSpecs, error) {
	info, err := c.Info()
	if err != nil {
		return nil, err
	}
	if len(v) != len(info.SpecColumns) {
		return nil, fmt.Errorf("decode %s specs: expected %d values, got %d", c, len(info.SpecColumns), len(v))
	}

	switch c {
	case CategoryCase:
		return CaseSpecs{Type: v[0], Color: v[1], PowerSupply: v[2], SidePanel: v[3], MotherboardFormFactor: v[4], MaximumVideoCardLength: v[5], DriveBays: v[6], Dimensions: v[7]}, nil
	case CategoryCPU:
		return CPUSpecs{Series: v[0], Microarchitecture: v[1], CoreFamily: v[2], Socket: v[3], CoreCount: atoi(v[4]), PerformanceCoreClock: v[5], PerformanceCoreBoostClock: v[6], TDP: v[7], IntegratedGraphics: v[8]}, nil
	case CategoryGPU:
		return GPUSpecs{Chipset: v[0], Memory: v[1], MemoryType: v[2], CoreClock: v[3], BoostClock: v[4], Length: v[5], TDP: v[6]}, nil
	case CategoryMotherboard:
		return MotherboardSpecs{Socket: v[0], FormFactor: v[1], Chipset: v[2], MemoryMax: v[3], MemoryType: v[4], MemorySlots: atoi(v[5])}, nil
	case CategoryMemory:
		return MemorySpecs{Speed: v[0], FormFactor: v[1], Modules: v[2], Timing: v[3], Voltage: v[4], CASLatency: atoi(v[5])}, nil
	case CategoryStorage:
		return StorageSpecs{Capacity: v[0], Type: v[1], Cache: v[2], FormFactor: v[3], Interface: v[4], NVMe: v[5]}, nil
	case CategoryPowerSupply:
		return PowerSupplySpecs{Type: v[0], EfficiencyRating: v[1], Wattage: v[2], Modular: v[3]}, nil
	default:
		return CPUCoolerSpecs{FanRPM: v[0], NoiseLevel: v[1], Height: v[2], CPUSocket: v[3], WaterCooled: v[4]}, nil
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ParsePrice reads a catalogue price; empty prices are zero.
func ParsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
