package lens

import (
	"fmt"
	"strings"
)

// Type identifies the optical design family of a lens.
type Type string

const (
	TypeSingleVision Type = "single_vision"
	TypeProgressive  Type = "progressive"
	TypeOccupational Type = "occupational"
)

// Material identifies the lens substrate.
type Material string

const (
	MaterialCR39        Material = "cr39"
	MaterialPolycarb    Material = "polycarbonate"
	MaterialTrivex      Material = "trivex"
	MaterialHiIndex160  Material = "hi_index_160"
	MaterialHiIndex167  Material = "hi_index_167"
	MaterialUnspecified Material = "unspecified"
)

// Coating identifies the treatment applied to the lens surface.
type Coating string

const (
	CoatingNone         Coating = "none"
	CoatingHardCoat     Coating = "hard_coat"
	CoatingAntiReflect  Coating = "anti_reflective"
	CoatingBlueFilter   Coating = "blue_filter"
	CoatingPhotochromic Coating = "photochromic"
	CoatingPolarized    Coating = "polarized"
)

// Category groups lens types for statistics lookups. A prescription with an
// add power maps to the multifocal category, everything else to single vision.
type Category string

const (
	CategorySingleVision Category = "single_vision"
	CategoryMultifocal   Category = "multifocal"
)

// Types returns the lens types belonging to the category.
func (c Category) Types() []Type {
	switch c {
	case CategoryMultifocal:
		return []Type{TypeProgressive, TypeOccupational}
	default:
		return []Type{TypeSingleVision}
	}
}

// Contains reports whether the lens type belongs to the category.
func (c Category) Contains(t Type) bool {
	for _, ct := range c.Types() {
		if ct == t {
			return true
		}
	}
	return false
}

// Configuration is a concrete (type, material, coating) triple.
type Configuration struct {
	Type     Type     `json:"lensType"`
	Material Material `json:"lensMaterial"`
	Coating  Coating  `json:"coating"`
}

// Key returns the canonical storage key for the configuration.
func (c Configuration) Key() string {
	return strings.Join([]string{string(c.Type), string(c.Material), string(c.Coating)}, "|")
}

// ParseKey parses a canonical configuration key.
func ParseKey(key string) (Configuration, error) {
	parts := strings.Split(strings.TrimSpace(key), "|")
	if len(parts) != 3 {
		return Configuration{}, fmt.Errorf("invalid configuration key: %q", key)
	}
	cfg := Configuration{
		Type:     Type(parts[0]),
		Material: Material(parts[1]),
		Coating:  Coating(parts[2]),
	}
	if !validType(cfg.Type) || !validMaterial(cfg.Material) || !validCoating(cfg.Coating) {
		return Configuration{}, fmt.Errorf("invalid configuration key: %q", key)
	}
	return cfg, nil
}

// Describe renders the configuration for user-facing text.
func (c Configuration) Describe() string {
	return fmt.Sprintf("%s %s lens with %s finish",
		humanize(string(c.Material)), humanize(string(c.Type)), humanize(string(c.Coating)))
}

// WrapTolerant reports whether the material is suitable for high-wrap frames.
func (m Material) WrapTolerant() bool {
	return m == MaterialPolycarb || m == MaterialTrivex
}

// HighIndex reports whether the material is a thin high-index substrate.
func (m Material) HighIndex() bool {
	return m == MaterialHiIndex160 || m == MaterialHiIndex167
}

func validType(t Type) bool {
	switch t {
	case TypeSingleVision, TypeProgressive, TypeOccupational:
		return true
	}
	return false
}

func validMaterial(m Material) bool {
	switch m {
	case MaterialCR39, MaterialPolycarb, MaterialTrivex, MaterialHiIndex160, MaterialHiIndex167, MaterialUnspecified:
		return true
	}
	return false
}

func validCoating(c Coating) bool {
	switch c {
	case CoatingNone, CoatingHardCoat, CoatingAntiReflect, CoatingBlueFilter, CoatingPhotochromic, CoatingPolarized:
		return true
	}
	return false
}

func humanize(raw string) string {
	return strings.ReplaceAll(raw, "_", " ")
}
