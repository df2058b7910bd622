package scene

import (
	"fmt"
	"sort"
)

var builtins = map[string]func() *Config{
	"walls":   NewWallsConfig,
	"panel":   NewPanelConfig,
	"spheres": NewSpheresConfig,
}

// BuiltinNames returns the names of the built-in scenes in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a fresh copy of the named built-in scene configuration
func Builtin(name string) (*Config, error) {
	newConfig, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %q", name)
	}
	return newConfig(), nil
}

// NewWallsConfig creates the two-wall scene: a green and a red triangle sharing an edge
// that recedes from the bottom of the view to a vanishing line at the top.
func NewWallsConfig() *Config {
	return &Config{
		Name:    "walls",
		Width:   1200,
		Height:  1200,
		Mapping: "signed",
		Primitives: []PrimitiveCfg{
			{
				Type:  "triangle",
				A:     Vec{0, 0, -10},
				B:     Vec{0, 40, -10},
				C:     Vec{4, -4, -2},
				Color: Vec{0, 1, 0},
			},
			{
				Type:  "triangle",
				A:     Vec{0, 0, -10},
				B:     Vec{0, 40, -10},
				C:     Vec{-4, -4, -2},
				Color: Vec{1, 0, 0},
			},
		},
	}
}

// NewPanelConfig creates a 10x10 scene with one triangle that covers every interior
// pixel of the signed image plane but none of its four corners.
func NewPanelConfig() *Config {
	return &Config{
		Name:    "panel",
		Width:   10,
		Height:  10,
		Mapping: "signed",
		Primitives: []PrimitiveCfg{
			{
				Type:  "triangle",
				A:     Vec{-0.2, 3.4, -2},
				B:     Vec{-5, -1.4, -2},
				C:     Vec{4.6, -1.4, -2},
				Color: Vec{0.2, 0.6, 1},
			},
		},
	}
}

// NewSpheresConfig creates two overlapping spheres resolved by depth. The small blue
// sphere is listed first but sits in front of the large red one.
func NewSpheresConfig() *Config {
	return &Config{
		Name:      "spheres",
		Width:     400,
		Height:    400,
		Mapping:   "signed",
		HitPolicy: "nearest",
		Primitives: []PrimitiveCfg{
			{
				Type:   "sphere",
				Center: Vec{0.8, 0.4, -4},
				Radius: 1,
				Color:  Vec{0.1, 0.2, 0.9},
			},
			{
				Type:   "sphere",
				Center: Vec{0, 0, -6},
				Radius: 2,
				Color:  Vec{0.9, 0.1, 0.1},
			},
		},
	}
}
