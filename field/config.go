package field

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sonitus/noisefield/algorithms/geometry"
	"github.com/sonitus/noisefield/algorithms/propagation"
)

// Config is one scene: the building footprint, its facades and their
// acoustic data, plus the tuning parameters. Everything degenerate is
// tolerated by substitution; Validate only rejects explicitly contradictory
// values.
type Config struct {
	Name string `json:"name,omitempty"`

	// Perimeter is the closed footprint loop (first point not repeated),
	// Holes are interior courtyards. Fewer than 3 perimeter points yields
	// an empty grid.
	Perimeter []geometry.Point   `json:"perimeter"`
	Holes     [][]geometry.Point `json:"holes,omitempty"`

	// Segments lists the facades. When empty, one facade per perimeter
	// edge is derived, named facade0, facade1, ...
	Segments []geometry.Segment `json:"segments,omitempty"`

	// Levels maps a facade name (or a compass fallback north/south/east/
	// west) to its radiated power level Lw in dB. Non-finite entries count
	// as missing.
	Levels map[string]float64 `json:"levels,omitempty"`

	// Losses maps a facade name or compass key to a transmission loss
	// override in dB, used when no construction elements apply.
	Losses map[string]float64 `json:"losses,omitempty"`

	// Elements lists explicit construction elements per facade name;
	// DefaultElements is the uniform construction for facades without an
	// entry. The composite loss R'e is the area-weighted energy mean.
	Elements        map[string][]propagation.FacadeElement `json:"elements,omitempty"`
	DefaultElements []propagation.FacadeElement            `json:"default_elements,omitempty"`

	Params Params `json:"params"`
}

// ReadConfig decodes a scene from JSON. Tuning fields missing from the
// document keep the documented defaults; present fields override them.
func ReadConfig(r io.Reader) (Config, error) {
	return ReadConfigParams(r, DefaultParams())
}

// ReadConfigParams decodes a scene with base as the parameter defaults, so
// a document combined with a preset only spells the knobs it changes.
func ReadConfigParams(r io.Reader, base Params) (Config, error) {
	cfg := Config{Params: base}
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate rejects explicitly invalid configuration. Missing or degenerate
// scene data is not an error; the compositor substitutes around it.
func (c Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	for name, elems := range c.Elements {
		for _, e := range elems {
			if e.Area < 0 {
				return fmt.Errorf("facade %q: negative element area", name)
			}
		}
	}
	for _, e := range c.DefaultElements {
		if e.Area < 0 {
			return fmt.Errorf("default elements: negative element area")
		}
	}
	return nil
}

// normalized returns a copy with defaults filled in: normalized params and,
// when no facades were given, one segment per perimeter edge.
func (c Config) normalized() Config {
	c.Params = c.Params.normalized()
	if len(c.Segments) == 0 {
		c.Segments = geometry.DeriveSegments(c.Perimeter, "facade")
	}
	return c
}
