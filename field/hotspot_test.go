package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonitus/noisefield/algorithms/geometry"
)

func hotspotFixture(t *testing.T, mutate func(*Params)) *Compositor {
	t.Helper()
	cfg := Config{
		Perimeter: squarePerimeter(),
		Levels:    map[string]float64{"north": 80},
		Params:    DefaultParams(),
	}
	if mutate != nil {
		mutate(&cfg.Params)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func northFacade(t *testing.T, c *Compositor) facade {
	t.Helper()
	for _, f := range c.facades {
		if f.normal.Z < -0.5 {
			return f
		}
	}
	t.Fatal("no north facade")
	return facade{}
}

func TestHotspotLevelFrontal(t *testing.T) {
	c := hotspotFixture(t, nil)
	f := northFacade(t, c)

	// 1 m out from the facade center: full weight, pure blend of the
	// linear and log decays.
	v, ok := c.hotspotLevel(geometry.Point{X: 0, Z: -6}, f)
	require.True(t, ok)
	linear := 80.0 - 30 - 1.8*1
	logDecay := 80.0 - 30 - 8 - 0.25*1
	assert.InDelta(t, 0.35*linear+0.65*logDecay, v, 1e-9)
}

func TestHotspotLevelBehind(t *testing.T) {
	c := hotspotFixture(t, nil)
	f := northFacade(t, c)

	_, ok := c.hotspotLevel(geometry.Point{X: 0, Z: -4}, f)
	assert.False(t, ok, "cell on the building side of the facade")

	_, ok = c.hotspotLevel(geometry.Point{X: 0, Z: 8}, f)
	assert.False(t, ok, "cell on the far side of the footprint")
}

func TestHotspotLevelCornerPinch(t *testing.T) {
	c := hotspotFixture(t, nil)
	f := northFacade(t, c)

	_, ok := c.hotspotLevel(geometry.Point{X: -5, Z: -6}, f)
	assert.False(t, ok, "corner cell is tapered out")

	_, ok = c.hotspotLevel(geometry.Point{X: 7, Z: -6}, f)
	assert.False(t, ok, "past the segment end the taper stays zero")
}

func TestHotspotLevelLateralFadeWithoutTaper(t *testing.T) {
	c := hotspotFixture(t, func(p *Params) { p.HotspotEdgeFraction = 0 })
	f := northFacade(t, c)

	v, ok := c.hotspotLevel(geometry.Point{X: 7, Z: -6}, f)
	require.True(t, ok)

	// Foot point is the corner (5,-5), d = sqrt(5), overshoot 2 m past the
	// end fades through the lateral gaussian.
	d := math.Sqrt(5)
	linear := 80 - 30 - 1.8*d
	logDecay := 80 - 30 - (8 + 20*math.Log10(d)) - 0.25*d
	level := 0.35*linear + 0.65*logDecay
	weight := math.Exp(-4.0 / 18.0)
	assert.InDelta(t, level+10*math.Log10(weight), v, 1e-9)

	frontal, ok := c.hotspotLevel(geometry.Point{X: 0, Z: -6}, f)
	require.True(t, ok)
	assert.Less(t, v, frontal)
}

func TestApplyHotspotsTakesMaximum(t *testing.T) {
	c := hotspotFixture(t, nil)

	xs := []float64{0}
	zs := []float64{-6}
	inside := [][]bool{{false}}

	low := [][]float64{{10}}
	c.applyHotspots(low, xs, zs, inside)
	assert.Greater(t, low[0][0], 40.0, "hot-spot lifts a quiet cell")

	high := [][]float64{{95}}
	c.applyHotspots(high, xs, zs, inside)
	assert.Equal(t, 95.0, high[0][0], "already-hot cell is untouched")

	blank := [][]float64{{math.NaN()}}
	c.applyHotspots(blank, xs, zs, inside)
	assert.False(t, math.IsNaN(blank[0][0]), "hot-spot fills a NaN exterior cell")

	masked := [][]float64{{math.NaN()}}
	c.applyHotspots(masked, xs, zs, [][]bool{{true}})
	assert.True(t, math.IsNaN(masked[0][0]), "interior cells are skipped")

	behind := [][]float64{{math.NaN()}}
	c.applyHotspots(behind, xs, []float64{8}, inside)
	assert.True(t, math.IsNaN(behind[0][0]), "cells behind every facade stay empty")
}
