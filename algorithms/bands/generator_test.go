package bands

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonitus/noisefield/algorithms/geometry"
	"github.com/sonitus/noisefield/algorithms/propagation"
)

// facadeAlongX builds a facade of the given length centered on the origin,
// lying on the X axis with its outward normal pointing north (-Z).
func facadeAlongX(length float64) (geometry.Segment, geometry.Point) {
	seg := geometry.Segment{
		Name: "north",
		P1:   geometry.Point{X: -length / 2, Z: 0},
		P2:   geometry.Point{X: length / 2, Z: 0},
	}
	normal, _ := seg.Normal()
	return seg, normal
}

func makeTarget(xs, zs []float64) Target {
	energy := make([][]float64, len(zs))
	for i := range energy {
		energy[i] = make([]float64, len(xs))
	}
	return Target{X: xs, Z: zs, Energy: energy}
}

func cellLevel(t Target, row, col int) float64 {
	return propagation.EnergyToDB(t.Energy[row][col])
}

func defaultGenerator(mode Mode) *Generator {
	return NewGenerator(propagation.NewModel(propagation.Options{}), mode, DefaultDotThreshold, 0)
}

func TestNewGeneratorSanitizes(t *testing.T) {
	g := NewGenerator(nil, Mode("bogus"), math.NaN(), math.Inf(1))
	require.NotNil(t, g.Model())
	assert.Equal(t, PerMeter, g.Mode())
	assert.Equal(t, DefaultDotThreshold, g.dotThreshold)
	assert.Equal(t, 0.0, g.dirExponent)
}

func TestAccumulateFrontalCell(t *testing.T) {
	seg, normal := facadeAlongX(10)
	target := makeTarget([]float64{0}, []float64{-5})

	defaultGenerator(PerMeter).Accumulate(target, seg, normal, 80, 30, DefaultParams()[Blue])

	require.Positive(t, target.Energy[0][0])
	level := cellLevel(target, 0, 0)
	// Below the free-field level 80 - 30 - A_geo(5), above it minus 20 dB.
	free := 80 - 30 - propagation.GeometricSpreading(5)
	assert.Less(t, level, free)
	assert.Greater(t, level, free-20)
}

func TestAccumulateBehindFacadeIsZero(t *testing.T) {
	seg, normal := facadeAlongX(20)
	// +Z is behind a north-facing facade.
	target := makeTarget([]float64{0}, []float64{20})

	defaultGenerator(PerMeter).Accumulate(target, seg, normal, 80, 0, DefaultParams()[Blue])

	assert.Zero(t, target.Energy[0][0])
}

func TestAccumulateAroundCornerLeaks(t *testing.T) {
	seg, normal := facadeAlongX(10)
	// Just past the east corner and a touch behind the facade plane: the
	// slightly negative dot threshold lets it through.
	target := makeTarget([]float64{6}, []float64{0.1})

	defaultGenerator(PerMeter).Accumulate(target, seg, normal, 80, 0, DefaultParams()[Blue])

	assert.Positive(t, target.Energy[0][0])
}

func TestPerMeterLengthInvariance(t *testing.T) {
	// Equal-Lw facades of 5 m and 20 m should read nearly alike at 20 m.
	short, shortNormal := facadeAlongX(5)
	long, longNormal := facadeAlongX(20)
	p := DefaultParams()[Blue]

	g := defaultGenerator(PerMeter)
	a := makeTarget([]float64{0}, []float64{-20})
	b := makeTarget([]float64{0}, []float64{-20})
	g.Accumulate(a, short, shortNormal, 80, 0, p)
	g.Accumulate(b, long, longNormal, 80, 0, p)

	diff := math.Abs(cellLevel(a, 0, 0) - cellLevel(b, 0, 0))
	assert.Less(t, diff, 1.0)

	// Without normalization the long facade reads several dB hotter.
	raw := defaultGenerator(None)
	c := makeTarget([]float64{0}, []float64{-20})
	d := makeTarget([]float64{0}, []float64{-20})
	raw.Accumulate(c, short, shortNormal, 80, 0, p)
	raw.Accumulate(d, long, longNormal, 80, 0, p)

	rawDiff := cellLevel(d, 0, 0) - cellLevel(c, 0, 0)
	assert.Greater(t, rawDiff, 3.0)
}

func TestPerSampleMatchesPerMeterOnUniformSpacing(t *testing.T) {
	seg, normal := facadeAlongX(10)
	p := DefaultParams()[Green]

	a := makeTarget([]float64{3}, []float64{-7})
	b := makeTarget([]float64{3}, []float64{-7})
	defaultGenerator(PerMeter).Accumulate(a, seg, normal, 75, 10, p)
	defaultGenerator(PerSample).Accumulate(b, seg, normal, 75, 10, p)

	assert.InDelta(t, a.Energy[0][0], b.Energy[0][0], a.Energy[0][0]*1e-9)
}

func TestAccumulateSkipMask(t *testing.T) {
	seg, normal := facadeAlongX(10)
	target := makeTarget([]float64{-1, 1}, []float64{-4})
	target.Skip = func(row, col int) bool { return col == 0 }

	defaultGenerator(PerMeter).Accumulate(target, seg, normal, 80, 0, DefaultParams()[Green])

	assert.Zero(t, target.Energy[0][0])
	assert.Positive(t, target.Energy[0][1])
}

func TestAccumulateIgnoresUnusableInputs(t *testing.T) {
	seg, normal := facadeAlongX(10)
	p := DefaultParams()[Blue]
	g := defaultGenerator(PerMeter)

	target := makeTarget([]float64{0}, []float64{-5})
	g.Accumulate(target, seg, normal, math.NaN(), 0, p)
	g.Accumulate(target, seg, normal, 80, math.Inf(1), p)
	assert.Zero(t, target.Energy[0][0])

	// Degenerate segments contribute nothing either.
	dot := geometry.Segment{Name: "dot", P1: geometry.Point{X: 1, Z: 1}, P2: geometry.Point{X: 1, Z: 1}}
	g.Accumulate(target, dot, normal, 80, 0, p)
	assert.Zero(t, target.Energy[0][0])
}

func TestAccumulateRangePartitionsExactly(t *testing.T) {
	seg, normal := facadeAlongX(10)
	p := DefaultParams()[Yellow]
	g := defaultGenerator(PerMeter)

	xs := []float64{-6, -2, 2, 6}
	zs := []float64{-8, -4, -1}

	whole := makeTarget(xs, zs)
	g.Accumulate(whole, seg, normal, 80, 5, p)

	split := makeTarget(xs, zs)
	g.AccumulateRange(split, 0, 2, seg, normal, 80, 5, p)
	g.AccumulateRange(split, 2, 3, seg, normal, 80, 5, p)

	assert.Equal(t, whole.Energy, split.Energy)

	clamped := makeTarget(xs, zs)
	g.AccumulateRange(clamped, -5, 99, seg, normal, 80, 5, p)
	assert.Equal(t, whole.Energy, clamped.Energy)
}

func TestAccumulateRepeatIsDeterministic(t *testing.T) {
	seg, normal := facadeAlongX(12)
	p := DefaultParams()[Red]
	g := defaultGenerator(PerMeter)

	xs := []float64{-3, 0, 3}
	zs := []float64{-2, -1}

	a := makeTarget(xs, zs)
	b := makeTarget(xs, zs)
	g.Accumulate(a, seg, normal, 82, 28, p)
	g.Accumulate(b, seg, normal, 82, 28, p)

	assert.Equal(t, a.Energy, b.Energy)
}
