package smoothing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantField(rows, cols int, v float64) [][]float64 {
	field := make([][]float64, rows)
	for r := range field {
		field[r] = make([]float64, cols)
		for c := range field[r] {
			field[r][c] = v
		}
	}
	return field
}

func TestConstantFieldWithMaskStaysExact(t *testing.T) {
	t.Parallel()

	const c = 57.5
	field := constantField(9, 9, c)
	// 3x3 NaN block in the middle.
	for r := 3; r <= 5; r++ {
		for cc := 3; cc <= 5; cc++ {
			field[r][cc] = math.NaN()
		}
	}

	got := NewFilter(5, 1.5).Apply(field)

	for r := range got {
		for cc := range got[r] {
			if r >= 3 && r <= 5 && cc >= 3 && cc <= 5 {
				assert.True(t, math.IsNaN(got[r][cc]), "mask cell (%d,%d)", r, cc)
				continue
			}
			// Renormalization over the remaining neighbors keeps the
			// constant exactly, including next to the mask and at borders.
			assert.InDelta(t, c, got[r][cc], 1e-12, "cell (%d,%d)", r, cc)
		}
	}
}

func TestSmoothingAveragesPeak(t *testing.T) {
	t.Parallel()

	field := constantField(7, 7, 0)
	field[3][3] = 100

	got := NewFilter(3, 1.0).Apply(field)

	// The peak spreads out but total ordering holds.
	assert.Less(t, got[3][3], 100.0)
	assert.Greater(t, got[3][3], got[3][2])
	assert.Greater(t, got[3][2], got[3][1])
	// Input untouched.
	assert.Equal(t, 100.0, field[3][3])
	assert.Equal(t, 0.0, field[0][0])
}

func TestIdentityConfigs(t *testing.T) {
	t.Parallel()

	field := [][]float64{{1, 2}, {3, math.NaN()}}

	for _, f := range []*Filter{
		NewFilter(0, 1.5),
		NewFilter(1, 1.5),
		NewFilter(5, 0),
		NewFilter(5, -1),
	} {
		require.True(t, f.IsIdentity())
		got := f.Apply(field)
		assert.Equal(t, 1.0, got[0][0])
		assert.Equal(t, 2.0, got[0][1])
		assert.Equal(t, 3.0, got[1][0])
		assert.True(t, math.IsNaN(got[1][1]))
	}
}

func TestEvenSizePromoted(t *testing.T) {
	t.Parallel()

	f := NewFilter(4, 1.2)
	assert.False(t, f.IsIdentity())
	assert.Equal(t, 5, f.Size())
	assert.Equal(t, 1.2, f.Sigma())
}

func TestEmptyAndTinyFields(t *testing.T) {
	t.Parallel()

	f := NewFilter(5, 1.5)
	assert.Empty(t, f.Apply([][]float64{}))
	assert.Nil(t, f.Apply(nil))

	// A single cell just stays put.
	got := f.Apply([][]float64{{42}})
	assert.InDelta(t, 42.0, got[0][0], 1e-12)
}

func TestAllMaskedNeighborsKeepValue(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	// A lone finite cell in a sea of NaN: the center tap keeps it alive.
	field := [][]float64{
		{nan, nan, nan},
		{nan, 33, nan},
		{nan, nan, nan},
	}
	got := NewFilter(3, 1.0).Apply(field)
	assert.InDelta(t, 33.0, got[1][1], 1e-12)
	assert.True(t, math.IsNaN(got[0][0]))
}

func TestClone(t *testing.T) {
	t.Parallel()

	field := [][]float64{{1, 2}, {3, 4}}
	cp := Clone(field)
	cp[0][0] = 99
	assert.Equal(t, 1.0, field[0][0])
	assert.Nil(t, Clone(nil))
}
