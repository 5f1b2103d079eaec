package bands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllOrder(t *testing.T) {
	assert.Equal(t, []Band{Blue, Green, Yellow, Red}, All())
	for _, b := range All() {
		assert.True(t, b.Valid(), "band %s", b)
	}
	assert.False(t, Band("purple").Valid())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{name: "empty defaults to per_meter", input: "", want: PerMeter},
		{name: "per_meter", input: "per_meter", want: PerMeter},
		{name: "per_sample", input: "per_sample", want: PerSample},
		{name: "none", input: "none", want: None},
		{name: "unknown", input: "per_area", want: PerMeter, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultParams(t *testing.T) {
	params := DefaultParams()
	require.Len(t, params, 4)

	for _, b := range All() {
		p, ok := params[b]
		require.True(t, ok, "missing band %s", b)
		assert.Positive(t, p.SigmaPerp)
		assert.Positive(t, p.SigmaAlong)
		assert.Positive(t, p.MaxDistance)
		assert.Positive(t, p.FalloffScale)
		assert.Positive(t, p.Spacing)
	}

	// Red hugs the facade, blue washes far out.
	assert.Less(t, params[Red].SigmaPerp, params[Yellow].SigmaPerp)
	assert.Less(t, params[Yellow].SigmaPerp, params[Green].SigmaPerp)
	assert.Less(t, params[Green].SigmaPerp, params[Blue].SigmaPerp)
	assert.Less(t, params[Red].Spacing, params[Yellow].Spacing)
}

func TestShareOffset(t *testing.T) {
	assert.InDelta(t, -6.9897, shareOffset(PerMeter, 2, 10, 5), 1e-3)
	assert.InDelta(t, -6.0206, shareOffset(PerSample, 2, 10, 4), 1e-3)
	assert.InDelta(t, 0, shareOffset(None, 2, 10, 4), 1e-12)
	// Full-length span carries the full power.
	assert.InDelta(t, 0, shareOffset(PerMeter, 10, 10, 1), 1e-12)
}
