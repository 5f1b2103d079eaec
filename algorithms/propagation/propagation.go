package propagation

import (
	"math"
)

// MinDistance is the floor (meters) applied to receiver distances before the
// propagation law, so that receivers on the facade line stay finite.
const MinDistance = 0.01

// directivityFloor keeps directivity weights representable in dB space.
const directivityFloor = 1e-10

// Options tunes the outdoor level model.
type Options struct {
	// DBPerMeter is the linear distance attenuation in dB per meter
	// (air absorption plus ground and foliage lumped together).
	DBPerMeter float64 `json:"db_per_meter"`

	// RoomDirectivity (Df,room) and OutdoorDirectivity (Df,out) are fixed
	// directivity correction terms in dB, subtracted from the level.
	RoomDirectivity    float64 `json:"room_directivity"`
	OutdoorDirectivity float64 `json:"outdoor_directivity"`

	// AtmosphericLoss is a fixed extra attenuation term in dB.
	AtmosphericLoss float64 `json:"atmospheric_loss"`
}

// Model evaluates outdoor sound pressure levels radiated by facades:
//
//	Lp = Lw - R'e - Df,room - Df,out - A_geo(r) - A_atm - DBPerMeter*r
//
// with A_geo the hemispherical geometric spreading term. Everything is a
// plain dB bookkeeping exercise; the model never returns +-Inf.
type Model struct {
	opts Options
}

// NewModel creates a propagation model. Non-finite option values are zeroed.
func NewModel(opts Options) *Model {
	if !isFinite(opts.DBPerMeter) {
		opts.DBPerMeter = 0
	}
	if !isFinite(opts.RoomDirectivity) {
		opts.RoomDirectivity = 0
	}
	if !isFinite(opts.OutdoorDirectivity) {
		opts.OutdoorDirectivity = 0
	}
	if !isFinite(opts.AtmosphericLoss) {
		opts.AtmosphericLoss = 0
	}
	return &Model{opts: opts}
}

// Options returns the options the model was built with.
func (m *Model) Options() Options {
	return m.opts
}

// GeometricSpreading returns the hemispherical spreading attenuation
// 8 + 20*log10(r) in dB, with r floored at MinDistance.
func GeometricSpreading(r float64) float64 {
	return 8 + 20*math.Log10(math.Max(r, MinDistance))
}

// LevelAt returns the sound pressure level at distance r from a facade with
// source power level lw and composite transmission loss re. Non-finite lw or
// re yields NaN.
func (m *Model) LevelAt(lw, re, r float64) float64 {
	if !isFinite(lw) || !isFinite(re) {
		return math.NaN()
	}
	r = math.Max(r, MinDistance)
	return lw - re -
		m.opts.RoomDirectivity - m.opts.OutdoorDirectivity -
		GeometricSpreading(r) -
		m.opts.AtmosphericLoss -
		m.opts.DBPerMeter*r
}

// Directivity returns the frontal weighting max(0, dot)^exponent for the
// cosine dot between the facade normal and the receiver direction, floored
// at 1e-10 so it survives conversion to dB. Exponent 0 or less disables the
// weighting.
func Directivity(dot, exponent float64) float64 {
	if exponent <= 0 {
		return 1
	}
	w := math.Pow(math.Max(0, dot), exponent)
	return math.Max(w, directivityFloor)
}

// RoomPowerLevel converts an interior pressure level to the facade's source
// power level: Lw = Lp,in + 10*log10(A_eq) with A_eq the equivalent
// absorption area of the room in m^2. Unusable inputs yield NaN so callers
// can apply their nominal fallback.
func RoomPowerLevel(lpIn, aEq float64) float64 {
	if !isFinite(lpIn) || aEq <= 0 || !isFinite(aEq) {
		return math.NaN()
	}
	return lpIn + 10*math.Log10(aEq)
}

// DBToEnergy converts a dB level to linear energy. Non-finite levels carry
// no energy.
func DBToEnergy(db float64) float64 {
	if !isFinite(db) {
		return 0
	}
	return math.Pow(10, db/10)
}

// EnergyToDB converts linear energy to a dB level. Zero, negative and
// non-finite energies map to NaN, the "no data" sentinel, never to -Inf.
func EnergyToDB(e float64) float64 {
	if e <= 0 || !isFinite(e) {
		return math.NaN()
	}
	return 10 * math.Log10(e)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
