package propagation

import (
	"math"
)

// FacadeElement is one construction element of a facade: a stretch of wall,
// a window band, a door. Area in m^2, TransmissionLoss (R) in dB.
type FacadeElement struct {
	Name             string  `json:"name,omitempty"`
	Area             float64 `json:"area"`
	TransmissionLoss float64 `json:"transmission_loss"`
}

// EffectiveLoss combines element transmission losses into the composite
// facade value R'e by area-weighting the transmission coefficients:
//
//	R'e = -10*log10( sum(Sj * 10^(-Rj/10)) / sum(Sj) )
//
// Elements with non-positive area or a non-finite R are skipped. When no
// usable element remains the result is NaN and callers substitute their
// default construction.
func EffectiveLoss(elements []FacadeElement) float64 {
	totalArea := 0.0
	weighted := 0.0
	for _, el := range elements {
		if el.Area <= 0 || !isFinite(el.Area) || !isFinite(el.TransmissionLoss) {
			continue
		}
		totalArea += el.Area
		weighted += el.Area * math.Pow(10, -el.TransmissionLoss/10)
	}
	if totalArea <= 0 || weighted <= 0 {
		return math.NaN()
	}
	return -10 * math.Log10(weighted/totalArea)
}
