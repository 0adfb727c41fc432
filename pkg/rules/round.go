// Package rules implements the pure, side-effect-free sentencing decision
// functions: plea discount, statutory minimum floors, floor application,
// release-fraction selection, victim surcharge, and warning synthesis.
package rules

import (
	"math"
	"math/big"
)

// round2 rounds an exact rational to two decimal places. The rational is
// evaluated to float64 first; all of this engine's inputs are representable
// well within float64's precision at the months/GBP scales involved, so the
// conversion introduces no observable error before the 2dp rounding.
func round2(r *big.Rat) float64 {
	f, _ := r.Float64()
	return math.Round(f*100) / 100
}

func floatPtr(f float64) *float64 { return &f }
