package well

import (
	"math"
)

const (
	// laminar to turbulent transition
	reynoldsCritical = 2300

	// late time shift of the heat flux asymptote, close to Euler's constant
	heatFluxShift = 0.58
)

// frictionFactor returns the Darcy friction factor: 64/Re for laminar flow and
// the Colebrook-White equation otherwise.
func frictionFactor(re, relativeRoughness float64) float64 {
	if re <= 0 {
		return 0
	}
	if re < reynoldsCritical {
		return 64 / re
	}
	// Haaland as the initial guess
	x := -1.8 * math.Log10(math.Pow(relativeRoughness/3.7, 1.11)+6.9/re)
	for it := 0; it < 50; it++ {
		xn := -2 * math.Log10(relativeRoughness/3.7+2.51*x/re)
		if math.Abs(xn-x) <= 1e-14*math.Abs(xn) {
			x = xn
			break
		}
		x = xn
	}
	return 1 / (x * x)
}

// heatFlux is the dimensionless heat flux of an infinite cylinder held at constant
// temperature in an infinite medium, as a function of dimensionless time αt/r².
// It decreases with time except for a shallow rise of the early series near the switch
// to the late time asymptote at tD = 2.8.
func heatFlux(td float64) float64 {
	if td < 2.8 {
		return 1/math.Sqrt(math.Pi*td) + 0.5 - 0.25*math.Sqrt(td/math.Pi) + 0.125*td
	}
	theta := math.Log(4*td) - 2*heatFluxShift
	return 2/theta - 2*heatFluxShift/(theta*theta)
}
