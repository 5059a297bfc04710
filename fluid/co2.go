package fluid

import "math"

func init() {
	allocators["co2"] = func() Model {
		o, err := NewCubic("co2", 304.1282, 7.3773e6, 0.22394, 44.0098e-3,
			[5]float64{2.35677352, 8.98459677e-3, -7.12356269e-6, 2.45919022e-9, -1.43699548e-13},
			216.592, 1000, 100e6, viscosityCO2,
			273.15, 200e3, 1000) // IIR reference state
		if err != nil {
			panic("fluid: cannot set the CO2 reference state: " + err.Error())
		}
		return o
	}
	aliases["carbondioxide"] = "co2"
	aliases["carbon dioxide"] = "co2"
	aliases["r744"] = "co2"
}

var fenghourA = [5]float64{0.235156, -0.491266, 5.211155e-2, 5.347906e-2, -1.537102e-2}

// viscosityCO2 is the Fenghour et al. (1998) correlation without the critical enhancement [Pa·s]
func viscosityCO2(T, rho float64) float64 {
	ts := T / 251.196
	lt := math.Log(ts)
	var g float64
	for i, a := range fenghourA {
		g += a * powi(lt, i)
	}
	eta0 := 1.00697 * math.Sqrt(T) / math.Exp(g)
	r2 := rho * rho
	r6 := r2 * r2 * r2
	r8 := r6 * r2
	deta := 0.4071119e-2*rho + 0.7198037e-4*r2 + 0.2411697e-16*r6/(ts*ts*ts) +
		0.2971072e-22*r8 - 0.1627888e-22*r8/ts
	return (eta0 + deta) * 1e-6
}
