package fluid

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/diff/fd"
)

// universal gas constant [J/(mol·K)]
const rUniversal = 8.314462618

// Cubic implements a pure fluid with the Peng-Robinson equation of state and an
// ideal gas heat capacity given as a NASA polynomial in T.
type Cubic struct {
	name  string
	Tc    float64    // critical temperature [K]
	Pc    float64    // critical pressure [Pa]
	Omega float64    // acentric factor
	M     float64    // molar mass [kg/mol]
	Cp0   [5]float64 // ideal gas cp/R coefficients

	// validity envelope
	Tmin, Tmax, Pmax float64

	// Viscosity returns the dynamic viscosity [Pa·s] from T [K] and density [kg/m³]
	Viscosity func(T, rho float64) float64

	r, ac, b, kappa float64
	href, sref      float64
}

// NewCubic returns a Peng-Robinson fluid. Enthalpy and entropy are shifted so
// that the saturated liquid at Tref [K] has hRef [J/kg] and sRef [J/(kg·K)].
func NewCubic(name string, Tc, Pc, omega, M float64, cp0 [5]float64, Tmin, Tmax, Pmax float64,
	viscosity func(T, rho float64) float64, Tref, hRef, sRef float64) (*Cubic, error) {

	o := &Cubic{
		name:      name,
		Tc:        Tc,
		Pc:        Pc,
		Omega:     omega,
		M:         M,
		Cp0:       cp0,
		Tmin:      Tmin,
		Tmax:      Tmax,
		Pmax:      Pmax,
		Viscosity: viscosity,
		r:         rUniversal / M,
		ac:        0.45724 * rUniversal * rUniversal * Tc * Tc / Pc,
		b:         0.07780 * rUniversal * Tc / Pc,
		kappa:     0.37464 + 1.54226*omega - 0.26992*omega*omega,
	}
	ps, err := o.psat(Tref)
	if err != nil {
		return nil, err
	}
	liq, _, err := o.saturated(Tref, ps)
	if err != nil {
		return nil, err
	}
	o.href = hRef - liq.H
	o.sref = sRef - liq.S
	return o, nil
}

func (o *Cubic) Name() string { return o.name }

func (o *Cubic) Critical() (Tc, Pc float64) { return o.Tc, o.Pc }

// eos holds one evaluation of the cubic at (T, P)
type eos struct {
	A, B  float64
	a, da float64 // attraction parameter and its temperature derivative
	z     []float64
}

func (o *Cubic) attraction(T float64) (a, da float64) {
	sq := 1 + o.kappa*(1-math.Sqrt(T/o.Tc))
	return o.ac * sq * sq, -o.ac * o.kappa * sq / math.Sqrt(T*o.Tc)
}

// solve returns the physical compressibility roots at (T, p) in increasing order
func (o *Cubic) solve(T, p float64) eos {
	a, da := o.attraction(T)
	rt := rUniversal * T
	A, B := a*p/(rt*rt), o.b*p/rt
	roots := cardano(-(1 - B), A-3*B*B-2*B, -(A*B - B*B - B*B*B))
	e := eos{A: A, B: B, a: a, da: da}
	for _, z := range roots {
		if z > B {
			e.z = append(e.z, z)
		}
	}
	sort.Float64s(e.z)
	return e
}

// cardano returns the real roots of z³ + c2 z² + c1 z + c0
func cardano(c2, c1, c0 float64) []float64 {
	p := c1 - c2*c2/3
	q := 2*c2*c2*c2/27 - c2*c1/3 + c0
	D := q*q/4 + p*p*p/27
	if D > 0 {
		sq := math.Sqrt(D)
		return []float64{math.Cbrt(-q/2+sq) + math.Cbrt(-q/2-sq) - c2/3}
	}
	r := math.Sqrt(-p * p * p / 27)
	phi := math.Acos(math.Max(-1, math.Min(1, -q/(2*r))))
	m := 2 * math.Cbrt(r)
	roots := make([]float64, 3)
	for k := range roots {
		roots[k] = m*math.Cos((phi+2*math.Pi*float64(k))/3) - c2/3
	}
	return roots
}

// log term of the Peng-Robinson departure functions
func (e eos) log(z float64) float64 {
	return math.Log((z + (1+math.Sqrt2)*e.B) / (z + (1-math.Sqrt2)*e.B))
}

func (e eos) lnPhi(z float64) float64 {
	return z - 1 - math.Log(z-e.B) - e.A/(2*math.Sqrt2*e.B)*e.log(z)
}

// stable returns the root with the lowest Gibbs energy
func (e eos) stable() float64 {
	z := e.z[0]
	for _, zi := range e.z[1:] {
		if e.lnPhi(zi) < e.lnPhi(z) {
			z = zi
		}
	}
	return z
}

func (o *Cubic) idealEnthalpy(T float64) float64 {
	c := o.Cp0
	return o.r * T * (c[0] + c[1]*T/2 + c[2]*T*T/3 + c[3]*T*T*T/4 + c[4]*T*T*T*T/5)
}

func (o *Cubic) idealEntropy(T, p float64) float64 {
	c := o.Cp0
	return o.r*(c[0]*math.Log(T)+c[1]*T+c[2]*T*T/2+c[3]*T*T*T/3+c[4]*T*T*T*T/4) - o.r*math.Log(p/1e5)
}

// point returns the single phase state on root z; Cp is left to the caller
func (o *Cubic) point(T, p float64, e eos, z float64) State {
	L := e.log(z)
	hdep := rUniversal*T*(z-1) + (T*e.da-e.a)/(2*math.Sqrt2*o.b)*L
	sdep := rUniversal*math.Log(z-e.B) + e.da/(2*math.Sqrt2*o.b)*L
	rho := p * o.M / (z * rUniversal * T)
	return State{
		P:   p,
		T:   T,
		H:   o.idealEnthalpy(T) + hdep/o.M + o.href,
		S:   o.idealEntropy(T, p) + sdep/o.M + o.sref,
		Rho: rho,
		Mu:  o.Viscosity(T, rho),
		Q:   -1,
	}
}

func (o *Cubic) stable(T, p float64) State {
	e := o.solve(T, p)
	return o.point(T, p, e, e.stable())
}

// single returns the stable single phase state including the heat capacity
func (o *Cubic) single(T, p float64) State {
	st := o.stable(T, p)
	st.Cp = fd.Derivative(func(T float64) float64 {
		return o.stable(T, p).H
	}, T, &fd.Settings{Formula: fd.Central, Step: 1e-4 * T})
	return st
}

var errSaturation = errors.New("saturation pressure did not converge")

// psat solves the equal fugacity condition by successive substitution
func (o *Cubic) psat(T float64) (float64, error) {
	if T >= o.Tc {
		return 0, errSaturation
	}
	// Wilson
	p := o.Pc * math.Pow(10, 7.0/3*(1+o.Omega)*(1-o.Tc/T))
	for it := 0; it < 500; it++ {
		e := o.solve(T, p)
		if len(e.z) == 0 {
			break
		}
		if len(e.z) < 2 {
			// only one phase exists at p; step towards the three root window
			if e.z[0] < 0.3074 {
				p *= 0.95
			} else {
				p *= 1.05
			}
			continue
		}
		r := math.Exp(e.lnPhi(e.z[0]) - e.lnPhi(e.z[len(e.z)-1]))
		p *= r
		if math.Abs(r-1) < 1e-12 {
			return p, nil
		}
	}
	return 0, errSaturation
}

// tsat inverts psat. Successive substitution stalls next to the critical point,
// so the saturation line ends at 0.999 Tc.
func (o *Cubic) tsat(p float64) (float64, error) {
	return findRoot(func(T float64) (float64, float64, error) {
		ps, err := o.psat(T)
		return ps - p, 0, err
	}, o.Tmin, o.Tc*(1-1e-3), 1e-12)
}

// saturated returns the coexisting liquid and vapour at (T, psat(T))
func (o *Cubic) saturated(T, p float64) (liq, vap State, err error) {
	e := o.solve(T, p)
	if len(e.z) < 2 {
		return liq, vap, errSaturation
	}
	return o.point(T, p, e, e.z[0]), o.point(T, p, e, e.z[len(e.z)-1]), nil
}

func (o *Cubic) mixture(liq, vap State, q float64) State {
	return State{
		P:   liq.P,
		T:   liq.T,
		H:   liq.H + q*(vap.H-liq.H),
		S:   liq.S + q*(vap.S-liq.S),
		Rho: 1 / (1/liq.Rho + q*(1/vap.Rho-1/liq.Rho)),
		Mu:  1 / (q/vap.Mu + (1-q)/liq.Mu),
		Q:   q,
	}
}

func (o *Cubic) PT(p, T float64) (State, error) {
	if err := o.check("P,T", p, T); err != nil {
		return State{}, err
	}
	if T < o.Tmin || T > o.Tmax {
		return State{}, outOfRange(o.name, "P,T", p, T, "temperature must be in [%g, %g] K", o.Tmin, o.Tmax)
	}
	return o.single(T, p), nil
}

func (o *Cubic) Ph(p, h float64) (State, error) {
	return o.flash("P,h", p, h, func(st State) (float64, float64) { return st.H - h, st.Cp })
}

func (o *Cubic) PS(p, s float64) (State, error) {
	return o.flash("P,s", p, s, func(st State) (float64, float64) { return st.S - s, st.Cp / st.T })
}

func (o *Cubic) TQ(T, q float64) (State, error) {
	switch {
	case q < 0 || q > 1:
		return State{}, outOfRange(o.name, "T,Q", T, q, "quality must be in [0, 1]")
	case T < o.Tmin || T >= o.Tc:
		return State{}, outOfRange(o.name, "T,Q", T, q, "saturation temperature must be in [%g, %g) K", o.Tmin, o.Tc)
	}
	p, err := o.psat(T)
	if err != nil {
		return State{}, outOfRange(o.name, "T,Q", T, q, "%v", err)
	}
	liq, vap, err := o.saturated(T, p)
	if err != nil {
		return State{}, outOfRange(o.name, "T,Q", T, q, "%v", err)
	}
	return o.mixture(liq, vap, q), nil
}

func (o *Cubic) PQ(p, q float64) (State, error) {
	if q < 0 || q > 1 {
		return State{}, outOfRange(o.name, "P,Q", p, q, "quality must be in [0, 1]")
	}
	if p <= 0 || p >= o.Pc {
		return State{}, outOfRange(o.name, "P,Q", p, q, "saturation pressure must be in (0, %g) Pa", o.Pc)
	}
	T, err := o.tsat(p)
	if err != nil {
		return State{}, outOfRange(o.name, "P,Q", p, q, "no saturation temperature above %g K", o.Tmin)
	}
	liq, vap, err := o.saturated(T, p)
	if err != nil {
		return State{}, outOfRange(o.name, "P,Q", p, q, "%v", err)
	}
	return o.mixture(liq, vap, q), nil
}

func (o *Cubic) check(inputs string, p, x float64) error {
	if p <= 0 || p > o.Pmax {
		return outOfRange(o.name, inputs, p, x, "pressure must be in (0, %g] Pa", o.Pmax)
	}
	return nil
}

// flash finds the state at pressure p where sel vanishes
func (o *Cubic) flash(inputs string, p, x float64, sel func(State) (y, dy float64)) (State, error) {
	if err := o.check(inputs, p, x); err != nil {
		return State{}, err
	}
	solve := func(lo, hi float64) (State, error) {
		T, err := findRoot(func(T float64) (float64, float64, error) {
			y, dy := sel(o.single(T, p))
			return y, dy, nil
		}, lo, hi, 1e-12)
		if err != nil {
			return State{}, outOfRange(o.name, inputs, p, x, "no single phase solution in [%.2f, %.2f] K: %v", lo, hi, err)
		}
		return o.single(T, p), nil
	}
	if p >= o.Pc {
		return solve(o.Tmin, o.Tmax)
	}
	Ts, err := o.tsat(p)
	if err != nil {
		// below the triple point pressure only vapour exists
		return solve(o.Tmin, o.Tmax)
	}
	liq, vap, err := o.saturated(Ts, p)
	if err != nil {
		return solve(o.Tmin, o.Tmax)
	}
	yl, _ := sel(liq)
	yv, _ := sel(vap)
	switch {
	case yl >= 0:
		return solve(o.Tmin, Ts)
	case yv <= 0:
		return solve(Ts, o.Tmax)
	}
	return o.mixture(liq, vap, yl/(yl-yv)), nil
}
