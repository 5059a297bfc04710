package fluid

func init() {
	allocators["water"] = func() Model { return new(Water) }
	aliases["h2o"] = "water"
}

// Water implements ordinary water with IAPWS-IF97 regions 1, 2 and 4.
// Region 3 (the near critical dense states) and region 5 are not supported.
type Water struct{}

func (o *Water) Name() string { return "water" }

func (o *Water) Critical() (Tc, Pc float64) { return tcWater, pcWater }

// selector returns the residual of the matched property and its temperature derivative
type selector func(pr props, T float64) (y, dy float64)

func enthalpyOf(h float64) selector {
	return func(pr props, T float64) (float64, float64) { return pr.h - h, pr.cp }
}

func entropyOf(s float64) selector {
	return func(pr props, T float64) (float64, float64) { return pr.s - s, pr.cp / T }
}

func (o *Water) PT(p, T float64) (State, error) {
	switch {
	case p <= 0 || p > pMaxWater:
		return State{}, outOfRange("water", "P,T", p, T, "pressure must be in (0, %g] Pa", pMaxWater)
	case T < tMinWater || T > tMaxWater:
		return State{}, outOfRange("water", "P,T", p, T, "temperature must be in [%g, %g] K", tMinWater, tMaxWater)
	case T <= t13Water:
		if p >= psatWater(T) {
			return o.single(p, T, gibbs1(p, T)), nil
		}
	case p > pB23(T):
		return State{}, outOfRange("water", "P,T", p, T, "region 3 is not supported")
	}
	return o.single(p, T, gibbs2(p, T)), nil
}

func (o *Water) Ph(p, h float64) (State, error) {
	return o.flash("P,h", p, h, enthalpyOf(h))
}

func (o *Water) PS(p, s float64) (State, error) {
	return o.flash("P,s", p, s, entropyOf(s))
}

func (o *Water) TQ(T, q float64) (State, error) {
	switch {
	case q < 0 || q > 1:
		return State{}, outOfRange("water", "T,Q", T, q, "quality must be in [0, 1]")
	case T < tMinWater || T > t13Water:
		return State{}, outOfRange("water", "T,Q", T, q, "saturation temperature must be in [%g, %g] K", tMinWater, t13Water)
	}
	p := psatWater(T)
	return o.mixture(p, T, q, gibbs1(p, T), gibbs2(p, T)), nil
}

func (o *Water) PQ(p, q float64) (State, error) {
	switch {
	case q < 0 || q > 1:
		return State{}, outOfRange("water", "P,Q", p, q, "quality must be in [0, 1]")
	case p < pSatMinWater || p > p13Water:
		return State{}, outOfRange("water", "P,Q", p, q, "saturation pressure must be in [%g, %g] Pa", pSatMinWater, p13Water)
	}
	T := tsatWater(p)
	return o.mixture(p, T, q, gibbs1(p, T), gibbs2(p, T)), nil
}

// flash finds the state at pressure p where the selected property equals x
func (o *Water) flash(inputs string, p, x float64, sel selector) (State, error) {
	if p <= 0 || p > pMaxWater {
		return State{}, outOfRange("water", inputs, p, x, "pressure must be in (0, %g] Pa", pMaxWater)
	}

	solve := func(gibbs func(p, T float64) props, lo, hi float64) (State, error) {
		T, err := findRoot(func(T float64) (float64, float64, error) {
			y, dy := sel(gibbs(p, T), T)
			return y, dy, nil
		}, lo, hi, 1e-12)
		if err != nil {
			return State{}, outOfRange("water", inputs, p, x, "no single phase solution in [%.2f, %.2f] K: %v", lo, hi, err)
		}
		return o.single(p, T, gibbs(p, T)), nil
	}

	switch {
	case p < pSatMinWater:
		return solve(gibbs2, tMinWater, tMaxWater)
	case p <= p13Water:
		Ts := tsatWater(p)
		liq, vap := gibbs1(p, Ts), gibbs2(p, Ts)
		yl, _ := sel(liq, Ts)
		yv, _ := sel(vap, Ts)
		switch {
		case yl >= 0:
			return solve(gibbs1, tMinWater, Ts)
		case yv <= 0:
			return solve(gibbs2, Ts, tMaxWater)
		}
		return o.mixture(p, Ts, yl/(yl-yv), liq, vap), nil
	}

	if y1, _ := sel(gibbs1(p, t13Water), t13Water); y1 >= 0 {
		return solve(gibbs1, tMinWater, t13Water)
	}
	T23 := tB23(p)
	if y2, _ := sel(gibbs2(p, T23), T23); y2 <= 0 {
		return solve(gibbs2, T23, tMaxWater)
	}
	return State{}, outOfRange("water", inputs, p, x, "region 3 is not supported")
}

func (o *Water) single(p, T float64, pr props) State {
	rho := 1 / pr.v
	return State{P: p, T: T, H: pr.h, S: pr.s, Rho: rho, Cp: pr.cp, Mu: viscosityWater(T, rho), Q: -1}
}

// mixture combines saturated liquid and vapour; the viscosity follows McAdams
func (o *Water) mixture(p, T, q float64, liq, vap props) State {
	muL, muV := viscosityWater(T, 1/liq.v), viscosityWater(T, 1/vap.v)
	return State{
		P:   p,
		T:   T,
		H:   liq.h + q*(vap.h-liq.h),
		S:   liq.s + q*(vap.s-liq.s),
		Rho: 1 / (liq.v + q*(vap.v-liq.v)),
		Mu:  1 / (q/muV + (1-q)/muL),
		Q:   q,
	}
}
