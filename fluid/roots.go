package fluid

import (
	"errors"
	"math"
)

var (
	errNotBracketed = errors.New("root is not bracketed")
	errRootLimit    = errors.New("root iteration limit reached")
)

const rootIterations = 200

// findRoot solves f(x) = 0 on [lo, hi] with Newton steps safeguarded by bisection.
// f returns the residual and its derivative; a zero derivative forces bisection.
func findRoot(f func(x float64) (y, dy float64, err error), lo, hi, tol float64) (float64, error) {
	ylo, _, err := f(lo)
	if err != nil {
		return 0, err
	}
	if ylo == 0 {
		return lo, nil
	}
	yhi, _, err := f(hi)
	if err != nil {
		return 0, err
	}
	if yhi == 0 {
		return hi, nil
	}
	if (ylo < 0) == (yhi < 0) {
		return 0, errNotBracketed
	}

	// regula falsi start
	x := lo + (hi-lo)*ylo/(ylo-yhi)
	for it := 0; it < rootIterations; it++ {
		y, dy, err := f(x)
		if err != nil {
			return 0, err
		}
		if y == 0 {
			return x, nil
		}
		if (y < 0) == (ylo < 0) {
			lo, ylo = x, y
		} else {
			hi = x
		}
		xn := x - y/dy
		if dy == 0 || math.IsNaN(xn) || xn <= lo || xn >= hi {
			xn = 0.5 * (lo + hi)
		}
		if math.Abs(xn-x) <= tol*(1+math.Abs(x)) || hi-lo <= tol*(1+math.Abs(x)) {
			return xn, nil
		}
		x = xn
	}
	return 0, errRootLimit
}
