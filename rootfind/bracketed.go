package rootfind

import "math"

// Bracketed finds a root of a monotone f on [lo, hi] with Newton steps,
// falling back to bisection whenever a step leaves the current bracket or
// the derivative vanishes. f(lo) and f(hi) must have opposite signs.
//
// The search stops when |f(x)| < precision or the bracket width shrinks
// below precision relative to x.
func Bracketed(f, df func(float64) float64, lo, hi, precision float64, iterations int) (Root, error) {
	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return Root{X: lo, Residual: 0}, nil
	}
	if fhi == 0 {
		return Root{X: hi, Residual: 0}, nil
	}
	if math.IsNaN(flo) || math.IsNaN(fhi) || math.Signbit(flo) == math.Signbit(fhi) {
		return Root{}, &Error{Err: ErrNoBracket, X: lo, Residual: flo}
	}
	// orient so that f(lo) < 0 < f(hi)
	if flo > 0 {
		lo, hi = hi, lo
	}

	x := 0.5 * (lo + hi)
	fx := math.NaN()
	for i := 0; i < iterations; i++ {
		fx = f(x)
		if math.IsNaN(fx) {
			return Root{}, &Error{Err: ErrNotFinite, X: x, Residual: fx, Iterations: i}
		}
		if math.Abs(fx) < precision {
			return Root{X: x, Residual: fx, Iterations: i}, nil
		}
		if fx < 0 {
			lo = x
		} else {
			hi = x
		}
		if math.Abs(hi-lo) <= precision*math.Max(1, math.Abs(x)) {
			return Root{X: x, Residual: fx, Iterations: i}, nil
		}

		next := math.NaN()
		if dfx := df(x); !math.IsNaN(dfx) && math.Abs(dfx) >= MinDerivative {
			next = x - fx/dfx
		}
		if math.IsNaN(next) || next <= math.Min(lo, hi) || next >= math.Max(lo, hi) {
			next = 0.5 * (lo + hi)
		}
		x = next
	}

	return Root{}, &Error{Err: ErrMaxIterations, X: x, Residual: fx, Iterations: iterations}
}
