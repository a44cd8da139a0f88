// Package rootfind provides the scalar root finders used by the implied
// volatility solvers.
//
// Both finders are pure: the iteration state (current x, residual,
// derivative, iteration count) lives on the stack of a single call and is
// only surfaced through the returned Root or *Error.
package rootfind

import (
	"errors"
	"fmt"
	"math"
)

// MinDerivative is the smallest |f'(x)| Newton accepts before it reports a
// division hazard instead of stepping.
const MinDerivative = 1e-300

var (
	ErrMaxIterations  = errors.New("rootfind: iteration budget exhausted")
	ErrZeroDerivative = errors.New("rootfind: derivative is zero or not finite")
	ErrNotFinite      = errors.New("rootfind: iterate is not finite")
	ErrNoBracket      = errors.New("rootfind: interval does not bracket a root")
)

// Root is a converged solution.
type Root struct {
	X          float64 // root estimate
	Residual   float64 // f(X)
	Iterations int     // function evaluations spent
}

// Error reports a failed search together with the last state of the iteration.
type Error struct {
	Err        error
	X          float64
	Residual   float64
	Iterations int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (x=%g residual=%g iterations=%d)", e.Err, e.X, e.Residual, e.Iterations)
}

func (e *Error) Unwrap() error { return e.Err }

// Newton runs plain Newton-Raphson from guess.
//
// Parameters:
//   - f: objective function
//   - df: derivative of f
//   - guess: starting point
//   - precision: convergence threshold on |f(x)|
//   - iterations: maximum number of steps
//
// Returns:
//
//	Root on success; X is the converged iterate after a final Newton
//	correction and Residual is f at the iterate that met precision.
//	On failure an *Error wrapping ErrZeroDerivative,
//	ErrNotFinite or ErrMaxIterations.
func Newton(f, df func(float64) float64, guess, precision float64, iterations int) (Root, error) {
	x := guess
	fx := math.NaN()

	for i := 0; i < iterations; i++ {
		fx = f(x)
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			return Root{}, &Error{Err: ErrNotFinite, X: x, Residual: fx, Iterations: i}
		}
		dfx := df(x)
		if math.Abs(fx) < precision {
			// one last correction; Newton is quadratic this close to the root
			if !math.IsNaN(dfx) && !math.IsInf(dfx, 0) && math.Abs(dfx) >= MinDerivative {
				if polished := x - fx/dfx; !math.IsNaN(polished) && !math.IsInf(polished, 0) {
					x = polished
				}
			}
			return Root{X: x, Residual: fx, Iterations: i}, nil
		}

		if math.IsNaN(dfx) || math.IsInf(dfx, 0) || math.Abs(dfx) < MinDerivative {
			return Root{}, &Error{Err: ErrZeroDerivative, X: x, Residual: fx, Iterations: i}
		}

		x -= fx / dfx
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Root{}, &Error{Err: ErrNotFinite, X: x, Residual: fx, Iterations: i + 1}
		}
	}

	return Root{}, &Error{Err: ErrMaxIterations, X: x, Residual: fx, Iterations: iterations}
}
