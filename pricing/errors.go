package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrBelowIntrinsic is reported when the target price is at or below the
	// lower no-arbitrage bound, so no volatility can reproduce it.
	ErrBelowIntrinsic = errors.New("price at or below intrinsic value")
	// ErrAboveUpperBound is reported when a call price reaches the spot
	// (or a put price reaches the discounted strike).
	ErrAboveUpperBound = errors.New("price at or above no-arbitrage upper bound")
	// ErrRational wraps failures of an external RationalSolver.
	ErrRational = errors.New("rational solver failed")
)

// IVError describes a failed implied volatility solve. Volatility and
// Residual hold the last state reached by the iteration, if any.
type IVError struct {
	Op         string
	Price      float64
	Volatility float64
	Residual   float64
	Iterations int
	Err        error
}

func (e *IVError) Error() string {
	return fmt.Sprintf("%s: price=%g: %v (sigma=%g residual=%g iterations=%d)",
		e.Op, e.Price, e.Err, e.Volatility, e.Residual, e.Iterations)
}

func (e *IVError) Unwrap() error { return e.Err }
