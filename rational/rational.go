// Package rational provides a pure-Go implied volatility routine with the
// calling convention of Jäckel's "Let's Be Rational": undiscounted option
// price, forward, strike, maturity and a ±1 side flag.
//
// It does not reproduce Jäckel's rational initial guesses. Instead it
// brackets the root in volatility and runs Newton with bisection fallback
// on the forward-normalized Black price, which converges for any price
// strictly inside the no-arbitrage bounds.
package rational

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/contactkeval/black-scholes/rootfind"
)

var (
	ErrInvalidInput = errors.New("rational: forward, strike and maturity must be positive and side ±1")
	ErrOutOfBounds  = errors.New("rational: price outside no-arbitrage bounds")
)

// maxBracketDoublings bounds the search for an upper volatility, 2^40 is far
// beyond any quoted volatility.
const maxBracketDoublings = 40

// Solver solves undiscounted Black76 prices for volatility.
type Solver struct {
	// Precision is the tolerance on the forward-normalized price. Zero
	// selects 1e-13.
	Precision float64
}

// ImpliedVolatility returns the Black76 volatility that reproduces price.
//
// Parameters:
//   - price: undiscounted option price (market price / discount factor)
//   - forward: forward price of the underlying
//   - strike: strike price
//   - maturity: time to expiry in years
//   - side: +1 for a call, -1 for a put
//   - maxIterations: root finder budget
func (sv Solver) ImpliedVolatility(price, forward, strike, maturity, side float64, maxIterations int) (float64, error) {
	if !(forward > 0) || !(strike > 0) || !(maturity > 0) || (side != 1 && side != -1) {
		return math.NaN(), ErrInvalidInput
	}

	intrinsic := math.Max(side*(forward-strike), 0)
	upper := forward
	if side < 0 {
		upper = strike
	}
	if !(price > intrinsic) || !(price < upper) {
		return math.NaN(), fmt.Errorf("%w: price=%g intrinsic=%g upper=%g", ErrOutOfBounds, price, intrinsic, upper)
	}

	// solve on the call side; parity is exact for undiscounted prices
	callPrice := price
	if side < 0 {
		callPrice = price + forward - strike
	}
	target := callPrice / forward
	moneyness := strike / forward
	sqrtMaturity := math.Sqrt(maturity)

	objective := func(sigma float64) float64 {
		return normalizedCall(moneyness, sigma*sqrtMaturity) - target
	}
	derivative := func(sigma float64) float64 {
		totalVol := sigma * sqrtMaturity
		if !(totalVol > 0) {
			return 0
		}
		d1 := -math.Log(moneyness)/totalVol + 0.5*totalVol
		return distuv.UnitNormal.Prob(d1) * sqrtMaturity
	}

	hi := 1.0
	for i := 0; objective(hi) <= 0; i++ {
		if i == maxBracketDoublings {
			return math.NaN(), fmt.Errorf("%w: no upper volatility bracket", ErrOutOfBounds)
		}
		hi *= 2
	}

	precision := sv.Precision
	if precision == 0 {
		precision = 1e-13
	}
	root, err := rootfind.Bracketed(objective, derivative, 0, hi, precision, maxIterations)
	if err != nil {
		return math.NaN(), err
	}
	return root.X, nil
}

// normalizedCall is the undiscounted Black call price divided by the
// forward, with moneyness = strike/forward.
func normalizedCall(moneyness, totalVol float64) float64 {
	if !(totalVol > 0) {
		return math.Max(1-moneyness, 0)
	}
	d1 := -math.Log(moneyness)/totalVol + 0.5*totalVol
	d2 := d1 - totalVol
	return distuv.UnitNormal.CDF(d1) - moneyness*distuv.UnitNormal.CDF(d2)
}
