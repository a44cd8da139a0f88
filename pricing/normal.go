// Package pricing implements closed-form European option pricing under the
// Black-Scholes family of models: spot Black-Scholes, dividend-adjusted
// Black-Scholes-Merton and forward-based Black76.
//
// Every function is a pure function of its float64 inputs and is safe for
// concurrent use. Market inputs follow the same order throughout:
//
//	s        spot price of the underlying
//	k        strike price
//	rate     continuously compounded risk-free rate
//	sigma    annualized volatility (decimal, 0.2 == 20%)
//	maturity time to expiry in years
//
// When sigma*sqrt(maturity) is not strictly positive (zero volatility, zero
// or negative maturity) every formula falls back to the intrinsic value of
// the option and binary/zero sensitivities.
package pricing

import "math"

const sqrt2Pi = 2.5066282746310002

// CumNorm is the standard normal cumulative distribution function.
func CumNorm(x float64) float64 {
	return 0.5*math.Erf(x/math.Sqrt2) + 0.5
}

// IncNorm is the standard normal probability density function.
func IncNorm(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}
