package pricing

import "math"

// ApproximateVol returns the Corrado-Miller (1996) closed-form estimate of
// the volatility implied by a call price. It is only meant to seed the
// Newton solver: arbitrage-violating inputs give a meaningless (possibly
// negative) number rather than an error.
//
// Parameters:
//   - price: observed call price
//   - s: spot price of the underlying
//   - k: strike price
//   - rate: risk-free rate
//   - maturity: time to expiry in years
func ApproximateVol(price, s, k, rate, maturity float64) float64 {
	x := k * math.Exp(-rate*maturity)
	coef := sqrt2Pi / (s + x)
	h := s - x
	c1 := price - 0.5*h

	bridge := 0.0
	if disc := c1*c1 - h*h/math.Pi; disc > 0 {
		bridge = math.Sqrt(disc)
	}
	return coef * (c1 + bridge) / math.Sqrt(maturity)
}
