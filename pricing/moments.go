package pricing

import "math"

// D1 returns the first standardized moment term
//
//	ln(s/(k*discount))/sqrtMaturitySigma + 0.5*sqrtMaturitySigma
//
// Callers only reach this with sqrtMaturitySigma > 0. A non-positive
// s/(k*discount) yields NaN or Inf, which is left to propagate.
func D1(s, k, discount, sqrtMaturitySigma float64) float64 {
	return math.Log(s/(k*discount))/sqrtMaturitySigma + 0.5*sqrtMaturitySigma
}

// D2 returns d1 - sigma*sqrt(maturity).
func D2(d1, sqrtMaturitySigma float64) float64 {
	return d1 - sqrtMaturitySigma
}

// terms holds the per-input quantities shared by the single formulas.
type terms struct {
	discount          float64
	sqrtMaturity      float64
	sqrtMaturitySigma float64
}

func newTerms(rate, sigma, maturity float64) terms {
	sqrtMaturity := math.Sqrt(maturity)
	return terms{
		discount:          math.Exp(-rate * maturity),
		sqrtMaturity:      sqrtMaturity,
		sqrtMaturitySigma: sqrtMaturity * sigma,
	}
}

// diffusive reports whether the total volatility is strictly positive. A
// negative maturity gives NaN here and is therefore treated like zero.
func (t terms) diffusive() bool {
	return t.sqrtMaturitySigma > 0
}
