package pricing

import "math"

// CallDiscount returns the Black-Scholes call price with the discount factor
// and total volatility already computed.
//
// Parameters:
//   - s: spot price of the underlying
//   - k: strike price
//   - discount: present value of one unit paid at expiry, exp(-rate*maturity)
//   - sqrtMaturitySigma: total volatility sigma*sqrt(maturity)
//
// Returns:
//
//	The call price. When sqrtMaturitySigma is not positive the undiscounted
//	intrinsic value max(s-k, 0) is returned.
func CallDiscount(s, k, discount, sqrtMaturitySigma float64) float64 {
	if sqrtMaturitySigma > 0 {
		d1 := D1(s, k, discount, sqrtMaturitySigma)
		return s*CumNorm(d1) - k*discount*CumNorm(D2(d1, sqrtMaturitySigma))
	}
	return math.Max(s-k, 0)
}

// PutDiscount is the put counterpart of CallDiscount. The degenerate branch
// returns max(k-s, 0).
func PutDiscount(s, k, discount, sqrtMaturitySigma float64) float64 {
	if sqrtMaturitySigma > 0 {
		d1 := D1(s, k, discount, sqrtMaturitySigma)
		return k*discount*CumNorm(sqrtMaturitySigma-d1) - s*CumNorm(-d1)
	}
	return math.Max(k-s, 0)
}

// Call returns the Black-Scholes price of a European call.
//
// Example:
//
//	Call(5.0, 4.5, 0.05, 0.3, 1.0) // 0.9848721043419868
func Call(s, k, rate, sigma, maturity float64) float64 {
	return CallDiscount(s, k, math.Exp(-rate*maturity), math.Sqrt(maturity)*sigma)
}

// Put returns the Black-Scholes price of a European put.
//
// Example:
//
//	Put(5.0, 4.5, 0.05, 0.3, 1.0) // 0.2654045145951993
func Put(s, k, rate, sigma, maturity float64) float64 {
	return PutDiscount(s, k, math.Exp(-rate*maturity), math.Sqrt(maturity)*sigma)
}
