package pricing

import "math"

// PricesAndGreeks holds every price and sensitivity for one set of market
// inputs. Gamma, vega, vanna and vomma are equal for the call and the put.
type PricesAndGreeks struct {
	CallPrice float64 `json:"call_price"`
	CallDelta float64 `json:"call_delta"`
	CallGamma float64 `json:"call_gamma"`
	CallTheta float64 `json:"call_theta"`
	CallVega  float64 `json:"call_vega"`
	CallRho   float64 `json:"call_rho"`
	CallVanna float64 `json:"call_vanna"`
	CallVomma float64 `json:"call_vomma"`
	CallCharm float64 `json:"call_charm"`

	PutPrice float64 `json:"put_price"`
	PutDelta float64 `json:"put_delta"`
	PutGamma float64 `json:"put_gamma"`
	PutTheta float64 `json:"put_theta"`
	PutVega  float64 `json:"put_vega"`
	PutRho   float64 `json:"put_rho"`
	PutVanna float64 `json:"put_vanna"`
	PutVomma float64 `json:"put_vomma"`
	PutCharm float64 `json:"put_charm"`
}

// intrinsic fills the zero-variance branch shared by every model: intrinsic
// value of the underlying (spot or forward) against the strike, binary
// delta, zero for the remaining Greeks.
func intrinsic(underlying, k float64) PricesAndGreeks {
	var out PricesAndGreeks
	out.CallPrice = math.Max(underlying-k, 0)
	out.PutPrice = math.Max(k-underlying, 0)
	if underlying > k {
		out.CallDelta = 1
	}
	if k > underlying {
		out.PutDelta = -1
	}
	return out
}

// ComputeAll evaluates every Black-Scholes output for one input tuple in a
// single pass. d1, d2, Φ(d1), Φ(d2) and φ(d1) are computed once; the results
// match the single formulas in this package.
func ComputeAll(s, k, rate, sigma, maturity float64) PricesAndGreeks {
	sqrtMaturity := math.Sqrt(maturity)
	sqrtMaturitySigma := sqrtMaturity * sigma
	if !(sqrtMaturitySigma > 0) {
		return intrinsic(s, k)
	}

	discount := math.Exp(-rate * maturity)
	kDiscount := k * discount
	d1 := D1(s, k, discount, sqrtMaturitySigma)
	d2 := D2(d1, sqrtMaturitySigma)
	cdfD1 := CumNorm(d1)
	cdfD2 := CumNorm(d2)
	pdfD1 := IncNorm(d1)

	callPrice := s*cdfD1 - kDiscount*cdfD2
	gamma := pdfD1 / (s * sqrtMaturitySigma)
	vega := s * pdfD1 * sqrtMaturity
	decay := -s * pdfD1 * sigma / (2 * sqrtMaturity)
	vanna := -pdfD1 * d2 / sigma
	vomma := vega * d1 * d2 / sigma
	charm := -pdfD1 * (2*rate*maturity - d2*sqrtMaturitySigma) / (2 * maturity * sqrtMaturitySigma)

	return PricesAndGreeks{
		CallPrice: callPrice,
		CallDelta: cdfD1,
		CallGamma: gamma,
		CallTheta: decay - rate*kDiscount*cdfD2,
		CallVega:  vega,
		CallRho:   kDiscount * maturity * cdfD2,
		CallVanna: vanna,
		CallVomma: vomma,
		CallCharm: charm,

		PutPrice: callPrice + kDiscount - s,
		PutDelta: cdfD1 - 1,
		PutGamma: gamma,
		PutTheta: decay + rate*kDiscount*(1-cdfD2),
		PutVega:  vega,
		PutRho:   -kDiscount * maturity * (1 - cdfD2),
		PutVanna: vanna,
		PutVomma: vomma,
		PutCharm: charm,
	}
}

// BSMComputeAll evaluates the Black-Scholes-Merton model with a continuous
// dividend yield. Spot-sensitive terms are scaled by exp(-dividend*maturity);
// with dividend == 0 the result equals ComputeAll.
func BSMComputeAll(s, k, rate, dividend, sigma, maturity float64) PricesAndGreeks {
	sqrtMaturity := math.Sqrt(maturity)
	sqrtMaturitySigma := sqrtMaturity * sigma
	if !(sqrtMaturitySigma > 0) {
		return intrinsic(s, k)
	}

	discount := math.Exp(-rate * maturity)
	carry := math.Exp(-dividend * maturity)
	kDiscount := k * discount
	sCarry := s * carry
	// ln(s*carry/(k*discount)) shifts the drift to rate-dividend
	d1 := D1(sCarry, k, discount, sqrtMaturitySigma)
	d2 := D2(d1, sqrtMaturitySigma)
	cdfD1 := CumNorm(d1)
	cdfD2 := CumNorm(d2)
	pdfD1 := IncNorm(d1)

	callPrice := sCarry*cdfD1 - kDiscount*cdfD2
	gamma := carry * pdfD1 / (s * sqrtMaturitySigma)
	vega := sCarry * pdfD1 * sqrtMaturity
	decay := -sCarry * pdfD1 * sigma / (2 * sqrtMaturity)
	vanna := -carry * pdfD1 * d2 / sigma
	vomma := vega * d1 * d2 / sigma
	charmCommon := -carry * pdfD1 * (2*(rate-dividend)*maturity - d2*sqrtMaturitySigma) /
		(2 * maturity * sqrtMaturitySigma)

	return PricesAndGreeks{
		CallPrice: callPrice,
		CallDelta: carry * cdfD1,
		CallGamma: gamma,
		CallTheta: decay - rate*kDiscount*cdfD2 + dividend*sCarry*cdfD1,
		CallVega:  vega,
		CallRho:   kDiscount * maturity * cdfD2,
		CallVanna: vanna,
		CallVomma: vomma,
		CallCharm: dividend*carry*cdfD1 + charmCommon,

		PutPrice: callPrice + kDiscount - sCarry,
		PutDelta: carry * (cdfD1 - 1),
		PutGamma: gamma,
		PutTheta: decay + rate*kDiscount*(1-cdfD2) - dividend*sCarry*(1-cdfD1),
		PutVega:  vega,
		PutRho:   -kDiscount * maturity * (1 - cdfD2),
		PutVanna: vanna,
		PutVomma: vomma,
		PutCharm: -dividend*carry*(1-cdfD1) + charmCommon,
	}
}

// Black76 evaluates the forward-based model: f is the forward price of the
// underlying for the option's expiry. Every output is the undiscounted
// forward value times exp(-rate*maturity); delta and gamma are taken with
// respect to the forward. Rho is computed with the forward held fixed.
func Black76(f, k, rate, sigma, maturity float64) PricesAndGreeks {
	sqrtMaturity := math.Sqrt(maturity)
	sqrtMaturitySigma := sqrtMaturity * sigma
	if !(sqrtMaturitySigma > 0) {
		return intrinsic(f, k)
	}

	discount := math.Exp(-rate * maturity)
	d1 := D1(f, k, 1, sqrtMaturitySigma)
	d2 := D2(d1, sqrtMaturitySigma)
	cdfD1 := CumNorm(d1)
	cdfD2 := CumNorm(d2)
	pdfD1 := IncNorm(d1)

	callPrice := discount * (f*cdfD1 - k*cdfD2)
	putPrice := callPrice + discount*(k-f)
	gamma := discount * pdfD1 / (f * sqrtMaturitySigma)
	vega := discount * f * pdfD1 * sqrtMaturity
	decay := -discount * f * pdfD1 * sigma / (2 * sqrtMaturity)
	vanna := -discount * pdfD1 * d2 / sigma
	vomma := vega * d1 * d2 / sigma
	charmCommon := discount * pdfD1 * d2 / (2 * maturity)

	return PricesAndGreeks{
		CallPrice: callPrice,
		CallDelta: discount * cdfD1,
		CallGamma: gamma,
		CallTheta: decay + rate*callPrice,
		CallVega:  vega,
		CallRho:   -maturity * callPrice,
		CallVanna: vanna,
		CallVomma: vomma,
		CallCharm: rate*discount*cdfD1 + charmCommon,

		PutPrice: putPrice,
		PutDelta: discount * (cdfD1 - 1),
		PutGamma: gamma,
		PutTheta: decay + rate*putPrice,
		PutVega:  vega,
		PutRho:   -maturity * putPrice,
		PutVanna: vanna,
		PutVomma: vomma,
		PutCharm: -rate*discount*(1-cdfD1) + charmCommon,
	}
}
