package pricing

// Single-formula Greeks. Each function derives d1 (and d2 where needed)
// from scratch; use ComputeAll when more than one output is needed for the
// same inputs.

// CallDelta returns dC/dS. Degenerate branch: 1 if s > k, else 0.
func CallDelta(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if t.diffusive() {
		return CumNorm(D1(s, k, t.discount, t.sqrtMaturitySigma))
	}
	if s > k {
		return 1
	}
	return 0
}

// CallGamma returns d²C/dS².
func CallGamma(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if !t.diffusive() {
		return 0
	}
	d1 := D1(s, k, t.discount, t.sqrtMaturitySigma)
	return IncNorm(d1) / (s * t.sqrtMaturitySigma)
}

// CallVega returns dC/dsigma (per unit of volatility, not per point).
func CallVega(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if !t.diffusive() {
		return 0
	}
	d1 := D1(s, k, t.discount, t.sqrtMaturitySigma)
	return s * IncNorm(d1) * t.sqrtMaturity
}

// CallTheta returns the calendar decay of the call, annualized.
func CallTheta(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if !t.diffusive() {
		return 0
	}
	d1 := D1(s, k, t.discount, t.sqrtMaturitySigma)
	d2 := D2(d1, t.sqrtMaturitySigma)
	return -s*IncNorm(d1)*sigma/(2*t.sqrtMaturity) - rate*k*t.discount*CumNorm(d2)
}

// CallRho returns dC/drate.
func CallRho(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if !t.diffusive() {
		return 0
	}
	d2 := D2(D1(s, k, t.discount, t.sqrtMaturitySigma), t.sqrtMaturitySigma)
	return k * t.discount * maturity * CumNorm(d2)
}

// CallVanna returns d²C/dS dsigma.
func CallVanna(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if !t.diffusive() {
		return 0
	}
	d1 := D1(s, k, t.discount, t.sqrtMaturitySigma)
	d2 := D2(d1, t.sqrtMaturitySigma)
	return -IncNorm(d1) * d2 / sigma
}

// CallVomma returns d²C/dsigma².
func CallVomma(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if !t.diffusive() {
		return 0
	}
	d1 := D1(s, k, t.discount, t.sqrtMaturitySigma)
	d2 := D2(d1, t.sqrtMaturitySigma)
	return s * IncNorm(d1) * d1 * d2 * maturity / t.sqrtMaturitySigma
}

// CallCharm returns the decay of delta over calendar time.
//
// The zero returned for the degenerate branch has not been confirmed
// against an independent reference.
func CallCharm(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if !t.diffusive() {
		return 0
	}
	d1 := D1(s, k, t.discount, t.sqrtMaturitySigma)
	d2 := D2(d1, t.sqrtMaturitySigma)
	return -IncNorm(d1) * (2*rate*maturity - d2*t.sqrtMaturitySigma) /
		(2 * maturity * t.sqrtMaturitySigma)
}

// PutDelta returns dP/dS. Degenerate branch: -1 if k > s, else 0.
func PutDelta(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if t.diffusive() {
		return CumNorm(D1(s, k, t.discount, t.sqrtMaturitySigma)) - 1
	}
	if k > s {
		return -1
	}
	return 0
}

// PutGamma is identical to CallGamma.
func PutGamma(s, k, rate, sigma, maturity float64) float64 {
	return CallGamma(s, k, rate, sigma, maturity)
}

// PutVega is identical to CallVega.
func PutVega(s, k, rate, sigma, maturity float64) float64 {
	return CallVega(s, k, rate, sigma, maturity)
}

// PutTheta returns the calendar decay of the put, annualized.
func PutTheta(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if !t.diffusive() {
		return 0
	}
	d1 := D1(s, k, t.discount, t.sqrtMaturitySigma)
	d2 := D2(d1, t.sqrtMaturitySigma)
	return -s*IncNorm(d1)*sigma/(2*t.sqrtMaturity) + rate*k*t.discount*CumNorm(-d2)
}

// PutRho returns dP/drate.
func PutRho(s, k, rate, sigma, maturity float64) float64 {
	t := newTerms(rate, sigma, maturity)
	if !t.diffusive() {
		return 0
	}
	d2 := D2(D1(s, k, t.discount, t.sqrtMaturitySigma), t.sqrtMaturitySigma)
	return -k * t.discount * maturity * CumNorm(-d2)
}

// PutVanna is identical to CallVanna.
func PutVanna(s, k, rate, sigma, maturity float64) float64 {
	return CallVanna(s, k, rate, sigma, maturity)
}

// PutVomma is identical to CallVomma.
func PutVomma(s, k, rate, sigma, maturity float64) float64 {
	return CallVomma(s, k, rate, sigma, maturity)
}

// PutCharm is identical to CallCharm in the spot model.
func PutCharm(s, k, rate, sigma, maturity float64) float64 {
	return CallCharm(s, k, rate, sigma, maturity)
}
