package pricing_test

import (
	"testing"

	"github.com/contactkeval/black-scholes/internal/testutil"
	"github.com/contactkeval/black-scholes/pricing"
)

type formula func(s, k, rate, sigma, maturity float64) float64

type market struct {
	s, k, rate, sigma, maturity float64
}

func markets() []market {
	var out []market
	for _, k := range []float64{70, 95, 100, 110, 140} {
		for _, sigma := range []float64{0.1, 0.25, 0.6} {
			for _, maturity := range []float64{0.05, 0.5, 2} {
				out = append(out, market{100, k, 0.04, sigma, maturity})
			}
		}
	}
	return out
}

// central differences of f in one input
func dS(f formula, m market, h float64) float64 {
	return (f(m.s+h, m.k, m.rate, m.sigma, m.maturity) - f(m.s-h, m.k, m.rate, m.sigma, m.maturity)) / (2 * h)
}

func dSigma(f formula, m market, h float64) float64 {
	return (f(m.s, m.k, m.rate, m.sigma+h, m.maturity) - f(m.s, m.k, m.rate, m.sigma-h, m.maturity)) / (2 * h)
}

func dRate(f formula, m market, h float64) float64 {
	return (f(m.s, m.k, m.rate+h, m.sigma, m.maturity) - f(m.s, m.k, m.rate-h, m.sigma, m.maturity)) / (2 * h)
}

func dMaturity(f formula, m market, h float64) float64 {
	return (f(m.s, m.k, m.rate, m.sigma, m.maturity+h) - f(m.s, m.k, m.rate, m.sigma, m.maturity-h)) / (2 * h)
}

func TestGreeksFiniteDifference(t *testing.T) {
	const tol = 1e-5

	for _, m := range markets() {
		at := func(f formula) float64 { return f(m.s, m.k, m.rate, m.sigma, m.maturity) }
		h := 1e-5 * m.maturity

		tests := []struct {
			name      string
			got, want float64
		}{
			{"call delta", at(pricing.CallDelta), dS(pricing.Call, m, 1e-3)},
			{"put delta", at(pricing.PutDelta), dS(pricing.Put, m, 1e-3)},
			{"gamma", at(pricing.CallGamma), dS(pricing.CallDelta, m, 1e-3)},
			{"vega", at(pricing.CallVega), dSigma(pricing.Call, m, 1e-5)},
			{"vanna", at(pricing.CallVanna), dS(pricing.CallVega, m, 1e-3)},
			{"vomma", at(pricing.CallVomma), dSigma(pricing.CallVega, m, 1e-5)},
			{"call rho", at(pricing.CallRho), dRate(pricing.Call, m, 1e-6)},
			{"put rho", at(pricing.PutRho), dRate(pricing.Put, m, 1e-6)},
			{"call theta", at(pricing.CallTheta), -dMaturity(pricing.Call, m, h)},
			{"put theta", at(pricing.PutTheta), -dMaturity(pricing.Put, m, h)},
			{"charm", at(pricing.CallCharm), -dMaturity(pricing.CallDelta, m, h)},
		}
		for _, tt := range tests {
			if !testutil.Close(tt.got, tt.want, tol) {
				t.Fatalf("%s at %+v: expected %.10g, got %.10g", tt.name, m, tt.want, tt.got)
			}
		}
	}
}

func TestPutGreeksShareCallFormulas(t *testing.T) {
	pairs := []struct {
		name      string
		call, put formula
	}{
		{"gamma", pricing.CallGamma, pricing.PutGamma},
		{"vega", pricing.CallVega, pricing.PutVega},
		{"vanna", pricing.CallVanna, pricing.PutVanna},
		{"vomma", pricing.CallVomma, pricing.PutVomma},
		{"charm", pricing.CallCharm, pricing.PutCharm},
	}
	for _, m := range markets() {
		for _, p := range pairs {
			c := p.call(m.s, m.k, m.rate, m.sigma, m.maturity)
			q := p.put(m.s, m.k, m.rate, m.sigma, m.maturity)
			if c != q {
				t.Fatalf("%s at %+v: expected put %v to equal call %v", p.name, m, q, c)
			}
		}
	}
}

func TestDegenerateGreeks(t *testing.T) {
	tests := []struct {
		name string
		fn   formula
		s    float64
		want float64
	}{
		{"call delta itm", pricing.CallDelta, 120, 1},
		{"call delta otm", pricing.CallDelta, 80, 0},
		{"call delta atm", pricing.CallDelta, 100, 0},
		{"put delta itm", pricing.PutDelta, 80, -1},
		{"put delta otm", pricing.PutDelta, 120, 0},
		{"gamma", pricing.CallGamma, 100, 0},
		{"vega", pricing.CallVega, 100, 0},
		{"call theta", pricing.CallTheta, 120, 0},
		{"put theta", pricing.PutTheta, 80, 0},
		{"call rho", pricing.CallRho, 120, 0},
		{"put rho", pricing.PutRho, 80, 0},
		{"vanna", pricing.CallVanna, 100, 0},
		{"vomma", pricing.CallVomma, 100, 0},
		{"charm", pricing.CallCharm, 120, 0},
	}
	for _, tt := range tests {
		for _, maturity := range []float64{0, -1} {
			if got := tt.fn(tt.s, 100, 0.05, 0.2, maturity); got != tt.want {
				t.Fatalf("%s T=%v: expected %v, got %v", tt.name, maturity, tt.want, got)
			}
		}
	}
}
