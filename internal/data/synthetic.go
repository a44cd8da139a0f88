package data

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/contactkeval/black-scholes/pricing"
)

// SyntheticParams describes a generated option chain.
type SyntheticParams struct {
	Underlying string
	Spot       float64
	Rate       float64
	Dividend   float64
	Vol        float64 // at-the-money volatility
	Skew       float64 // volatility change per unit of ln(k/spot)
	Strikes    []float64
	Maturities []float64 // years
	AsOf       time.Time
	Seed       int64
	Noise      float64 // relative price noise, 0 for exact prices
}

// minVol keeps steep skews from producing non-positive volatilities.
const minVol = 0.01

// synthSource implements Source generating a call and a put per strike and
// maturity, priced with Black-Scholes-Merton.
type synthSource struct {
	params    SyntheticParams
	secondary Source
}

func NewSyntheticSource(params SyntheticParams) Source { return &synthSource{params: params} }

func (synthSrc *synthSource) Secondary() Source {
	return synthSrc.secondary
}

// Quotes is deterministic for a given Seed.
func (synthSrc *synthSource) Quotes(ctx context.Context) ([]Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := synthSrc.params
	asOf := p.AsOf
	if asOf.IsZero() {
		asOf = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	}
	rng := rand.New(rand.NewSource(p.Seed))

	out := make([]Quote, 0, 2*len(p.Strikes)*len(p.Maturities))
	for _, t := range p.Maturities {
		expiry := asOf.Add(time.Duration(math.Round(t*365)) * 24 * time.Hour)
		for _, k := range p.Strikes {
			vol := math.Max(p.Vol+p.Skew*math.Log(k/p.Spot), minVol)
			all := pricing.BSMComputeAll(p.Spot, k, p.Rate, p.Dividend, vol, t)

			for _, side := range []string{"call", "put"} {
				price := all.CallPrice
				if side == "put" {
					price = all.PutPrice
				}
				if p.Noise > 0 {
					price *= 1 + p.Noise*rng.NormFloat64()
				}
				out = append(out, Quote{
					Symbol:     OptionSymbolFromParts(p.Underlying, expiry, side, k),
					Underlying: p.Underlying,
					Side:       side,
					Strike:     k,
					Spot:       p.Spot,
					Rate:       p.Rate,
					Dividend:   p.Dividend,
					Maturity:   t,
					Expiry:     Date{expiry},
					AsOf:       Date{asOf},
					Price:      price,
					Vol:        vol,
				})
			}
		}
	}
	return out, nil
}
