package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	massive "github.com/massive-com/client-go/v2/rest"
	"github.com/massive-com/client-go/v2/rest/models"

	"github.com/contactkeval/black-scholes/internal/logger"
)

// massiveSource implements Source by reading an option chain snapshot from
// the Massive (formerly Polygon) REST API.
type massiveSource struct {
	// APIKey used for authenticating requests with Massive.
	APIKey string

	// Client is the Massive REST client. Paging, bearer auth and retries
	// are handled by it.
	Client *massive.Client

	params    MassiveParams
	secondary Source
}

// MassiveParams selects the chain to download and the market inputs that
// the snapshot does not carry.
type MassiveParams struct {
	Underlying string
	Rate       float64
	Dividend   float64
	AsOf       time.Time // zero means today (UTC)
	BaseURL    string    // empty keeps the client's default endpoint
}

// NewMassiveSource constructs a Massive-backed quote source. It falls back
// to secondary when apiKey is empty.
//
// Parameters:
//   - apiKey: Massive API key for authentication
//   - params: chain selection and market inputs
//   - secondary: optional fallback source
func NewMassiveSource(apiKey string, params MassiveParams, secondary Source) Source {
	logger.Infof("initializing Massive quote source for %s", params.Underlying)

	client := massive.New(apiKey)
	if params.BaseURL != "" {
		client.HTTP.SetBaseURL(strings.TrimRight(params.BaseURL, "/"))
	}

	return &massiveSource{
		APIKey:    apiKey,
		Client:    client,
		params:    params,
		secondary: secondary,
	}
}

// Secondary returns the configured secondary Source, if any.
func (src *massiveSource) Secondary() Source {
	return src.secondary
}

// Quotes iterates every page of the chain and converts contracts with a
// usable price into quotes. The mid quote is preferred over the day close.
func (src *massiveSource) Quotes(ctx context.Context) ([]Quote, error) {
	if src.APIKey == "" {
		if src.secondary != nil {
			logger.Infof("no Massive API key, using secondary source")
			return src.secondary.Quotes(ctx)
		}
		return nil, fmt.Errorf("massive: missing API key")
	}

	asOf := src.params.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC().Truncate(24 * time.Hour)
	}

	params := models.ListOptionsChainParams{UnderlyingAsset: strings.ToUpper(src.params.Underlying)}
	iter := src.Client.ListOptionsChainSnapshot(ctx, &params)

	var out []Quote
	skipped := 0
	for iter.Next() {
		q, ok := snapshotQuote(iter.Item(), src.params, asOf)
		if !ok {
			skipped++
			continue
		}
		out = append(out, q)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s chain snapshot: %w", params.UnderlyingAsset, err)
	}

	logger.Infof("fetched %d quotes for %s (%d skipped)", len(out), params.UnderlyingAsset, skipped)
	return out, nil
}

// snapshotQuote converts one contract; expired or unpriced contracts are
// rejected.
func snapshotQuote(s models.OptionContractSnapshot, p MassiveParams, asOf time.Time) (Quote, bool) {
	price := s.LastQuote.Midpoint
	if price <= 0 {
		price = s.Day.Close
	}
	expiry := time.Time(s.Details.ExpirationDate).UTC()
	if price <= 0 || s.UnderlyingAsset.Price <= 0 || !expiry.After(asOf) {
		return Quote{}, false
	}
	underlying := s.UnderlyingAsset.Ticker
	if underlying == "" {
		underlying = strings.ToUpper(p.Underlying)
	}
	return Quote{
		Symbol:     s.Details.Ticker,
		Underlying: underlying,
		Side:       strings.ToLower(s.Details.ContractType),
		Strike:     s.Details.StrikePrice,
		Spot:       s.UnderlyingAsset.Price,
		Rate:       p.Rate,
		Dividend:   p.Dividend,
		Expiry:     Date{expiry},
		AsOf:       Date{asOf},
		Price:      price,
		Guess:      s.ImpliedVolatility,
	}, true
}
