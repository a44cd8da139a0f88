// Package data loads option quotes to be inverted or priced in bulk.
package data

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/contactkeval/black-scholes/pricing"
)

// Source supplies option quotes. A source that cannot serve a request may
// delegate to its Secondary.
type Source interface {
	Secondary() Source
	Quotes(ctx context.Context) ([]Quote, error)
}

const dateLayout = "2006-01-02"

// Date is a calendar date encoded as YYYY-MM-DD in CSV files.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format(dateLayout), nil
}

// Quote is one observed option price with its market inputs.
type Quote struct {
	Symbol     string  `csv:"symbol" json:"symbol"`
	Underlying string  `csv:"underlying" json:"underlying"`
	Side       string  `csv:"side" json:"side"` // "call" or "put"
	Strike     float64 `csv:"strike" json:"strike"`
	Spot       float64 `csv:"spot" json:"spot"`
	Rate       float64 `csv:"rate" json:"rate"`
	Dividend   float64 `csv:"dividend" json:"dividend"`
	Maturity   float64 `csv:"maturity" json:"maturity"` // years, overrides the dates when positive
	Expiry     Date    `csv:"expiry" json:"-"`
	AsOf       Date    `csv:"as_of" json:"-"`
	Price      float64 `csv:"price" json:"price"`
	Guess      float64 `csv:"guess" json:"guess,omitempty"`
	// Vol is the volatility a synthetic quote was generated with.
	Vol float64 `csv:"vol,omitempty" json:"vol,omitempty"`
}

// Years returns the time to expiry in years: Maturity when set, otherwise
// the ACT/365 fraction between AsOf and Expiry.
func (q Quote) Years() float64 {
	if q.Maturity > 0 {
		return q.Maturity
	}
	if q.Expiry.IsZero() || q.AsOf.IsZero() {
		return 0
	}
	return q.Expiry.Sub(q.AsOf.Time).Hours() / 24 / 365
}

// OptionSide parses Side.
func (q Quote) OptionSide() (pricing.Side, error) {
	switch strings.ToLower(strings.TrimSpace(q.Side)) {
	case "call", "c":
		return pricing.SideCall, nil
	case "put", "p":
		return pricing.SidePut, nil
	}
	return 0, fmt.Errorf("quote %s: unknown side %q", q.Symbol, q.Side)
}

// CarrySpot is the spot discounted by the dividend yield. Black-Scholes on
// CarrySpot equals Black-Scholes-Merton on Spot.
func (q Quote) CarrySpot() float64 {
	return q.Spot * math.Exp(-q.Dividend*q.Years())
}

// OptionSymbolFromParts: improved OCC-like formatter (best-effort)
func OptionSymbolFromParts(underlying string, expiryDate time.Time, optionType string, strike float64) string {
	// OCC: <root><YYMMDD><C|P><strike*1000 padded to 8 digits>
	expDt := expiryDate.UTC().Format("060102")
	optType := "C"
	if strings.ToLower(optionType) == "put" || strings.ToLower(optionType) == "p" {
		optType = "P"
	}
	strikeInt := int(math.Round(strike * 1000))
	strFmt := fmt.Sprintf("%08d", strikeInt)
	return fmt.Sprintf("O:%s%s%s%s", strings.ToUpper(underlying), expDt, optType, strFmt)
}
