package data

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/contactkeval/black-scholes/internal/testutil"
	"github.com/contactkeval/black-scholes/pricing"
)

func testParams() SyntheticParams {
	return SyntheticParams{
		Underlying: "spy",
		Spot:       100,
		Rate:       0.03,
		Dividend:   0.01,
		Vol:        0.25,
		Skew:       -0.2,
		Strikes:    []float64{90, 100, 110},
		Maturities: []float64{0.25, 1},
		Seed:       7,
	}
}

func TestOptionSymbolFromParts(t *testing.T) {
	expiry := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		side   string
		strike float64
		want   string
	}{
		{"call", 581, "O:SPY250117C00581000"},
		{"P", 42.5, "O:SPY250117P00042500"},
	}
	for _, tt := range tests {
		if got := OptionSymbolFromParts("spy", expiry, tt.side, tt.strike); got != tt.want {
			t.Fatalf("expected %s, got %s", tt.want, got)
		}
	}
}

func TestOptionSymbolsGolden(t *testing.T) {
	jan := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC)
	symbols := []string{
		OptionSymbolFromParts("SPY", jan, "call", 581),
		OptionSymbolFromParts("SPY", jan, "put", 581),
		OptionSymbolFromParts("qqq", dec, "c", 42.5),
	}
	testutil.CompareWithGolden(t, "symbols", symbols)
}

func TestQuoteYears(t *testing.T) {
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	q := Quote{AsOf: Date{asOf}, Expiry: Date{asOf.AddDate(0, 0, 73)}}
	if got := q.Years(); math.Abs(got-0.2) > 1e-12 {
		t.Fatalf("expected 0.2, got %f", got)
	}
	q.Maturity = 0.5
	if got := q.Years(); got != 0.5 {
		t.Fatalf("expected explicit maturity 0.5, got %f", got)
	}
	if got := (Quote{}).Years(); got != 0 {
		t.Fatalf("expected 0 without dates, got %f", got)
	}
}

func TestQuoteOptionSide(t *testing.T) {
	for in, want := range map[string]pricing.Side{"call": pricing.SideCall, "C": pricing.SideCall, " put": pricing.SidePut, "p": pricing.SidePut} {
		got, err := Quote{Side: in}.OptionSide()
		if err != nil || got != want {
			t.Fatalf("side %q: expected %v, got %v (%v)", in, want, got, err)
		}
	}
	if _, err := (Quote{Side: "straddle"}).OptionSide(); err == nil {
		t.Fatalf("expected error for unknown side")
	}
}

func TestSyntheticSource(t *testing.T) {
	p := testParams()
	quotes, err := NewSyntheticSource(p).Quotes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 2*len(p.Strikes)*len(p.Maturities) {
		t.Fatalf("expected %d quotes, got %d", 2*len(p.Strikes)*len(p.Maturities), len(quotes))
	}

	for _, q := range quotes {
		// BSM on the spot equals Black-Scholes on the carry-adjusted spot
		want := pricing.Call(q.CarrySpot(), q.Strike, q.Rate, q.Vol, q.Years())
		if q.Side == "put" {
			want = pricing.Put(q.CarrySpot(), q.Strike, q.Rate, q.Vol, q.Years())
		}
		if math.Abs(q.Price-want) > 1e-9 {
			t.Fatalf("%s: expected price %f, got %f", q.Symbol, want, q.Price)
		}
	}

	again, _ := NewSyntheticSource(p).Quotes(context.Background())
	for i := range quotes {
		if quotes[i] != again[i] {
			t.Fatalf("expected deterministic quotes, row %d differs", i)
		}
	}
}

func TestSyntheticSourceNoiseSeeded(t *testing.T) {
	p := testParams()
	p.Noise = 0.01
	a, _ := NewSyntheticSource(p).Quotes(context.Background())
	b, _ := NewSyntheticSource(p).Quotes(context.Background())
	for i := range a {
		if a[i].Price != b[i].Price {
			t.Fatalf("expected equal noisy prices for the same seed at row %d", i)
		}
	}
}

func TestCSVSourceRoundTrip(t *testing.T) {
	quotes, err := NewSyntheticSource(testParams()).Quotes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "quotes.csv")
	if err := WriteQuotesCSV(path, quotes); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewCSVSource(path, nil).Quotes(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(quotes) {
		t.Fatalf("expected %d rows, got %d", len(quotes), len(got))
	}
	for i := range got {
		if got[i].Symbol != quotes[i].Symbol || got[i].Price != quotes[i].Price {
			t.Fatalf("row %d: expected %+v, got %+v", i, quotes[i], got[i])
		}
		if !got[i].Expiry.Equal(quotes[i].Expiry.Time) {
			t.Fatalf("row %d: expected expiry %v, got %v", i, quotes[i].Expiry, got[i].Expiry)
		}
	}
}

func TestCSVSourceDatesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	csv := "symbol,side,strike,spot,rate,expiry,as_of,price\n" +
		"O:ABC250401C00100000,call,100,100,0.05,2025-04-01,2025-01-01,4.5\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := NewCSVSource(path, nil).Quotes(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(got))
	}
	if want := 90.0 / 365; math.Abs(got[0].Years()-want) > 1e-12 {
		t.Fatalf("expected %f years, got %f", want, got[0].Years())
	}
}

func TestCSVSourceBadSide(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	if err := os.WriteFile(path, []byte("symbol,side,price\nX,fly,1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewCSVSource(path, nil).Quotes(context.Background()); err == nil {
		t.Fatalf("expected error for unknown side")
	}
}

func TestCSVSourceFallback(t *testing.T) {
	secondary := NewSyntheticSource(testParams())
	src := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"), secondary)
	if src.Secondary() != secondary {
		t.Fatalf("expected secondary to be exposed")
	}
	got, err := src.Quotes(context.Background())
	if err != nil {
		t.Fatalf("expected fallback, got %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected synthetic quotes from fallback")
	}

	if _, err := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"), nil).Quotes(context.Background()); err == nil {
		t.Fatalf("expected error without secondary")
	}
}

func TestSourcesHonorContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSyntheticSource(testParams()).Quotes(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
