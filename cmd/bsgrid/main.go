// Command bsgrid solves implied volatilities for a chain of option quotes,
// or prices a synthetic strike by maturity grid, and writes the prices and
// Greeks as JSON and CSV reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/contactkeval/black-scholes/grid"
	"github.com/contactkeval/black-scholes/internal/config"
	"github.com/contactkeval/black-scholes/internal/data"
	"github.com/contactkeval/black-scholes/internal/logger"
	"github.com/contactkeval/black-scholes/internal/metrics"
	"github.com/contactkeval/black-scholes/internal/report"
	"github.com/contactkeval/black-scholes/pricing"
	"github.com/contactkeval/black-scholes/rational"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML, TOML or JSON config file")
	mode := flag.String("mode", "iv", "iv: solve quotes, grid: price the synthetic grid")
	verbosity := flag.Int("v", -1, "override log verbosity (0 error .. 3 trace)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bsgrid: %v\n", err)
		os.Exit(1)
	}
	if err := initLogger(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "bsgrid: %v\n", err)
		os.Exit(1)
	}
	if *verbosity >= 0 {
		logger.SetVerbosity(*verbosity)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *mode); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func initLogger(c config.Log) error {
	level, err := logger.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	return logger.Init(logger.Config{
		Level:      level,
		JSON:       c.Format == "json",
		File:       c.File,
		MaxSizeMB:  c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAge,
	})
}

// run executes one mode and writes its reports. Per-quote solver failures
// end up in the report rows, only configuration and I/O errors are returned.
func run(ctx context.Context, cfg *config.Config, mode string) error {
	start := time.Now()
	m := metrics.New()
	opts := grid.Options{
		Workers:  cfg.Grid.Workers,
		Solver:   pricing.Solver{Precision: cfg.Solver.Precision, MaxIterations: cfg.Solver.MaxIterations},
		Observer: m,
	}
	if cfg.Solver.Rational {
		opts.Rational = rational.Solver{}
	}

	var (
		rows []report.Row
		err  error
	)
	switch mode {
	case "iv":
		rows, err = solveQuotes(ctx, cfg, opts)
	case "grid":
		rows, err = priceGrid(ctx, cfg, opts)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return err
	}

	ropts := report.Options{Decimals: cfg.Report.Decimals, Compress: cfg.Report.Compress}
	rep := report.New(mode, rows)
	jsonPath, err := report.WriteJSON(rep, cfg.Report.Dir, ropts)
	if err != nil {
		return err
	}
	csvPath, err := report.WriteCSV(rows, cfg.Report.Dir, ropts)
	if err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return err
		}
	}

	logger.With("mode", mode, "rows", rep.Summary.Rows, "failed", rep.Summary.Failed).
		Info("reports written", "json", jsonPath, "csv", csvPath)
	logger.Infof("finished in %v", time.Since(start))
	return nil
}

func syntheticParams(c config.Synthetic) data.SyntheticParams {
	return data.SyntheticParams{
		Underlying: c.Underlying,
		Spot:       c.Spot,
		Rate:       c.Rate,
		Dividend:   c.Dividend,
		Vol:        c.Vol,
		Skew:       c.Skew,
		Strikes:    grid.Strikes(c.Spot, c.StrikeLo, c.StrikeHi, c.StrikeStep),
		Maturities: c.Maturities,
		Seed:       c.Seed,
		Noise:      c.Noise,
	}
}

func solveQuotes(ctx context.Context, cfg *config.Config, opts grid.Options) ([]report.Row, error) {
	// choose source
	var src data.Source = data.NewSyntheticSource(syntheticParams(cfg.Input.Synthetic))
	if cfg.Input.QuotesFile != "" {
		src = data.NewCSVSource(cfg.Input.QuotesFile, src)
		logger.Infof("quotes file %s enabled", cfg.Input.QuotesFile)
	} else {
		logger.Infof("synthetic quotes enabled")
	}
	if m := cfg.Input.Massive; m.Underlying != "" {
		src = data.NewMassiveSource(m.APIKey, data.MassiveParams{
			Underlying: m.Underlying,
			Rate:       cfg.Input.Synthetic.Rate,
			Dividend:   cfg.Input.Synthetic.Dividend,
			BaseURL:    m.BaseURL,
		}, src)
	}

	quotes, err := src.Quotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}

	// solve on the dividend-discounted spot so that Black-Scholes matches BSM
	in := make([]grid.Quote, len(quotes))
	for i, q := range quotes {
		side, err := q.OptionSide()
		if err != nil {
			return nil, err
		}
		in[i] = grid.Quote{
			Side:     side,
			Price:    q.Price,
			Spot:     q.CarrySpot(),
			Strike:   q.Strike,
			Rate:     q.Rate,
			Maturity: q.Years(),
			Guess:    q.Guess,
		}
	}

	solved, err := grid.SolveIV(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("solve quotes: %w", err)
	}

	// only solved quotes have a volatility to evaluate at
	var (
		points []grid.Point
		index  []int
	)
	for i, q := range quotes {
		if solved[i].Err != nil {
			continue
		}
		points = append(points, grid.Point{
			Model:    grid.Dividend,
			Spot:     q.Spot,
			Strike:   q.Strike,
			Rate:     q.Rate,
			Dividend: q.Dividend,
			Sigma:    solved[i].Volatility,
			Maturity: q.Years(),
		})
		index = append(index, i)
	}
	outputs, err := grid.Evaluate(ctx, points, opts)
	if err != nil {
		return nil, fmt.Errorf("evaluate quotes: %w", err)
	}
	evaluated := make([]pricing.PricesAndGreeks, len(quotes))
	for j, i := range index {
		evaluated[i] = outputs[j]
	}

	rows := make([]report.Row, len(quotes))
	for i, q := range quotes {
		rows[i] = report.NewRow(q, solved[i], evaluated[i])
	}
	return rows, nil
}

func priceGrid(ctx context.Context, cfg *config.Config, opts grid.Options) ([]report.Row, error) {
	syn := cfg.Input.Synthetic
	strikes := grid.Strikes(syn.Spot, syn.StrikeLo, syn.StrikeHi, syn.StrikeStep)
	if len(strikes) == 0 || len(syn.Maturities) == 0 {
		return nil, fmt.Errorf("empty grid: %d strikes, %d maturities", len(strikes), len(syn.Maturities))
	}

	base := grid.Point{
		Model:    grid.Model(cfg.Grid.Model),
		Spot:     syn.Spot,
		Rate:     syn.Rate,
		Dividend: syn.Dividend,
	}
	points := grid.Cartesian(base, strikes, syn.Maturities)
	for i := range points {
		p := &points[i]
		p.Sigma = math.Max(syn.Vol+syn.Skew*math.Log(p.Strike/syn.Spot), 0.01)
		if p.Model == grid.Forward {
			p.Forward = syn.Spot * math.Exp((syn.Rate-syn.Dividend)*p.Maturity)
		}
	}

	outputs, err := grid.Evaluate(ctx, points, opts)
	if err != nil {
		return nil, fmt.Errorf("evaluate grid: %w", err)
	}
	rows := make([]report.Row, len(points))
	for i, p := range points {
		rows[i] = report.GridRow(p, outputs[i])
	}
	return rows, nil
}
