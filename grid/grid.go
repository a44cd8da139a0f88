// Package grid evaluates many independent option inputs concurrently.
//
// Every item is priced or solved on its own; results keep the order of the
// inputs and do not depend on the number of workers.
package grid

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/contactkeval/black-scholes/internal/logger"
	"github.com/contactkeval/black-scholes/pricing"
)

// Model selects the closed-form variant used for a Point.
type Model string

const (
	Spot     Model = "spot"     // Black-Scholes on the spot
	Dividend Model = "dividend" // Black-Scholes-Merton with a continuous yield
	Forward  Model = "forward"  // Black76 on the forward
)

// Point is one set of market inputs.
type Point struct {
	Model    Model   `json:"model"`
	Spot     float64 `json:"spot,omitempty"`
	Forward  float64 `json:"forward,omitempty"`
	Strike   float64 `json:"strike"`
	Rate     float64 `json:"rate"`
	Dividend float64 `json:"dividend,omitempty"`
	Sigma    float64 `json:"sigma"`
	Maturity float64 `json:"maturity"`
}

// Eval computes all prices and Greeks of the point with its model. An empty
// model means Spot.
func (p Point) Eval() pricing.PricesAndGreeks {
	switch p.Model {
	case Dividend:
		return pricing.BSMComputeAll(p.Spot, p.Strike, p.Rate, p.Dividend, p.Sigma, p.Maturity)
	case Forward:
		return pricing.Black76(p.Forward, p.Strike, p.Rate, p.Sigma, p.Maturity)
	default:
		return pricing.ComputeAll(p.Spot, p.Strike, p.Rate, p.Sigma, p.Maturity)
	}
}

// Quote is an observed option price to invert.
type Quote struct {
	Side     pricing.Side
	Price    float64
	Spot     float64
	Strike   float64
	Rate     float64
	Maturity float64
	// Guess warm-starts Newton when positive; otherwise the Corrado-Miller
	// approximation seeds the search.
	Guess float64
}

// IVResult is the outcome of one quote. Err is nil on success.
type IVResult struct {
	Volatility float64
	Iterations int
	Err        error
}

// Observer receives instrumentation events. Implementations must be safe
// for concurrent use.
type Observer interface {
	ObserveEvaluations(n int)
	ObserveSolve(iterations int, err error)
	ObserveBatch(kind string, elapsed time.Duration)
}

// Options configures a batch.
type Options struct {
	Workers  int            // concurrent goroutines, <= 0 means GOMAXPROCS
	Solver   pricing.Solver // unset fields default to pricing.DefaultSolver
	Observer Observer       // optional
	// Rational, when set, replaces Newton on the spot price. Quote.Guess is
	// ignored and Solver.MaxIterations is passed as the iteration budget.
	Rational pricing.RationalSolver
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// solver fills each unset field of o.Solver from pricing.DefaultSolver.
func (o Options) solver() pricing.Solver {
	sv := o.Solver
	if !(sv.Precision > 0) {
		sv.Precision = pricing.DefaultSolver.Precision
	}
	if sv.MaxIterations <= 0 {
		sv.MaxIterations = pricing.DefaultSolver.MaxIterations
	}
	return sv
}

// chunk is the number of items a worker handles between context checks.
const chunk = 256

// Evaluate computes every point. It only fails when ctx is cancelled.
func Evaluate(ctx context.Context, points []Point, opts Options) ([]pricing.PricesAndGreeks, error) {
	start := time.Now()
	out := make([]pricing.PricesAndGreeks, len(points))

	err := fanOut(ctx, len(points), opts.workers(), func(i int) {
		out[i] = points[i].Eval()
	})
	if err != nil {
		return nil, err
	}

	if opts.Observer != nil {
		opts.Observer.ObserveEvaluations(len(points))
		opts.Observer.ObserveBatch("evaluate", time.Since(start))
	}
	logger.Debugf("evaluated %d points in %s", len(points), time.Since(start))
	return out, nil
}

// SolveIV inverts every quote. Solver failures are reported per quote in
// IVResult.Err; the returned error is only set when ctx is cancelled.
func SolveIV(ctx context.Context, quotes []Quote, opts Options) ([]IVResult, error) {
	start := time.Now()
	solver := opts.solver()
	out := make([]IVResult, len(quotes))

	err := fanOut(ctx, len(quotes), opts.workers(), func(i int) {
		q := quotes[i]
		var (
			sol pricing.Solution
			err error
		)
		switch {
		case opts.Rational != nil:
			sol.Volatility, err = pricing.RationalIV(opts.Rational, q.Side, q.Price, q.Spot, q.Strike, q.Rate, q.Maturity, solver.MaxIterations)
		case q.Guess > 0:
			sol, err = solver.SolveGuess(q.Side, q.Price, q.Spot, q.Strike, q.Rate, q.Maturity, q.Guess)
		default:
			sol, err = solver.Solve(q.Side, q.Price, q.Spot, q.Strike, q.Rate, q.Maturity)
		}
		if err != nil {
			logger.Tracef("quote %d: %v", i, err)
		}
		out[i] = IVResult{Volatility: sol.Volatility, Iterations: sol.Iterations, Err: err}
		if opts.Observer != nil {
			opts.Observer.ObserveSolve(sol.Iterations, err)
		}
	})
	if err != nil {
		return nil, err
	}

	if opts.Observer != nil {
		opts.Observer.ObserveBatch("solve_iv", time.Since(start))
	}
	failed := 0
	for _, r := range out {
		if r.Err != nil {
			failed++
		}
	}
	logger.Debugf("solved %d quotes (%d failed) in %s", len(quotes), failed, time.Since(start))
	return out, nil
}

// fanOut runs fn for every index in [0, n) on at most workers goroutines,
// in contiguous chunks.
func fanOut(parent context.Context, n, workers int, fn func(i int)) error {
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(workers)

	for lo := 0; lo < n; lo += chunk {
		if ctx.Err() != nil {
			break
		}
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%32 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				fn(i)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// chunks skipped by the loop leave no error in the group
	return parent.Err()
}
