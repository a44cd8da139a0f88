package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/contactkeval/black-scholes/rootfind"
)

// Side selects the call or the put payoff. The numeric values match the
// side flag of the rational implied volatility contract.
type Side int

const (
	SideCall Side = 1
	SidePut  Side = -1
)

func (s Side) String() string {
	if s == SidePut {
		return "put"
	}
	return "call"
}

// Solver holds the Newton-Raphson settings used to invert the call price.
type Solver struct {
	Precision     float64 // stop when |model - target| < Precision
	MaxIterations int     // Newton step budget
}

// DefaultSolver uses a 1e-6 price precision and 10000 iterations.
var DefaultSolver = Solver{Precision: 1e-6, MaxIterations: 10000}

// Solution is a converged implied volatility.
type Solution struct {
	Volatility float64
	Iterations int
	Residual   float64
}

// SolveGuess inverts the price of the given side starting from a caller
// supplied volatility, e.g. the result of a neighbouring strike.
//
// Puts are first converted to the equivalent call price through put-call
// parity, callPrice = putPrice + s - k*exp(-rate*maturity), and solved on the
// call side.
//
// Returns:
//
//	Solution on success, otherwise an *IVError wrapping ErrBelowIntrinsic,
//	ErrAboveUpperBound or one of the rootfind sentinels.
func (sv Solver) SolveGuess(side Side, price, s, k, rate, maturity, guess float64) (Solution, error) {
	callPrice := sv.callPrice(side, price, s, k, rate, maturity)
	return sv.solveCall(side, price, callPrice, s, k, rate, maturity, guess)
}

// Solve inverts the price of the given side, seeding Newton with
// ApproximateVol.
func (sv Solver) Solve(side Side, price, s, k, rate, maturity float64) (Solution, error) {
	callPrice := sv.callPrice(side, price, s, k, rate, maturity)
	guess := ApproximateVol(callPrice, s, k, rate, maturity)
	return sv.solveCall(side, price, callPrice, s, k, rate, maturity, guess)
}

// CallIV returns the volatility implied by a call price.
func (sv Solver) CallIV(price, s, k, rate, maturity float64) (float64, error) {
	sol, err := sv.Solve(SideCall, price, s, k, rate, maturity)
	return sol.Volatility, err
}

// CallIVGuess returns the volatility implied by a call price, starting the
// search at initialGuess.
func (sv Solver) CallIVGuess(price, s, k, rate, maturity, initialGuess float64) (float64, error) {
	sol, err := sv.SolveGuess(SideCall, price, s, k, rate, maturity, initialGuess)
	return sol.Volatility, err
}

// PutIV returns the volatility implied by a put price.
func (sv Solver) PutIV(price, s, k, rate, maturity float64) (float64, error) {
	sol, err := sv.Solve(SidePut, price, s, k, rate, maturity)
	return sol.Volatility, err
}

// PutIVGuess returns the volatility implied by a put price, starting the
// search at initialGuess.
func (sv Solver) PutIVGuess(price, s, k, rate, maturity, initialGuess float64) (float64, error) {
	sol, err := sv.SolveGuess(SidePut, price, s, k, rate, maturity, initialGuess)
	return sol.Volatility, err
}

func (sv Solver) callPrice(side Side, price, s, k, rate, maturity float64) float64 {
	if side == SidePut {
		return price + s - k*math.Exp(-rate*maturity)
	}
	return price
}

func (sv Solver) solveCall(side Side, price, callPrice, s, k, rate, maturity, guess float64) (Solution, error) {
	op := side.String() + "_iv"

	// a call is worth strictly more than max(s - k*discount, 0) and strictly
	// less than s whenever the total volatility is positive
	lower := math.Max(s-k*math.Exp(-rate*maturity), 0)
	if callPrice <= lower {
		return Solution{}, &IVError{Op: op, Price: price, Volatility: math.NaN(), Err: ErrBelowIntrinsic}
	}
	if callPrice >= s {
		return Solution{}, &IVError{Op: op, Price: price, Volatility: math.NaN(), Err: ErrAboveUpperBound}
	}

	objective := func(sigma float64) float64 { return Call(s, k, rate, sigma, maturity) - callPrice }
	derivative := func(sigma float64) float64 { return CallVega(s, k, rate, sigma, maturity) }

	root, err := rootfind.Newton(objective, derivative, guess, sv.Precision, sv.MaxIterations)
	if err != nil {
		ivErr := &IVError{Op: op, Price: price, Volatility: math.NaN(), Err: err}
		var rfErr *rootfind.Error
		if errors.As(err, &rfErr) {
			ivErr.Volatility = rfErr.X
			ivErr.Residual = rfErr.Residual
			ivErr.Iterations = rfErr.Iterations
			ivErr.Err = rfErr.Err
		}
		return Solution{}, ivErr
	}

	return Solution{Volatility: root.X, Iterations: root.Iterations, Residual: root.Residual}, nil
}

// CallIV solves a call price with DefaultSolver.
//
// Example:
//
//	sigma, err := CallIV(Call(5, 4.5, 0.05, 0.2, 1), 5, 4.5, 0.05, 1) // 0.2, nil
func CallIV(price, s, k, rate, maturity float64) (float64, error) {
	return DefaultSolver.CallIV(price, s, k, rate, maturity)
}

// CallIVGuess solves a call price with DefaultSolver from initialGuess.
func CallIVGuess(price, s, k, rate, maturity, initialGuess float64) (float64, error) {
	return DefaultSolver.CallIVGuess(price, s, k, rate, maturity, initialGuess)
}

// PutIV solves a put price with DefaultSolver.
func PutIV(price, s, k, rate, maturity float64) (float64, error) {
	return DefaultSolver.PutIV(price, s, k, rate, maturity)
}

// PutIVGuess solves a put price with DefaultSolver from initialGuess.
func PutIVGuess(price, s, k, rate, maturity, initialGuess float64) (float64, error) {
	return DefaultSolver.PutIVGuess(price, s, k, rate, maturity, initialGuess)
}

// RationalSolver is an implied volatility routine working on undiscounted
// forward prices, such as an implementation of Jäckel's "Let's Be Rational".
//
// side is +1 for calls and -1 for puts. Implementations return an error or a
// non-finite value when no volatility can be found.
type RationalSolver interface {
	ImpliedVolatility(adjustedPrice, forward, strike, maturity, side float64, maxIterations int) (float64, error)
}

// RationalIV solves a spot quote through an external RationalSolver. The
// quote is moved to the forward measure first: forward = s/discount and
// adjustedPrice = price/discount.
func RationalIV(solver RationalSolver, side Side, price, s, k, rate, maturity float64, maxIterations int) (float64, error) {
	op := side.String() + "_iv_rational"
	discount := math.Exp(-rate * maturity)

	sigma, err := solver.ImpliedVolatility(price/discount, s/discount, k, maturity, float64(side), maxIterations)
	if err != nil {
		return 0, &IVError{Op: op, Price: price, Volatility: math.NaN(), Err: fmt.Errorf("%w: %w", ErrRational, err)}
	}
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return 0, &IVError{Op: op, Price: price, Volatility: sigma, Err: fmt.Errorf("%w: non-finite volatility %g", ErrRational, sigma)}
	}
	return sigma, nil
}
