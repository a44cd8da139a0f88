package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/contactkeval/black-scholes/pricing"
	"github.com/contactkeval/black-scholes/rootfind"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveEvaluations(10)
	m.ObserveEvaluations(5)
	m.ObserveSolve(4, nil)
	m.ObserveSolve(6, nil)
	m.ObserveSolve(0, &pricing.IVError{Op: "call_iv", Err: pricing.ErrBelowIntrinsic})
	m.ObserveBatch("evaluate", 3*time.Millisecond)

	if got := testutil.ToFloat64(m.EvaluationsTotal); got != 15 {
		t.Fatalf("expected 15 evaluations, got %f", got)
	}
	if got := testutil.ToFloat64(m.SolvesTotal.WithLabelValues("ok")); got != 2 {
		t.Fatalf("expected 2 ok solves, got %f", got)
	}
	if got := testutil.ToFloat64(m.SolvesTotal.WithLabelValues("below_intrinsic")); got != 1 {
		t.Fatalf("expected 1 below_intrinsic solve, got %f", got)
	}
	if got := testutil.CollectAndCount(m.SolveIterations); got != 1 {
		t.Fatalf("expected 1 iteration histogram, got %d", got)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{pricing.ErrAboveUpperBound, "above_upper_bound"},
		{&pricing.IVError{Err: rootfind.ErrMaxIterations}, "max_iterations"},
		{&pricing.IVError{Err: rootfind.ErrZeroDerivative}, "zero_derivative"},
		{&pricing.IVError{Err: rootfind.ErrNotFinite}, "not_finite"},
		{fmt.Errorf("%w: boom", pricing.ErrRational), "rational"},
		{fmt.Errorf("unrelated"), "other"},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Fatalf("Outcome(%v): expected %q, got %q", tt.err, tt.want, got)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveEvaluations(3)
	path := filepath.Join(t.TempDir(), "bsgrid.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "bsgrid_evaluations_total 3") {
		t.Fatalf("expected counter in textfile, got:\n%s", b)
	}
}
