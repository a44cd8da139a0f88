// Package report writes solved quotes and their Greeks as JSON and CSV.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/gzip"
	"github.com/shopspring/decimal"

	"github.com/contactkeval/black-scholes/grid"
	"github.com/contactkeval/black-scholes/internal/data"
	"github.com/contactkeval/black-scholes/pricing"
)

// Row flattens one quote, its implied volatility and the outputs evaluated
// at that volatility. Non-finite values are written as 0 and flagged in Error.
type Row struct {
	Symbol     string  `csv:"symbol" json:"symbol"`
	Model      string  `csv:"model" json:"model"`
	Side       string  `csv:"side" json:"side"`
	Strike     float64 `csv:"strike" json:"strike"`
	Spot       float64 `csv:"spot" json:"spot"`
	Rate       float64 `csv:"rate" json:"rate"`
	Dividend   float64 `csv:"dividend" json:"dividend"`
	Maturity   float64 `csv:"maturity" json:"maturity"`
	Price      float64 `csv:"price" json:"price"`
	IV         float64 `csv:"iv" json:"iv"`
	Iterations int     `csv:"iterations" json:"iterations"`
	Error      string  `csv:"error" json:"error,omitempty"`

	CallPrice float64 `csv:"call_price" json:"call_price"`
	CallDelta float64 `csv:"call_delta" json:"call_delta"`
	CallGamma float64 `csv:"call_gamma" json:"call_gamma"`
	CallTheta float64 `csv:"call_theta" json:"call_theta"`
	CallVega  float64 `csv:"call_vega" json:"call_vega"`
	CallRho   float64 `csv:"call_rho" json:"call_rho"`
	CallVanna float64 `csv:"call_vanna" json:"call_vanna"`
	CallVomma float64 `csv:"call_vomma" json:"call_vomma"`
	CallCharm float64 `csv:"call_charm" json:"call_charm"`
	PutPrice  float64 `csv:"put_price" json:"put_price"`
	PutDelta  float64 `csv:"put_delta" json:"put_delta"`
	PutTheta  float64 `csv:"put_theta" json:"put_theta"`
	PutRho    float64 `csv:"put_rho" json:"put_rho"`
	PutCharm  float64 `csv:"put_charm" json:"put_charm"`
	Gamma     float64 `csv:"gamma" json:"gamma"`
	Vega      float64 `csv:"vega" json:"vega"`
	Vanna     float64 `csv:"vanna" json:"vanna"`
	Vomma     float64 `csv:"vomma" json:"vomma"`
}

// NewRow combines a quote with its solve result. out should be evaluated at
// res.Volatility; it is ignored when the solve failed.
func NewRow(q data.Quote, res grid.IVResult, out pricing.PricesAndGreeks) Row {
	r := Row{
		Symbol:     q.Symbol,
		Model:      string(grid.Dividend),
		Side:       q.Side,
		Strike:     q.Strike,
		Spot:       q.Spot,
		Rate:       q.Rate,
		Dividend:   q.Dividend,
		Maturity:   q.Years(),
		Price:      q.Price,
		IV:         res.Volatility,
		Iterations: res.Iterations,
	}
	if res.Err != nil {
		r.IV = 0
		r.Error = res.Err.Error()
		return r
	}
	r.setOutputs(out)
	return r
}

// GridRow is a row for a grid point priced at a given volatility.
func GridRow(p grid.Point, out pricing.PricesAndGreeks) Row {
	r := Row{
		Model:    string(p.Model),
		Strike:   p.Strike,
		Spot:     p.Spot,
		Rate:     p.Rate,
		Dividend: p.Dividend,
		Maturity: p.Maturity,
		IV:       p.Sigma,
	}
	if p.Model == grid.Forward {
		r.Spot = p.Forward
	}
	r.setOutputs(out)
	return r
}

func (r *Row) setOutputs(out pricing.PricesAndGreeks) {
	r.CallPrice, r.CallDelta, r.CallGamma = out.CallPrice, out.CallDelta, out.CallGamma
	r.CallTheta, r.CallVega, r.CallRho = out.CallTheta, out.CallVega, out.CallRho
	r.CallVanna, r.CallVomma, r.CallCharm = out.CallVanna, out.CallVomma, out.CallCharm
	r.PutPrice, r.PutDelta, r.PutTheta = out.PutPrice, out.PutDelta, out.PutTheta
	r.PutRho, r.PutCharm = out.PutRho, out.PutCharm
	r.Gamma, r.Vega, r.Vanna, r.Vomma = out.CallGamma, out.CallVega, out.CallVanna, out.CallVomma
}

func (r *Row) values() []*float64 {
	return []*float64{
		&r.Strike, &r.Spot, &r.Rate, &r.Dividend, &r.Maturity, &r.Price, &r.IV,
		&r.CallPrice, &r.CallDelta, &r.CallGamma, &r.CallTheta, &r.CallVega, &r.CallRho,
		&r.CallVanna, &r.CallVomma, &r.CallCharm,
		&r.PutPrice, &r.PutDelta, &r.PutTheta, &r.PutRho, &r.PutCharm,
		&r.Gamma, &r.Vega, &r.Vanna, &r.Vomma,
	}
}

// Summary counts solve outcomes.
type Summary struct {
	Rows   int `json:"rows"`
	Solved int `json:"solved"`
	Failed int `json:"failed"`
}

// Report is the JSON document written by WriteJSON.
type Report struct {
	Mode        string    `json:"mode"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary     Summary   `json:"summary"`
	Rows        []Row     `json:"rows"`
}

// New builds a report and its summary from rows.
func New(mode string, rows []Row) *Report {
	rep := &Report{Mode: mode, GeneratedAt: time.Now().UTC(), Rows: rows}
	rep.Summary.Rows = len(rows)
	for _, r := range rows {
		if r.Error != "" {
			rep.Summary.Failed++
		} else {
			rep.Summary.Solved++
		}
	}
	return rep
}

// Options controls formatting of written files.
type Options struct {
	Decimals int32 // round values to this many decimal places, 0 keeps full precision
	Compress bool  // gzip output and append .gz to the file name
}

const (
	jsonName = "report.json"
	csvName  = "greeks.csv"
)

// Round returns copies of rows with every value rounded half away from
// zero to decimals places. Non-finite values become 0.
func Round(rows []Row, decimals int32) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		bad := false
		for _, v := range r.values() {
			if math.IsNaN(*v) || math.IsInf(*v, 0) {
				*v = 0
				bad = true
				continue
			}
			if decimals > 0 {
				*v = decimal.NewFromFloat(*v).Round(decimals).InexactFloat64()
			}
		}
		if bad && r.Error == "" {
			r.Error = "non-finite output"
		}
		out[i] = r
	}
	return out
}

// WriteJSON writes rep to outdir/report.json after rounding its rows.
//
// Parameters:
//   - rep: report to write, left unchanged
//   - outdir: output directory, created when missing
//   - opts: rounding and compression
//
// Returns the path of the written file.
func WriteJSON(rep *Report, outdir string, opts Options) (string, error) {
	cp := *rep
	cp.Rows = Round(rep.Rows, opts.Decimals)
	b, err := json.MarshalIndent(&cp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return writeFile(outdir, jsonName, opts.Compress, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

// WriteCSV writes rows to outdir/greeks.csv with a header line, rounded like
// WriteJSON. It returns the path of the written file.
func WriteCSV(rows []Row, outdir string, opts Options) (string, error) {
	rounded := Round(rows, opts.Decimals)
	return writeFile(outdir, csvName, opts.Compress, func(w io.Writer) error {
		return gocsv.Marshal(&rounded, w)
	})
}

// writeFile creates outdir/name (name.gz when compressed) and hands the
// writer to fill. It returns the written path.
func writeFile(outdir, name string, compress bool, fill func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if compress {
		name += ".gz"
	}
	path := filepath.Join(outdir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	var w io.Writer = f
	var zw *gzip.Writer
	if compress {
		zw = gzip.NewWriter(f)
		zw.Name = name[:len(name)-len(".gz")]
		w = zw
	}

	if err := fill(w); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			f.Close()
			return "", fmt.Errorf("compress %s: %w", name, err)
		}
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path, nil
}
