package grid

import "math"

// Strikes returns strikes from spot*lo to spot*hi (inclusive) spaced by step,
// rounded to cents. It returns nil when the range or step is not positive.
func Strikes(spot, lo, hi, step float64) []float64 {
	if !(spot > 0) || !(step > 0) || !(hi >= lo) || !(lo > 0) {
		return nil
	}
	from, to := spot*lo, spot*hi
	var out []float64
	for i := 0; ; i++ {
		k := from + float64(i)*step
		if k > to+1e-9 {
			break
		}
		out = append(out, math.Round(k*100)/100)
	}
	return out
}

// Cartesian expands base over every strike and maturity, maturity-major.
func Cartesian(base Point, strikes, maturities []float64) []Point {
	out := make([]Point, 0, len(strikes)*len(maturities))
	for _, t := range maturities {
		for _, k := range strikes {
			p := base
			p.Strike = k
			p.Maturity = t
			out = append(out, p)
		}
	}
	return out
}
