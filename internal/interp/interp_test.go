package interp

import (
	"math"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{name: "interp1d", input: "interp1d", want: ModeInterp1d},
		{name: "bspline", input: "bspline", want: ModeBSpline},
		{name: "univ", input: "univ", want: ModeUnivariate},
		{name: "unknown mode", input: "cubic", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFit_Validation(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 2, 3, 4}

	tests := []struct {
		name  string
		xs    []float64
		ys    []float64
		order int
		mode  Mode
	}{
		{name: "negative order", xs: xs, ys: ys, order: -1, mode: ModeInterp1d},
		{name: "order above max", xs: xs, ys: ys, order: 6, mode: ModeInterp1d},
		{name: "length mismatch", xs: xs, ys: ys[:3], order: 1, mode: ModeInterp1d},
		{name: "too few points for order", xs: xs, ys: ys, order: 5, mode: ModeInterp1d},
		{name: "single point", xs: []float64{1}, ys: []float64{1}, order: 0, mode: ModeInterp1d},
		{name: "not strictly increasing", xs: []float64{0, 1, 1, 2}, ys: ys, order: 1, mode: ModeInterp1d},
		{name: "bad mode", xs: xs, ys: ys, order: 1, mode: Mode("nearest")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Fit(tt.xs, tt.ys, tt.order, tt.mode); err == nil {
				t.Errorf("Fit() expected error, got nil")
			}
		})
	}
}

func TestFit_OrderZeroReplicatesLastValue(t *testing.T) {
	xs := []float64{0, 10, 25, 40}
	ys := []float64{1.5, -2, 7, 3}

	fn, err := Fit(xs, ys, 0, ModeInterp1d)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{name: "at first node", x: 0, want: 1.5},
		{name: "between first and second", x: 5, want: 1.5},
		{name: "at second node", x: 10, want: -2},
		{name: "just before third", x: 24.9, want: -2},
		{name: "at last node", x: 40, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fn.Eval(tt.x); got != tt.want {
				t.Errorf("Eval(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestFit_LinearMidpoints(t *testing.T) {
	xs := []float64{0, 2, 6}
	ys := []float64{0, 4, 0}

	fn, err := Fit(xs, ys, 1, ModeInterp1d)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	tests := []struct {
		x    float64
		want float64
	}{
		{x: 1, want: 2},
		{x: 2, want: 4},
		{x: 4, want: 2},
		{x: 6, want: 0},
	}

	for _, tt := range tests {
		if got := fn.Eval(tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Eval(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestFit_BSplinePassesThroughDataSites(t *testing.T) {
	xs := []float64{0, 1, 2.5, 3.1, 4.2, 5, 6.4, 7}
	ys := []float64{2, -1, 0.5, 3, 2.2, -0.7, 1, 4}

	for order := 2; order <= 5; order++ {
		for _, mode := range []Mode{ModeInterp1d, ModeBSpline} {
			fn, err := Fit(xs, ys, order, mode)
			if err != nil {
				t.Fatalf("Fit(order=%d, mode=%s) error = %v", order, mode, err)
			}
			for i := range xs {
				if got := fn.Eval(xs[i]); math.Abs(got-ys[i]) > 1e-8 {
					t.Errorf("order %d mode %s: Eval(%v) = %v, want %v", order, mode, xs[i], got, ys[i])
				}
			}
		}
	}
}

func TestFit_CubicReproducesCubicPolynomial(t *testing.T) {
	f := func(x float64) float64 { return x*x*x - 2*x + 1 }

	xs := []float64{0, 0.7, 1.5, 2, 2.8, 3.5, 4.1, 5}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = f(x)
	}

	fn, err := Fit(xs, ys, 3, ModeInterp1d)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// A cubic polynomial lies in the cubic spline space, so interpolation
	// must reproduce it everywhere, not only at the data sites.
	for x := 0.0; x <= 5.0; x += 0.25 {
		if got := fn.Eval(x); math.Abs(got-f(x)) > 1e-6 {
			t.Errorf("Eval(%v) = %v, want %v", x, got, f(x))
		}
	}
}

func TestFit_UnivariateReproducesLine(t *testing.T) {
	f := func(x float64) float64 { return 2*x + 1 }

	xs := make([]float64, 20)
	ys := make([]float64, 20)
	for i := range xs {
		xs[i] = float64(i) * 0.5
		ys[i] = f(xs[i])
	}

	fn, err := Fit(xs, ys, 3, ModeUnivariate)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// The least-squares fit of data lying exactly on a line has zero
	// residual, so the smoothing spline must return the line.
	for x := 0.0; x <= 9.5; x += 0.7 {
		if got := fn.Eval(x); math.Abs(got-f(x)) > 1e-6 {
			t.Errorf("Eval(%v) = %v, want %v", x, got, f(x))
		}
	}
}
