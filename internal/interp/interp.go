// Package interp fits one-dimensional interpolation functions to sorted
// (x, y) data: previous-value and piecewise-linear predictors for low orders,
// B-splines for orders two through five.
package interp

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// MaxOrder is the highest supported spline order.
const MaxOrder = 5

// Mode selects the fitting strategy.
type Mode string

const (
	// ModeInterp1d fits a spline of exactly the requested order through
	// every data point.
	ModeInterp1d Mode = "interp1d"
	// ModeBSpline fits an interpolating B-spline.
	ModeBSpline Mode = "bspline"
	// ModeUnivariate fits a least-squares smoothing B-spline that is not
	// required to pass through the data points.
	ModeUnivariate Mode = "univ"
)

// ParseMode validates an interpolation mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeInterp1d, ModeBSpline, ModeUnivariate:
		return Mode(s), nil
	}
	return "", fmt.Errorf("interpolation mode must be one of [interp1d bspline univ], got %q", s)
}

// Func is a fitted interpolation function.
type Func interface {
	Eval(x float64) float64
}

// Fit fits an interpolation function of the given order and mode to the data.
// xs must be strictly increasing and must contain at least order+1 points
// (and never fewer than two).
func Fit(xs, ys []float64, order int, mode Mode) (Func, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("x and y lengths differ: %d vs %d", len(xs), len(ys))
	}
	if order < 0 || order > MaxOrder {
		return nil, fmt.Errorf("spline order must be in [0, %d], got %d", MaxOrder, order)
	}
	min := order + 1
	if min < 2 {
		min = 2
	}
	if len(xs) < min {
		return nil, fmt.Errorf("need at least %d points for order %d, got %d", min, order, len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("x values must be strictly increasing (index %d)", i)
		}
	}

	switch mode {
	case ModeInterp1d, ModeBSpline:
		switch order {
		case 0:
			return newPreviousValue(xs, ys), nil
		case 1:
			return Linear(xs, ys)
		default:
			return newInterpolatingBSpline(xs, ys, order)
		}
	case ModeUnivariate:
		if order == 0 {
			return newPreviousValue(xs, ys), nil
		}
		return newLeastSquaresBSpline(xs, ys, order)
	}
	return nil, fmt.Errorf("interpolation mode must be one of [interp1d bspline univ], got %q", mode)
}

// Linear fits a piecewise-linear interpolant. Outside the fitted range it
// clamps to the boundary values.
func Linear(xs, ys []float64) (Func, error) {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("failed to fit linear interpolant: %w", err)
	}
	return linearFunc{pl}, nil
}

type linearFunc struct {
	pl interp.PiecewiseLinear
}

func (f linearFunc) Eval(x float64) float64 { return f.pl.Predict(x) }

// previousValue replicates the last seen value, matching a spline of order
// zero: constant on [x[i], x[i+1]).
type previousValue struct {
	xs []float64
	ys []float64
}

func newPreviousValue(xs, ys []float64) previousValue {
	return previousValue{xs: xs, ys: ys}
}

func (f previousValue) Eval(x float64) float64 {
	// Index of the first site strictly greater than x.
	i := sort.SearchFloat64s(f.xs, x)
	if i < len(f.xs) && f.xs[i] == x {
		return f.ys[i]
	}
	if i == 0 {
		return f.ys[0]
	}
	return f.ys[i-1]
}
