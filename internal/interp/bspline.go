package interp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// bSpline is a B-spline of degree k defined by a clamped knot vector and a
// coefficient vector. Evaluation uses de Boor's algorithm.
type bSpline struct {
	degree int
	knots  []float64
	coefs  []float64
}

// newInterpolatingBSpline fits a B-spline of the given degree that passes
// through every (x, y) pair. The knot vector is clamped at the endpoints with
// averaged interior knots, and the coefficients come from solving the
// collocation system B(x) c = y.
func newInterpolatingBSpline(xs, ys []float64, degree int) (*bSpline, error) {
	n := len(xs)
	knots := averagedKnots(xs, n, degree)

	a := collocationMatrix(xs, knots, n, degree)
	y := mat.NewVecDense(n, ys)

	var c mat.VecDense
	if err := c.SolveVec(a, y); err != nil {
		return nil, fmt.Errorf("collocation system is singular for degree %d: %w", degree, err)
	}

	return &bSpline{degree: degree, knots: knots, coefs: c.RawVector().Data}, nil
}

// newLeastSquaresBSpline fits a smoothing B-spline of the given degree in the
// least-squares sense. The basis is built over a thinned subset of the data
// sites (roughly sqrt(n) of them), so the fit smooths rather than
// interpolates when data is dense.
func newLeastSquaresBSpline(xs, ys []float64, degree int) (*bSpline, error) {
	n := len(xs)

	// Number of basis functions: at least degree+1, at most n.
	m := int(math.Ceil(math.Sqrt(float64(n)))) + degree
	if m < degree+1 {
		m = degree + 1
	}
	if m > n {
		m = n
	}

	// Thin the data sites down to m representatives spread over the range.
	sites := make([]float64, m)
	for i := 0; i < m; i++ {
		idx := i * (n - 1) / (m - 1)
		sites[i] = xs[idx]
	}
	knots := averagedKnots(sites, m, degree)

	a := collocationMatrix(xs, knots, m, degree)
	y := mat.NewDense(n, 1, ys)

	var qr mat.QR
	qr.Factorize(a)
	var c mat.Dense
	if err := qr.SolveTo(&c, false, y); err != nil {
		return nil, fmt.Errorf("least-squares spline fit failed for degree %d: %w", degree, err)
	}

	coefs := make([]float64, m)
	for i := range coefs {
		coefs[i] = c.At(i, 0)
	}
	return &bSpline{degree: degree, knots: knots, coefs: coefs}, nil
}

// averagedKnots builds a clamped knot vector for m basis functions of the
// given degree over the sites: degree+1 copies of each endpoint and interior
// knots averaged over degree consecutive sites.
func averagedKnots(sites []float64, m, degree int) []float64 {
	knots := make([]float64, m+degree+1)
	for i := 0; i <= degree; i++ {
		knots[i] = sites[0]
		knots[m+degree-i] = sites[len(sites)-1]
	}
	for j := 1; j < m-degree; j++ {
		sum := 0.0
		for i := j; i < j+degree; i++ {
			sum += sites[i]
		}
		knots[j+degree] = sum / float64(degree)
	}
	return knots
}

// collocationMatrix evaluates all m basis functions at every x, producing the
// len(xs) x m design matrix of the fit.
func collocationMatrix(xs, knots []float64, m, degree int) *mat.Dense {
	a := mat.NewDense(len(xs), m, nil)
	basis := make([]float64, degree+1)
	for r, x := range xs {
		span := findSpan(knots, m, degree, x)
		basisFuncs(knots, degree, span, x, basis)
		for j := 0; j <= degree; j++ {
			a.Set(r, span-degree+j, basis[j])
		}
	}
	return a
}

// findSpan locates the knot span index mu with knots[mu] <= x < knots[mu+1],
// clamped so that the last span is used at the right endpoint.
func findSpan(knots []float64, m, degree int, x float64) int {
	if x >= knots[m] {
		return m - 1
	}
	if x <= knots[degree] {
		return degree
	}
	lo, hi := degree, m
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x < knots[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// basisFuncs computes the degree+1 non-vanishing basis functions at x for the
// given span (Cox-de Boor recursion) into out.
func basisFuncs(knots []float64, degree, span int, x float64, out []float64) {
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)
	out[0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = x - knots[span+1-j]
		right[j] = knots[span+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := out[r] / (right[r+1] + left[j-r])
			out[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		out[j] = saved
	}
}

// Eval evaluates the spline at x using de Boor's algorithm. Outside the knot
// range the boundary polynomial is extended.
func (s *bSpline) Eval(x float64) float64 {
	k := s.degree
	m := len(s.coefs)
	span := findSpan(s.knots, m, k, x)

	d := make([]float64, k+1)
	copy(d, s.coefs[span-k:span+1])

	for r := 1; r <= k; r++ {
		for j := k; j >= r; j-- {
			i := span - k + j
			den := s.knots[i+k-r+1] - s.knots[i]
			var alpha float64
			if den != 0 {
				alpha = (x - s.knots[i]) / den
			}
			d[j] = (1-alpha)*d[j-1] + alpha*d[j]
		}
	}
	return d[k]
}
