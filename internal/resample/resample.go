// Package resample turns an irregular temperature series into one sampled at
// a fixed time step. The series is split into contiguous segments wherever
// consecutive samples are further apart than a maximum interval; each segment
// is fitted with a spline, and grid points that fall between segments are
// covered by a linear fit over the whole series.
package resample

import (
	"fmt"
	"log"
	"sort"
	"time"

	"thermospline/internal/interp"
	"thermospline/internal/metrics"
	"thermospline/internal/series"
)

// Options controls a resample run.
type Options struct {
	// Order is the spline order, 0 through 5.
	Order int
	// Step is the spacing of the output grid.
	Step time.Duration
	// MaxInterval is the largest gap between consecutive samples that may
	// be bridged by a spline. Zero means the whole series is one segment.
	MaxInterval time.Duration
	// Mode selects the fitting strategy.
	Mode interp.Mode
	// KeepOld retains the original sample timestamps in the output.
	KeepOld bool
}

// Validate checks option ranges before any work is done.
func (o Options) Validate() error {
	if o.Order < 0 || o.Order > interp.MaxOrder {
		return fmt.Errorf("spline order must be in [0, %d], got %d", interp.MaxOrder, o.Order)
	}
	if o.Step <= 0 {
		return fmt.Errorf("timedelta must be positive, got %s", o.Step)
	}
	if o.MaxInterval < 0 {
		return fmt.Errorf("max interval must not be negative, got %s", o.MaxInterval)
	}
	if _, err := interp.ParseMode(string(o.Mode)); err != nil {
		return err
	}
	return nil
}

// Segment is an inclusive index range [Start, End] into a sorted series.
type Segment struct {
	Start int
	End   int
}

// SplitSegments splits sorted timestamps into maximal runs in which every
// adjacent gap is at most maxInterval. Isolated samples between two large
// gaps belong to no segment and are left to the linear fallback.
// A non-positive maxInterval yields a single segment covering everything.
func SplitSegments(times []time.Time, maxInterval time.Duration) []Segment {
	if len(times) == 0 {
		return nil
	}
	if maxInterval <= 0 {
		return []Segment{{Start: 0, End: len(times) - 1}}
	}

	var segs []Segment
	start := -1
	for i := 1; i < len(times); i++ {
		if times[i].Sub(times[i-1]) <= maxInterval {
			if start < 0 {
				start = i - 1
			}
		} else if start >= 0 {
			segs = append(segs, Segment{Start: start, End: i - 1})
			start = -1
		}
	}
	if start >= 0 {
		segs = append(segs, Segment{Start: start, End: len(times) - 1})
	}
	return segs
}

// Resample evaluates the series on a uniform grid anchored at the first
// sample. All input samples must share one property name and carry strictly
// increasing timestamps; use series.SplitByProperty first.
func Resample(s series.Series, opts Options) (series.Series, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(s) < 2 {
		return nil, fmt.Errorf("need at least 2 samples to resample, got %d", len(s))
	}

	started := time.Now()
	defer func() {
		metrics.ResampleDuration.Observe(time.Since(started).Seconds())
	}()

	sorted := make(series.Series, len(s))
	copy(sorted, s)
	sorted.Sort()

	times := sorted.Times()
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, fmt.Errorf("duplicate timestamp %s in input",
				times[i].Format(series.TimeLayout))
		}
	}

	xs := toUnix(times)
	ys := sorted.Values()
	property := sorted[0].Property

	grid := buildGrid(times, opts.Step, opts.KeepOld)
	gridXs := toUnix(grid)

	// Map original timestamps to their samples so output rows can keep the
	// original source IDs.
	originals := make(map[int64]series.Sample, len(sorted))
	for _, smp := range sorted {
		originals[smp.Time.UnixMilli()] = smp
	}

	values := make([]float64, len(grid))
	covered := make([]bool, len(grid))

	segs := SplitSegments(times, opts.MaxInterval)
	for _, seg := range segs {
		metrics.SegmentsBuilt.Inc()

		count := seg.End - seg.Start + 1
		if count < opts.Order+1 || count < 2 {
			log.Printf("Skipping segment %s .. %s: %d samples is too few for order %d",
				times[seg.Start].Format(series.TimeLayout),
				times[seg.End].Format(series.TimeLayout), count, opts.Order)
			continue
		}

		fn, err := interp.Fit(xs[seg.Start:seg.End+1], ys[seg.Start:seg.End+1], opts.Order, opts.Mode)
		if err != nil {
			return nil, fmt.Errorf("failed to fit segment %s .. %s: %w",
				times[seg.Start].Format(series.TimeLayout),
				times[seg.End].Format(series.TimeLayout), err)
		}

		for i, t := range grid {
			if covered[i] || t.Before(times[seg.Start]) || t.After(times[seg.End]) {
				continue
			}
			values[i] = fn.Eval(gridXs[i])
			covered[i] = true
		}
	}

	// Linear fallback over the whole series for grid points in gaps and in
	// segments that were too small to fit.
	var fallback interp.Func
	for i := range grid {
		if covered[i] {
			continue
		}
		if fallback == nil {
			var err error
			fallback, err = interp.Linear(xs, ys)
			if err != nil {
				return nil, fmt.Errorf("failed to fit linear fallback: %w", err)
			}
		}
		values[i] = fallback.Eval(gridXs[i])
	}

	out := make(series.Series, len(grid))
	for i, t := range grid {
		if orig, ok := originals[t.UnixMilli()]; ok {
			out[i] = series.Sample{
				Source:   orig.Source,
				Time:     t,
				Property: property,
				Value:    values[i],
			}
			continue
		}
		out[i] = series.Sample{
			Source:   series.SourceInterpolation,
			Time:     t,
			Property: property,
			Value:    values[i],
		}
		metrics.SamplesInterpolated.Inc()
	}

	return out, nil
}

// buildGrid returns timestamps spaced by step from the first sample up to and
// including the last one it can reach. With keepOld the original timestamps
// are merged in, deduplicated and sorted.
func buildGrid(times []time.Time, step time.Duration, keepOld bool) []time.Time {
	first, last := times[0], times[len(times)-1]

	grid := []time.Time{first}
	for {
		next := grid[len(grid)-1].Add(step)
		if next.After(last) {
			break
		}
		grid = append(grid, next)
	}

	if !keepOld {
		return grid
	}

	seen := make(map[int64]bool, len(grid)+len(times))
	merged := make([]time.Time, 0, len(grid)+len(times))
	for _, t := range grid {
		if !seen[t.UnixMilli()] {
			seen[t.UnixMilli()] = true
			merged = append(merged, t)
		}
	}
	for _, t := range times {
		if !seen[t.UnixMilli()] {
			seen[t.UnixMilli()] = true
			merged = append(merged, t)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Before(merged[j]) })
	return merged
}

func toUnix(ts []time.Time) []float64 {
	xs := make([]float64, len(ts))
	for i, t := range ts {
		xs[i] = float64(t.UnixMilli()) / 1000.0
	}
	return xs
}
