package series

import (
	"fmt"
	"sort"
	"time"
)

// SourceInterpolation marks samples that were produced by the resampler
// rather than read from the input.
const SourceInterpolation = "interpolation"

// Sample is a single temperature measurement.
type Sample struct {
	Source   string    `json:"source_id"`
	Time     time.Time `json:"datetime"`
	Property string    `json:"property_name"`
	Value    float64   `json:"temperature"`
}

// Series is an ordered sequence of samples.
type Series []Sample

// Sort orders the series by timestamp, with property name as tie-breaker
// so that the combined output is deterministic.
func (s Series) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		if !s[i].Time.Equal(s[j].Time) {
			return s[i].Time.Before(s[j].Time)
		}
		return s[i].Property < s[j].Property
	})
}

// Times returns the timestamps of all samples in order.
func (s Series) Times() []time.Time {
	ts := make([]time.Time, len(s))
	for i, smp := range s {
		ts[i] = smp.Time
	}
	return ts
}

// Values returns the temperature values of all samples in order.
func (s Series) Values() []float64 {
	vs := make([]float64, len(s))
	for i, smp := range s {
		vs[i] = smp.Value
	}
	return vs
}

// SplitByProperty groups samples by property name and sorts each group by time.
// Duplicate timestamps within a property are an error because they make the
// interpolation axis ambiguous.
func SplitByProperty(s Series) (map[string]Series, error) {
	split := make(map[string]Series)
	for _, smp := range s {
		split[smp.Property] = append(split[smp.Property], smp)
	}

	for prop, group := range split {
		group.Sort()
		for i := 1; i < len(group); i++ {
			if group[i].Time.Equal(group[i-1].Time) {
				return nil, fmt.Errorf("duplicate timestamp %s for property %q",
					group[i].Time.Format(TimeLayout), prop)
			}
		}
		split[prop] = group
	}

	return split, nil
}

// MergeProperties flattens per-property series back into one series sorted
// by (timestamp, property name).
func MergeProperties(split map[string]Series) Series {
	var merged Series
	for _, group := range split {
		merged = append(merged, group...)
	}
	merged.Sort()
	return merged
}
