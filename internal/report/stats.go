package report

import (
	"github.com/montanaflynn/stats"

	"github.com/kestra-io/kestra-devtools/pkg/api"
)

// DurationStats summarizes the case durations of a report, in seconds.
// Cases without a time attribute are not counted.
type DurationStats struct {
	Count  int     `json:"count" yaml:"count"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Sum    float64 `json:"sum" yaml:"sum"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	P90    float64 `json:"p90" yaml:"p90"`
	P99    float64 `json:"p99" yaml:"p99"`
	Stddev float64 `json:"stddev" yaml:"stddev"`

	// Slowest is the name of the longest case.
	Slowest string `json:"slowest,omitempty" yaml:"slowest,omitempty"`
}

// NewDurationStats returns nil when no case carries a duration.
func NewDurationStats(mr *api.ModuleReport) *DurationStats {
	if mr == nil {
		return nil
	}
	var times stats.Float64Data
	slowest, slowestTime := "", -1.0
	for _, s := range mr.TestSuites {
		for _, tc := range s.TestCases {
			if tc.Time == nil {
				continue
			}
			times = append(times, *tc.Time)
			if *tc.Time > slowestTime {
				slowest, slowestTime = tc.Name, *tc.Time
			}
		}
	}
	if len(times) == 0 {
		return nil
	}

	min, _ := stats.Min(times)
	max, _ := stats.Max(times)
	sum, _ := stats.Sum(times)
	mean, _ := stats.Mean(times)
	median, _ := stats.Median(times)
	p90, _ := stats.Percentile(times, 90)
	p99, _ := stats.Percentile(times, 99)
	stddev, _ := stats.StandardDeviationPopulation(times)

	return &DurationStats{
		Count:   len(times),
		Min:     min,
		Max:     max,
		Sum:     sum,
		Mean:    mean,
		Median:  median,
		P90:     p90,
		P99:     p99,
		Stddev:  stddev,
		Slowest: slowest,
	}
}
