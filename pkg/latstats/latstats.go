// latstats collects per-message latency samples and summarizes them
// in percentile bands.
package latstats

import (
	"fmt"
	"math"
	"sort"
)

// Percentiles are the report bands printed after each window.
var Percentiles = []float64{100.0, 99.9, 99.0, 90.0}

// Store is a bounded collection of latency samples in microseconds.
// Appends beyond capacity are dropped so a delayed report can not
// grow memory without bound.
type Store struct {
	capacity int
	values   []float64
}

func NewStore(capacity int) *Store {
	return &Store{
		capacity: capacity,
		values:   make([]float64, 0, capacity),
	}
}

// Append records one sample. A full store drops the sample silently.
func (s *Store) Append(value float64) {
	if len(s.values) < s.capacity {
		s.values = append(s.values, value)
	}
}

func (s *Store) Len() int {
	return len(s.values)
}

// Reset clears the store for the next reporting window.
func (s *Store) Reset() {
	s.values = s.values[:0]
}

// ReportItem is one percentile row of a statistics report.
// Latencies are microseconds.
type ReportItem struct {
	Percentile      float64
	ValueCount      int
	TotalValueCount int
	Minimum         float64
	Average         float64
	Maximum         float64
	Deviation       float64
}

func (r ReportItem) String() string {
	return fmt.Sprintf("%5.1f %% : cnt= %d/%d, min= %.0f, avg= %.0f, max= %.0f, dev= %.2f",
		r.Percentile, r.ValueCount, r.TotalValueCount, r.Minimum, r.Average, r.Maximum, r.Deviation)
}

// report summarizes the lowest percentile% of the sorted samples.
// Note the unconventional semantics, kept for report compatibility:
// samples are sorted ascending and the percentile selects a prefix,
// so 90.0 means "the fastest 90% of samples", not a tail latency.
func (s *Store) report(percentile float64) ReportItem {
	count := int(float64(len(s.values)) * percentile / 100.0)
	if count < 1 {
		return ReportItem{}
	}

	values := s.values[:count]
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(count)

	deviation := math.NaN()
	if count > 1 {
		// Sample standard deviation.
		sqsum := 0.0
		for _, v := range values {
			d := v - mean
			sqsum += d * d
		}
		deviation = math.Sqrt(sqsum / float64(count-1))
	}

	return ReportItem{
		Percentile:      percentile,
		ValueCount:      count,
		TotalValueCount: len(s.values),
		Minimum:         values[0],
		Average:         mean,
		Maximum:         values[count-1],
		Deviation:       deviation,
	}
}

// Reports sorts the collected samples ascending and returns one
// ReportItem per requested percentile.
func (s *Store) Reports(percentiles []float64) []ReportItem {
	sort.Float64s(s.values)
	items := make([]ReportItem, 0, len(percentiles))
	for _, p := range percentiles {
		items = append(items, s.report(p))
	}
	return items
}
