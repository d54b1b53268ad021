package latstats

import (
	"math"
	"testing"
)

func TestReportFullPercentile(t *testing.T) {
	s := NewStore(10)
	s.Append(30)
	s.Append(10)
	s.Append(20)

	items := s.Reports([]float64{100.0})
	r := items[0]
	if r.ValueCount != 3 || r.TotalValueCount != 3 {
		t.Errorf("counts: got %d/%d, want 3/3", r.ValueCount, r.TotalValueCount)
	}
	if r.Minimum != 10 || r.Maximum != 30 {
		t.Errorf("min/max: got %v/%v, want 10/30", r.Minimum, r.Maximum)
	}
	if r.Average != 20 {
		t.Errorf("average: got %v, want 20", r.Average)
	}
	if r.Deviation != 10 {
		t.Errorf("deviation: got %v, want 10", r.Deviation)
	}
}

func TestReportSelectsSortedPrefix(t *testing.T) {
	// 50% of a 4-value store must report the two fastest samples,
	// not a tail percentile.
	s := NewStore(4)
	for _, v := range []float64{400, 100, 300, 200} {
		s.Append(v)
	}

	r := s.Reports([]float64{50.0})[0]
	if r.ValueCount != 2 {
		t.Fatalf("count: got %d, want 2", r.ValueCount)
	}
	if r.Minimum != 100 || r.Maximum != 200 {
		t.Errorf("prefix: got min=%v max=%v, want 100/200", r.Minimum, r.Maximum)
	}
}

func TestAppendBeyondCapacity(t *testing.T) {
	s := NewStore(2)
	s.Append(1)
	s.Append(2)
	s.Append(3) // dropped
	if s.Len() != 2 {
		t.Fatalf("len: got %d, want 2", s.Len())
	}

	r := s.Reports([]float64{100.0})[0]
	if r.Maximum != 2 {
		t.Errorf("overflow sample was stored: max=%v", r.Maximum)
	}
}

func TestReportEmptyStore(t *testing.T) {
	s := NewStore(5)
	for _, p := range Percentiles {
		r := s.Reports([]float64{p})[0]
		if r.ValueCount != 0 || r.Minimum != 0 || r.Average != 0 {
			t.Errorf("report(%v) of empty store: got %+v, want zero item", p, r)
		}
	}
}

func TestSingleSampleDeviation(t *testing.T) {
	s := NewStore(5)
	s.Append(42)
	r := s.Reports([]float64{100.0})[0]
	if r.ValueCount != 1 {
		t.Fatalf("count: got %d, want 1", r.ValueCount)
	}
	if !math.IsNaN(r.Deviation) {
		t.Errorf("deviation of single sample: got %v, want NaN", r.Deviation)
	}
}

func TestReset(t *testing.T) {
	s := NewStore(3)
	s.Append(1)
	s.Append(2)
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("len after reset: got %d, want 0", s.Len())
	}
	s.Append(7)
	if r := s.Reports([]float64{100.0})[0]; r.ValueCount != 1 || r.Minimum != 7 {
		t.Errorf("store unusable after reset: %+v", r)
	}
}

func TestReportItemString(t *testing.T) {
	r := ReportItem{
		Percentile:      99.9,
		ValueCount:      10,
		TotalValueCount: 10,
		Minimum:         120,
		Average:         150,
		Maximum:         180,
		Deviation:       12.5,
	}
	want := " 99.9 % : cnt= 10/10, min= 120, avg= 150, max= 180, dev= 12.50"
	if got := r.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}
