// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ephidmath

import (
	"math"
	"strings"
	"testing"

	"github.com/scionproto/apnaperf/ephidfmt"
)

func series(unit string, vs ...int64) *ephidfmt.Series {
	return &ephidfmt.Series{Metric: ephidfmt.Metric{Label: "m", Unit: unit}, Values: vs}
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}

func TestSummarize(t *testing.T) {
	s := Summarize(series("ns", 1000, 2000, 3000, 4000, 5000))
	if s.N != 5 || s.Unit != "sec" {
		t.Fatalf("want 5 values in sec, got %d in %s", s.N, s.Unit)
	}
	check := func(name string, got, want float64) {
		t.Helper()
		if !near(got, want) {
			t.Errorf("%s: got %v, want %v", name, got, want)
		}
	}
	check("Min", s.Min, 1e-6)
	check("Max", s.Max, 5e-6)
	check("Median", s.Median, 3e-6)
	check("Mean", s.Mean, 3e-6)
	check("AdjLow", s.AdjLow, 1e-6)
	check("AdjHigh", s.AdjHigh, 5e-6)
	if !(s.Min <= s.Q1 && s.Q1 <= s.Median && s.Median <= s.Q3 && s.Q3 <= s.Max) {
		t.Errorf("quartiles out of order: %+v", s)
	}
	if s.LowOutliers != 0 || s.HighOutliers != 0 {
		t.Errorf("want no outliers, got %d low, %d high", s.LowOutliers, s.HighOutliers)
	}
}

func TestSummarizeOutliers(t *testing.T) {
	s := Summarize(series("ns", 100, 100, 100, 100, 100, 100, 100, 5, 100000))
	if s.LowOutliers != 1 || s.HighOutliers != 1 {
		t.Errorf("want 1 low and 1 high outlier, got %d and %d", s.LowOutliers, s.HighOutliers)
	}
	if !near(s.AdjLow, 100e-9) || !near(s.AdjHigh, 100e-9) {
		t.Errorf("want whiskers at 100ns, got %v and %v", s.AdjLow, s.AdjHigh)
	}
	if !near(s.Min, 5e-9) || !near(s.Max, 100000e-9) {
		t.Errorf("want extremes 5ns and 100µs, got %v and %v", s.Min, s.Max)
	}
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize(series("ns", 390))
	for name, v := range map[string]float64{
		"Min": s.Min, "Q1": s.Q1, "Median": s.Median, "Q3": s.Q3, "Max": s.Max,
		"AdjLow": s.AdjLow, "AdjHigh": s.AdjHigh, "Mean": s.Mean,
	} {
		if !near(v, 390e-9) {
			t.Errorf("%s: got %v, want 390e-9", name, v)
		}
	}
	if s.StdDev != 0 {
		t.Errorf("StdDev: got %v, want 0", s.StdDev)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(series("ns"))
	if s.N != 0 {
		t.Errorf("want N 0, got %d", s.N)
	}
	if s.Unit != "sec" {
		t.Errorf("want unit sec, got %q", s.Unit)
	}
	for _, v := range []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean, s.AdjLow, s.AdjHigh} {
		if !math.IsNaN(v) {
			t.Errorf("want NaN statistics, got %+v", s)
			break
		}
	}
}

func TestSummarizeUnsorted(t *testing.T) {
	in := series("ns", 5, 1, 3)
	s := Summarize(in)
	if !near(s.Median, 3e-9) || !near(s.Min, 1e-9) || !near(s.Max, 5e-9) {
		t.Errorf("unexpected summary %+v", s)
	}
	if in.Values[0] != 5 {
		t.Errorf("Summarize reordered its input")
	}
}

func TestSummarizeDataset(t *testing.T) {
	layout := ephidfmt.DefaultLayout()
	layout.Total = true
	ds, err := ephidfmt.Parse(strings.NewReader("a b c 10 20 5 3 1\na b c 30 5 15 2 4\n"), "two", layout)
	if err != nil {
		t.Fatal(err)
	}
	sums := SummarizeDataset(ds)
	if len(sums) != 6 {
		t.Fatalf("want 6 summaries, got %d", len(sums))
	}
	for i, s := range sums {
		if s.Metric != ds.Series[i].Metric {
			t.Errorf("summary %d: want metric %v, got %v", i, ds.Series[i].Metric, s.Metric)
		}
		if s.N != 2 {
			t.Errorf("summary %d: want N 2, got %d", i, s.N)
		}
	}
	if !near(sums[5].Max, 56e-9) || !near(sums[5].Min, 39e-9) {
		t.Errorf("total: want range [39ns, 56ns], got [%v, %v]", sums[5].Min, sums[5].Max)
	}
}
