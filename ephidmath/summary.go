// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ephidmath summarizes the distribution of benchmark timings.
//
// The summaries are the order statistics a box-plot shows: quartiles,
// Tukey whiskers and the extremes, plus the mean and standard
// deviation for reference. No statistical tests are performed.
package ephidmath

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/scionproto/apnaperf/ephidfmt"
	"github.com/scionproto/apnaperf/ephidunit"
)

// WhiskerRange is the length of a box-plot whisker as a multiple of
// the inter-quartile range.
const WhiskerRange = 1.5

// A Summary summarizes the distribution of one metric.
//
// All values are in Unit, which is the tidied form of the metric's
// unit (seconds for nanosecond timings). If N is 0, every value is NaN.
type Summary struct {
	Metric ephidfmt.Metric
	Unit   string
	N      int

	Min, Max        float64
	Q1, Median, Q3  float64
	Mean, StdDev    float64
	AdjLow, AdjHigh float64 // Whisker ends

	// LowOutliers and HighOutliers count the values beyond the
	// whiskers.
	LowOutliers, HighOutliers int
}

// Summarize computes the summary of series s. Series from
// ephidfmt.Parse are already sorted; others are sorted on a copy.
func Summarize(s *ephidfmt.Series) Summary {
	xs, unit := ephidunit.TidyInts(s.Values, s.Metric.Unit)
	if !sort.Float64sAreSorted(xs) {
		sort.Float64s(xs)
	}

	sum := Summary{Metric: s.Metric, Unit: unit, N: len(xs)}
	if len(xs) == 0 {
		nan := math.NaN()
		sum.Min, sum.Max = nan, nan
		sum.Q1, sum.Median, sum.Q3 = nan, nan, nan
		sum.Mean, sum.StdDev = nan, nan
		sum.AdjLow, sum.AdjHigh = nan, nan
		return sum
	}

	sample := stats.Sample{Xs: xs, Sorted: true}
	sum.Min, sum.Max = sample.Bounds()
	sum.Q1 = sample.Quantile(0.25)
	sum.Median = sample.Quantile(0.5)
	sum.Q3 = sample.Quantile(0.75)
	sum.Mean = sample.Mean()
	if len(xs) > 1 {
		sum.StdDev = sample.StdDev()
	}

	// Whiskers extend to the most extreme values within
	// WhiskerRange IQRs of the box.
	iqr := sum.Q3 - sum.Q1
	lo := sort.SearchFloat64s(xs, sum.Q1-WhiskerRange*iqr)
	hi := sort.Search(len(xs), func(i int) bool { return xs[i] > sum.Q3+WhiskerRange*iqr }) - 1
	sum.AdjLow, sum.AdjHigh = xs[lo], xs[hi]
	sum.LowOutliers, sum.HighOutliers = lo, len(xs)-1-hi
	return sum
}

// SummarizeDataset summarizes every series of ds, in metric order.
func SummarizeDataset(ds *ephidfmt.Dataset) []Summary {
	sums := make([]Summary, len(ds.Series))
	for i := range ds.Series {
		sums[i] = Summarize(&ds.Series[i])
	}
	return sums
}
