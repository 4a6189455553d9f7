// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ephidunit provides typed timings and SI formatting for
// benchmark measurements.
package ephidunit

import "strconv"

// Nanoseconds is a timing logged by the EphID benchmark.
type Nanoseconds int64

// Seconds returns n in seconds.
func (n Nanoseconds) Seconds() float64 {
	return float64(n) * 1e-9
}

// Tidy normalizes a value with a pre-scaled unit into base units.
// A value in "ns" is re-scaled to "sec"; any other unit is returned
// unchanged.
func Tidy(value float64, unit string) (tidiedValue float64, tidiedUnit string) {
	switch unit {
	case "ns":
		return value * 1e-9, "sec"
	case "us", "µs":
		return value * 1e-6, "sec"
	case "ms":
		return value * 1e-3, "sec"
	}
	return value, unit
}

// Abbrev returns the short symbol for a tidied unit, used after an SI
// prefix: "sec" becomes "s".
func Abbrev(unit string) string {
	if unit == "sec" {
		return "s"
	}
	return unit
}

// TidyInts converts integer values logged in unit to floats in the
// tidied unit. Nanosecond timings become seconds.
func TidyInts(vs []int64, unit string) ([]float64, string) {
	xs := make([]float64, len(vs))
	if unit == "ns" {
		for i, v := range vs {
			xs[i] = Nanoseconds(v).Seconds()
		}
		return xs, "sec"
	}
	factor, tidied := Tidy(1, unit)
	for i, v := range vs {
		xs[i] = float64(v) * factor
	}
	return xs, tidied
}

// Raw formats v with no scaling, for output consumed by programs.
func Raw(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
