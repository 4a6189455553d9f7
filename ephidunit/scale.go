// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ephidunit

import (
	"fmt"
	"math"
	"strconv"
)

// A Scaler represents a scaling factor for a number and its SI
// prefix.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Unscaled value of 1 Prefix (e.g., 1 µ => 1e-6)
	Prefix string  // SI prefix ("k", "m", "µ", etc)
}

// Format formats val and appends the SI prefix according to the
// scale. For example, if the Scaler is the common scale of 0.0001234,
// Format(0.0001234) returns "123.4µ".
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	return string(buf)
}

// A prefix is one SI prefix with the smallest values printed with
// one, two and three digits after the decimal point.
type prefix struct {
	factor float64
	symbol string
	min1   float64 // prints as 100.0 or more
	min2   float64 // prints as 10.00 or more
	min3   float64 // prints as 1.000 or more
}

// prefixes runs from tera down to nano.
var prefixes = mkPrefixes()

// subNano[i] is the smallest nano-scaled value that keeps three
// significant digits with i+3 digits after the decimal point.
var subNano = mkSubNano()

// rounded returns the float closest to mantissa×10^exp. Thresholds are
// built from their decimal text so they agree with Format's rounding.
func rounded(mantissa string, exp int) float64 {
	v, err := strconv.ParseFloat(fmt.Sprintf("%se%d", mantissa, exp), 64)
	if err != nil {
		panic(err)
	}
	return v
}

func mkPrefixes() []prefix {
	symbols := []string{"T", "G", "M", "k", "", "m", "µ", "n"}
	ps := make([]prefix, len(symbols))
	for i, sym := range symbols {
		exp := 12 - 3*i
		ps[i] = prefix{
			factor: math.Pow10(exp),
			symbol: sym,
			min1:   rounded("99.995", exp),
			min2:   rounded("9.9995", exp),
			min3:   rounded("0.99995", exp),
		}
	}
	return ps
}

func mkSubNano() []float64 {
	ts := make([]float64, 8)
	for i := range ts {
		ts[i] = rounded("9.9995", -1-i)
	}
	return ts
}

// Scale formats val using at least three significant digits,
// appending an SI prefix.
func Scale(val float64) string {
	return CommonScale([]float64{val}).Format(val)
}

// CommonScale returns a Scaler for printing all of vals in one column.
// The smallest non-zero magnitude picks the prefix so that it keeps
// three significant digits. NaN and infinite values are ignored; if no
// value is left, the result prints plain numbers with three decimals.
func CommonScale(vals []float64) Scaler {
	min := math.Inf(1)
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && v < min {
			min = v
		}
	}
	if math.IsInf(min, 1) {
		return Scaler{3, 1, ""}
	}

	for _, p := range prefixes {
		switch {
		case min >= p.min1:
			return Scaler{1, p.factor, p.symbol}
		case min >= p.min2:
			return Scaler{2, p.factor, p.symbol}
		case min >= p.min3:
			return Scaler{3, p.factor, p.symbol}
		}
	}

	// Below one nano: stay in nanos and widen the precision.
	nano := prefixes[len(prefixes)-1]
	val := min / nano.factor
	prec := 3
	for i := 0; i < len(subNano)-1 && val < subNano[i]; i++ {
		prec++
	}
	return Scaler{prec, nano.factor, nano.symbol}
}
