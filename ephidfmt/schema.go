// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ephidfmt reads the log files written by the EphID
// generation benchmark.
//
// Each line of such a log is a record of whitespace-separated
// tokens. A fixed number of leading tokens (the logger's timestamp
// and level) is ignored, and the tokens after that are integer
// timings, one per metric, in the order given by a Schema:
//
//	2019-03-04 10:11:12.000+0000 [INFO] 1200 340 5600 780 91000
//
// A Reader returns these records one at a time. Parse collects a
// whole file into a Dataset of per-metric series, each sorted in
// ascending order.
package ephidfmt

import "fmt"

// A Metric describes one positional field of a benchmark record.
type Metric struct {
	// Label is the short name of the metric, such as "mac".
	Label string `yaml:"label"`

	// Unit is the unit of the logged integers, such as "ns".
	Unit string `yaml:"unit"`
}

func (m Metric) String() string {
	return m.Label + " (" + m.Unit + ")"
}

// A Schema is the ordered list of metrics found on each line after
// the skipped prefix. Index i of the schema labels the i'th numeric
// field and the i'th Series of a Dataset.
type Schema []Metric

// DefaultSchema is the field order written by the EphID generation
// benchmark: host ID generation, expiration time generation, EphID
// encryption, MAC computation and certificate signing.
var DefaultSchema = Schema{
	{"hostID", "ns"},
	{"expTime", "ns"},
	{"encrypt", "ns"},
	{"mac", "ns"},
	{"cert", "ns"},
}

// TotalMetric is the derived metric appended to a Dataset when a
// Layout enables Total. Its value for a record is the sum of the
// record's values.
var TotalMetric = Metric{"total", "ns"}

// Labels returns the metric labels of s in order.
func (s Schema) Labels() []string {
	labels := make([]string, len(s))
	for i, m := range s {
		labels[i] = m.Label
	}
	return labels
}

// Index returns the position of the metric with the given label, or
// -1 if s has no such metric.
func (s Schema) Index(label string) int {
	for i, m := range s {
		if m.Label == label {
			return i
		}
	}
	return -1
}

// A Layout describes the structure of a benchmark log line.
type Layout struct {
	// Skip is the number of leading tokens to ignore on each line.
	Skip int

	// Schema lists the metrics that follow the skipped tokens.
	// Tokens after the last metric are ignored.
	Schema Schema

	// Total enables the derived TotalMetric series.
	Total bool
}

// DefaultLayout returns the layout of the EphID benchmark logs: three
// prefix tokens followed by the five DefaultSchema metrics.
func DefaultLayout() Layout {
	return Layout{Skip: 3, Schema: DefaultSchema}
}

// Metrics returns the metrics of a Dataset parsed with l. This is the
// schema, followed by TotalMetric if l.Total is set.
func (l Layout) Metrics() Schema {
	ms := make(Schema, 0, len(l.Schema)+1)
	ms = append(ms, l.Schema...)
	if l.Total {
		ms = append(ms, TotalMetric)
	}
	return ms
}

// Fields returns the minimum number of tokens a line must have.
func (l Layout) Fields() int {
	return l.Skip + len(l.Schema)
}

func (l Layout) check() error {
	if l.Skip < 0 {
		return fmt.Errorf("negative prefix width %d", l.Skip)
	}
	if len(l.Schema) == 0 {
		return fmt.Errorf("layout has no metrics")
	}
	return nil
}
