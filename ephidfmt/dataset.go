// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ephidfmt

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// A Series is the sequence of values of one metric across all records
// of a file.
type Series struct {
	Metric Metric

	// Values are the metric's values. After Parse or Dataset.Sort
	// they are in ascending order; after Collect they are in line
	// order.
	Values []int64
}

// Sorted reports whether s.Values is in ascending order.
func (s *Series) Sorted() bool {
	return sort.SliceIsSorted(s.Values, func(i, j int) bool { return s.Values[i] < s.Values[j] })
}

// A Dataset holds the series of every metric of one benchmark log.
//
// All series of a Dataset have the same length: the number of records
// in the log.
type Dataset struct {
	// Name identifies the source of the dataset, usually its file
	// name.
	Name string

	// Series has one entry per metric of the Layout the dataset was
	// parsed with, in Layout.Metrics order.
	Series []Series
}

func newDataset(name string, layout Layout) *Dataset {
	ds := &Dataset{Name: name}
	for _, m := range layout.Metrics() {
		ds.Series = append(ds.Series, Series{Metric: m, Values: []int64{}})
	}
	return ds
}

// Len returns the number of records in the dataset.
func (ds *Dataset) Len() int {
	if len(ds.Series) == 0 {
		return 0
	}
	return len(ds.Series[0].Values)
}

// Metrics returns the metrics of the dataset's series.
func (ds *Dataset) Metrics() Schema {
	ms := make(Schema, len(ds.Series))
	for i := range ds.Series {
		ms[i] = ds.Series[i].Metric
	}
	return ms
}

// Lookup returns the series with the given metric label, or nil.
func (ds *Dataset) Lookup(label string) *Series {
	for i := range ds.Series {
		if ds.Series[i].Metric.Label == label {
			return &ds.Series[i]
		}
	}
	return nil
}

// Sort sorts every series of ds independently in ascending order.
// After Sort, index i of two different series no longer refers to the
// same record.
func (ds *Dataset) Sort() {
	for i := range ds.Series {
		vs := ds.Series[i].Values
		sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	}
}

// add appends rec to the dataset's series.
func (ds *Dataset) add(rec *Record, total bool) {
	for i, v := range rec.Values {
		ds.Series[i].Values = append(ds.Series[i].Values, v)
	}
	if total {
		t := &ds.Series[len(rec.Values)]
		sum, _ := rec.Sum()
		t.Values = append(t.Values, sum)
	}
}

// Collect reads every record from r and returns a Dataset whose series
// are in line order. It fails on the first malformed line; no partial
// Dataset is returned.
func Collect(r io.Reader, name string, layout Layout) (*Dataset, error) {
	ds := newDataset(name, layout)
	reader := NewReader(r, name, layout)
	for reader.Scan() {
		ds.add(reader.Record(), layout.Total)
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Parse reads every record from r and returns a Dataset with each
// series sorted in ascending order.
//
// name is used as the Dataset name and in error messages.
func Parse(r io.Reader, name string, layout Layout) (*Dataset, error) {
	ds, err := Collect(r, name, layout)
	if err != nil {
		return nil, err
	}
	ds.Sort()
	return ds, nil
}

// ParseFile parses the benchmark log at path. See Parse.
func ParseFile(path string, layout Layout) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path, layout)
}

// String returns a one-line description of ds.
func (ds *Dataset) String() string {
	return fmt.Sprintf("%s: %d records, %d metrics", ds.Name, ds.Len(), len(ds.Series))
}
