// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ephidfmt

import (
	"errors"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func values(ds *Dataset) [][]int64 {
	var out [][]int64
	for _, s := range ds.Series {
		out = append(out, s.Values)
	}
	return out
}

func totalLayout() Layout {
	l := DefaultLayout()
	l.Total = true
	return l
}

func TestParseSingleLine(t *testing.T) {
	const data = "host1 run1 2023-01-01 100 200 50 30 10\n"

	ds, err := Parse(strings.NewReader(data), "single", DefaultLayout())
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int64{{100}, {200}, {50}, {30}, {10}}
	if diff := cmp.Diff(want, values(ds)); diff != "" {
		t.Errorf("series (-want +got):\n%s", diff)
	}

	ds, err = Parse(strings.NewReader(data), "single", totalLayout())
	if err != nil {
		t.Fatal(err)
	}
	want = append(want, []int64{390})
	if diff := cmp.Diff(want, values(ds)); diff != "" {
		t.Errorf("series with total (-want +got):\n%s", diff)
	}
	if got := ds.Series[5].Metric; got != TotalMetric {
		t.Errorf("want last metric %v, got %v", TotalMetric, got)
	}
}

func TestParseSortsEachSeries(t *testing.T) {
	const data = "a b c 10 20 5 3 1\na b c 30 5 15 2 4\n"

	ds, err := Parse(strings.NewReader(data), "two", DefaultLayout())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{10, 30}, ds.Lookup("hostID").Values); diff != "" {
		t.Errorf("hostID (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{5, 20}, ds.Lookup("expTime").Values); diff != "" {
		t.Errorf("expTime (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 4}, ds.Lookup("cert").Values); diff != "" {
		t.Errorf("cert (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{2, 3}, ds.Lookup("mac").Values); diff != "" {
		t.Errorf("mac (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, layout := range []Layout{DefaultLayout(), totalLayout()} {
		ds, err := Parse(strings.NewReader(""), "empty", layout)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := len(ds.Series), len(layout.Metrics()); got != want {
			t.Errorf("want %d series, got %d", want, got)
		}
		if ds.Len() != 0 {
			t.Errorf("want 0 records, got %d", ds.Len())
		}
		for _, s := range ds.Series {
			if s.Values == nil || len(s.Values) != 0 {
				t.Errorf("series %s: want empty non-nil values, got %#v", s.Metric.Label, s.Values)
			}
		}
	}
}

func TestParseMalformed(t *testing.T) {
	ds, err := Parse(strings.NewReader("a b c 1 2 3 4 5\na b c 10\n"), "bad", totalLayout())
	if ds != nil {
		t.Errorf("want no dataset on error, got %v", ds)
	}
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("want *SyntaxError, got %v", err)
	}
	if se.Line != 2 || se.FileName != "bad" {
		t.Errorf("want error at bad:2, got %s:%d", se.FileName, se.Line)
	}
}

func TestParseRejectsBlankLines(t *testing.T) {
	// Every line of a log is a record, so a blank line is malformed
	// rather than skipped.
	data := "a b c 1 2 3 4 5\n\na b c 6 7 8 9 10\n"
	ds, err := Parse(strings.NewReader(data), "gap", DefaultLayout())
	if ds != nil {
		t.Errorf("want no dataset on error, got %v", ds)
	}
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("want *SyntaxError, got %v", err)
	}
	if se.Line != 2 || se.Msg != "want 8 fields, have 0" {
		t.Errorf("want gap:2: want 8 fields, have 0, got %v", err)
	}
}

func TestParseTotalOverflow(t *testing.T) {
	data := "a b c 9223372036854775807 1 0 0 0\n"
	if _, err := Parse(strings.NewReader(data), "big", DefaultLayout()); err != nil {
		t.Fatalf("without total: %v", err)
	}
	ds, err := Parse(strings.NewReader(data), "big", totalLayout())
	if ds != nil {
		t.Errorf("want no dataset on error, got %v", ds)
	}
	var se *SyntaxError
	if !errors.As(err, &se) || se.Msg != "total overflows int64" {
		t.Errorf("want total overflow error, got %v", err)
	}
}

// genLog returns a random benchmark log with n records.
func genLog(rng *rand.Rand, n int) (string, [][]int64) {
	var b strings.Builder
	var rows [][]int64
	for i := 0; i < n; i++ {
		row := make([]int64, len(DefaultSchema))
		b.WriteString("2019-03-04 10:11:12.000+0000 [INFO]")
		for j := range row {
			row[j] = rng.Int63n(1e6)
			b.WriteString(" ")
			b.WriteString(strconv.FormatInt(row[j], 10))
		}
		b.WriteString("\n")
		rows = append(rows, row)
	}
	return b.String(), rows
}

func TestParseProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 17, 500} {
		data, rows := genLog(rng, n)

		// Before sorting, the total of record i is the sum of
		// record i's values.
		raw, err := Collect(strings.NewReader(data), "gen", totalLayout())
		if err != nil {
			t.Fatal(err)
		}
		total := raw.Lookup(TotalMetric.Label)
		for i, row := range rows {
			var sum int64
			for j, v := range row {
				sum += v
				if raw.Series[j].Values[i] != v {
					t.Fatalf("n=%d: series %d record %d: want %d, got %d", n, j, i, v, raw.Series[j].Values[i])
				}
			}
			if total.Values[i] != sum {
				t.Fatalf("n=%d: total of record %d: want %d, got %d", n, i, sum, total.Values[i])
			}
		}

		ds, err := Parse(strings.NewReader(data), "gen", totalLayout())
		if err != nil {
			t.Fatal(err)
		}
		if ds.Len() != n {
			t.Errorf("n=%d: want %d records, got %d", n, n, ds.Len())
		}
		for _, s := range ds.Series {
			if len(s.Values) != n {
				t.Errorf("n=%d: series %s has %d values", n, s.Metric.Label, len(s.Values))
			}
			if !s.Sorted() {
				t.Errorf("n=%d: series %s not sorted", n, s.Metric.Label)
			}
		}

		// Parsing is idempotent.
		ds2, err := Parse(strings.NewReader(data), "gen", totalLayout())
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(ds, ds2); diff != "" {
			t.Errorf("n=%d: second parse differs (-first +second):\n%s", n, diff)
		}
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ephid_benchmark-1")
	if err := os.WriteFile(path, []byte("a b c 5 4 3 2 1\na b c 1 2 3 4 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ds, err := ParseFile(path, DefaultLayout())
	if err != nil {
		t.Fatal(err)
	}
	if ds.Name != path {
		t.Errorf("want name %q, got %q", path, ds.Name)
	}
	if diff := cmp.Diff(DefaultSchema, ds.Metrics()); diff != "" {
		t.Errorf("metrics (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]int64{{1, 5}, {2, 4}, {3, 3}, {2, 4}, {1, 5}}, values(ds)); diff != "" {
		t.Errorf("series (-want +got):\n%s", diff)
	}

	_, err = ParseFile(filepath.Join(dir, "missing"), DefaultLayout())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("want not-exist error, got %v", err)
	}
}

func TestLayoutMetrics(t *testing.T) {
	l := DefaultLayout()
	if got := l.Fields(); got != 8 {
		t.Errorf("want 8 fields, got %d", got)
	}
	if diff := cmp.Diff([]string{"hostID", "expTime", "encrypt", "mac", "cert"}, l.Metrics().Labels()); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
	l.Total = true
	ms := l.Metrics()
	if ms.Index("total") != 5 || ms.Index("cert") != 4 || ms.Index("nope") != -1 {
		t.Errorf("unexpected indexes in %v", ms)
	}
	// Metrics must not alias the schema.
	ms[0].Label = "changed"
	if DefaultSchema[0].Label != "hostID" {
		t.Errorf("Layout.Metrics aliases the schema")
	}
}
