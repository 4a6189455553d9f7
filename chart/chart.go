// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders benchmark datasets as box-plots and empirical
// CDFs.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/scionproto/apnaperf/ephidfmt"
	"github.com/scionproto/apnaperf/ephidunit"
)

// ErrNoSamples is returned when a dataset has no records to draw.
var ErrNoSamples = errors.New("chart: no samples")

// Formats lists the file formats Save can write, by extension.
var Formats = []string{"png", "svg", "pdf"}

const boxWidth = 30 // points

// tidy returns the values of s in tidied units, and that unit.
func tidy(s *ephidfmt.Series) (plotter.Values, string) {
	xs, unit := ephidunit.TidyInts(s.Values, s.Metric.Unit)
	return plotter.Values(xs), unit
}

// axisLabel returns the Y axis label for values in unit.
func axisLabel(unit string) string {
	if unit == "sec" {
		return "time"
	}
	return unit
}

// BoxPlot returns a plot with one box per metric of ds, titled by the
// dataset name. Whiskers follow the 1.5 IQR rule. Values beyond the
// whiskers are not drawn, and the Y axis spans only the whiskers.
func BoxPlot(ds *ephidfmt.Dataset) (*plot.Plot, error) {
	bs, unit, err := boxes(ds)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = filepath.Base(ds.Name)
	p.Add(horizontalGrid())
	for _, b := range bs {
		p.Add(b)
	}
	p.NominalX(ds.Metrics().Labels()...)
	p.Y.Label.Text = axisLabel(unit)
	p.Y.Tick.Marker = unitTicks(unit)
	return p, nil
}

// boxes returns the box of each metric of ds and their common unit.
func boxes(ds *ephidfmt.Dataset) ([]whiskerBox, string, error) {
	if ds.Len() == 0 {
		return nil, "", ErrNoSamples
	}
	var unit string
	var boxes []whiskerBox
	for i := range ds.Series {
		s := &ds.Series[i]
		vs, u := tidy(s)
		if unit != "" && u != unit {
			return nil, "", fmt.Errorf("chart: metric %s in %s, want %s", s.Metric.Label, u, unit)
		}
		unit = u

		b, err := plotter.NewBoxPlot(vg.Points(boxWidth), float64(i), vs)
		if err != nil {
			return nil, "", fmt.Errorf("chart: %s: %w", s.Metric.Label, err)
		}
		b.Outside = nil
		b.FillColor = plotutil.Color(i)
		b.BoxStyle.Color = color.Black
		boxes = append(boxes, whiskerBox{b})
	}
	return boxes, unit, nil
}

// whiskerBox is a box plot whose data range ends at the whiskers
// rather than at the extreme values.
type whiskerBox struct {
	*plotter.BoxPlot
}

func (b whiskerBox) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax, _, _ = b.BoxPlot.DataRange()
	return xmin, xmax, b.AdjLow, b.AdjHigh
}

func horizontalGrid() *plotter.Grid {
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	return grid
}

// ECDF returns a plot of the empirical cumulative distribution of each
// metric of ds. The Y axis is the fraction of records at or below a
// given time, so the curve of a metric crosses 0.5 at its median.
func ECDF(ds *ephidfmt.Dataset) (*plot.Plot, error) {
	curves, unit, err := ecdfs(ds)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = filepath.Base(ds.Name)
	p.X.Label.Text = axisLabel(unit)
	p.X.Tick.Marker = unitTicks(unit)
	p.Y.Label.Text = "fraction of records"
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	for i, c := range curves {
		line, err := plotter.NewLine(c.pts)
		if err != nil {
			return nil, fmt.Errorf("chart: %s: %w", c.label, err)
		}
		line.StepStyle = plotter.PostStep
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(c.label, line)
	}
	p.Legend.Top = false
	p.Legend.Left = false
	return p, nil
}

// A curve is the empirical CDF of one metric.
type curve struct {
	label string
	pts   plotter.XYs
}

// ecdfs computes the empirical CDF of each metric of ds over a domain
// shared by all metrics, so every curve starts at 0 and ends at 1.
func ecdfs(ds *ephidfmt.Dataset) ([]curve, string, error) {
	if ds.Len() == 0 {
		return nil, "", ErrNoSamples
	}
	var unit string
	var metrics []string
	var xs []float64
	for i := range ds.Series {
		s := &ds.Series[i]
		vs, u := tidy(s)
		if unit != "" && u != unit {
			return nil, "", fmt.Errorf("chart: metric %s in %s, want %s", s.Metric.Label, u, unit)
		}
		unit = u
		for _, v := range vs {
			metrics = append(metrics, s.Metric.Label)
			xs = append(xs, v)
		}
	}
	tab := new(table.Builder).Add("metric", metrics).Add("value", xs).Done()
	g := ggstat.ECDF{X: "value"}.F(table.GroupBy(tab, "metric"))

	var curves []curve
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		var x, y []float64
		slice.Convert(&x, t.MustColumn("value"))
		slice.Convert(&y, t.MustColumn("cumulative density"))
		pts := make(plotter.XYs, len(x))
		for j := range x {
			pts[j].X, pts[j].Y = x[j], y[j]
		}
		curves = append(curves, curve{fmt.Sprint(gid.Label()), pts})
	}
	return curves, unit, nil
}

// unitTicks returns a tick marker that labels major ticks with values
// in unit, scaled with a common SI prefix.
func unitTicks(unit string) plot.Ticker {
	sym := ephidunit.Abbrev(unit)
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		ticks := plot.DefaultTicks{}.Ticks(min, max)
		var major []float64
		for _, t := range ticks {
			if t.Label != "" {
				major = append(major, t.Value)
			}
		}
		sc := ephidunit.CommonScale(major)
		for i := range ticks {
			if ticks[i].Label != "" {
				ticks[i].Label = sc.Format(ticks[i].Value) + sym
			}
		}
		return ticks
	})
}

// Save writes p to path. The image format is chosen by the file
// extension, which must be one of Formats. Missing parent directories
// are created.
func Save(p *plot.Plot, path string, w, h vg.Length) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if !validFormat(ext) {
		return fmt.Errorf("chart: unsupported format %q", ext)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
	}
	return p.Save(w, h, path)
}

func validFormat(ext string) bool {
	for _, f := range Formats {
		if ext == f {
			return true
		}
	}
	return false
}

// Width returns a plot width that fits n boxes.
func Width(n int) vg.Length {
	w := vg.Length(n+1) * 1.2 * vg.Inch
	if w < 4*vg.Inch {
		w = 4 * vg.Inch
	}
	return w
}

// Height is the default plot height.
const Height = 4 * vg.Inch
