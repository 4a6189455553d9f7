// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Ephidstat summarizes and plots EphID benchmark logs.
//
// Usage:
//
//	ephidstat [flags] [file ...]
//
// Each log line holds a fixed number of prefix tokens (by default the
// date, time and level written by the logger) followed by one integer
// per metric: the host ID generation, expiry time, encryption, MAC and
// certificate timings in nanoseconds.
//
// Without file arguments, ephidstat reads every file in -dir whose name
// matches -pattern, in lexical order. For each file it prints a table
// with the distribution of every metric. With -out, it also draws a
// box plot of the file (and with -ecdf its cumulative distribution) to
// <out>/<name>.boxplot.<format> and <out>/<name>.ecdf.<format>.
//
// By default a malformed file stops the run. With -keep-going it is
// reported and skipped, and ephidstat exits with status 4.
//
// The -config flag names a YAML file holding the same settings; flags
// given on the command line take precedence over it.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/scionproto/apnaperf/chart"
	"github.com/scionproto/apnaperf/ephidfmt"
	"github.com/scionproto/apnaperf/ephidmath"
	"github.com/scionproto/apnaperf/ephidunit"
	"github.com/scionproto/apnaperf/internal/config"
	"github.com/scionproto/apnaperf/internal/exitcode"
	"github.com/scionproto/apnaperf/internal/logging"
	"github.com/scionproto/apnaperf/internal/texttab"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// An exitError carries the exit status of a run that already logged
// its failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag parsing failed before the logger existed.
	fmt.Fprintf(stderr, "ephidstat: %v\n", err)
	fmt.Fprintf(stderr, "Run 'ephidstat --help' for usage.\n")
	return exitcode.UsageError
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath string
		flagCfg    = config.Default()
	)
	cmd := &cobra.Command{
		Use:           "ephidstat [flags] [file ...]",
		Short:         "Summarize and plot EphID benchmark logs",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML config `file`")
	f.StringVar(&flagCfg.Dir, "dir", flagCfg.Dir, "`directory` searched for logs when no files are given")
	f.StringVar(&flagCfg.Pattern, "pattern", flagCfg.Pattern, "glob matched against log file names in -dir")
	f.IntVar(&flagCfg.Skip, "skip", flagCfg.Skip, "leading tokens ignored on each line")
	f.IntVar(&flagCfg.Metrics, "metrics", flagCfg.Metrics, "number of metrics on each line")
	f.BoolVar(&flagCfg.Total, "total", false, "add a total series with the sum of each line")
	f.BoolVar(&flagCfg.KeepGoing, "keep-going", false, "skip malformed files instead of stopping")
	f.StringVar(&flagCfg.OutDir, "out", "", "write charts to `directory`")
	f.StringSliceVar(&flagCfg.Formats, "format", flagCfg.Formats, "chart formats: png, svg or pdf")
	f.BoolVar(&flagCfg.ECDF, "ecdf", false, "also draw the cumulative distribution")
	f.BoolVar(&flagCfg.CSV, "csv", false, "print summaries as CSV")
	f.StringVar(&flagCfg.LogFormat, "log-format", flagCfg.LogFormat, "log format: text or json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		var loadErr error
		if configPath != "" {
			loadErr = cfg.LoadFromFile(configPath)
		}
		overrideFromFlags(cmd.Flags(), &cfg, &flagCfg)

		log := logging.Setup(cfg.LogFormat, stderr)
		if loadErr != nil {
			log.Error().Err(loadErr).Msg("loading config failed")
			return &exitError{exitcode.UsageError, loadErr}
		}
		if err := cfg.Validate(); err != nil {
			log.Error().Err(err).Msg("config validation failed")
			return &exitError{exitcode.UsageError, err}
		}
		r := &runner{cfg: cfg, log: log, stdout: stdout}
		code, err := r.run(args)
		if code != exitcode.Success {
			return &exitError{code, err}
		}
		return nil
	}
	return cmd
}

// overrideFromFlags copies the settings given on the command line from
// flagCfg to cfg.
func overrideFromFlags(fs *pflag.FlagSet, cfg, flagCfg *config.Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Dir = flagCfg.Dir
		case "pattern":
			cfg.Pattern = flagCfg.Pattern
		case "skip":
			cfg.Skip = flagCfg.Skip
		case "metrics":
			cfg.Metrics = flagCfg.Metrics
		case "total":
			cfg.Total = flagCfg.Total
		case "keep-going":
			cfg.KeepGoing = flagCfg.KeepGoing
		case "out":
			cfg.OutDir = flagCfg.OutDir
		case "format":
			cfg.Formats = flagCfg.Formats
		case "ecdf":
			cfg.ECDF = flagCfg.ECDF
		case "csv":
			cfg.CSV = flagCfg.CSV
		case "log-format":
			cfg.LogFormat = flagCfg.LogFormat
		}
	})
}

type runner struct {
	cfg    config.Config
	log    zerolog.Logger
	stdout io.Writer
	csv    *csv.Writer
}

// run processes the files named by args, or the discovered logs if
// args is empty, and returns the exit status.
func (r *runner) run(args []string) (int, error) {
	paths := args
	if len(paths) == 0 {
		var err error
		paths, err = ephidfmt.Discover(r.cfg.Dir, r.cfg.Pattern)
		if err != nil {
			r.log.Error().Err(err).Msg("listing log directory failed")
			return exitcode.UsageError, err
		}
		if len(paths) == 0 {
			r.log.Warn().Str("dir", r.cfg.Dir).Str("pattern", r.cfg.Pattern).Msg("no log files matched")
			return exitcode.Success, nil
		}
	}

	if r.cfg.CSV {
		r.csv = csv.NewWriter(r.stdout)
		r.csv.Write(csvHeader)
	}

	files := &ephidfmt.Files{Paths: paths, Layout: r.cfg.Layout(), KeepGoing: r.cfg.KeepGoing}
	done := 0
	for files.Scan() {
		ds := files.Dataset()
		r.log.Debug().Str("file", ds.Name).Int("lines", ds.Len()).Msg("parsed")
		if err := r.report(ds); err != nil {
			r.log.Error().Err(err).Str("file", ds.Name).Msg("writing summary failed")
			return exitcode.RenderError, err
		}
		if err := r.draw(ds); err != nil {
			r.log.Error().Err(err).Str("file", ds.Name).Msg("rendering chart failed")
			return exitcode.RenderError, err
		}
		done++
	}
	if err := files.Err(); err != nil {
		r.log.Error().Err(err).Msg("parsing log failed")
		return exitcode.ParseError, err
	}
	if len(files.Skipped) > 0 {
		for _, err := range files.Skipped {
			r.log.Warn().Err(err).Msg("skipped malformed log")
		}
		r.log.Warn().Int("processed", done).Int("skipped", len(files.Skipped)).Msg("some logs were skipped")
		return exitcode.PartialSuccess, files.Skipped[0]
	}
	return exitcode.Success, nil
}

// report writes the summary of ds to the output.
func (r *runner) report(ds *ephidfmt.Dataset) error {
	sums := ephidmath.SummarizeDataset(ds)
	if r.csv != nil {
		for _, s := range sums {
			r.csv.Write(csvRecord(ds.Name, s))
		}
		r.csv.Flush()
		return r.csv.Error()
	}

	if _, err := fmt.Fprintf(r.stdout, "%s: %d lines\n", ds.Name, ds.Len()); err != nil {
		return err
	}
	var tab texttab.Table
	tab.Row().Cell("metric")
	for _, h := range []string{"n", "min", "q1", "median", "q3", "max", "mean", "stddev", "outliers"} {
		tab.Cell(h, texttab.Right)
	}
	for _, s := range sums {
		tab.Row().Cell(s.Metric.Label).Cell(strconv.Itoa(s.N), texttab.Right)
		if s.N == 0 {
			continue
		}
		scaler := ephidunit.CommonScale([]float64{s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean})
		unit := ephidunit.Abbrev(s.Unit)
		for _, v := range []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean} {
			tab.Cell(scaler.Format(v)+unit, texttab.Right)
		}
		tab.Cell(ephidunit.Scale(s.StdDev)+unit, texttab.Right)
		tab.Cell(fmt.Sprintf("%d/%d", s.LowOutliers, s.HighOutliers), texttab.Right)
	}
	if err := tab.Format(r.stdout); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.stdout)
	return err
}

var csvHeader = []string{
	"file", "metric", "unit", "n",
	"min", "q1", "median", "q3", "max", "mean", "stddev",
	"low_outliers", "high_outliers",
}

func csvRecord(name string, s ephidmath.Summary) []string {
	rec := []string{name, s.Metric.Label, s.Unit, strconv.Itoa(s.N)}
	for _, v := range []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean, s.StdDev} {
		rec = append(rec, ephidunit.Raw(v))
	}
	return append(rec, strconv.Itoa(s.LowOutliers), strconv.Itoa(s.HighOutliers))
}

// draw renders the charts of ds into the output directory, if one is
// configured.
func (r *runner) draw(ds *ephidfmt.Dataset) error {
	if r.cfg.OutDir == "" {
		return nil
	}
	if ds.Len() == 0 {
		r.log.Warn().Str("file", ds.Name).Msg("no samples to plot")
		return nil
	}

	base := filepath.Base(ds.Name)
	w := chart.Width(len(ds.Series))
	box, err := chart.BoxPlot(ds)
	if err != nil {
		return err
	}
	for _, format := range r.cfg.Formats {
		path := filepath.Join(r.cfg.OutDir, base+".boxplot."+format)
		if err := chart.Save(box, path, w, chart.Height); err != nil {
			return err
		}
		r.log.Info().Str("chart", path).Msg("wrote box plot")
	}

	if !r.cfg.ECDF {
		return nil
	}
	cdf, err := chart.ECDF(ds)
	if err != nil {
		return err
	}
	for _, format := range r.cfg.Formats {
		path := filepath.Join(r.cfg.OutDir, base+".ecdf."+format)
		if err := chart.Save(cdf, path, w, chart.Height); err != nil {
			return err
		}
		r.log.Info().Str("chart", path).Msg("wrote distribution")
	}
	return nil
}
