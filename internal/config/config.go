// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the runtime configuration of ephidstat.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scionproto/apnaperf/chart"
	"github.com/scionproto/apnaperf/ephidfmt"
)

// Config holds all runtime configuration for an ephidstat run.
type Config struct {
	Dir       string          `yaml:"dir"`        // directory searched for logs
	Pattern   string          `yaml:"pattern"`    // glob matched against file names in Dir
	Skip      int             `yaml:"skip"`       // leading tokens ignored on each line
	Metrics   int             `yaml:"metrics"`    // number of Schema metrics on each line
	Schema    ephidfmt.Schema `yaml:"schema"`     // metric labels and units
	Total     bool            `yaml:"total"`      // derive the total series
	KeepGoing bool            `yaml:"keep_going"` // skip malformed files instead of stopping
	OutDir    string          `yaml:"out"`        // chart directory; no charts if empty
	Formats   []string        `yaml:"formats"`    // chart file formats
	ECDF      bool            `yaml:"ecdf"`       // also draw the cumulative distribution
	CSV       bool            `yaml:"csv"`        // print summaries as CSV
	LogFormat string          `yaml:"log_format"` // "text" or "json"
}

// Default returns the configuration of the EphID benchmark setup:
// logs named ephid_benchmark* in apna_benchmark, three prefix tokens
// and five metrics per line.
func Default() Config {
	layout := ephidfmt.DefaultLayout()
	return Config{
		Dir:       "apna_benchmark",
		Pattern:   "ephid_benchmark*",
		Skip:      layout.Skip,
		Metrics:   len(layout.Schema),
		Schema:    append(ephidfmt.Schema(nil), layout.Schema...),
		Formats:   []string{"png"},
		LogFormat: "text",
	}
}

// LoadFromFile reads a YAML config file and merges its values into c.
// Keys absent from the file keep their current value. Unknown keys are
// an error. A file that sets schema but not metrics uses the whole
// schema.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	var set struct {
		Metrics *int            `yaml:"metrics"`
		Schema  ephidfmt.Schema `yaml:"schema"`
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if set.Schema != nil && set.Metrics == nil {
		c.Metrics = len(c.Schema)
	}
	return nil
}

// Validate checks c and returns an error describing the first invalid
// setting.
func (c *Config) Validate() error {
	if c.Skip < 0 {
		return fmt.Errorf("skip must not be negative, got %d", c.Skip)
	}
	if c.Metrics < 1 || c.Metrics > len(c.Schema) {
		return fmt.Errorf("metrics must be between 1 and %d, got %d", len(c.Schema), c.Metrics)
	}
	seen := make(map[string]bool)
	for _, m := range c.Schema[:c.Metrics] {
		if m.Label == "" {
			return fmt.Errorf("schema has a metric without a label")
		}
		if seen[m.Label] || (c.Total && m.Label == ephidfmt.TotalMetric.Label) {
			return fmt.Errorf("duplicate metric label %q", m.Label)
		}
		seen[m.Label] = true
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return fmt.Errorf("bad pattern %q: %w", c.Pattern, err)
	}
	for _, f := range c.Formats {
		if !isChartFormat(f) {
			return fmt.Errorf("unknown chart format %q, want one of %v", f, chart.Formats)
		}
	}
	if c.OutDir != "" && len(c.Formats) == 0 {
		return fmt.Errorf("no chart formats for output directory %s", c.OutDir)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func isChartFormat(f string) bool {
	for _, cf := range chart.Formats {
		if f == cf {
			return true
		}
	}
	return false
}

// Layout returns the line layout described by c. c must be valid.
func (c *Config) Layout() ephidfmt.Layout {
	return ephidfmt.Layout{
		Skip:   c.Skip,
		Schema: append(ephidfmt.Schema(nil), c.Schema[:c.Metrics]...),
		Total:  c.Total,
	}
}
