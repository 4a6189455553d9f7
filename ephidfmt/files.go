// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ephidfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover returns the paths of the regular files in dir whose base
// name matches the shell pattern, sorted by name. Subdirectories are
// not searched.
func Discover(dir, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad file pattern %q: %w", pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if ok, _ := filepath.Match(pattern, e.Name()); ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// A Files parses a sequence of benchmark logs.
//
// Its API is modeled on bufio.Scanner: Scan parses the next file and
// Dataset returns it. If KeepGoing is set, a file that fails to parse
// is recorded in Skipped and Scan moves on to the next one; otherwise
// the failure stops Scan and is returned by Err.
type Files struct {
	// Paths is the list of files to parse, in order.
	Paths []string

	// Layout describes the lines of every file.
	Layout Layout

	// KeepGoing makes parse failures non-fatal.
	KeepGoing bool

	// Skipped collects the errors of files skipped under KeepGoing.
	Skipped []error

	next int
	ds   *Dataset
	err  error
}

// Scan parses the next file and reports whether a dataset was read.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	for f.next < len(f.Paths) {
		path := f.Paths[f.next]
		f.next++
		ds, err := ParseFile(path, f.Layout)
		if err == nil {
			f.ds = ds
			return true
		}
		if !f.KeepGoing {
			f.ds, f.err = nil, err
			return false
		}
		f.Skipped = append(f.Skipped, err)
	}
	f.ds = nil
	return false
}

// Dataset returns the dataset parsed by the last call to Scan.
func (f *Files) Dataset() *Dataset {
	return f.ds
}

// Err returns the error that stopped Scan, if any.
func (f *Files) Err() error {
	return f.err
}
