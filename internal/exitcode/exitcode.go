// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package exitcode lists the process exit statuses of ephidstat.
package exitcode

const (
	Success        = 0
	UsageError     = 1
	ParseError     = 2
	RenderError    = 3
	PartialSuccess = 4 // some files were skipped under --keep-going
)
