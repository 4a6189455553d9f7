// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging configures the zerolog logger used by the commands.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns a logger writing to w in the requested format.
// format "text" selects the human-friendly console writer; anything
// else writes one JSON object per line.
func Setup(format string, w io.Writer) zerolog.Logger {
	if format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
