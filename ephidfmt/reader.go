// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ephidfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// A Reader reads benchmark records from a log file.
//
// Its API is modeled on bufio.Scanner. The Record returned by Record
// is owned by the Reader and is overwritten by the next call to Scan;
// a caller should copy anything it needs to retain.
//
// Unlike a Go benchmark result file, a benchmark log has no
// recoverable syntax errors: the first malformed line stops the
// Reader and is reported by Err.
type Reader struct {
	s      *bufio.Scanner
	layout Layout
	err    error

	fileName string
	line     int
	rec      Record
}

// A Record is one line of a benchmark log.
type Record struct {
	// Values holds the record's timings in schema order.
	Values []int64

	fileName string
	line     int
}

// Pos returns the file name and 1-based line number the record was
// read from.
func (r *Record) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// Sum returns the sum of r's values. ok is false if the sum does not
// fit in an int64.
func (r *Record) Sum() (sum int64, ok bool) {
	for _, v := range r.Values {
		next := sum + v
		if (v > 0 && next < sum) || (v < 0 && next > sum) {
			return 0, false
		}
		sum = next
	}
	return sum, true
}

// Clone returns a copy of r that does not share storage with the
// Reader.
func (r *Record) Clone() *Record {
	r2 := *r
	r2.Values = append([]int64(nil), r.Values...)
	return &r2
}

// A SyntaxError reports a malformed line of a benchmark log.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

// Pos returns the file name and 1-based line number of the malformed
// line.
func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// NewReader constructs a Reader that parses r according to layout.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string, layout Layout) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName, layout)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string, layout Layout) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.s = bufio.NewScanner(ior)
	r.layout = layout
	r.err = layout.check()
	r.fileName = fileName
	r.line = 0
	r.rec = Record{Values: r.rec.Values[:0], fileName: fileName}
}

func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Record method to get the
// record. If Scan reaches EOF, a malformed line, or an I/O error, it
// returns false, in which case the caller should use the Err method
// to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		if err := r.parseLine(r.s.Bytes()); err != nil {
			r.err = err
			return false
		}
		return true
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// parseLine parses line into r.rec.
func (r *Reader) parseLine(line []byte) error {
	var f []byte
	want := r.layout.Fields()

	line = trimSpace(line)
	for i := 0; i < r.layout.Skip; i++ {
		f, line = splitField(line)
		if len(f) == 0 {
			return r.newSyntaxError(fmt.Sprintf("want %d fields, have %d", want, i))
		}
	}

	r.rec.Values = r.rec.Values[:0]
	for i, m := range r.layout.Schema {
		f, line = splitField(line)
		if len(f) == 0 {
			return r.newSyntaxError(fmt.Sprintf("want %d fields, have %d", want, r.layout.Skip+i))
		}
		v, err := strconv.ParseInt(string(f), 10, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok {
				err = ne.Err
			}
			return r.newSyntaxError(fmt.Sprintf("parsing %s %q: %v", m.Label, f, err))
		}
		r.rec.Values = append(r.rec.Values, v)
	}
	if r.layout.Total {
		if _, ok := r.rec.Sum(); !ok {
			return r.newSyntaxError("total overflows int64")
		}
	}
	r.rec.line = r.line
	return nil
}

// Record returns the record that was just read by Scan. It returns
// nil if Scan has not returned true.
func (r *Reader) Record() *Record {
	if r.err != nil || r.rec.line == 0 {
		return nil
	}
	return &r.rec
}

// Err returns the first syntax or non-EOF I/O error that was
// encountered by the Reader.
func (r *Reader) Err() error {
	return r.err
}

const isSpace uint64 = 1<<'\t' | 1<<'\n' | 1<<'\v' | 1<<'\f' | 1<<'\r' | 1<<' '

func isSpaceRune(x []byte) (bool, int) {
	if x[0] < utf8.RuneSelf {
		return (isSpace>>x[0])&1 != 0, 1
	}
	r, n := utf8.DecodeRune(x)
	return unicode.IsSpace(r), n
}

// trimSpace strips leading whitespace from x.
func trimSpace(x []byte) []byte {
	for len(x) > 0 {
		sp, n := isSpaceRune(x)
		if !sp {
			break
		}
		x = x[n:]
	}
	return x
}

// splitField consumes and returns non-whitespace in x as field,
// consumes whitespace following the field, and then returns the
// remaining bytes of x.
func splitField(x []byte) (field, rest []byte) {
	var i int
	for i < len(x) {
		sp, n := isSpaceRune(x[i:])
		if sp {
			rest = x[i+n:]
			break
		}
		i += n
	}
	field = x[:i]
	return field, trimSpace(rest)
}
