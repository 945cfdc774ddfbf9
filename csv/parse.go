// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

// Package csv parses delimited text into a collect.RecordSet.
package csv

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

type config struct {
	delimiter rune
	header    bool
	infer     bool
}

// Option is a functional option to pass to Parse.
type Option func(*config)

// WithDelimiter sets the field delimiter. The default is ','.
func WithDelimiter(d rune) Option {
	return func(c *config) {
		c.delimiter = d
	}
}

// WithoutHeader treats the first line as data. Fields are then named "0",
// "1", ... and the first line fixes the number of fields.
func WithoutHeader() Option {
	return func(c *config) {
		c.header = false
	}
}

// WithoutInference keeps every value as the text it was in the payload.
func WithoutInference() Option {
	return func(c *config) {
		c.infer = false
	}
}

// Parse splits raw into lines and each line into fields. By default the first
// line is the header. Blank lines are skipped. Every data line must have
// exactly as many fields as the header, otherwise the whole parse fails with
// a *collect.SchemaMismatchError.
//
// Unless WithoutInference is given, each column whose non-empty values all
// parse as integers holds int64s, and each column whose non-empty values all
// parse as finite decimal numbers holds float64s. Empty values are
// collect.Absent, and so are missing value markers like "NaN" and "NULL"
// when inferring.
func Parse(raw string, opts ...Option) (*collect.RecordSet, error) {
	c := &config{
		delimiter: ',',
		header:    true,
		infer:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := validDelim(c.delimiter); err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(raw))
	r.Comma = c.delimiter
	r.FieldsPerRecord = -1 // counts are checked below so the error can be typed
	r.LazyQuotes = true    // a quote inside an unquoted field is literal text
	r.ReuseRecord = false

	var header []string
	rows := make([][]string, 0)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, collect.Malformed(collect.KindDelimited, "%v", err)
		}
		line, _ := r.FieldPos(0)
		if blank(row) {
			continue
		}
		if header == nil {
			if c.header {
				if err := validateHeader(row); err != nil {
					return nil, err
				}
				header = row
				continue
			}
			header = make([]string, len(row))
			for i := range row {
				header[i] = strconv.Itoa(i)
			}
		}
		if len(row) != len(header) {
			return nil, &collect.SchemaMismatchError{Line: line, Want: len(header), Got: len(row)}
		}
		rows = append(rows, row)
	}

	b := collect.NewBuilder(header...)
	conv := make([]func(string) collect.Value, len(header))
	for i := range header {
		conv[i] = asString
		if c.infer {
			conv[i] = inferColumn(rows, i)
		}
	}
	vals := make([]collect.Value, len(header))
	for _, row := range rows {
		for i, s := range row {
			if s == "" || (c.infer && missing(s)) {
				vals[i] = collect.Absent
				continue
			}
			vals[i] = conv[i](s)
		}
		b.AddRow(vals...)
	}
	return b.RecordSet(), nil
}

// blank is true for lines which contain nothing but whitespace. encoding/csv
// already drops truly empty lines.
func blank(row []string) bool {
	return len(row) == 1 && strings.TrimSpace(row[0]) == ""
}

func validDelim(d rune) error {
	switch d {
	case 0, '"', '\r', '\n', 0xFFFD:
		return errors.Errorf("invalid delimiter %q", d)
	}
	return nil
}

func validateHeader(header []string) error {
	fields := make(map[string]int)
	for i, h := range header {
		if h == "" {
			return collect.Malformed(collect.KindDelimited, "header contains empty string at %d: %v", i, header)
		}
		if pos, exists := fields[h]; exists {
			return collect.Malformed(collect.KindDelimited, "%s appeared at both %d and %d in header", h, pos, i)
		}
		fields[h] = i
	}
	return nil
}

// missingTokens are the markers pandas reads as a missing value by default.
var missingTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func missing(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// parseDecimal accepts only plain decimal notation, so "inf", "0x10" and
// the like stay text.
func parseDecimal(s string) (float64, bool) {
	if strings.Trim(s, "0123456789+-.eE") != "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func asString(s string) collect.Value { return s }

func asInt(s string) collect.Value {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func asFloat(s string) collect.Value {
	v, _ := parseDecimal(s)
	return v
}

// inferColumn picks the narrowest type that every non-empty value in column
// col can be converted to. A column with no values at all stays text.
func inferColumn(rows [][]string, col int) func(string) collect.Value {
	ints, floats, seen := true, true, false
	for _, row := range rows {
		s := row[col]
		if s == "" || missing(s) {
			continue
		}
		seen = true
		if ints {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				ints = false
			}
		}
		if _, ok := parseDecimal(s); !ok {
			floats = false
			break
		}
	}
	switch {
	case !seen:
		return asString
	case ints:
		return asInt
	case floats:
		return asFloat
	}
	return asString
}
