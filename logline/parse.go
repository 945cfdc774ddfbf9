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

// Package logline parses semi-structured log lines into records with the
// fields time, level, and msg.
package logline

import (
	"regexp"
	"strings"

	"github.com/pilosa/collect"
)

// DefaultPattern matches lines like "2025-12-04T07:00:00Z INFO Application
// started".
const DefaultPattern = `(?P<time>\S+) (?P<level>\S+) (?P<msg>.*)`

// Fields is the schema of every RecordSet produced by Parse.
var Fields = collect.Schema{"time", "level", "msg"}

// Pattern is a compiled log line pattern.
type Pattern struct {
	re  *regexp.Regexp
	idx [3]int // submatch index of each of Fields
}

// Compile compiles expr, which must contain exactly the named capture groups
// time, level, and msg (other groups must be unnamed). The pattern is
// anchored at the start of each line. An empty expr means DefaultPattern.
func Compile(expr string) (*Pattern, error) {
	if expr == "" {
		expr = DefaultPattern
	}
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return nil, collect.Malformed(collect.KindLogLines, "compiling pattern: %v", err)
	}
	p := &Pattern{re: re}
	found := 0
	for i, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		fi := Fields.Index(name)
		if fi < 0 {
			return nil, collect.Malformed(collect.KindLogLines, "unexpected group '%s' in pattern", name)
		}
		if p.idx[fi] != 0 {
			return nil, collect.Malformed(collect.KindLogLines, "group '%s' appears more than once in pattern", name)
		}
		p.idx[fi] = i
		found++
	}
	if found != len(Fields) {
		return nil, collect.Malformed(collect.KindLogLines, "pattern must have the named groups %v", []string(Fields))
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source text of the pattern, including the anchor.
func (p *Pattern) String() string { return p.re.String() }

// Match matches line against the pattern from its first character and returns
// the time, level and msg values.
func (p *Pattern) Match(line string) (vals []collect.Value, ok bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	vals = make([]collect.Value, len(p.idx))
	for i, si := range p.idx {
		vals[i] = m[si]
	}
	return vals, true
}

// Parse matches every line of raw against p and returns a record for each
// line which matches. Lines which don't match are skipped; a multi-line stack
// trace in the middle of a log shouldn't stop the rest from being read.
func Parse(raw string, p *Pattern) *collect.RecordSet {
	b := collect.NewBuilder(Fields...)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if vals, ok := p.Match(line); ok {
			b.AddRow(vals...)
		}
	}
	return b.RecordSet()
}
