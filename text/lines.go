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

// Package text reads plain text files line by line.
package text

import (
	"bufio"
	"strings"

	"github.com/pilosa/collect"
)

// Fields is the schema of every RecordSet produced by Lines.
var Fields = collect.Schema{"line", "text"}

// Lines returns one record per line of raw with the 1-based line number and
// the line's text without its line ending. A final line ending does not start
// another line.
func Lines(raw string) (*collect.RecordSet, error) {
	b := collect.NewBuilder(Fields...)
	scan := bufio.NewScanner(strings.NewReader(raw))
	scan.Buffer(make([]byte, 0, 64*1024), len(raw)+1)
	var n int64
	for scan.Scan() {
		n++
		b.AddRow(n, scan.Text())
	}
	if err := scan.Err(); err != nil {
		return nil, collect.Malformed(collect.KindTextLines, "%v", err)
	}
	return b.RecordSet(), nil
}
