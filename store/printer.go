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

package store

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/pilosa/collect"
)

// Printer is a collect.Sink which writes the first few records of each
// RecordSet as an aligned table.
type Printer struct {
	mu   sync.Mutex
	w    io.Writer
	head int
}

// NewPrinter gets a Printer which shows at most head records per set. A head
// of 0 or less shows every record.
func NewPrinter(w io.Writer, head int) *Printer {
	return &Printer{w: w, head: head}
}

// Write implements collect.Sink.
func (p *Printer) Write(name string, rs *collect.RecordSet) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	shown := rs
	if p.head > 0 {
		shown = rs.Head(p.head)
	}
	if _, err := fmt.Fprintf(p.w, "%s: %d records\n", name, rs.Len()); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\t%s\n", strings.Join(rs.Schema(), "\t"))
	for i, rec := range shown.Records() {
		cells := make([]string, rec.Len())
		for j, v := range rec.Values() {
			cells[j] = fmt.Sprint(v)
		}
		fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(cells, "\t"))
	}
	if shown.Len() < rs.Len() {
		fmt.Fprintf(tw, "...\n")
	}
	return tw.Flush()
}

// Close implements collect.Sink. It does nothing.
func (p *Printer) Close() error { return nil }
