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

package collect

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Ingester moves payloads from a Source through a Normalizer into a Sink.
type Ingester struct {
	ParseConcurrency int
	Log              Logger
	Stats            Statter

	src  Source
	norm Normalizer
	sink Sink
}

// NewIngester gets an Ingester with a parse concurrency of 1 which logs and
// collects stats nowhere.
func NewIngester(source Source, norm Normalizer, sink Sink) *Ingester {
	return &Ingester{
		ParseConcurrency: 1,
		Log:              NopLogger{},
		Stats:            NopStatter{},
		src:              source,
		norm:             norm,
		sink:             sink,
	}
}

// Run reads payloads until the source returns io.EOF or ctx is done. A payload
// which fails to normalize is logged and skipped; it does not affect the
// others. An error from the source or the sink stops the run. The sink is
// always closed before Run returns.
func (n *Ingester) Run(ctx context.Context) (err error) {
	defer func() {
		cerr := n.sink.Close()
		if err == nil {
			err = errors.Wrap(cerr, "closing sink")
		}
	}()
	conc := n.ParseConcurrency
	if conc < 1 {
		conc = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < conc; i++ {
		g.Go(func() error {
			for {
				if ctx.Err() != nil {
					return nil
				}
				p, err := n.src.Payload()
				if err == io.EOF {
					return nil
				} else if err != nil {
					return errors.Wrap(err, "getting payload")
				}
				n.Stats.Count("payloads.received", 1, 1)
				start := time.Now()
				rs, err := n.norm.Normalize(p.Data)
				n.Stats.Timing("payloads.normalize", time.Since(start), 1)
				if err != nil {
					n.Stats.Count("payloads.failed", 1, 1)
					n.Log.Printf("couldn't normalize payload '%s': %v", p.Name, err)
					continue
				}
				n.Stats.Count("records.normalized", int64(rs.Len()), 1)
				n.Log.Debugf("normalized %d records from '%s'", rs.Len(), p.Name)
				if err := n.sink.Write(p.Name, rs); err != nil {
					return errors.Wrapf(err, "writing records from '%s'", p.Name)
				}
			}
		})
	}
	return g.Wait()
}
