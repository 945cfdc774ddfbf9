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

package collect_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/mock"
	"github.com/pilosa/collect/normalize"
	"github.com/pilosa/collect/test"
	"github.com/pkg/errors"
)

type sliceSource struct {
	mu       sync.Mutex
	payloads []collect.Payload
}

func (s *sliceSource) Payload() (collect.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.payloads) == 0 {
		return collect.Payload{}, io.EOF
	}
	p := s.payloads[0]
	s.payloads = s.payloads[1:]
	return p, nil
}

type memSink struct {
	mu     sync.Mutex
	sets   map[string]*collect.RecordSet
	fail   bool
	closed bool
}

func (m *memSink) Write(name string, rs *collect.RecordSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("sink is broken")
	}
	if m.sets == nil {
		m.sets = make(map[string]*collect.RecordSet)
	}
	m.sets[name] = rs
	return nil
}

func (m *memSink) Close() error {
	m.closed = true
	return nil
}

func TestIngester(t *testing.T) {
	src := &sliceSource{}
	for i := 0; i < 20; i++ {
		data := fmt.Sprintf(`[{"n": %d}]`, i)
		if i%5 == 0 {
			data = `{"not": "an array"}`
		}
		src.payloads = append(src.payloads, collect.Payload{Name: fmt.Sprintf("p%d", i), Data: []byte(data)})
	}
	norm, err := normalize.New(collect.SourceDescriptor{Kind: collect.KindJSONArray})
	test.ErrNil(t, err, "getting normalizer")
	sink := &memSink{}
	stats := &mock.RecordingStatter{}

	ing := collect.NewIngester(src, norm, sink)
	ing.ParseConcurrency = 4
	ing.Stats = stats
	test.ErrNil(t, ing.Run(context.Background()), "running")

	test.MustBe(t, len(sink.sets), 16, "written sets")
	test.MustBe(t, stats.Counted("payloads.received"), int64(20), "received")
	test.MustBe(t, stats.Counted("payloads.failed"), int64(4), "failed")
	test.MustBe(t, stats.Counted("records.normalized"), int64(16), "records")
	test.MustBe(t, sink.sets["p7"].Record(0).Values(), []collect.Value{int64(7)}, "p7")
	if !sink.closed {
		t.Fatal("sink was not closed")
	}
}

func TestIngesterSinkError(t *testing.T) {
	src := &sliceSource{payloads: []collect.Payload{{Name: "a", Data: []byte("x\n1\n")}}}
	norm, err := normalize.New(collect.SourceDescriptor{Kind: collect.KindDelimited})
	test.ErrNil(t, err, "getting normalizer")
	sink := &memSink{fail: true}
	err = collect.NewIngester(src, norm, sink).Run(context.Background())
	if err == nil {
		t.Fatal("expected sink error")
	}
	if !sink.closed {
		t.Fatal("sink was not closed")
	}
}

func TestMultiStatter(t *testing.T) {
	a, b := &mock.RecordingStatter{}, &mock.RecordingStatter{}
	ms := collect.MultiStatter{a, b}
	ms.Count("x", 2, 1)
	ms.Count("x", 1, 1)
	ms.Timing("y", time.Second, 1)
	for _, s := range []*mock.RecordingStatter{a, b} {
		if s.Counted("x") != 3 {
			t.Fatalf("expected 3 counted, got %d", s.Counted("x"))
		}
	}
}
