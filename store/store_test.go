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

package store_test

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/store"
	"github.com/pilosa/collect/test"
)

func sampleSet() *collect.RecordSet {
	b := collect.NewBuilder("user", "age", "city")
	b.AddRow("alice", int64(21), "Delhi")
	b.AddRow("bob", int64(22), collect.Absent)
	b.AddRow("carol", 30.5, "Pune")
	return b.RecordSet()
}

func TestEncodeRecord(t *testing.T) {
	rs := sampleSet()
	enc, err := store.EncodeRecord(rs.Record(1))
	test.ErrNil(t, err, "encoding")
	test.MustBe(t, string(enc), `{"user":"bob","age":22,"city":null}`, "encoded")
}

func TestEncodeRecordNonFinite(t *testing.T) {
	b := collect.NewBuilder("a", "b", "c")
	b.AddRow(math.NaN(), math.Inf(-1), 1.5)
	enc, err := store.EncodeRecordSet(b.RecordSet())
	test.ErrNil(t, err, "encoding")
	test.MustBe(t, string(enc), `[{"a":null,"b":null,"c":1.5}]`, "encoded")
}

func TestEncodeRecordSet(t *testing.T) {
	enc, err := store.EncodeRecordSet(sampleSet().Head(2))
	test.ErrNil(t, err, "encoding")
	test.MustBe(t, string(enc), `[{"user":"alice","age":21,"city":"Delhi"},{"user":"bob","age":22,"city":null}]`, "encoded")

	enc, err = store.EncodeRecordSet(collect.NewBuilder("a").RecordSet())
	test.ErrNil(t, err, "encoding empty")
	test.MustBe(t, string(enc), `[]`, "empty")
}

func TestPrinter(t *testing.T) {
	buf := &bytes.Buffer{}
	p := store.NewPrinter(buf, 2)
	test.ErrNil(t, p.Write("people.json", sampleSet()), "writing")
	out := buf.String()
	for _, exp := range []string{"people.json: 3 records", "user", "alice", "bob", "<absent>", "..."} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected %q in output:\n%s", exp, out)
		}
	}
	if strings.Contains(out, "carol") {
		t.Fatalf("printed past head:\n%s", out)
	}
}

func TestBolt(t *testing.T) {
	d := test.MustTempDir(t, "testbolt")
	fname := filepath.Join(d, "records.db")
	b, err := store.NewBolt(fname)
	test.ErrNil(t, err, "opening")
	test.ErrNil(t, b.Write("people", sampleSet()), "writing")
	test.ErrNil(t, b.Write("people", sampleSet().Head(1)), "writing again")

	recs, err := b.Records("people")
	test.ErrNil(t, err, "reading")
	test.MustBe(t, len(recs), 4, "count")
	test.MustBe(t, string(recs[0]), `{"user":"alice","age":21,"city":"Delhi"}`, "first")
	test.MustBe(t, string(recs[3]), `{"user":"alice","age":21,"city":"Delhi"}`, "last")

	recs, err = b.Records("nobody")
	test.ErrNil(t, err, "reading missing bucket")
	test.MustBe(t, len(recs), 0, "missing bucket count")
	test.ErrNil(t, b.Close(), "closing")
}

func TestLevelDB(t *testing.T) {
	d := test.MustTempDir(t, "testleveldb")
	l, err := store.NewLevelDB(d)
	test.ErrNil(t, err, "opening")
	test.ErrNil(t, l.Write("people", sampleSet()), "writing")
	test.ErrNil(t, l.Close(), "closing")

	l, err = store.NewLevelDB(d)
	test.ErrNil(t, err, "reopening")
	test.ErrNil(t, l.Write("people", sampleSet().Head(1)), "writing after reopen")
	recs, err := l.Records("people")
	test.ErrNil(t, err, "reading")
	test.MustBe(t, len(recs), 4, "count")
	test.MustBe(t, string(recs[2]), `{"user":"carol","age":30.5,"city":"Pune"}`, "third")
	test.MustBe(t, string(recs[3]), `{"user":"alice","age":21,"city":"Delhi"}`, "appended")
	test.ErrNil(t, l.Close(), "closing again")
}

func TestLevelDBNestedNames(t *testing.T) {
	l, err := store.NewLevelDB(test.MustTempDir(t, "testleveldb"))
	test.ErrNil(t, err, "opening")
	defer l.Close()
	test.ErrNil(t, l.Write("logs", sampleSet().Head(1)), "writing logs")
	test.ErrNil(t, l.Write("logs/app.log", sampleSet().Head(2)), "writing logs/app.log")

	recs, err := l.Records("logs")
	test.ErrNil(t, err, "reading logs")
	test.MustBe(t, len(recs), 1, "logs count")
	recs, err = l.Records("logs/app.log")
	test.ErrNil(t, err, "reading logs/app.log")
	test.MustBe(t, len(recs), 2, "logs/app.log count")
}

func TestConfigOpen(t *testing.T) {
	c := store.NewConfig()
	sink, err := c.Open(&bytes.Buffer{})
	test.ErrNil(t, err, "opening printer")
	if _, ok := sink.(*store.Printer); !ok {
		t.Fatalf("expected printer, got %T", sink)
	}

	d := test.MustTempDir(t, "testconfig")
	c.Bolt = filepath.Join(d, "a.db")
	c.LevelDB = filepath.Join(d, "ldb")
	if _, err := c.Open(nil); err == nil {
		t.Fatal("expected error with two stores")
	}
	c.LevelDB = ""
	sink, err = c.Open(nil)
	test.ErrNil(t, err, "opening bolt")
	test.ErrNil(t, sink.Close(), "closing bolt")
}
