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
	"math"
	"testing"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/test"
)

func TestBuilder(t *testing.T) {
	b := collect.NewBuilder("a")
	b.Add([]string{"a", "b"}, []collect.Value{int64(1), "x"})
	b.Add([]string{"c"}, []collect.Value{2.5})
	b.Add(nil, nil)
	rs := b.RecordSet()

	test.MustBe(t, rs.Schema(), collect.Schema{"a", "b", "c"}, "schema")
	test.MustBe(t, rs.Len(), 3, "length")
	test.MustBe(t, rs.Record(0).Values(), []collect.Value{int64(1), "x", collect.Absent}, "first")
	test.MustBe(t, rs.Record(1).Values(), []collect.Value{collect.Absent, collect.Absent, 2.5}, "second")
	test.MustBe(t, rs.Record(2).Values(), []collect.Value{collect.Absent, collect.Absent, collect.Absent}, "third")

	for i, rec := range rs.Records() {
		test.MustBe(t, rec.Fields(), []string{"a", "b", "c"}, "fields")
		if rec.Len() != 3 {
			t.Fatalf("record %d has %d fields", i, rec.Len())
		}
	}
	if _, ok := rs.Record(0).Get("nope"); ok {
		t.Fatal("unexpected field 'nope'")
	}
	test.MustBe(t, rs.Record(0).String(), "{a:1 b:x c:<absent>}", "string")
}

func TestRecordSetHeadAndEqual(t *testing.T) {
	b := collect.NewBuilder("n")
	for i := 0; i < 10; i++ {
		b.AddRow(int64(i))
	}
	rs := b.RecordSet()
	test.MustBe(t, rs.Head(5).Len(), 5, "head")
	test.MustBe(t, rs.Head(50).Len(), 10, "head past end")
	test.MustBe(t, rs.Column("missing"), []collect.Value(nil), "missing column")

	if err := rs.Equal(rs.Head(9)); err == nil {
		t.Fatal("sets of different length should not be equal")
	}
	b2 := collect.NewBuilder("m")
	b2.AddRow(int64(0))
	if err := rs.Head(1).Equal(b2.RecordSet()); err == nil {
		t.Fatal("sets with different schemas should not be equal")
	}
	test.ErrNil(t, rs.Head(3).Equal(rs.Head(3)), "equal")
}

func TestRecordSetEqualNaN(t *testing.T) {
	mk := func(v collect.Value) *collect.RecordSet {
		b := collect.NewBuilder("x")
		b.AddRow(v)
		return b.RecordSet()
	}
	test.ErrNil(t, mk(math.NaN()).Equal(mk(math.NaN())), "NaN")
	if err := mk(math.NaN()).Equal(mk(1.0)); err == nil {
		t.Fatal("NaN should not equal 1")
	}
	if err := mk(2.0).Equal(mk(int64(2))); err == nil {
		t.Fatal("float64 2 should not equal int64 2")
	}
}

func TestAbsent(t *testing.T) {
	if !collect.IsAbsent(collect.Absent) {
		t.Fatal("Absent should be absent")
	}
	for _, v := range []collect.Value{nil, "", int64(0), 0.0, false, "<absent>"} {
		if collect.IsAbsent(v) {
			t.Fatalf("%#v should not be absent", v)
		}
	}
}
