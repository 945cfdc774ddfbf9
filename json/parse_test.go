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

package json_test

import (
	"testing"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/json"
	"github.com/pilosa/collect/test"
)

func TestParse(t *testing.T) {
	rs, err := json.Parse([]byte(`[
  {"user": "alice", "age": 21, "city": "Delhi"},
  {"user": "bob", "age": 22, "city": "Mumbai"}
]`))
	test.ErrNil(t, err, "parsing")
	test.MustBe(t, rs.Schema(), collect.Schema{"user", "age", "city"}, "schema")
	test.MustBe(t, rs.Column("user"), []collect.Value{"alice", "bob"}, "users")
	test.MustBe(t, rs.Column("age"), []collect.Value{int64(21), int64(22)}, "ages")
}

func TestParseUnion(t *testing.T) {
	rs, err := json.Parse([]byte(`[{"a": 1, "b": "x"}, {"c": 2.5, "a": 3}, {}]`))
	test.ErrNil(t, err, "parsing")
	test.MustBe(t, rs.Schema(), collect.Schema{"a", "b", "c"}, "schema")
	test.MustBe(t, rs.Len(), 3, "length")
	test.MustBe(t, rs.Record(0).Values(), []collect.Value{int64(1), "x", collect.Absent}, "first")
	test.MustBe(t, rs.Record(1).Values(), []collect.Value{int64(3), collect.Absent, 2.5}, "second")
	test.MustBe(t, rs.Record(2).Values(), []collect.Value{collect.Absent, collect.Absent, collect.Absent}, "third")
	v, ok := rs.Record(1).Get("b")
	if !ok || !collect.IsAbsent(v) {
		t.Fatalf("expected b to be in the schema and absent, got %v, %v", v, ok)
	}
}

func TestParseNested(t *testing.T) {
	rs, err := json.Parse([]byte(`[{"a": {"b": 1}}]`))
	test.ErrNil(t, err, "parsing")
	test.MustBe(t, rs.Schema(), collect.Schema{"a.b"}, "schema")
	test.MustBe(t, rs.Record(0).Values(), []collect.Value{int64(1)}, "values")

	rs, err = json.Parse([]byte(`[{"id": 7, "geo": {"lat": 1.5, "tz": {"name": "UTC"}}, "tags": ["x", "y"], "ok": true, "n": null}]`))
	test.ErrNil(t, err, "parsing deep")
	test.MustBe(t, rs.Schema(), collect.Schema{"id", "geo.lat", "geo.tz.name", "tags", "ok", "n"}, "deep schema")
	test.MustBe(t, rs.Record(0).Values(), []collect.Value{int64(7), 1.5, "UTC", `["x","y"]`, true, collect.Absent}, "deep values")
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{
		`{"a": {"b": 1}}`,
		`[1, 2]`,
		`[{"a": 1}, "x"]`,
		`[{"a": 1}`,
		`[{"a.b": 1, "a": {"b": 2}}]`,
		``,
	} {
		rs, err := json.Parse([]byte(raw))
		if !collect.IsMalformedInput(err) {
			t.Fatalf("expected malformed input for %q, got %v", raw, err)
		}
		if rs != nil {
			t.Fatalf("expected no partial result for %q", raw)
		}
	}
}

func TestParseObject(t *testing.T) {
	rs, err := json.ParseObject([]byte(`{"sensor": "t1", "reading": {"c": 21.5}}`))
	test.ErrNil(t, err, "parsing")
	test.MustBe(t, rs.Len(), 1, "length")
	test.MustBe(t, rs.Schema(), collect.Schema{"sensor", "reading.c"}, "schema")

	if _, err := json.ParseObject([]byte(`[{"a": 1}]`)); !collect.IsMalformedInput(err) {
		t.Fatalf("expected malformed input, got %v", err)
	}
}

func TestParseIdempotent(t *testing.T) {
	raw := []byte(`[{"a": {"b": 1}}, {"c": "d"}]`)
	rs1, err := json.Parse(raw)
	test.ErrNil(t, err, "first parse")
	rs2, err := json.Parse(raw)
	test.ErrNil(t, err, "second parse")
	test.ErrNil(t, rs1.Equal(rs2), "comparing")
}
