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

package csv_test

import (
	"testing"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/csv"
	"github.com/pilosa/collect/test"
)

func TestParse(t *testing.T) {
	rs, err := csv.Parse(`id,name,score
1,Alice,85
2,Bob,90
3,Charlie,78.5

`)
	test.ErrNil(t, err, "parsing")
	test.MustBe(t, rs.Schema(), collect.Schema{"id", "name", "score"}, "schema")
	test.MustBe(t, rs.Len(), 3, "length")
	test.MustBe(t, rs.Column("id"), []collect.Value{int64(1), int64(2), int64(3)}, "ids")
	test.MustBe(t, rs.Column("name"), []collect.Value{"Alice", "Bob", "Charlie"}, "names")
	test.MustBe(t, rs.Column("score"), []collect.Value{85.0, 90.0, 78.5}, "scores")
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		opts   []csv.Option
		schema collect.Schema
		rows   [][]collect.Value
	}{
		{
			name:   "semicolon",
			raw:    "a;b\nx;1\n",
			opts:   []csv.Option{csv.WithDelimiter(';')},
			schema: collect.Schema{"a", "b"},
			rows:   [][]collect.Value{{"x", int64(1)}},
		},
		{
			name:   "tab no header",
			raw:    "x\t1\ny\t2\n",
			opts:   []csv.Option{csv.WithDelimiter('\t'), csv.WithoutHeader()},
			schema: collect.Schema{"0", "1"},
			rows:   [][]collect.Value{{"x", int64(1)}, {"y", int64(2)}},
		},
		{
			name:   "no inference",
			raw:    "a,b\n1,2.5\n",
			opts:   []csv.Option{csv.WithoutInference()},
			schema: collect.Schema{"a", "b"},
			rows:   [][]collect.Value{{"1", "2.5"}},
		},
		{
			name:   "quoted delimiter",
			raw:    "a,b\n\"x,y\",2\n",
			schema: collect.Schema{"a", "b"},
			rows:   [][]collect.Value{{"x,y", int64(2)}},
		},
		{
			name:   "empty cells",
			raw:    "a,b\n,2\nz,\n",
			schema: collect.Schema{"a", "b"},
			rows:   [][]collect.Value{{collect.Absent, int64(2)}, {"z", collect.Absent}},
		},
		{
			name:   "mixed column stays text",
			raw:    "a\n1\nx\n",
			schema: collect.Schema{"a"},
			rows:   [][]collect.Value{{"1"}, {"x"}},
		},
		{
			name:   "blank lines",
			raw:    "a,b\n\n1,2\n   \n3,4\n\n\n",
			schema: collect.Schema{"a", "b"},
			rows:   [][]collect.Value{{int64(1), int64(2)}, {int64(3), int64(4)}},
		},
		{
			name:   "quote inside unquoted field",
			raw:    "name,n\nsay \"hi\",2\n\"a \"\"b\"\"\",3\n",
			schema: collect.Schema{"name", "n"},
			rows:   [][]collect.Value{{`say "hi"`, int64(2)}, {`a "b"`, int64(3)}},
		},
		{
			name:   "missing markers",
			raw:    "a,b,c\n1,NaN,x\n2,3.5,NULL\nnan,,y\n",
			schema: collect.Schema{"a", "b", "c"},
			rows: [][]collect.Value{
				{int64(1), collect.Absent, "x"},
				{int64(2), 3.5, collect.Absent},
				{collect.Absent, collect.Absent, "y"},
			},
		},
		{
			name:   "missing markers without inference",
			raw:    "a\nNaN\n",
			opts:   []csv.Option{csv.WithoutInference()},
			schema: collect.Schema{"a"},
			rows:   [][]collect.Value{{"NaN"}},
		},
		{
			name:   "non decimal numbers stay text",
			raw:    "a,b\ninf,0x10\n1,2\n",
			schema: collect.Schema{"a", "b"},
			rows:   [][]collect.Value{{"inf", "0x10"}, {"1", "2"}},
		},
		{
			name:   "header only",
			raw:    "a,b\n",
			schema: collect.Schema{"a", "b"},
			rows:   [][]collect.Value{},
		},
	}

	for _, tst := range tests {
		t.Run(tst.name, func(t *testing.T) {
			rs, err := csv.Parse(tst.raw, tst.opts...)
			test.ErrNil(t, err, "parsing")
			test.MustBe(t, rs.Schema(), tst.schema, "schema")
			if rs.Len() != len(tst.rows) {
				t.Fatalf("expected %d records, got %d", len(tst.rows), rs.Len())
			}
			for i, exp := range tst.rows {
				test.MustBe(t, rs.Record(i).Values(), exp, "record")
			}
		})
	}
}

func TestParseSchemaMismatch(t *testing.T) {
	for _, raw := range []string{
		"a,b,c\n1,2,3\n4,5\n",
		"a,b\n1,2\n3,4,5\n",
	} {
		rs, err := csv.Parse(raw)
		if !collect.IsSchemaMismatch(err) {
			t.Fatalf("expected schema mismatch for %q, got %v", raw, err)
		}
		if rs != nil {
			t.Fatalf("expected no partial result, got %v", rs)
		}
	}

	_, err := csv.Parse("a,b\n1,2\n3\n")
	sm, ok := err.(*collect.SchemaMismatchError)
	if !ok {
		t.Fatalf("unexpected error type %T", err)
	}
	test.MustBe(t, *sm, collect.SchemaMismatchError{Line: 3, Want: 2, Got: 1})
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{
		"a,,c\n1,2,3\n",
		"a,b,a\n1,2,3\n",
		"a,b\n\"unterminated,2\n",
	} {
		_, err := csv.Parse(raw)
		if !collect.IsMalformedInput(err) {
			t.Fatalf("expected malformed input for %q, got %v", raw, err)
		}
	}
	if _, err := csv.Parse("a\n", csv.WithDelimiter('"')); err == nil {
		t.Fatal("expected error for quote delimiter")
	}
}

func TestParseIdempotent(t *testing.T) {
	for _, raw := range []string{
		"x,y\n1,a\n2,b\n",
		"a,b\n1,NaN\n2,3\n",
		"a,b\n-Infinity,1e999\n",
	} {
		rs1, err := csv.Parse(raw)
		test.ErrNil(t, err, "first parse")
		rs2, err := csv.Parse(raw)
		test.ErrNil(t, err, "second parse")
		test.ErrNil(t, rs1.Equal(rs2), "comparing")
	}
}
