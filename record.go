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
	"fmt"
	"math"
	"reflect"

	"github.com/pkg/errors"
)

// Value is a single scalar field value. Parsers only ever produce string,
// int64, float64, bool, or Absent.
type Value interface{}

type absent struct{}

func (absent) String() string { return "<absent>" }

// Absent marks a field which exists in the Schema of a RecordSet but which had
// no value in the source element the Record was built from.
var Absent Value = absent{}

// IsAbsent reports whether v is the Absent marker.
func IsAbsent(v Value) bool {
	_, ok := v.(absent)
	return ok
}

// Schema is the ordered list of field names shared by every Record in a
// RecordSet.
type Schema []string

// Index returns the position of name in the schema, or -1.
func (s Schema) Index(name string) int {
	for i, f := range s {
		if f == name {
			return i
		}
	}
	return -1
}

// Record is one normalized row. It is a read-only view into a RecordSet.
type Record struct {
	schema Schema
	vals   []Value
}

// Fields returns the field names of the record in schema order.
func (r Record) Fields() []string { return append([]string(nil), r.schema...) }

// Values returns the field values of the record in schema order.
func (r Record) Values() []Value { return append([]Value(nil), r.vals...) }

// Len is the number of fields in the record.
func (r Record) Len() int { return len(r.vals) }

// Get returns the value of the named field and whether the field is part of
// the record's schema. A field which is in the schema but Absent returns
// (Absent, true).
func (r Record) Get(name string) (Value, bool) {
	i := r.schema.Index(name)
	if i < 0 {
		return nil, false
	}
	return r.vals[i], true
}

// String renders the record like a map literal with fields in order.
func (r Record) String() string {
	s := "{"
	for i, f := range r.schema {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s:%v", f, r.vals[i])
	}
	return s + "}"
}

// RecordSet is an ordered sequence of Records sharing one Schema. A RecordSet
// is never modified once a parser has returned it.
type RecordSet struct {
	schema Schema
	rows   [][]Value
}

// Schema returns a copy of the field names of the set.
func (rs *RecordSet) Schema() Schema { return append(Schema(nil), rs.schema...) }

// Len is the number of records in the set.
func (rs *RecordSet) Len() int { return len(rs.rows) }

// Record returns the i'th record.
func (rs *RecordSet) Record(i int) Record {
	return Record{schema: rs.schema, vals: rs.rows[i]}
}

// Records returns every record in order.
func (rs *RecordSet) Records() []Record {
	ret := make([]Record, len(rs.rows))
	for i := range rs.rows {
		ret[i] = rs.Record(i)
	}
	return ret
}

// Column returns all values of the named field in record order. It returns
// nil if the field is not in the schema.
func (rs *RecordSet) Column(name string) []Value {
	idx := rs.schema.Index(name)
	if idx < 0 {
		return nil
	}
	ret := make([]Value, len(rs.rows))
	for i, row := range rs.rows {
		ret[i] = row[idx]
	}
	return ret
}

// Head returns a new RecordSet holding at most the first n records.
func (rs *RecordSet) Head(n int) *RecordSet {
	if n > len(rs.rows) || n < 0 {
		n = len(rs.rows)
	}
	return &RecordSet{schema: rs.schema, rows: rs.rows[:n]}
}

// Equal returns nil if both sets have the same schema and field-for-field
// equal records. Otherwise the error describes the first difference.
func (rs *RecordSet) Equal(rs2 *RecordSet) error {
	if !reflect.DeepEqual(rs.schema, rs2.schema) {
		return errors.Errorf("schemas differ: %v and %v", rs.schema, rs2.schema)
	}
	if len(rs.rows) != len(rs2.rows) {
		return errors.Errorf("record sets have different lengths: %d and %d", len(rs.rows), len(rs2.rows))
	}
	for i := range rs.rows {
		for j := range rs.rows[i] {
			if !sameValue(rs.rows[i][j], rs2.rows[i][j]) {
				return errors.Errorf("record %d field '%s': '%v' != '%v'", i, rs.schema[j], rs.rows[i][j], rs2.rows[i][j])
			}
		}
	}
	return nil
}

// sameValue is == except that NaN equals NaN.
func sameValue(a, b Value) bool {
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok && math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
	}
	return a == b
}

// Builder accumulates records for a RecordSet. Fields are added to the schema
// in the order they are first seen. Records built before a field was first
// seen get Absent for it when the set is built.
type Builder struct {
	schema Schema
	index  map[string]int
	rows   [][]Value
}

// NewBuilder returns a Builder whose schema starts out as fields.
func NewBuilder(fields ...string) *Builder {
	b := &Builder{index: make(map[string]int)}
	for _, f := range fields {
		b.field(f)
	}
	return b
}

func (b *Builder) field(name string) int {
	if i, ok := b.index[name]; ok {
		return i
	}
	b.schema = append(b.schema, name)
	b.index[name] = len(b.schema) - 1
	return len(b.schema) - 1
}

// Add appends a record made of parallel slices of field names and values.
// Fields missing from this record are Absent.
func (b *Builder) Add(fields []string, vals []Value) {
	row := make([]Value, len(b.schema), len(b.schema)+len(fields))
	for i := range row {
		row[i] = Absent
	}
	for i, f := range fields {
		idx := b.field(f)
		for len(row) <= idx {
			row = append(row, Absent)
		}
		row[idx] = vals[i]
	}
	b.rows = append(b.rows, row)
}

// AddRow appends a record whose values are in schema order. The row must have
// exactly one value per schema field.
func (b *Builder) AddRow(vals ...Value) {
	if len(vals) != len(b.schema) {
		panic(fmt.Sprintf("AddRow with %d values for %d fields", len(vals), len(b.schema)))
	}
	b.rows = append(b.rows, append([]Value(nil), vals...))
}

// RecordSet builds the set. The Builder should not be used afterwards.
func (b *Builder) RecordSet() *RecordSet {
	for i, row := range b.rows {
		for len(row) < len(b.schema) {
			row = append(row, Absent)
		}
		b.rows[i] = row
	}
	rs := &RecordSet{schema: b.schema, rows: b.rows}
	if rs.schema == nil {
		rs.schema = Schema{}
	}
	b.rows = nil
	return rs
}
