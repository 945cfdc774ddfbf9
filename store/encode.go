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

// Package store has collect.Sinks which print RecordSets or persist them to
// an embedded key/value store.
package store

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

// EncodeRecord renders rec as a JSON object with its fields in schema order.
// Absent values and non-finite floats, which JSON has no form for, are
// written as null.
func EncodeRecord(rec collect.Record) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	vals := rec.Values()
	for i, f := range rec.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding field name '%s'", f)
		}
		buf.Write(k)
		buf.WriteByte(':')
		var v interface{} = vals[i]
		if collect.IsAbsent(v) {
			v = nil
		} else if fv, ok := v.(float64); ok && (math.IsNaN(fv) || math.IsInf(fv, 0)) {
			v = nil
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding value of '%s'", f)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeRecordSet renders rs as a JSON array of the objects EncodeRecord
// gives. Normalizing the result as a json-array payload gives back the same
// schema.
func EncodeRecordSet(rs *collect.RecordSet) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	for i, rec := range rs.Records() {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := EncodeRecord(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding record %d", i)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
