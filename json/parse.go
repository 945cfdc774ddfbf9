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

// Package json normalizes JSON documents into collect.RecordSets. Nested
// objects are flattened into dot-joined field names.
package json

import (
	"strconv"
	"strings"

	"github.com/pilosa/collect"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Parse parses raw as an array of objects and returns one record per element.
// The schema is the union of the flattened keys of every element, in the
// order they are first seen. Elements which lack a field get collect.Absent.
func Parse(raw []byte) (*collect.RecordSet, error) {
	if !gjson.ValidBytes(raw) {
		return nil, collect.Malformed(collect.KindJSONArray, "invalid json")
	}
	top := gjson.ParseBytes(raw)
	if !top.IsArray() {
		return nil, collect.Malformed(collect.KindJSONArray, "top level is %s, not an array", typeName(top))
	}
	b := collect.NewBuilder()
	var err error
	i := 0
	top.ForEach(func(_, elem gjson.Result) bool {
		err = addElement(b, elem, collect.KindJSONArray)
		if err != nil {
			err = errors.Wrapf(err, "element %d", i)
			return false
		}
		i++
		return true
	})
	if err != nil {
		return nil, err
	}
	return b.RecordSet(), nil
}

// ParseObject parses raw as a single object and returns a RecordSet holding
// one record. Message queues usually carry one document per message, which is
// what this is for.
func ParseObject(raw []byte) (*collect.RecordSet, error) {
	if !gjson.ValidBytes(raw) {
		return nil, collect.Malformed(collect.KindJSONObject, "invalid json")
	}
	b := collect.NewBuilder()
	if err := addElement(b, gjson.ParseBytes(raw), collect.KindJSONObject); err != nil {
		return nil, err
	}
	return b.RecordSet(), nil
}

func addElement(b *collect.Builder, elem gjson.Result, kind collect.Kind) error {
	if !elem.IsObject() {
		return collect.Malformed(kind, "expected an object, got %s", typeName(elem))
	}
	obj, err := toNode(elem)
	if err != nil {
		return err
	}
	fields, vals, err := collect.Flatten(obj.(*collect.Object), collect.DotFrame)
	if err != nil {
		return collect.Malformed(kind, "%v", err)
	}
	b.Add(fields, vals)
	return nil
}

// toNode converts a gjson result into the tagged variant used for flattening.
func toNode(res gjson.Result) (collect.Node, error) {
	switch {
	case res.IsObject():
		obj := &collect.Object{}
		var err error
		res.ForEach(func(key, val gjson.Result) bool {
			var n collect.Node
			n, err = toNode(val)
			if err != nil {
				return false
			}
			obj.Keys = append(obj.Keys, key.String())
			obj.Vals = append(obj.Vals, n)
			return true
		})
		return obj, err
	case res.IsArray():
		return collect.Sequence{Raw: compact(res.Raw)}, nil
	}
	switch res.Type {
	case gjson.Null:
		return collect.Scalar{V: collect.Absent}, nil
	case gjson.False, gjson.True:
		return collect.Scalar{V: res.Bool()}, nil
	case gjson.String:
		return collect.Scalar{V: res.String()}, nil
	case gjson.Number:
		return collect.Scalar{V: number(res)}, nil
	}
	return nil, errors.Errorf("unsupported json value: %s", res.Raw)
}

// number keeps integers as int64 and everything else as float64.
func number(res gjson.Result) collect.Value {
	raw := strings.TrimSpace(res.Raw)
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
	}
	return res.Float()
}

func compact(raw string) string {
	return gjson.Get(raw, "@ugly").Raw
}

func typeName(res gjson.Result) string {
	switch {
	case res.IsArray():
		return "an array"
	case res.IsObject():
		return "an object"
	}
	switch res.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "a boolean"
	case gjson.Number:
		return "a number"
	case gjson.String:
		return "a string"
	}
	return "nothing"
}
