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
	"strings"

	"github.com/pkg/errors"
)

// Node is a value in a decoded document of arbitrary nesting. Exactly one of
// the concrete node types is used for any given value.
type Node interface {
	isNode()
}

// Scalar is a leaf Node.
type Scalar struct{ V Value }

// Object is a Node holding key/value pairs in document order.
type Object struct {
	Keys []string
	Vals []Node
}

// Sequence is a Node holding an ordered list. Sequences are not expanded into
// fields; Raw holds their compact text, which becomes a string value.
type Sequence struct{ Raw string }

func (Scalar) isNode()   {}
func (*Object) isNode()  {}
func (Sequence) isNode() {}

// Framer turns a path of keys into a field name.
type Framer interface {
	Frame(path []string) string
}

// FramerFunc lets a bare function satisfy Framer.
type FramerFunc func([]string) string

// Frame calls f.
func (f FramerFunc) Frame(path []string) string { return f(path) }

// DotFrame joins path elements with ".".
var DotFrame = FramerFunc(func(path []string) string { return strings.Join(path, ".") })

// Flatten visits every leaf of obj depth first in document order and returns
// parallel slices of field names (built by framer) and values. Nested objects
// contribute their keys to the path; sequences become string values. It is an
// error for two different paths to produce the same field name.
func Flatten(obj *Object, framer Framer) (fields []string, vals []Value, err error) {
	if framer == nil {
		framer = DotFrame
	}
	seen := make(map[string]struct{})
	err = walkNode(obj, nil, func(path []string, v Value) error {
		name := framer.Frame(path)
		if _, ok := seen[name]; ok {
			return errors.Errorf("field '%s' appears more than once", name)
		}
		seen[name] = struct{}{}
		fields = append(fields, name)
		vals = append(vals, v)
		return nil
	})
	return fields, vals, err
}

func walkNode(n Node, path []string, call func(path []string, v Value) error) error {
	switch n := n.(type) {
	case *Object:
		for i, k := range n.Keys {
			// copy so that sibling paths don't share a backing array
			p := append(append(make([]string, 0, len(path)+1), path...), k)
			if err := walkNode(n.Vals[i], p, call); err != nil {
				return err
			}
		}
		return nil
	case Sequence:
		return call(path, n.Raw)
	case Scalar:
		return call(path, n.V)
	}
	return errors.Errorf("unexpected node %#v at %v", n, path)
}
