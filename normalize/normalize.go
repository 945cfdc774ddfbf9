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

// Package normalize builds a collect.Normalizer for a collect.SourceDescriptor.
package normalize

import (
	"github.com/pilosa/collect"
	"github.com/pilosa/collect/csv"
	"github.com/pilosa/collect/html"
	"github.com/pilosa/collect/json"
	"github.com/pilosa/collect/logline"
	"github.com/pilosa/collect/text"
	"github.com/pkg/errors"
)

// New validates desc and returns the Normalizer for its kind. Options which
// don't apply to the kind are ignored.
func New(desc collect.SourceDescriptor) (collect.Normalizer, error) {
	switch desc.Kind {
	case collect.KindDelimited:
		opts := make([]csv.Option, 0, 3)
		if desc.Delimiter != 0 {
			opts = append(opts, csv.WithDelimiter(desc.Delimiter))
		}
		if desc.NoHeader {
			opts = append(opts, csv.WithoutHeader())
		}
		if desc.NoInference {
			opts = append(opts, csv.WithoutInference())
		}
		// surface a bad delimiter now rather than on every payload
		if _, err := csv.Parse("", opts...); err != nil {
			return nil, errors.Wrap(err, "checking delimited options")
		}
		return collect.NormalizerFunc(func(data []byte) (*collect.RecordSet, error) {
			return csv.Parse(string(data), opts...)
		}), nil
	case collect.KindJSONArray:
		return collect.NormalizerFunc(json.Parse), nil
	case collect.KindJSONObject:
		return collect.NormalizerFunc(json.ParseObject), nil
	case collect.KindLogLines:
		p, err := logline.Compile(desc.Pattern)
		if err != nil {
			return nil, errors.Wrap(err, "compiling log pattern")
		}
		return collect.NormalizerFunc(func(data []byte) (*collect.RecordSet, error) {
			return logline.Parse(string(data), p), nil
		}), nil
	case collect.KindAnchorTags:
		return collect.NormalizerFunc(func(data []byte) (*collect.RecordSet, error) {
			return html.ParseAnchors(string(data))
		}), nil
	case collect.KindTextLines:
		return collect.NormalizerFunc(func(data []byte) (*collect.RecordSet, error) {
			return text.Lines(string(data))
		}), nil
	}
	return nil, errors.Wrapf(collect.ErrUnknownKind, "'%s'", desc.Kind)
}
