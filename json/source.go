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

package json

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

// Source is a collect.Source which splits a stream of concatenated (or
// newline separated) JSON documents into one payload per document.
type Source struct {
	mu   sync.Mutex
	name string
	dec  *json.Decoder
	n    int
}

// NewSource gets a new json source which will decode from the given reader.
// Payloads are named <name>#<document number>.
func NewSource(name string, r io.Reader) *Source {
	return &Source{
		name: name,
		dec:  json.NewDecoder(r),
	}
}

// Payload implements collect.Source. It returns the raw bytes of the next
// JSON document that can be decoded from the reader.
func (s *Source) Payload() (collect.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var raw json.RawMessage
	err := s.dec.Decode(&raw)
	if err == io.EOF {
		return collect.Payload{}, io.EOF
	} else if err != nil {
		return collect.Payload{}, errors.Wrapf(err, "decoding document %d of %s", s.n, s.name)
	}
	p := collect.Payload{Name: fmt.Sprintf("%s#%d", s.name, s.n), Data: raw}
	s.n++
	return p, nil
}
