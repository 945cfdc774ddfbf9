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
	"io"
	"strings"
	"testing"

	"github.com/pilosa/collect/json"
	"github.com/pilosa/collect/test"
)

func TestSource(t *testing.T) {
	src := json.NewSource("body", strings.NewReader(`{"hello": 2}  
  {"goodbye": 3}[1,2]`))

	exp := []struct{ name, data string }{
		{"body#0", `{"hello": 2}`},
		{"body#1", `{"goodbye": 3}`},
		{"body#2", `[1,2]`},
	}
	for _, e := range exp {
		p, err := src.Payload()
		test.ErrNil(t, err, "getting payload")
		test.MustBe(t, p.Name, e.name, "name")
		test.MustBe(t, string(p.Data), e.data, "data")
	}
	if _, err := src.Payload(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}

	src = json.NewSource("bad", strings.NewReader(`{"hello": `))
	if _, err := src.Payload(); err == nil || err == io.EOF {
		t.Fatalf("expected decode error, got %v", err)
	}
}
