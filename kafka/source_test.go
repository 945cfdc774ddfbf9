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

package kafka

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/linkedin/goavro/v2"
	"github.com/pilosa/collect"
	cjson "github.com/pilosa/collect/json"
	"github.com/pilosa/collect/test"
)

func TestConfluentSourceDecode(t *testing.T) {
	reg, hits := startFakeRegistry(t)
	source := NewConfluentSource()
	source.RegistryURL = reg
	val := frame(1, getAvroEncodedValue(t))

	for i := 0; i < 3; i++ {
		data, err := source.decode(val)
		test.ErrNil(t, err, "decoding")
		rs, err := cjson.ParseObject(data)
		test.ErrNil(t, err, "parsing decoded value")
		test.MustBe(t, rs.Len(), 1, "records")
		rec := rs.Record(0)
		test.MustBe(t, get(rec, "thing_string"), "blah", "thing_string")
		test.MustBe(t, get(rec, "thing_int"), int64(34), "thing_int")
		test.MustBe(t, get(rec, "mysubthing.subdub"), 3.14, "subdub")
		test.MustBe(t, get(rec, "mysubthing.substring"), "blahsub", "substring")
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Fatalf("expected schema to be fetched once, got %d", n)
	}
}

func TestConfluentSourceDecodeErrors(t *testing.T) {
	reg, _ := startFakeRegistry(t)
	source := NewConfluentSource()
	source.RegistryURL = "http://" + reg + "/"

	tests := []struct {
		name string
		val  []byte
	}{
		{name: "short", val: []byte{0, 0, 0}},
		{name: "magic", val: []byte{1, 0, 0, 0, 1, 2, 3}},
		{name: "unknown schema", val: frame(7, []byte{2, 3, 4})},
		{name: "truncated datum", val: frame(1, []byte{2})},
	}
	for _, tst := range tests {
		t.Run(tst.name, func(t *testing.T) {
			if _, err := source.decode(tst.val); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSourceMaxMsgs(t *testing.T) {
	s := NewSource()
	s.MaxMsgs = 0
	if _, err := s.Payload(); err == nil || err == io.EOF {
		t.Fatalf("expected not-open error, got %v", err)
	}
	s.MaxMsgs = 1
	s.numMsgs = 1
	if _, err := s.Payload(); err != io.EOF {
		t.Fatalf("expected io.EOF past MaxMsgs, got %v", err)
	}
	test.ErrNil(t, s.Close(), "closing unopened source")
}

func TestMainSourceSelection(t *testing.T) {
	m := NewMain()
	test.MustBe(t, m.Kind, string(collect.KindJSONObject), "default kind")
	m.RegistryURL = ""
	if _, ok := m.source().(*Source); !ok {
		t.Fatalf("expected plain source without a registry, got %T", m.source())
	}
	m.RegistryURL = "localhost:8081"
	cs, ok := m.source().(*ConfluentSource)
	if !ok {
		t.Fatalf("expected confluent source with a registry, got %T", m.source())
	}
	test.MustBe(t, cs.registry(), "http://localhost:8081", "registry")
}

func frame(id uint32, datum []byte) []byte {
	val := make([]byte, 5, 5+len(datum))
	binary.BigEndian.PutUint32(val[1:], id)
	return append(val, datum...)
}

var value = map[string]interface{}{
	"thing_string": "blah",
	"thing_int":    34,
	"mysubthing": map[string]interface{}{
		"com.pilosa.thing.SubThing": map[string]interface{}{
			"substring": map[string]interface{}{"string": "blahsub"},
			"subdub":    map[string]interface{}{"double": 3.14},
		},
	},
}

func getAvroEncodedValue(t *testing.T) []byte {
	codec, err := goavro.NewCodec(schema1)
	test.ErrNil(t, err, "getting codec")
	data, err := codec.BinaryFromNative([]byte{}, value)
	test.ErrNil(t, err, "encoding")
	return data
}

func startFakeRegistry(t *testing.T) (string, *int32) {
	hits := new(int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		registryHandler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv.Listener.Addr().String(), hits
}

var schema1 = `{
    "fields": [
        {
            "name": "thing_string",
            "type": "string"
        },
        {
            "name": "thing_int",
            "type": "int"
        },
        {
            "name": "mysubthing",
            "type": [
                "null",
                {
                    "fields": [
                       {
                            "name": "substring",
                            "type": [
                                "null",
                                "string"
                            ]
                        },
                        {
                            "name": "subdub",
                            "type": [
                                "null",
                                "double"
                            ]
                        }
                    ],
                    "name": "SubThing",
                    "type": "record"
                }
            ]
        }
    ],
    "name": "Thing",
    "namespace": "com.pilosa.thing",
    "type": "record"
}`

func registryHandler(w http.ResponseWriter, r *http.Request) {
	var id int32
	_, err := fmt.Sscanf(r.URL.Path, "/schemas/ids/%d", &id)
	if err != nil {
		http.Error(w, "extracting id from path: "+err.Error(), http.StatusBadRequest)
		return
	}
	if id != 1 {
		http.Error(w, fmt.Sprintf("unknown id: %d", id), http.StatusNotFound)
		return
	}
	if err := json.NewEncoder(w).Encode(Schema{Schema: schema1, ID: 1}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// get returns the named field of r, ignoring whether it is in the schema.
func get(r collect.Record, name string) collect.Value {
	v, _ := r.Get(name)
	return v
}
