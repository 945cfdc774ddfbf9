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
	"strconv"
	"strings"
	"sync"

	"github.com/elodina/go-avro"
	"github.com/go-resty/resty/v2"
	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

// ConfluentSource implements collect.Source using Kafka and the Confluent
// schema registry. Each message value is decoded with the Avro schema it
// names and handed out as a JSON object.
type ConfluentSource struct {
	Source
	RegistryURL string

	lock   sync.RWMutex
	cache  map[int32]avro.Schema
	client *resty.Client
}

// NewConfluentSource returns a new ConfluentSource.
func NewConfluentSource() *ConfluentSource {
	s := &ConfluentSource{
		cache:  make(map[int32]avro.Schema),
		client: resty.New(),
	}
	s.setDefaults()
	return s
}

// Payload returns the next value from kafka, decoded and re-encoded as JSON.
func (s *ConfluentSource) Payload() (collect.Payload, error) {
	msg, err := s.Source.message()
	if err != nil {
		return collect.Payload{}, err
	}
	data, err := s.decode(msg.Value)
	if err != nil {
		return collect.Payload{}, errors.Wrapf(err, "decoding %s", messageName(msg))
	}
	return collect.Payload{Name: messageName(msg), Data: data}, nil
}

// decode turns a Confluent framed Avro value (magic byte 0, a four byte
// schema id, then the datum) into a JSON object.
func (s *ConfluentSource) decode(val []byte) ([]byte, error) {
	if len(val) <= 5 || val[0] != 0 {
		return nil, errors.Errorf("unexpected magic byte or length in avro kafka value, should be 0x00, but got 0x%.8x", val)
	}
	id := int32(binary.BigEndian.Uint32(val[1:5]))
	codec, err := s.getCodec(id)
	if err != nil {
		return nil, errors.Wrap(err, "getting avro codec")
	}
	rec, err := avroDecode(codec, val[5:])
	if err != nil {
		return nil, errors.Wrap(err, "decoding avro record")
	}
	data, err := json.Marshal(rec)
	return data, errors.Wrap(err, "encoding json")
}

// The Schema type is an object produced by the schema registry.
type Schema struct {
	Schema  string `json:"schema"`  // The actual AVRO schema
	Subject string `json:"subject"` // Subject where the schema is registered for
	Version int    `json:"version"` // Version within this subject
	ID      int    `json:"id"`      // Registry's unique id
}

func (s *ConfluentSource) registry() string {
	u := strings.TrimSuffix(s.RegistryURL, "/")
	if !strings.Contains(u, "://") {
		u = "http://" + u
	}
	return u
}

func (s *ConfluentSource) getCodec(id int32) (avro.Schema, error) {
	s.lock.RLock()
	if codec, ok := s.cache[id]; ok {
		s.lock.RUnlock()
		return codec, nil
	}
	s.lock.RUnlock()
	s.lock.Lock()
	defer s.lock.Unlock()
	if codec, ok := s.cache[id]; ok {
		return codec, nil
	}

	schema := &Schema{}
	resp, err := s.client.R().
		SetPathParam("id", strconv.Itoa(int(id))).
		SetResult(schema).
		ForceContentType("application/json").
		Get(s.registry() + "/schemas/ids/{id}")
	if err != nil {
		return nil, errors.Wrap(err, "getting schema from registry")
	}
	if resp.IsError() {
		return nil, errors.Errorf("failed to get schema, code: %d, resp: %s", resp.StatusCode(), resp.Body())
	}
	codec, err := avro.ParseSchema(schema.Schema)
	if err != nil {
		return nil, errors.Wrap(err, "parsing schema")
	}
	s.cache[id] = codec
	return codec, nil
}

func avroDecode(codec avro.Schema, data []byte) (map[string]interface{}, error) {
	reader := avro.NewGenericDatumReader()
	// SetSchema must be called before calling Read
	reader.SetSchema(codec)
	decoder := avro.NewBinaryDecoder(data)
	decodedRecord := avro.NewGenericRecord(codec)
	err := reader.Read(decodedRecord, decoder)
	if err != nil {
		return nil, errors.Wrap(err, "reading generic datum")
	}
	return decodedRecord.Map(), nil
}
