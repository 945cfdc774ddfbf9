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
	"github.com/pilosa/collect"
	"github.com/pilosa/collect/ingest"
	"github.com/pkg/errors"
)

// Main holds the options for ingesting from Kafka.
type Main struct {
	ingest.Main `flag:"!embed"`
	Hosts       []string `help:"Comma separated list of Kafka hosts and ports"`
	Topics      []string `help:"Comma separated list of Kafka topics"`
	Group       string   `help:"Kafka group"`
	RegistryURL string   `help:"URL of the confluent schema registry. Pass an empty string to read message values as they are instead of decoding Avro."`
	MaxMsgs     int      `help:"Number of messages to read before stopping. 0 means no limit."`
}

// NewMain returns a new Main.
func NewMain() *Main {
	m := &Main{
		Main:   *ingest.NewMain(collect.KindJSONObject),
		Hosts:  []string{"localhost:9092"},
		Topics: []string{"test"},
		Group:  "group0",
	}
	m.NewSource = func() (collect.Source, error) {
		src := m.source()
		if err := src.Open(); err != nil {
			return nil, errors.Wrap(err, "opening kafka source")
		}
		return src, nil
	}
	return m
}

type openSource interface {
	collect.Source
	Open() error
	Close() error
}

func (m *Main) source() openSource {
	var s *Source
	var ret openSource
	if m.RegistryURL == "" {
		s = NewSource()
		ret = s
	} else {
		cs := NewConfluentSource()
		cs.RegistryURL = m.RegistryURL
		s = &cs.Source
		ret = cs
	}
	s.Hosts = m.Hosts
	s.Topics = m.Topics
	s.Group = m.Group
	s.MaxMsgs = m.MaxMsgs
	s.Log = m.Logger()
	return ret
}
