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

package mqtt

import (
	"time"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/ingest"
	"github.com/pkg/errors"
)

// Main holds the options for ingesting from an MQTT topic.
type Main struct {
	ingest.Main `flag:"!embed"`
	Broker      string        `help:"Broker URL, e.g. tcp://localhost:1883."`
	Topic       string        `help:"Topic to subscribe to."`
	ClientID    string        `help:"Client id to connect with."`
	QoS         int           `help:"Quality of service level for the subscription (0, 1 or 2)."`
	MaxMsgs     int           `help:"Number of messages to read before stopping. 0 means no limit."`
	Timeout     time.Duration `help:"Timeout for connecting and subscribing."`
}

// NewMain gets a new Main with default values.
func NewMain() *Main {
	m := &Main{
		Main:     *ingest.NewMain(collect.KindJSONObject),
		Broker:   "tcp://localhost:1883",
		Topic:    "test",
		ClientID: "collect",
		Timeout:  10 * time.Second,
	}
	m.NewSource = func() (collect.Source, error) {
		if m.QoS < 0 || m.QoS > 2 {
			return nil, errors.Errorf("invalid qos %d", m.QoS)
		}
		src := NewSource()
		src.Broker = m.Broker
		src.Topic = m.Topic
		src.ClientID = m.ClientID
		src.QoS = byte(m.QoS)
		src.MaxMsgs = m.MaxMsgs
		src.Timeout = m.Timeout
		src.Log = m.Logger()
		if err := src.Open(); err != nil {
			return nil, errors.Wrap(err, "opening mqtt source")
		}
		return src, nil
	}
	return m
}
