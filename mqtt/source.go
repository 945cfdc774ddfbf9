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

// Package mqtt reads payloads from an MQTT topic.
package mqtt

import (
	"fmt"
	"io"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

// Source is a collect.Source which subscribes to a topic and hands out the
// payload of each message it receives.
type Source struct {
	Broker   string
	Topic    string
	ClientID string
	QoS      byte
	MaxMsgs  int
	Timeout  time.Duration
	Log      collect.Logger

	client paho.Client
	msgs   chan collect.Payload
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	numMsgs int
}

// NewSource gets a Source with default values.
func NewSource() *Source {
	return &Source{
		Broker:   "tcp://localhost:1883",
		Topic:    "test",
		ClientID: "collect",
		Timeout:  10 * time.Second,
		Log:      collect.NopLogger{},
		msgs:     make(chan collect.Payload, 100),
		done:     make(chan struct{}),
	}
}

// Open connects to the broker and subscribes to the topic.
func (s *Source) Open() error {
	opts := paho.NewClientOptions().
		AddBroker(s.Broker).
		SetClientID(s.ClientID).
		SetConnectTimeout(s.Timeout).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			s.Log.Printf("lost connection to %s: %v", s.Broker, err)
		})
	s.client = paho.NewClient(opts)
	if err := wait(s.client.Connect(), s.Timeout); err != nil {
		return errors.Wrapf(err, "connecting to %s", s.Broker)
	}
	if err := wait(s.client.Subscribe(s.Topic, s.QoS, s.handle), s.Timeout); err != nil {
		s.client.Disconnect(250)
		return errors.Wrapf(err, "subscribing to %s", s.Topic)
	}
	s.Log.Debugf("subscribed to %s on %s", s.Topic, s.Broker)
	return nil
}

func wait(tok paho.Token, d time.Duration) error {
	if !tok.WaitTimeout(d) {
		return errors.New("timed out")
	}
	return tok.Error()
}

// handle is the paho message handler. Messages which arrive after Close are
// dropped.
func (s *Source) handle(_ paho.Client, m paho.Message) {
	p := collect.Payload{
		Name: fmt.Sprintf("%s#%d", m.Topic(), m.MessageID()),
		Data: m.Payload(),
	}
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case <-s.done:
	case s.msgs <- p:
	}
}

// Payload blocks until a message arrives. It returns io.EOF after MaxMsgs
// messages (if MaxMsgs is positive) or once the source is closed.
func (s *Source) Payload() (collect.Payload, error) {
	s.mu.Lock()
	if s.MaxMsgs > 0 {
		if s.numMsgs >= s.MaxMsgs {
			s.mu.Unlock()
			return collect.Payload{}, io.EOF
		}
		s.numMsgs++
	}
	s.mu.Unlock()
	select {
	case <-s.done:
		return collect.Payload{}, io.EOF
	default:
	}
	select {
	case <-s.done:
		return collect.Payload{}, io.EOF
	case p := <-s.msgs:
		return p, nil
	}
}

// Close unsubscribes and disconnects from the broker.
func (s *Source) Close() (err error) {
	s.once.Do(func() {
		close(s.done)
		if s.client != nil && s.client.IsConnected() {
			err = wait(s.client.Unsubscribe(s.Topic), s.Timeout)
			s.client.Disconnect(250)
		}
	})
	return errors.Wrap(err, "unsubscribing")
}
