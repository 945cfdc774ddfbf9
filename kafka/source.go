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

// Package kafka reads payloads from Kafka topics, optionally decoding Avro
// values with a Confluent schema registry.
package kafka

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"sync"

	"github.com/Shopify/sarama"
	cluster "github.com/bsm/sarama-cluster"
	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

// Source implements the collect.Source interface using kafka as a data
// source. The value of each message is a payload.
type Source struct {
	Hosts   []string
	Topics  []string
	Group   string
	MaxMsgs int
	Log     collect.Logger

	mu       sync.Mutex
	numMsgs  int
	consumer *cluster.Consumer
}

// NewSource gets a new Source
func NewSource() *Source {
	s := &Source{}
	s.setDefaults()
	return s
}

func (s *Source) setDefaults() {
	s.Hosts = []string{"localhost:9092"}
	s.Topics = []string{"test"}
	s.Group = "group0"
	s.Log = collect.NopLogger{}
}

// Payload returns the value of the next kafka message. Its offset is marked
// as processed once it is handed out. After MaxMsgs messages (if MaxMsgs is
// positive) or after Close, Payload returns io.EOF.
func (s *Source) Payload() (collect.Payload, error) {
	msg, err := s.message()
	if err != nil {
		return collect.Payload{}, err
	}
	return collect.Payload{Name: messageName(msg), Data: msg.Value}, nil
}

func (s *Source) message() (*sarama.ConsumerMessage, error) {
	s.mu.Lock()
	if s.MaxMsgs > 0 {
		if s.numMsgs >= s.MaxMsgs {
			s.mu.Unlock()
			return nil, io.EOF
		}
		s.numMsgs++
	}
	s.mu.Unlock()
	if s.consumer == nil {
		return nil, errors.New("source is not open")
	}
	msg, ok := <-s.consumer.Messages()
	if !ok {
		return nil, io.EOF
	}
	s.consumer.MarkOffset(msg, "") // mark message as processed
	return msg, nil
}

func messageName(msg *sarama.ConsumerMessage) string {
	return fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
}

// Open initializes the kafka source.
func (s *Source) Open() error {
	sarama.Logger = log.New(ioutil.Discard, "", 0)
	config := cluster.NewConfig()
	config.Config.Version = sarama.V0_10_0_0
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Group.Return.Notifications = true

	var err error
	s.consumer, err = cluster.NewConsumer(s.Hosts, s.Group, s.Topics, config)
	if err != nil {
		return errors.Wrap(err, "getting new consumer")
	}

	go func() {
		for err := range s.consumer.Errors() {
			s.Log.Printf("kafka consumer error: %v", err)
		}
	}()

	go func() {
		for ntf := range s.consumer.Notifications() {
			s.Log.Debugf("rebalanced: %+v", ntf)
		}
	}()
	return nil
}

// Close closes the underlying kafka consumer.
func (s *Source) Close() error {
	if s.consumer == nil {
		return nil
	}
	err := s.consumer.Close()
	return errors.Wrap(err, "closing kafka consumer")
}
