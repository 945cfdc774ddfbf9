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

package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/json"
	"github.com/pkg/errors"
)

// JSONSource implements the collect.Source interface by listening for HTTP
// POST requests. Each JSON document in a request body becomes one payload.
type JSONSource struct {
	addr     string
	listener net.Listener
	server   *http.Server
	payloads chan payload
	reqs     uint64
	log      collect.Logger
}

// JSONSourceOption is a functional option type for JSONSource.
type JSONSourceOption func(j *JSONSource)

// WithAddr is an option for the JSONSource which causes it to bind to the given
// address.
func WithAddr(addr string) JSONSourceOption {
	return func(j *JSONSource) {
		j.addr = addr
	}
}

// WithListener is an option for JSONSource which causes it to use the given
// listener. It will infer the address from the listener.
func WithListener(l net.Listener) JSONSourceOption {
	return func(j *JSONSource) {
		j.listener = l
		j.addr = l.Addr().String()
	}
}

// WithBuffer is an option for JSONSource which modifies the length of the
// channel used to buffer received payloads (while they are waiting to be
// retrieved by a call to Payload).
func WithBuffer(n int) JSONSourceOption {
	return func(j *JSONSource) {
		if n > -1 {
			j.payloads = make(chan payload, n)
		}
	}
}

// WithLogger sets the logger rejected requests are reported to.
func WithLogger(l collect.Logger) JSONSourceOption {
	return func(j *JSONSource) {
		j.log = l
	}
}

// NewJSONSource creates a JSONSource and starts serving.
func NewJSONSource(opts ...JSONSourceOption) (*JSONSource, error) {
	j := &JSONSource{
		payloads: make(chan payload, 3),
		log:      collect.NopLogger{},
	}
	for _, opt := range opts {
		opt(j)
	}

	if j.listener == nil {
		var err error
		j.listener, err = net.Listen("tcp", j.addr)
		if err != nil {
			return nil, errors.Wrap(err, "listening")
		}
	}

	j.server = &http.Server{
		Addr:              j.addr,
		Handler:           j,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		err := j.server.Serve(j.listener)
		if err != nil && err != http.ErrServerClosed {
			j.payloads <- payload{err: errors.Wrap(err, "serving")}
		}
		close(j.payloads)
	}()
	return j, nil
}

// Addr gets the address that the JSONSource is listening on.
func (j *JSONSource) Addr() string {
	if j.listener != nil {
		return j.listener.Addr().String()
	}
	return j.addr
}

type payload struct {
	p   collect.Payload
	err error
}

// Payload returns the raw bytes of the next JSON document received. It
// returns io.EOF once the source has been closed and every received document
// has been handed out.
func (j *JSONSource) Payload() (collect.Payload, error) {
	rec, ok := <-j.payloads
	if !ok {
		return collect.Payload{}, io.EOF
	}
	return rec.p, rec.err
}

// Close stops the server, waiting up to five seconds for in flight requests
// to finish.
func (j *JSONSource) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Wrap(j.server.Shutdown(ctx), "shutting down")
}

// ServeHTTP implements http.Handler for JSONSource.
func (j *JSONSource) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		err := errors.Errorf("unsupported method: %v", r.Method)
		j.log.Printf("rejecting request to %s: %v", r.URL.Path, err)
		http.Error(w, err.Error(), http.StatusMethodNotAllowed)
		return
	}
	n := atomic.AddUint64(&j.reqs, 1)
	src := json.NewSource(fmt.Sprintf("%s@%d", r.URL.Path, n), r.Body)
	for {
		p, err := src.Payload()
		if err == io.EOF {
			return
		}
		if err != nil {
			j.log.Printf("rejecting request to %s: %v", r.URL.Path, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		j.payloads <- payload{p: p}
	}
}
