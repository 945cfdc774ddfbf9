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
	"strings"
	"time"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/ingest"
	"github.com/pkg/errors"
)

// FetchMain holds the config for the fetch command, which GETs each URL and
// normalizes the response bodies.
type FetchMain struct {
	ingest.Main `flag:"!embed"`
	URLs        []string      `help:"Comma separated list of URLs to fetch."`
	Timeout     time.Duration `help:"Timeout for each request."`
	Retries     int           `help:"Number of times to retry a failed request."`
	Headers     []string      `help:"Comma separated list of Key:Value headers to send."`
}

// NewFetchMain gets a new FetchMain with default values.
func NewFetchMain() *FetchMain {
	m := &FetchMain{
		Main:    *ingest.NewMain(collect.KindJSONArray),
		Timeout: 30 * time.Second,
	}
	m.NewSource = func() (collect.Source, error) {
		if len(m.URLs) == 0 {
			return nil, errors.New("no urls to fetch")
		}
		opts := []URLSourceOption{WithTimeout(m.Timeout), WithRetries(m.Retries)}
		for _, h := range m.Headers {
			k, v, ok := strings.Cut(h, ":")
			if !ok {
				return nil, errors.Errorf("header '%s' is not Key:Value", h)
			}
			opts = append(opts, WithHeader(strings.TrimSpace(k), strings.TrimSpace(v)))
		}
		return NewURLSource(m.URLs, opts...), nil
	}
	return m
}

// ServeMain holds the config for the serve command, which normalizes the
// JSON documents POSTed to it.
type ServeMain struct {
	ingest.Main `flag:"!embed"`
	Bind        string `help:"Listen for post requests on this address."`
	Buffer      int    `help:"Number of received documents to hold while they wait to be normalized."`
}

// NewServeMain gets a new ServeMain with default values.
func NewServeMain() *ServeMain {
	m := &ServeMain{
		Main:   *ingest.NewMain(collect.KindJSONObject),
		Bind:   ":12121",
		Buffer: 3,
	}
	m.NewSource = func() (collect.Source, error) {
		src, err := NewJSONSource(WithAddr(m.Bind), WithBuffer(m.Buffer), WithLogger(m.Logger()))
		if err != nil {
			return nil, errors.Wrap(err, "getting json source")
		}
		m.Logger().Printf("listening on %s", src.Addr())
		return src, nil
	}
	return m
}
