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

// Package ingest holds the configuration shared by every collect command and
// runs a collect.Ingester from it.
package ingest

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/logger"
	"github.com/pilosa/collect/metrics"
	"github.com/pilosa/collect/normalize"
	"github.com/pilosa/collect/store"
	"github.com/pilosa/collect/termstat"
	"github.com/pkg/errors"
)

// Main is meant to be embedded (with `flag:"!embed"`) in the Main struct of a
// command, which sets NewSource.
type Main struct {
	Kind        string `help:"How payloads are normalized: delimited, json-array, json-object, log-lines, anchor-tags or text-lines."`
	Delimiter   string `help:"Field delimiter for delimited payloads. 'tab' or '\\t' mean a tab."`
	NoHeader    bool   `help:"Treat the first line of delimited payloads as data."`
	NoInference bool   `help:"Keep delimited values as text instead of inferring numbers."`
	Pattern     string `help:"Regular expression with time, level and msg groups for log-lines payloads. Empty means the default pattern."`
	Concurrency int    `help:"Number of payloads to normalize at once."`
	MetricsBind string `help:"Serve prometheus metrics on this address. Empty disables them."`
	TermStats   bool   `help:"Print running counts to stderr every two seconds."`
	Store       store.Config
	Log         logger.Config

	NewSource func() (collect.Source, error) `flag:"-"`
	Stdout    io.Writer                      `flag:"-"`

	log collect.Logger
}

// NewMain gets a Main with default values for the given kind.
func NewMain(kind collect.Kind) *Main {
	return &Main{
		Kind:        string(kind),
		Delimiter:   ",",
		Concurrency: 1,
		Store:       store.NewConfig(),
		Log:         logger.Config{MaxSize: 100, MaxBackups: 3},
		Stdout:      os.Stdout,
		log:         collect.NopLogger{},
	}
}

// Logger returns the logger built by Run, for use in NewSource.
func (m *Main) Logger() collect.Logger { return m.log }

// Descriptor builds the SourceDescriptor described by m.
func (m *Main) Descriptor() (collect.SourceDescriptor, error) {
	kind, err := collect.ParseKind(m.Kind)
	if err != nil {
		return collect.SourceDescriptor{}, err
	}
	delim, err := parseDelimiter(m.Delimiter)
	if err != nil {
		return collect.SourceDescriptor{}, err
	}
	return collect.SourceDescriptor{
		Kind:        kind,
		Delimiter:   delim,
		NoHeader:    m.NoHeader,
		NoInference: m.NoInference,
		Pattern:     m.Pattern,
	}, nil
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.Errorf("delimiter must be a single character, got '%s'", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Run ingests until the source is exhausted or the process is interrupted.
func (m *Main) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return m.RunContext(ctx)
}

// RunContext ingests until the source is exhausted or ctx is done. A source
// which implements io.Closer is closed when ctx is done so that a blocked
// Payload call returns.
func (m *Main) RunContext(ctx context.Context) error {
	if m.NewSource == nil {
		return errors.New("no source configured")
	}
	desc, err := m.Descriptor()
	if err != nil {
		return errors.Wrap(err, "reading descriptor")
	}
	norm, err := normalize.New(desc)
	if err != nil {
		return errors.Wrap(err, "building normalizer")
	}

	lg, err := logger.New(m.Log)
	if err != nil {
		return errors.Wrap(err, "setting up logging")
	}
	defer func() { _ = lg.Sync() }()
	m.log = lg

	stats := collect.MultiStatter{}
	if m.MetricsBind != "" {
		prom := metrics.NewStatter("collect")
		srv, err := prom.Listen(m.MetricsBind)
		if err != nil {
			return err
		}
		defer func() {
			if err := srv.Close(); err != nil {
				lg.Printf("closing metrics server: %v", err)
			}
		}()
		lg.Printf("serving metrics on %s", srv.Addr())
		stats = append(stats, prom)
	}
	if m.TermStats {
		ts := termstat.NewCollector(os.Stderr, 2*time.Second)
		defer ts.Stop()
		stats = append(stats, ts)
	}

	src, err := m.NewSource()
	if err != nil {
		return errors.Wrap(err, "getting source")
	}
	if c, ok := src.(io.Closer); ok {
		ctx, cancel := context.WithCancel(ctx)
		closed := make(chan struct{})
		defer func() {
			cancel()
			<-closed
		}()
		go func() {
			defer close(closed)
			<-ctx.Done()
			if err := c.Close(); err != nil {
				lg.Printf("closing source: %v", err)
			}
		}()
	}

	stdout := m.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	sink, err := m.Store.Open(stdout)
	if err != nil {
		return errors.Wrap(err, "opening store")
	}

	ing := collect.NewIngester(src, norm, sink)
	ing.ParseConcurrency = m.Concurrency
	ing.Log = lg
	ing.Stats = stats
	lg.Printf("ingesting %s payloads", desc.Kind)
	return errors.Wrap(ing.Run(ctx), "running ingester")
}
