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

package sql

import (
	"context"
	"database/sql"
	"io"
	"sync"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/ingest"
	"github.com/pilosa/collect/store"
	"github.com/pkg/errors"
)

// Source is a collect.Source which runs each of its queries once and hands
// out the rows as a JSON array payload.
type Source struct {
	db      *sql.DB
	queries []string
	ctx     context.Context

	mu  sync.Mutex
	idx int
}

// NewSource gets a Source running queries against db.
func NewSource(ctx context.Context, db *sql.DB, queries ...string) *Source {
	return &Source{db: db, queries: queries, ctx: ctx}
}

// Payload implements collect.Source.
func (s *Source) Payload() (collect.Payload, error) {
	s.mu.Lock()
	if s.idx >= len(s.queries) {
		s.mu.Unlock()
		return collect.Payload{}, io.EOF
	}
	q := s.queries[s.idx]
	s.idx++
	s.mu.Unlock()

	rs, err := Query(s.ctx, s.db, q)
	if err != nil {
		return collect.Payload{}, errors.Wrapf(err, "running '%s'", q)
	}
	data, err := store.EncodeRecordSet(rs)
	if err != nil {
		return collect.Payload{}, err
	}
	return collect.Payload{Name: q, Data: data}, nil
}

// Close closes the database.
func (s *Source) Close() error {
	return errors.Wrap(s.db.Close(), "closing database")
}

// Main holds the options for ingesting the results of SQL queries.
type Main struct {
	ingest.Main `flag:"!embed"`
	Driver      string   `help:"Database driver: mysql, postgres or sqlite."`
	DSN         string   `help:"Data source name for the driver."`
	Queries     []string `help:"Queries to run. Each result is one payload."`
}

// NewMain gets a new Main with default values.
func NewMain() *Main {
	m := &Main{
		Main:   *ingest.NewMain(collect.KindJSONArray),
		Driver: "sqlite",
		DSN:    "collect.db",
	}
	m.NewSource = func() (collect.Source, error) {
		if len(m.Queries) == 0 {
			return nil, errors.New("no queries to run")
		}
		db, err := Open(context.Background(), m.Driver, m.DSN)
		if err != nil {
			return nil, err
		}
		return NewSource(context.Background(), db, m.Queries...), nil
	}
	return m
}
