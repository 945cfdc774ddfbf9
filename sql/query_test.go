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

package sql_test

import (
	"context"
	dbsql "database/sql"
	"io"
	"testing"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/json"
	"github.com/pilosa/collect/sql"
	"github.com/pilosa/collect/test"
)

func mustDB(t *testing.T) *dbsql.DB {
	t.Helper()
	db, err := sql.Open(context.Background(), "sqlite", ":memory:")
	test.ErrNil(t, err, "opening")
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{
		`CREATE TABLE scores (id INTEGER, name TEXT, score REAL, note TEXT)`,
		`INSERT INTO scores VALUES (1, 'Alice', 85.5, NULL)`,
		`INSERT INTO scores VALUES (2, 'Bob', 90.25, 'late')`,
	} {
		_, err := db.Exec(stmt)
		test.ErrNil(t, err, stmt)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestQuery(t *testing.T) {
	db := mustDB(t)
	rs, err := sql.Query(context.Background(), db, "SELECT id, name, score, note FROM scores ORDER BY id")
	test.ErrNil(t, err, "querying")
	test.MustBe(t, rs.Schema(), collect.Schema{"id", "name", "score", "note"}, "schema")
	test.MustBe(t, rs.Column("id"), []collect.Value{int64(1), int64(2)}, "ids")
	test.MustBe(t, rs.Column("name"), []collect.Value{"Alice", "Bob"}, "names")
	test.MustBe(t, rs.Column("score"), []collect.Value{85.5, 90.25}, "scores")
	test.MustBe(t, rs.Column("note"), []collect.Value{collect.Absent, "late"}, "notes")

	rs, err = sql.Query(context.Background(), db, "SELECT name FROM scores WHERE id > ?", 5)
	test.ErrNil(t, err, "querying empty")
	test.MustBe(t, rs.Len(), 0, "empty result")
	test.MustBe(t, rs.Schema(), collect.Schema{"name"}, "empty schema")
}

func TestQueryErrors(t *testing.T) {
	db := mustDB(t)
	if _, err := sql.Query(context.Background(), db, "SELECT * FROM missing"); err == nil {
		t.Fatal("expected error for missing table")
	}
	if _, err := sql.Query(context.Background(), db, "SELECT id, name AS id FROM scores"); err == nil {
		t.Fatal("expected error for duplicate columns")
	}
	if _, err := sql.Open(context.Background(), "oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestSource(t *testing.T) {
	db := mustDB(t)
	src := sql.NewSource(context.Background(), db, "SELECT id, note FROM scores ORDER BY id")
	p, err := src.Payload()
	test.ErrNil(t, err, "getting payload")
	test.MustBe(t, string(p.Data), `[{"id":1,"note":null},{"id":2,"note":"late"}]`, "payload")

	rs, err := json.Parse(p.Data)
	test.ErrNil(t, err, "normalizing")
	test.MustBe(t, rs.Column("note"), []collect.Value{collect.Absent, "late"}, "notes")

	if _, err := src.Payload(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}
