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

// Package sql loads the result of a SQL query into a collect.RecordSet.
// MySQL, PostgreSQL and SQLite drivers are registered.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // registers "mysql"
	_ "github.com/lib/pq"              // registers "postgres"
	"github.com/pilosa/collect"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers "sqlite"
)

// Drivers maps the names accepted by Open to database/sql driver names.
var Drivers = map[string]string{
	"mysql":      "mysql",
	"postgres":   "postgres",
	"postgresql": "postgres",
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite",
}

// Open opens a database with one of the registered drivers and checks that
// it can be reached.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	name, ok := Drivers[driver]
	if !ok {
		return nil, errors.Errorf("unsupported driver '%s'", driver)
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s database", driver)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connecting to %s database", driver)
	}
	return db, nil
}

// Query runs query and returns one record per result row. The schema is the
// result's column order. NULLs are collect.Absent, integers are int64,
// floats are float64, byte slices are strings, and times are RFC 3339
// strings.
func Query(ctx context.Context, db *sql.DB, query string, args ...interface{}) (*collect.RecordSet, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "getting columns")
	}
	seen := make(map[string]int, len(cols))
	for i, c := range cols {
		if j, ok := seen[c]; ok {
			return nil, errors.Errorf("column '%s' appears at both %d and %d", c, j, i)
		}
		seen[c] = i
	}

	b := collect.NewBuilder(cols...)
	raw := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	vals := make([]collect.Value, len(cols))
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		for i, v := range raw {
			vals[i] = convert(v)
		}
		b.AddRow(vals...)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reading rows")
	}
	return b.RecordSet(), nil
}

func convert(v interface{}) collect.Value {
	switch v := v.(type) {
	case nil:
		return collect.Absent
	case []byte:
		return string(v)
	case string, bool, int64, float64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int8:
		return int64(v)
	case uint32:
		return int64(v)
	case uint16:
		return int64(v)
	case uint8:
		return int64(v)
	case float32:
		return float64(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}
