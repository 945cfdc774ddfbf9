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

package store

import (
	"encoding/binary"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

// Bolt is a collect.Sink which stores records in a boltdb file. Each payload
// name gets a bucket, and each record is stored as a JSON object under a
// big-endian sequence number, so iterating a bucket returns records in the
// order they were written.
type Bolt struct {
	Db *bolt.DB
}

// NewBolt opens (or creates) the boltdb file at filename.
func NewBolt(filename string) (*Bolt, error) {
	db, err := bolt.Open(filename, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening db file '%v'", filename)
	}
	return &Bolt{Db: db}, nil
}

// Write implements collect.Sink.
func (b *Bolt) Write(name string, rs *collect.RecordSet) error {
	return b.Db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return errors.Wrapf(err, "creating bucket '%s'", name)
		}
		for _, rec := range rs.Records() {
			val, err := EncodeRecord(rec)
			if err != nil {
				return err
			}
			seq, err := bkt.NextSequence()
			if err != nil {
				return errors.Wrap(err, "getting sequence")
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)
			if err := bkt.Put(key, val); err != nil {
				return errors.Wrap(err, "putting record")
			}
		}
		return nil
	})
}

// Records returns every record stored for name, in order, as JSON objects.
func (b *Bolt) Records(name string) (recs [][]byte, err error) {
	err = b.Db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(name))
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(k, v []byte) error {
			recs = append(recs, append([]byte(nil), v...))
			return nil
		})
	})
	return recs, err
}

// Close syncs and closes the underlying boltdb.
func (b *Bolt) Close() error {
	err := b.Db.Sync()
	if err != nil {
		return errors.Wrap(err, "syncing db")
	}
	return b.Db.Close()
}
