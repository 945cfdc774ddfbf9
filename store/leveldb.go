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
	"fmt"
	"sync"

	"github.com/pilosa/collect"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is a collect.Sink which stores records in a leveldb directory under
// keys of the form <name>\x00<sequence number>. The NUL keeps "logs" from
// being a key prefix of "logs/app.log". Sequence numbers are zero padded so
// that keys sort in write order.
type LevelDB struct {
	db *leveldb.DB

	mu  sync.Mutex
	seq map[string]uint64
}

// NewLevelDB opens (or creates) a leveldb database in dirname.
func NewLevelDB(dirname string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dirname, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening leveldb at '%s'", dirname)
	}
	return &LevelDB{db: db, seq: make(map[string]uint64)}, nil
}

func keyPrefix(name string) []byte {
	return append([]byte(name), 0)
}

func (l *LevelDB) nextSeq(name string) (uint64, error) {
	if seq, ok := l.seq[name]; ok {
		return seq, nil
	}
	// pick up after whatever a previous run wrote
	var n uint64
	iter := l.db.NewIterator(util.BytesPrefix(keyPrefix(name)), nil)
	for iter.Next() {
		n++
	}
	iter.Release()
	return n, errors.Wrap(iter.Error(), "counting existing records")
}

// Write implements collect.Sink.
func (l *LevelDB) Write(name string, rs *collect.RecordSet) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	seq, err := l.nextSeq(name)
	if err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	for _, rec := range rs.Records() {
		val, err := EncodeRecord(rec)
		if err != nil {
			return err
		}
		batch.Put(append(keyPrefix(name), fmt.Sprintf("%020d", seq)...), val)
		seq++
	}
	if err := l.db.Write(batch, nil); err != nil {
		return errors.Wrap(err, "writing batch")
	}
	l.seq[name] = seq
	return nil
}

// Records returns every record stored for name, in order, as JSON objects.
func (l *LevelDB) Records(name string) ([][]byte, error) {
	recs := make([][]byte, 0)
	iter := l.db.NewIterator(util.BytesPrefix(keyPrefix(name)), nil)
	defer iter.Release()
	for iter.Next() {
		recs = append(recs, append([]byte(nil), iter.Value()...))
	}
	return recs, errors.Wrap(iter.Error(), "iterating")
}

// Close closes the underlying leveldb.
func (l *LevelDB) Close() error {
	return l.db.Close()
}
