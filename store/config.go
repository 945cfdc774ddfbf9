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
	"io"

	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

// Config chooses where RecordSets go. It is meant to be embedded in the Main
// struct of a command so its fields become flags.
type Config struct {
	Bolt    string `help:"Store records in this boltdb file instead of printing them."`
	LevelDB string `help:"Store records in this leveldb directory instead of printing them."`
	Head    int    `help:"Number of records of each set to print. 0 prints all of them."`
}

// NewConfig gets a Config which prints the first 5 records of each set.
func NewConfig() Config {
	return Config{Head: 5}
}

// Open returns the Sink described by c. Records are printed to w if no store
// was chosen.
func (c Config) Open(w io.Writer) (collect.Sink, error) {
	switch {
	case c.Bolt != "" && c.LevelDB != "":
		return nil, errors.New("only one of bolt and leveldb may be set")
	case c.Bolt != "":
		b, err := NewBolt(c.Bolt)
		if err != nil {
			return nil, err
		}
		return b, nil
	case c.LevelDB != "":
		l, err := NewLevelDB(c.LevelDB)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return NewPrinter(w, c.Head), nil
}
