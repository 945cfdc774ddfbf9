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

// Package file reads payloads from a file or from every file in a directory.
package file

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/json"
	"github.com/pkg/errors"
)

// NamedReadCloser is a ReadCloser which knows the name of what it is reading.
type NamedReadCloser interface {
	io.ReadCloser
	Name() string
}

// RawSource hands out a reader for each file, one at a time.
type RawSource struct {
	files   []string
	fileIdx *uint64
}

// NewRawSource gets a RawSource for pathname. If pathname is a directory, each
// regular file directly inside it is read, in name order.
func NewRawSource(pathname string) (*RawSource, error) {
	fileIdx := uint64(0)
	s := &RawSource{
		fileIdx: &fileIdx,
	}
	info, err := os.Stat(pathname)
	if err != nil {
		return nil, errors.Wrap(err, "statting path")
	}
	if info.IsDir() {
		infos, err := ioutil.ReadDir(pathname)
		if err != nil {
			return nil, errors.Wrap(err, "reading directory")
		}
		s.files = make([]string, 0, len(infos))
		for _, info = range infos {
			if !info.Mode().IsRegular() {
				continue
			}
			s.files = append(s.files, filepath.Join(pathname, info.Name()))
		}
		sort.Strings(s.files)
	} else {
		s.files = []string{pathname}
	}
	return s, nil
}

type namedFile struct {
	*os.File
}

func (m namedFile) Name() string {
	return filepath.Base(m.File.Name())
}

// NextReader opens the next file. It returns io.EOF once every file has been
// handed out. It is safe for concurrent use.
func (s *RawSource) NextReader() (NamedReadCloser, error) {
	idx := atomic.AddUint64(s.fileIdx, 1) - 1
	if int(idx) >= len(s.files) {
		return nil, io.EOF
	}

	f, err := os.Open(s.files[idx])
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", s.files[idx])
	}
	return namedFile{f}, nil
}

// ReaderSource hands out one reader per object, returning io.EOF once every
// object has been handed out. RawSource is one.
type ReaderSource interface {
	NextReader() (NamedReadCloser, error)
}

// Source is a collect.Source which returns the whole contents of each file as
// a payload, or optionally each JSON document in each file.
type Source struct {
	rawSource ReaderSource
	splitJSON bool

	mu  sync.Mutex
	cur *json.Source
	rc  io.Closer
}

// SrcOption is a functional option for the file Source.
type SrcOption func(s *Source) error

// OptSrcPath sets the path name for the file or directory to use for source
// data.
func OptSrcPath(pathname string) SrcOption {
	return func(s *Source) (err error) {
		s.rawSource, err = NewRawSource(pathname)
		return errors.Wrap(err, "getting raw source")
	}
}

// OptSrcReaders makes the Source read from rs instead of from the local
// filesystem.
func OptSrcReaders(rs ReaderSource) SrcOption {
	return func(s *Source) error {
		s.rawSource = rs
		return nil
	}
}

// OptSrcSplitJSON makes the Source return each JSON document in a file as its
// own payload (e.g. for newline delimited JSON).
func OptSrcSplitJSON(split bool) SrcOption {
	return func(s *Source) error {
		s.splitJSON = split
		return nil
	}
}

// NewSource gets a new file source.
func NewSource(opts ...SrcOption) (*Source, error) {
	s := &Source{}
	for _, opt := range opts {
		err := opt(s)
		if err != nil {
			return nil, err
		}
	}
	if s.rawSource == nil {
		return nil, errors.New("no path given")
	}
	return s, nil
}

// Payload implements collect.Source.
func (s *Source) Payload() (collect.Payload, error) {
	if !s.splitJSON {
		r, err := s.rawSource.NextReader()
		if err != nil {
			return collect.Payload{}, err
		}
		defer r.Close()
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return collect.Payload{}, errors.Wrapf(err, "reading %s", r.Name())
		}
		return collect.Payload{Name: r.Name(), Data: data}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if s.cur == nil {
			r, err := s.rawSource.NextReader()
			if err != nil {
				return collect.Payload{}, err
			}
			s.cur, s.rc = json.NewSource(r.Name(), r), r
		}
		p, err := s.cur.Payload()
		if err == io.EOF {
			s.rc.Close()
			s.cur, s.rc = nil, nil
			continue
		}
		return p, err
	}
}
