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

package audio

import (
	"bytes"
	"io/ioutil"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/file"
	"github.com/pilosa/collect/ingest"
	"github.com/pilosa/collect/store"
	"github.com/pkg/errors"
)

// Source is a collect.Source which decodes each WAV file and hands out its
// summary as a JSON array payload.
type Source struct {
	raw *file.RawSource
}

// NewSource gets a Source for a WAV file or a directory of them.
func NewSource(pathname string) (*Source, error) {
	raw, err := file.NewRawSource(pathname)
	if err != nil {
		return nil, err
	}
	return &Source{raw: raw}, nil
}

// Payload implements collect.Source.
func (s *Source) Payload() (collect.Payload, error) {
	rc, err := s.raw.NextReader()
	if err != nil {
		return collect.Payload{}, err
	}
	defer rc.Close()
	data, err := ioutil.ReadAll(rc)
	if err != nil {
		return collect.Payload{}, errors.Wrapf(err, "reading %s", rc.Name())
	}
	clip, err := Read(bytes.NewReader(data))
	if err != nil {
		return collect.Payload{}, errors.Wrapf(err, "decoding %s", rc.Name())
	}
	enc, err := store.EncodeRecordSet(clip.Summary())
	if err != nil {
		return collect.Payload{}, err
	}
	return collect.Payload{Name: rc.Name(), Data: enc}, nil
}

// Main holds the options for summarizing WAV files.
type Main struct {
	ingest.Main `flag:"!embed"`
	Path        string `help:"WAV file or directory of WAV files."`
}

// NewMain gets a new Main with default values.
func NewMain() *Main {
	m := &Main{Main: *ingest.NewMain(collect.KindJSONArray)}
	m.NewSource = func() (collect.Source, error) {
		if m.Path == "" {
			return nil, errors.New("no path given")
		}
		return NewSource(m.Path)
	}
	return m
}
