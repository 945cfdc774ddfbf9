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

package logline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/nxadm/tail"
	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

// FollowOption is a functional option for Follow.
type FollowOption func(*tail.Config)

// FromEnd starts following at the current end of the file instead of at its
// beginning.
func FromEnd() FollowOption {
	return func(c *tail.Config) {
		c.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}
}

// WithPolling watches the file by polling instead of with inotify.
func WithPolling() FollowOption {
	return func(c *tail.Config) {
		c.Poll = true
	}
}

func tailFile(path string, opts []FollowOption) (*tail.Tail, error) {
	conf := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	}
	for _, opt := range opts {
		opt(&conf)
	}
	t, err := tail.TailFile(path, conf)
	return t, errors.Wrapf(err, "tailing %s", path)
}

// Follow tails the file at path, handing each line to Parse as it is written
// and calling fn with the result, which holds zero or one records. It returns
// when ctx is done (with a nil error), or when fn returns an error. Lines are
// handled in the order they are written.
func Follow(ctx context.Context, path string, p *Pattern, fn func(*collect.RecordSet) error, opts ...FollowOption) error {
	t, err := tailFile(path, opts)
	if err != nil {
		return err
	}
	defer t.Cleanup()
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return errors.Wrapf(t.Err(), "tailing %s", path)
			}
			if line.Err != nil {
				return errors.Wrapf(line.Err, "reading %s", path)
			}
			if err := fn(Parse(line.Text, p)); err != nil {
				return err
			}
		}
	}
}

// TailSource is a collect.Source which yields each line appended to a file
// as its own payload. Normalizing those payloads with the log-lines kind gives
// the same records as Follow.
type TailSource struct {
	t    *tail.Tail
	name string
	n    uint64
	mu   sync.Mutex
}

// NewTailSource starts tailing the file at path.
func NewTailSource(path string, opts ...FollowOption) (*TailSource, error) {
	t, err := tailFile(path, opts)
	if err != nil {
		return nil, err
	}
	return &TailSource{t: t, name: filepath.Base(path)}, nil
}

// Payload blocks until the next line is written. It returns io.EOF after
// Close.
func (s *TailSource) Payload() (collect.Payload, error) {
	line, ok := <-s.t.Lines
	if !ok {
		return collect.Payload{}, io.EOF
	}
	if line.Err != nil {
		return collect.Payload{}, errors.Wrapf(line.Err, "reading %s", s.name)
	}
	s.mu.Lock()
	s.n++
	n := s.n
	s.mu.Unlock()
	return collect.Payload{Name: fmt.Sprintf("%s:%d", s.name, n), Data: []byte(line.Text)}, nil
}

// Close stops tailing.
func (s *TailSource) Close() error {
	err := s.t.Stop()
	s.t.Cleanup()
	return errors.Wrap(err, "stopping tail")
}
