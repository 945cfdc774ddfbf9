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

package collect

// Payload is one named chunk of raw data, e.g. a file, an HTTP response body,
// or a single message from a queue.
type Payload struct {
	Name string
	Data []byte
}

// Source is the interface for getting raw payloads one at a time. Payload
// returns io.EOF when the source is exhausted. Implementations of Source
// should be thread safe.
//
// It is not the job of a Source to massage data in any way - that is left to
// the Normalizer, so that one Normalizer can be paired with many Sources.
type Source interface {
	Payload() (Payload, error)
}

// Normalizer turns a raw payload into a RecordSet. Implementations must be
// pure: the same payload always yields an equal RecordSet.
type Normalizer interface {
	Normalize(data []byte) (*RecordSet, error)
}

// NormalizerFunc is a wrapper like http.HandlerFunc which allows you to use a
// bare func as a Normalizer.
type NormalizerFunc func(data []byte) (*RecordSet, error)

// Normalize implements Normalizer.
func (f NormalizerFunc) Normalize(data []byte) (*RecordSet, error) { return f(data) }

// Sink receives RecordSets at the end of an ingest. Write may be called from
// multiple goroutines.
type Sink interface {
	Write(name string, rs *RecordSet) error
	Close() error
}
