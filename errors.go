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

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is a string error type for constant sentinel errors.
type Error string

func (e Error) Error() string { return string(e) }

// ErrUnknownKind is returned when a SourceDescriptor names a kind of source
// which no parser handles.
const ErrUnknownKind = Error("unknown source kind")

// SchemaMismatchError is returned when a row of delimited input does not have
// the same number of fields as the header. The whole parse fails so that
// columns never silently shift.
type SchemaMismatchError struct {
	Line int // 1-based line number in the payload
	Want int
	Got  int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch at line %d: expected %d fields, got %d", e.Line, e.Want, e.Got)
}

// MalformedInputError is returned when a payload does not have the shape its
// SourceDescriptor says it should, e.g. a JSON object where an array was
// expected.
type MalformedInputError struct {
	Kind   Kind
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s input: %s", e.Kind, e.Reason)
}

// Malformed builds a *MalformedInputError with a formatted reason.
func Malformed(kind Kind, format string, args ...interface{}) error {
	return &MalformedInputError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// IsSchemaMismatch reports whether the cause of err is a SchemaMismatchError.
func IsSchemaMismatch(err error) bool {
	_, ok := errors.Cause(err).(*SchemaMismatchError)
	return ok
}

// IsMalformedInput reports whether the cause of err is a MalformedInputError.
func IsMalformedInput(err error) bool {
	_, ok := errors.Cause(err).(*MalformedInputError)
	return ok
}
