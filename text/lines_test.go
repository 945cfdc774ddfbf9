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

package text_test

import (
	"testing"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/test"
	"github.com/pilosa/collect/text"
)

func TestLines(t *testing.T) {
	rs, err := text.Lines("This is a demo notes file.\nLine 2: some more text.\r\n\nLine 3: project B-321.\n")
	test.ErrNil(t, err, "reading lines")
	test.MustBe(t, rs.Len(), 4, "length")
	test.MustBe(t, rs.Column("line"), []collect.Value{int64(1), int64(2), int64(3), int64(4)}, "line numbers")
	test.MustBe(t, rs.Column("text"), []collect.Value{"This is a demo notes file.", "Line 2: some more text.", "", "Line 3: project B-321."}, "text")

	rs, err = text.Lines("")
	test.ErrNil(t, err, "reading nothing")
	test.MustBe(t, rs.Len(), 0, "empty length")
}
