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

package logger_test

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/logger"
	"github.com/pilosa/collect/test"
)

func TestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	var l collect.Logger = logger.NewWithWriter(buf, false)
	l.Printf("normalized %d records", 3)
	l.Debugf("hidden %s", "detail")
	out := buf.String()
	if !strings.Contains(out, "normalized 3 records") || !strings.Contains(out, "info") {
		t.Fatalf("unexpected output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug output without verbose: %s", out)
	}

	buf.Reset()
	l = logger.NewWithWriter(buf, true)
	l.Debugf("shown %s", "detail")
	if !strings.Contains(buf.String(), "shown detail") {
		t.Fatalf("missing debug output: %s", buf.String())
	}
}

func TestLoggerFile(t *testing.T) {
	d := test.MustTempDir(t, "testlogger")
	path := filepath.Join(d, "logs", "collect.log")
	l, err := logger.New(logger.Config{Path: path, MaxSize: 1})
	test.ErrNil(t, err, "getting logger")
	l.Printf("to a file")
	test.ErrNil(t, l.Sync(), "syncing")
	content, err := ioutil.ReadFile(path)
	test.ErrNil(t, err, "reading log file")
	if !strings.Contains(string(content), "to a file") {
		t.Fatalf("unexpected log file content: %s", content)
	}
}
