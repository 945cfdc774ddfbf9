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

package cmd

import (
	"io"

	"github.com/pilosa/collect"
	"github.com/pilosa/collect/ingest"
	"github.com/pilosa/collect/logline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// TailMain holds the options for following a log file.
type TailMain struct {
	ingest.Main `flag:"!embed"`
	Path        string `help:"Log file to follow."`
	FromEnd     bool   `help:"Only read lines written after starting."`
	Poll        bool   `help:"Poll the file for changes instead of using inotify."`
}

// NewTailMain gets a TailMain with default values.
func NewTailMain() *TailMain {
	m := &TailMain{Main: *ingest.NewMain(collect.KindLogLines)}
	m.NewSource = func() (collect.Source, error) {
		if m.Path == "" {
			return nil, errors.New("no path given")
		}
		var opts []logline.FollowOption
		if m.FromEnd {
			opts = append(opts, logline.FromEnd())
		}
		if m.Poll {
			opts = append(opts, logline.WithPolling())
		}
		return logline.NewTailSource(m.Path, opts...)
	}
	return m
}

// TailCommandMain is wrapped by NewTailCommand and only exported for testing purposes.
var TailCommandMain *TailMain

// NewTailCommand returns a new cobra command wrapping TailCommandMain.
func NewTailCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	TailCommandMain = NewTailMain()
	TailCommandMain.Stdout = stdout
	return newIngestCommand("tail",
		"tail - follow a log file and normalize each new line",
		`Follows --path like tail -F. Each line matching --pattern becomes a
record. Runs until interrupted.`,
		TailCommandMain)
}

func init() {
	subcommandFns["tail"] = NewTailCommand
}
