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

	"github.com/pilosa/collect/http"
	"github.com/spf13/cobra"
)

// FetchMain is wrapped by NewFetchCommand and only exported for testing purposes.
var FetchMain *http.FetchMain

// NewFetchCommand returns a new cobra command wrapping FetchMain.
func NewFetchCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	FetchMain = http.NewFetchMain()
	FetchMain.Stdout = stdout
	return newIngestCommand("fetch",
		"fetch - GET each URL and normalize the responses",
		`Fetches every URL in --urls and normalizes each response body. Use
--kind anchor-tags to pull the links out of web pages.`,
		FetchMain)
}

// ServeMain is wrapped by NewServeCommand and only exported for testing purposes.
var ServeMain *http.ServeMain

// NewServeCommand returns a new cobra command wrapping ServeMain.
func NewServeCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	ServeMain = http.NewServeMain()
	ServeMain.Stdout = stdout
	return newIngestCommand("serve",
		"serve - normalize JSON documents POSTed over HTTP",
		`Listens on --bind. Each JSON document in the body of a POST request is
one payload. Runs until interrupted.`,
		ServeMain)
}

func init() {
	subcommandFns["fetch"] = NewFetchCommand
	subcommandFns["serve"] = NewServeCommand
}
