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
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies how a raw payload should be interpreted.
type Kind string

// Supported source kinds.
const (
	KindDelimited  Kind = "delimited"
	KindJSONArray  Kind = "json-array"
	KindJSONObject Kind = "json-object"
	KindLogLines   Kind = "log-lines"
	KindAnchorTags Kind = "anchor-tags"
	KindTextLines  Kind = "text-lines"
)

// Kinds lists every Kind in the order they are documented.
var Kinds = []Kind{KindDelimited, KindJSONArray, KindJSONObject, KindLogLines, KindAnchorTags, KindTextLines}

// ParseKind turns a user supplied kind name into a Kind. It accepts a few
// common aliases like "csv" and "json".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delimited", "csv", "tsv":
		return KindDelimited, nil
	case "json-array", "json":
		return KindJSONArray, nil
	case "json-object", "jsonl", "ndjson":
		return KindJSONObject, nil
	case "log-lines", "log", "logs":
		return KindLogLines, nil
	case "anchor-tags", "html", "links":
		return KindAnchorTags, nil
	case "text-lines", "text", "txt":
		return KindTextLines, nil
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return "", errors.Wrapf(ErrUnknownKind, "'%s' (want one of %s)", s, strings.Join(names, ", "))
}

// SourceDescriptor says what kind of payload a source produces and carries the
// kind specific options needed to parse it.
type SourceDescriptor struct {
	Kind Kind

	// Delimiter separates fields of KindDelimited payloads. Zero means ','.
	Delimiter rune
	// NoHeader means the first line of a KindDelimited payload is data.
	NoHeader bool
	// NoInference keeps every KindDelimited value as text.
	NoInference bool

	// Pattern is the regular expression used for KindLogLines. It must have
	// the named groups time, level, and msg. Empty means the default pattern.
	Pattern string
}
