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

// Package audio decodes PCM WAV files and summarizes them as records.
package audio

import (
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

// Clip is a decoded WAV file. Samples are interleaved by channel and scaled
// to [-1, 1].
type Clip struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []float64
}

// Read decodes a PCM WAV file.
func Read(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errors.New("not a valid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "decoding pcm data")
	}
	if d.NumChans == 0 || d.SampleRate == 0 {
		return nil, errors.New("wav file has no channels or sample rate")
	}
	return &Clip{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Samples:    scale(buf, int(d.BitDepth)),
	}, nil
}

func scale(buf *audio.IntBuffer, depth int) []float64 {
	out := make([]float64, len(buf.Data))
	if depth <= 0 {
		return out
	}
	// 8 bit wav samples are unsigned
	offset := 0
	if depth == 8 {
		offset = 128
	}
	full := float64(int(1) << uint(depth-1))
	for i, v := range buf.Data {
		out[i] = float64(v-offset) / full
	}
	return out
}

// Frames is the number of samples per channel.
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration is the playing time of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(c.Frames()) / float64(c.SampleRate) * float64(time.Second))
}

// SummaryFields are the fields of the record Summary returns.
var SummaryFields = []string{"sample_rate", "channels", "bit_depth", "frames", "duration_seconds", "peak", "rms"}

// Summary returns one record describing the clip.
func (c *Clip) Summary() *collect.RecordSet {
	var peak, sum float64
	for _, s := range c.Samples {
		a := math.Abs(s)
		if a > peak {
			peak = a
		}
		sum += s * s
	}
	rms := 0.0
	if len(c.Samples) > 0 {
		rms = math.Sqrt(sum / float64(len(c.Samples)))
	}
	b := collect.NewBuilder(SummaryFields...)
	b.AddRow(
		int64(c.SampleRate),
		int64(c.Channels),
		int64(c.BitDepth),
		int64(c.Frames()),
		c.Duration().Seconds(),
		peak,
		rms,
	)
	return b.RecordSet()
}
