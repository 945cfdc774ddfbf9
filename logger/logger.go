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

// Package logger builds the collect.Logger used by the collect commands.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where logs go.
type Config struct {
	Path       string `help:"Log file to write to. Empty means stderr."`
	Verbose    bool   `help:"Enable debug logging."`
	MaxSize    int    `help:"Megabytes a log file may grow to before it is rotated."`
	MaxBackups int    `help:"Number of rotated log files to keep."`
}

// Logger satisfies collect.Logger with a zap SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// Printf logs at info level.
func (l Logger) Printf(format string, v ...interface{}) {
	l.Infof(format, v...)
}

// New builds a Logger writing to stderr, or to a rotating file if c.Path is
// set.
func New(c Config) (Logger, error) {
	var w io.Writer = os.Stderr
	if c.Path != "" {
		if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
			return Logger{}, errors.Wrap(err, "creating log directory")
		}
		w = &lumberjack.Logger{
			Filename:   c.Path,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
		}
	}
	return NewWithWriter(w, c.Verbose), nil
}

// NewWithWriter builds a Logger writing console formatted lines to w.
func NewWithWriter(w io.Writer, verbose bool) Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return Logger{zap.New(core).Sugar()}
}
