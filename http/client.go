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

package http

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pilosa/collect"
	"github.com/pkg/errors"
)

// URLSource is a collect.Source which fetches each of a list of URLs with a
// GET request and returns the response body as the payload.
type URLSource struct {
	urls   []string
	idx    uint64
	client *resty.Client
	ctx    context.Context
}

// URLSourceOption is a functional option type for URLSource.
type URLSourceOption func(u *URLSource)

// WithTimeout sets the timeout for each request.
func WithTimeout(d time.Duration) URLSourceOption {
	return func(u *URLSource) {
		u.client.SetTimeout(d)
	}
}

// WithRetries makes the client retry a failed request up to n times.
func WithRetries(n int) URLSourceOption {
	return func(u *URLSource) {
		u.client.SetRetryCount(n).
			SetRetryWaitTime(100 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second)
	}
}

// WithHeader sets a header on every request.
func WithHeader(key, value string) URLSourceOption {
	return func(u *URLSource) {
		u.client.SetHeader(key, value)
	}
}

// WithContext sets the context requests are made with.
func WithContext(ctx context.Context) URLSourceOption {
	return func(u *URLSource) {
		u.ctx = ctx
	}
}

// NewURLSource gets a URLSource for urls. By default requests time out after
// 30 seconds and are not retried.
func NewURLSource(urls []string, opts ...URLSourceOption) *URLSource {
	u := &URLSource{
		urls:   urls,
		client: resty.New().SetTimeout(30 * time.Second),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Payload implements collect.Source. A response with a status other than 2xx
// is an error.
func (u *URLSource) Payload() (collect.Payload, error) {
	idx := atomic.AddUint64(&u.idx, 1) - 1
	if int(idx) >= len(u.urls) {
		return collect.Payload{}, io.EOF
	}
	url := u.urls[idx]
	resp, err := u.client.R().SetContext(u.ctx).Get(url)
	if err != nil {
		return collect.Payload{}, errors.Wrapf(err, "getting %s", url)
	}
	if resp.IsError() {
		return collect.Payload{}, errors.Errorf("getting %s: %s", url, resp.Status())
	}
	return collect.Payload{Name: url, Data: resp.Body()}, nil
}
