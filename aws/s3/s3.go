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

// Package s3 reads payloads from the objects in an S3 bucket.
package s3

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pilosa/collect/file"
	"github.com/pkg/errors"
)

// RawSource hands out a reader for each object under a prefix in a bucket,
// in the order the bucket lists them.
type RawSource struct {
	bucket   string
	prefix   string
	region   string
	endpoint string
	creds    *credentials.Credentials
	ctx      context.Context

	s3      *s3.S3
	objects []*s3.Object
	objIdx  uint64
}

// RawOption is a functional option type for RawSource.
type RawOption func(rs *RawSource)

// OptRawBucket sets the bucket to read from.
func OptRawBucket(bucket string) RawOption {
	return func(rs *RawSource) {
		rs.bucket = bucket
	}
}

// OptRawPrefix restricts the source to objects whose keys have this prefix.
func OptRawPrefix(prefix string) RawOption {
	return func(rs *RawSource) {
		rs.prefix = prefix
	}
}

// OptRawRegion sets the AWS region.
func OptRawRegion(region string) RawOption {
	return func(rs *RawSource) {
		rs.region = region
	}
}

// OptRawEndpoint points the client at an S3 compatible service instead of
// AWS. Path style addressing is used.
func OptRawEndpoint(endpoint string) RawOption {
	return func(rs *RawSource) {
		rs.endpoint = endpoint
	}
}

// OptRawStaticCredentials uses the given key pair instead of the default
// credential chain.
func OptRawStaticCredentials(id, secret string) RawOption {
	return func(rs *RawSource) {
		rs.creds = credentials.NewStaticCredentials(id, secret, "")
	}
}

// OptRawContext sets the context requests are made with.
func OptRawContext(ctx context.Context) RawOption {
	return func(rs *RawSource) {
		rs.ctx = ctx
	}
}

// NewRawSource lists the objects to read. Objects are fetched as they are
// handed out.
func NewRawSource(opts ...RawOption) (*RawSource, error) {
	rs := &RawSource{
		region: "us-east-1",
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(rs)
	}
	if rs.bucket == "" {
		return nil, errors.New("no bucket given")
	}
	conf := &aws.Config{
		Region:      aws.String(rs.region),
		Credentials: rs.creds,
	}
	if rs.endpoint != "" {
		conf.Endpoint = aws.String(rs.endpoint)
		conf.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(conf)
	if err != nil {
		return nil, errors.Wrap(err, "getting aws session")
	}
	rs.s3 = s3.New(sess)
	err = rs.s3.ListObjectsPagesWithContext(rs.ctx,
		&s3.ListObjectsInput{Bucket: aws.String(rs.bucket), Prefix: aws.String(rs.prefix)},
		func(page *s3.ListObjectsOutput, last bool) bool {
			for _, obj := range page.Contents {
				if obj.Key != nil && aws.Int64Value(obj.Size) > 0 {
					rs.objects = append(rs.objects, obj)
				}
			}
			return true
		})
	if err != nil {
		return nil, errors.Wrap(err, "listing objects")
	}
	return rs, nil
}

// Keys returns the keys of every object the source will read.
func (rs *RawSource) Keys() []string {
	keys := make([]string, len(rs.objects))
	for i, obj := range rs.objects {
		keys[i] = aws.StringValue(obj.Key)
	}
	return keys
}

type objReader struct {
	name string
	io.ReadCloser
}

func (o *objReader) Name() string {
	return o.name
}

// NextReader fetches the next object. It returns io.EOF once every object has
// been handed out. It is safe for concurrent use.
func (rs *RawSource) NextReader() (file.NamedReadCloser, error) {
	idx := atomic.AddUint64(&rs.objIdx, 1) - 1
	if int(idx) >= len(rs.objects) {
		return nil, io.EOF
	}
	key := aws.StringValue(rs.objects[idx].Key)
	result, err := rs.s3.GetObjectWithContext(rs.ctx, &s3.GetObjectInput{
		Bucket: aws.String(rs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", key)
	}
	return &objReader{name: key, ReadCloser: result.Body}, nil
}

// NewSource gets a file.Source which reads every object of rs. If splitJSON
// is set each JSON document in an object is its own payload.
func NewSource(rs *RawSource, splitJSON bool) (*file.Source, error) {
	return file.NewSource(file.OptSrcReaders(rs), file.OptSrcSplitJSON(splitJSON))
}
