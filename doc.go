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

// Package collect gets data out of the many places it lives and into one
// shape. It contains the common types, the ingest pipeline, and documentation;
// parsers for particular formats and clients for particular systems live in
// sub-packages.
//
// The ingest pipeline has three stages. Interfaces for each are defined in
// this package.
//
// 1. Source
//
//    A collect.Source hands out raw payloads: a CSV file on disk, the body of
//    an HTTP response, a single Kafka or MQTT message, an object in an S3
//    bucket. Different Sources know how to talk to the various systems holding
//    your data, but it is not their job to interpret the bytes. That way the
//    same parser can be used with a file today and a message queue tomorrow.
//
// 2. Normalizer
//
//    The Normalizer turns one payload into a RecordSet: an ordered list of
//    Records which all share the same Schema of field names. There is one
//    parser per kind of payload (delimited text, JSON arrays, log lines,
//    HTML anchors) and package normalize picks the right one from a
//    SourceDescriptor. Normalizers are pure functions of their input - they
//    hold no state between calls and never retry. A payload which doesn't
//    have the expected shape fails with a *MalformedInputError, and delimited
//    rows with the wrong number of fields fail with a *SchemaMismatchError.
//    No partial RecordSet is ever returned.
//
// 3. Sink
//
//    The Sink gets every RecordSet that was successfully normalized. Package
//    store has Sinks which print a table, or persist records to boltdb or
//    leveldb.
//
// The Ingester wires the three together. Payloads which fail to normalize are
// logged and counted, and do not stop the ingest.
package collect
