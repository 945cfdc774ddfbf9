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

// Package metrics implements collect.Statter with Prometheus.
package metrics

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Statter is a collect.Statter which creates a Prometheus metric the first
// time a name is used. Counts become counters, gauges become gauges, and
// histograms and timings become histograms. Tags are ignored.
type Statter struct {
	Namespace string

	reg *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// NewStatter gets a Statter whose metrics are registered with a new registry.
func NewStatter(namespace string) *Statter {
	return &Statter{
		Namespace:  namespace,
		reg:        prometheus.NewRegistry(),
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// Registry returns the registry holding every metric.
func (s *Statter) Registry() *prometheus.Registry { return s.reg }

// metricName turns "payloads.failed" into "payloads_failed".
func metricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(name)
}

// Count implements collect.Statter.
func (s *Statter) Count(name string, value int64, rate float64, tags ...string) {
	s.mu.Lock()
	c, ok := s.counters[name]
	if !ok {
		c = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: s.Namespace,
			Name:      metricName(name) + "_total",
			Help:      "Total of " + name + ".",
		})
		s.reg.MustRegister(c)
		s.counters[name] = c
	}
	s.mu.Unlock()
	c.Add(float64(value))
}

// Gauge implements collect.Statter.
func (s *Statter) Gauge(name string, value float64, rate float64, tags ...string) {
	s.mu.Lock()
	g, ok := s.gauges[name]
	if !ok {
		g = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: s.Namespace,
			Name:      metricName(name),
			Help:      "Current " + name + ".",
		})
		s.reg.MustRegister(g)
		s.gauges[name] = g
	}
	s.mu.Unlock()
	g.Set(value)
}

func (s *Statter) histogram(name, suffix string) prometheus.Histogram {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.histograms[name]
	if !ok {
		h = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: s.Namespace,
			Name:      metricName(name) + suffix,
			Help:      "Distribution of " + name + ".",
		})
		s.reg.MustRegister(h)
		s.histograms[name] = h
	}
	return h
}

// Histogram implements collect.Statter.
func (s *Statter) Histogram(name string, value float64, rate float64, tags ...string) {
	s.histogram(name, "").Observe(value)
}

// Set implements collect.Statter. Prometheus has no set type so it does
// nothing.
func (s *Statter) Set(name string, value string, rate float64, tags ...string) {}

// Timing implements collect.Statter, observing durations in seconds.
func (s *Statter) Timing(name string, value time.Duration, rate float64, tags ...string) {
	s.histogram(name, "_seconds").Observe(value.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (s *Statter) Handler() http.Handler {
	return promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})
}

// Server serves a Statter's metrics over HTTP. It is returned by Listen.
type Server struct {
	ln   net.Listener
	srv  *http.Server
	done chan struct{}
	err  error
}

// Listen binds to bind and serves /metrics in the background until Close is
// called.
func (s *Statter) Listen(bind string) (*Server, error) {
	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return nil, errors.Wrap(err, "listening for metrics")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.Handler())
	srv := &Server{
		ln:   ln,
		srv:  &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		done: make(chan struct{}),
	}
	go func() {
		defer close(srv.done)
		if err := srv.srv.Serve(ln); err != http.ErrServerClosed {
			srv.err = errors.Wrap(err, "serving metrics")
		}
	}()
	return srv, nil
}

// Addr is the address the server is bound to.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Close stops the server and releases its address.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	<-s.done
	if err != nil {
		return errors.Wrap(err, "shutting down metrics server")
	}
	return s.err
}
