/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package stats implements Prometheus-backed statistics collection for
// the UADP codec: counts of encode/decode operations, errors broken
// down by uadp.Status, and observed NetworkMessage wire sizes.
package stats

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/opcfoundation-pubsub/uadp-codec/uadp"
)

// Recorder is a metric collection interface for the codec, mirroring
// how a server reports internal counters for its protocol traffic.
type Recorder interface {
	// Start runs an HTTP server exposing the metrics at /metrics.
	// Use this for passive reporters.
	Start(listenPort int)

	// ObserveEncode records one NetworkMessage encode attempt and,
	// on success, the size of the resulting frame in bytes.
	ObserveEncode(size int, err error)

	// ObserveDecode records one NetworkMessage decode attempt and,
	// on success, the size of the consumed frame in bytes.
	ObserveDecode(size int, err error)

	// IncRealtimeUpdate counts one offset-buffer realtime patch, kind
	// being "publish" or "subscribe".
	IncRealtimeUpdate(kind string)
}

// PrometheusRecorder implements Recorder against a private
// prometheus.Registry, so a codec user can mount /metrics without
// colliding with any global default registry the rest of their
// process already uses.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	encodeTotal   *prometheus.CounterVec
	decodeTotal   *prometheus.CounterVec
	encodeSize    prometheus.Histogram
	decodeSize    prometheus.Histogram
	realtimeTotal *prometheus.CounterVec
}

// NewPrometheusRecorder builds a PrometheusRecorder with all metrics
// registered against a fresh registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		encodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uadp_encode_total",
			Help: "NetworkMessage encode attempts by result status.",
		}, []string{"status"}),
		decodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uadp_decode_total",
			Help: "NetworkMessage decode attempts by result status.",
		}, []string{"status"}),
		encodeSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "uadp_encode_bytes",
			Help:    "Size in bytes of successfully encoded NetworkMessages.",
			Buckets: prometheus.ExponentialBuckets(32, 2, 12),
		}),
		decodeSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "uadp_decode_bytes",
			Help:    "Size in bytes of successfully decoded NetworkMessages.",
			Buckets: prometheus.ExponentialBuckets(32, 2, 12),
		}),
		realtimeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uadp_realtime_update_total",
			Help: "Offset-buffer realtime patches, by kind (publish/subscribe).",
		}, []string{"kind"}),
	}

	r.registry.MustRegister(r.encodeTotal, r.decodeTotal, r.encodeSize, r.decodeSize, r.realtimeTotal)
	return r
}

// Start runs an HTTP server exposing the registry at /metrics.
func (r *PrometheusRecorder) Start(listenPort int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	addr := fmt.Sprintf(":%d", listenPort)
	log.Infof("Starting prometheus metrics server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Failed to start listener: %v", err)
	}
}

// ObserveEncode records one encode attempt.
func (r *PrometheusRecorder) ObserveEncode(size int, err error) {
	r.encodeTotal.WithLabelValues(uadp.StatusOf(err).String()).Inc()
	if err == nil {
		r.encodeSize.Observe(float64(size))
	}
}

// ObserveDecode records one decode attempt.
func (r *PrometheusRecorder) ObserveDecode(size int, err error) {
	r.decodeTotal.WithLabelValues(uadp.StatusOf(err).String()).Inc()
	if err == nil {
		r.decodeSize.Observe(float64(size))
	}
}

// IncRealtimeUpdate counts one offset-buffer realtime patch.
func (r *PrometheusRecorder) IncRealtimeUpdate(kind string) {
	r.realtimeTotal.WithLabelValues(kind).Inc()
}
