// Package metrics exports pipeline telemetry to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"streamstore/internal/pipeline"

	"github.com/prometheus/client_golang/prometheus"
)

var _ pipeline.Observer = (*PrometheusObserver)(nil)

// PrometheusObserver records chunk, byte, fault and session metrics.
type PrometheusObserver struct {
	chunksReceived  prometheus.Counter
	bytesReceived   prometheus.Counter
	bytesWritten    prometheus.Counter
	writeFaults     prometheus.Counter
	queueDepth      prometheus.Gauge
	writeDuration   prometheus.Histogram
	sessionDuration *prometheus.HistogramVec
	sessionBytes    *prometheus.HistogramVec
	sessions        *prometheus.CounterVec
}

// NewPrometheusObserver registers the pipeline metrics with reg
// (the default registerer when nil).
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "streamstore"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		chunksReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_received_total",
			Help:      "Chunks read from upload streams.",
		}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "received_bytes_total",
			Help:      "Bytes read from upload streams.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "written_bytes_total",
			Help:      "Bytes appended to artifact files.",
		}),
		writeFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_faults_total",
			Help:      "Chunks dropped because the write failed.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Chunks buffered between ingest and persistence.",
		}),
		writeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_write_duration_seconds",
			Help:      "Latency of a single chunk write.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
		}),
		sessionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Duration of upload sessions.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		sessionBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_bytes",
			Help:      "Bytes stored per upload session.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 12),
		}, []string{"outcome"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Upload sessions by outcome.",
		}, []string{"outcome"}),
	}

	var err error
	if o.chunksReceived, err = register(reg, o.chunksReceived); err != nil {
		return nil, err
	}
	if o.bytesReceived, err = register(reg, o.bytesReceived); err != nil {
		return nil, err
	}
	if o.bytesWritten, err = register(reg, o.bytesWritten); err != nil {
		return nil, err
	}
	if o.writeFaults, err = register(reg, o.writeFaults); err != nil {
		return nil, err
	}
	if o.queueDepth, err = register(reg, o.queueDepth); err != nil {
		return nil, err
	}
	if o.writeDuration, err = register(reg, o.writeDuration); err != nil {
		return nil, err
	}
	if o.sessionDuration, err = register(reg, o.sessionDuration); err != nil {
		return nil, err
	}
	if o.sessionBytes, err = register(reg, o.sessionBytes); err != nil {
		return nil, err
	}
	if o.sessions, err = register(reg, o.sessions); err != nil {
		return nil, err
	}
	return o, nil
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

func (o *PrometheusObserver) ChunkReceived(bytes int) {
	o.chunksReceived.Inc()
	o.bytesReceived.Add(float64(bytes))
}

func (o *PrometheusObserver) ChunkWritten(bytes int, duration time.Duration) {
	o.bytesWritten.Add(float64(bytes))
	o.writeDuration.Observe(duration.Seconds())
}

func (o *PrometheusObserver) WriteFault() {
	o.writeFaults.Inc()
}

func (o *PrometheusObserver) QueueDepth(depth int) {
	o.queueDepth.Set(float64(depth))
}

func (o *PrometheusObserver) SessionFinished(outcome string, bytes int64, duration time.Duration) {
	o.sessions.WithLabelValues(outcome).Inc()
	o.sessionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	o.sessionBytes.WithLabelValues(outcome).Observe(float64(bytes))
}
