// Copyright 2025 TimeWtr
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"net/http"
	"time"

	chanpulse "github.com/TimeWtr/ChanPulse"
	"github.com/TimeWtr/ChanPulse/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultReportInterval = 5 * time.Second

var _ stats.Handler = (*Prometheus)(nil)

// Prometheus exports interval statistics to a dedicated registry. Install it
// in a chain next to the watchdog to get byte counters and handshake state
// out of the same delivery subscription.
type Prometheus struct {
	reportInterval     time.Duration
	registry           *prometheus.Registry
	bytesRead          prometheus.Counter
	bytesWritten       prometheus.Counter
	intervalsProcessed prometheus.Counter
	handshakeStatus    prometheus.Gauge
}

type PromOption func(*Prometheus)

func WithReportInterval(interval time.Duration) PromOption {
	return func(p *Prometheus) {
		if interval > 0 {
			p.reportInterval = interval
		}
	}
}

func NewPrometheus(opts ...PromOption) *Prometheus {
	p := &Prometheus{
		reportInterval: defaultReportInterval,
		registry:       prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p.register()
}

func (p *Prometheus) register() *Prometheus {
	const namespace = "ChanPulse"
	p.bytesRead = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "socket_bytes_read_total",
		Help:      "Number of bytes read from the socket.",
	})
	p.registry.MustRegister(p.bytesRead)

	p.bytesWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "socket_bytes_written_total",
		Help:      "Number of bytes written to the socket.",
	})
	p.registry.MustRegister(p.bytesWritten)

	p.intervalsProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sample_intervals_total",
		Help:      "Number of closed sample intervals processed.",
	})
	p.registry.MustRegister(p.intervalsProcessed)

	p.handshakeStatus = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tls_handshake_status",
		Help:      "Current TLS handshake status (0 none, 1 ongoing, 2 success, 3 failure).",
	})
	p.registry.MustRegister(p.handshakeStatus)

	return p
}

func (p *Prometheus) Process(_ stats.Interval, records []stats.Record, _ stats.Shutdowner) {
	for _, rec := range records {
		if rec == nil {
			continue
		}

		switch rec.Category() {
		case chanpulse.CategorySocket:
			socketRec, ok := rec.(*stats.SocketRecord)
			if !ok {
				continue
			}
			p.bytesRead.Add(float64(socketRec.BytesRead))
			p.bytesWritten.Add(float64(socketRec.BytesWritten))
		case chanpulse.CategoryTLS:
			tlsRec, ok := rec.(*stats.TLSRecord)
			if !ok {
				continue
			}
			p.handshakeStatus.Set(float64(tlsRec.HandshakeStatus))
		default:
		}
	}

	p.intervalsProcessed.Inc()
}

func (p *Prometheus) ReportInterval() time.Duration {
	return p.reportInterval
}

func (p *Prometheus) Close() {}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// HTTPHandler returns an HTTP handler for scraping this exporter's registry.
func (p *Prometheus) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(
		p.registry,
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	)
}
