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
	"encoding/json"
	"time"

	chanpulse "github.com/TimeWtr/ChanPulse"
	"github.com/TimeWtr/ChanPulse/stats"
	"github.com/TimeWtr/ChanPulse/utils/log"
)

var _ stats.Handler = (*Console)(nil)

// Console logs a summary of every delivered interval. Mostly a debugging
// observer, chained next to the real exporters.
type Console struct {
	reportInterval time.Duration
	l              log.Logger
}

func NewConsole(l log.Logger, reportInterval time.Duration) *Console {
	if reportInterval <= 0 {
		reportInterval = defaultReportInterval
	}

	return &Console{
		reportInterval: reportInterval,
		l:              l,
	}
}

type intervalSummary struct {
	StartMs         uint64 `json:"start_ms"`
	EndMs           uint64 `json:"end_ms"`
	BytesRead       uint64 `json:"bytes_read"`
	BytesWritten    uint64 `json:"bytes_written"`
	HandshakeStatus string `json:"handshake_status,omitempty"`
}

func (c *Console) Process(interval stats.Interval, records []stats.Record, _ stats.Shutdowner) {
	summary := intervalSummary{
		StartMs: interval.StartMs,
		EndMs:   interval.EndMs,
	}

	for _, rec := range records {
		if rec == nil {
			continue
		}

		switch rec.Category() {
		case chanpulse.CategorySocket:
			if socketRec, ok := rec.(*stats.SocketRecord); ok {
				summary.BytesRead += socketRec.BytesRead
				summary.BytesWritten += socketRec.BytesWritten
			}
		case chanpulse.CategoryTLS:
			if tlsRec, ok := rec.(*stats.TLSRecord); ok {
				summary.HandshakeStatus = tlsRec.HandshakeStatus.String()
			}
		default:
		}
	}

	c.l.Info("interval closed",
		log.Uint64Field("start_ms", summary.StartMs),
		log.Uint64Field("end_ms", summary.EndMs),
		log.Uint64Field("bytes_read", summary.BytesRead),
		log.Uint64Field("bytes_written", summary.BytesWritten))

	if data, err := json.Marshal(summary); err == nil {
		c.l.Debug(string(data))
	}
}

func (c *Console) ReportInterval() time.Duration {
	return c.reportInterval
}

func (c *Console) Close() {
	_ = c.l.Sync()
}
