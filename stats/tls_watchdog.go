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

package stats

import (
	"fmt"
	"time"

	chanpulse "github.com/TimeWtr/ChanPulse"
	"github.com/TimeWtr/ChanPulse/errorx"
	"github.com/TimeWtr/ChanPulse/utils/log"
)

// The watchdog always wants per-second granularity, it never negotiates a
// coarser cadence even when the configured timeout is large.
const watchdogReportInterval = time.Second

type TLSWatchdogConfig struct {
	// Timeout is the handshake deadline. Zero disables the watchdog entirely,
	// turning it into a pure no-op observer.
	Timeout time.Duration
}

var _ Handler = (*TLSWatchdog)(nil)

// TLSWatchdog forces channel teardown when the TLS handshake is still ongoing
// after the configured deadline. It reasons in the timeline of interval end
// times: the handshake "start" is the end of the first interval in which a
// non-none status was observed, quantized to interval granularity on purpose.
type TLSWatchdog struct {
	timeout time.Duration
	// end time of the interval in which the handshake was first observed,
	// zero until then; stamped exactly once.
	handshakeStartEndMs uint64
	l                   log.Logger
}

func NewTLSWatchdog(cfg TLSWatchdogConfig, l log.Logger) (*TLSWatchdog, error) {
	if cfg.Timeout < 0 {
		return nil, errorx.ErrNegativeTimeout
	}

	if l == nil {
		return nil, errorx.ErrNilLogger
	}

	return &TLSWatchdog{
		timeout: cfg.Timeout,
		l:       l,
	}, nil
}

func (w *TLSWatchdog) Process(interval Interval, records []Record, target Shutdowner) {
	status := chanpulse.HandshakeNone

	for _, rec := range records {
		if rec == nil {
			continue
		}

		switch rec.Category() {
		case chanpulse.CategoryTLS:
			tlsRec, ok := rec.(*TLSRecord)
			if !ok {
				continue
			}

			// More than one TLS record per interval is not an expected
			// configuration, the last one wins.
			status = tlsRec.HandshakeStatus
			if status != chanpulse.HandshakeNone && w.handshakeStartEndMs == 0 {
				w.handshakeStartEndMs = interval.EndMs
			}
		default:
		}
	}

	// Once the handshake concluded, or never started, no deadline applies.
	if w.timeout == 0 || status != chanpulse.HandshakeOngoing {
		return
	}

	// Out-of-order delivery breaks the scheduler contract, continuing would
	// corrupt the timeout math.
	if interval.EndMs < w.handshakeStartEndMs {
		panic(fmt.Sprintf("stats: interval end %dms precedes handshake start %dms, out-of-order delivery",
			interval.EndMs, w.handshakeStartEndMs))
	}

	elapsed := time.Duration(interval.EndMs-w.handshakeStartEndMs) * time.Millisecond
	if elapsed < w.timeout {
		return
	}

	w.l.Info("tls handshake timeout hit, shutting down channel",
		log.DurationField("timeout", w.timeout),
		log.DurationField("elapsed", elapsed))

	if target != nil {
		target.Shutdown(chanpulse.ShutdownTLSTimeout)
	}
}

func (w *TLSWatchdog) ReportInterval() time.Duration {
	return watchdogReportInterval
}

// Close releases nothing, the watchdog owns no sub-objects.
func (w *TLSWatchdog) Close() {}
