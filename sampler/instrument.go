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

package sampler

import (
	"sync"

	chanpulse "github.com/TimeWtr/ChanPulse"
	"github.com/TimeWtr/ChanPulse/stats"
	"github.com/shirou/gopsutil/v3/net"
)

// Instrument produces raw samples for one statistics record. Collect is only
// invoked from the sampler's quiesce point, never concurrently with a
// handler reading the record.
type Instrument interface {
	// Collect refreshes the bound record with whatever was gathered since the
	// last call.
	Collect()
	// Record returns the record this instrument mutates.
	Record() stats.Record
}

var _ Instrument = (*NetInstrument)(nil)

// NetInstrument accumulates host-wide network I/O deltas into a socket
// record. The first Collect only primes the previous totals, it reports
// nothing.
type NetInstrument struct {
	rec      *stats.SocketRecord
	prevRecv uint64
	prevSent uint64
	primed   bool
}

func NewNetInstrument() *NetInstrument {
	return &NetInstrument{rec: stats.NewSocketRecord()}
}

func (n *NetInstrument) Collect() {
	counters, err := net.IOCounters(false)
	if err != nil || len(counters) == 0 {
		return
	}

	total := counters[0]
	if !n.primed || total.BytesRecv < n.prevRecv || total.BytesSent < n.prevSent {
		// first run, or counters went backwards (interface reset)
		n.prevRecv = total.BytesRecv
		n.prevSent = total.BytesSent
		n.primed = true
		return
	}

	n.rec.BytesRead += total.BytesRecv - n.prevRecv
	n.rec.BytesWritten += total.BytesSent - n.prevSent
	n.prevRecv = total.BytesRecv
	n.prevSent = total.BytesSent
}

func (n *NetInstrument) Record() stats.Record {
	return n.rec
}

var _ Instrument = (*TLSInstrument)(nil)

// TLSInstrument mirrors the negotiation state reported by the TLS layer into
// a TLS record. SetStatus may be called from any goroutine; the status is
// copied into the record only at the sampler's quiesce point.
type TLSInstrument struct {
	mu     sync.Mutex
	status chanpulse.HandshakeStatus
	rec    *stats.TLSRecord
}

func NewTLSInstrument() *TLSInstrument {
	return &TLSInstrument{rec: stats.NewTLSRecord()}
}

// SetStatus records the latest negotiation state from the TLS layer.
func (t *TLSInstrument) SetStatus(status chanpulse.HandshakeStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

func (t *TLSInstrument) Collect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rec.HandshakeStatus = t.status
}

func (t *TLSInstrument) Record() stats.Record {
	return t.rec
}
