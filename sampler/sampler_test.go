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
	"testing"
	"time"

	chanpulse "github.com/TimeWtr/ChanPulse"
	"github.com/TimeWtr/ChanPulse/errorx"
	"github.com/TimeWtr/ChanPulse/stats"
	"github.com/TimeWtr/ChanPulse/utils/log"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"golang.org/x/net/context"
)

// fakeClock steps the timeline forward by a fixed amount on every read.
type fakeClock struct {
	mu    sync.Mutex
	nowMs uint64
	step  uint64
}

func (c *fakeClock) NowMs() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nowMs += c.step
	return c.nowMs
}

type observedInterval struct {
	interval  stats.Interval
	bytesRead uint64
}

// capturingHandler snapshots socket counters at delivery time, before the
// sampler resets the records.
type capturingHandler struct {
	mu         sync.Mutex
	cadence    time.Duration
	observed   []observedInterval
	closeCount int
}

func (h *capturingHandler) Process(interval stats.Interval, records []stats.Record, _ stats.Shutdowner) {
	h.mu.Lock()
	defer h.mu.Unlock()

	obs := observedInterval{interval: interval}
	for _, rec := range records {
		if socketRec, ok := rec.(*stats.SocketRecord); ok {
			obs.bytesRead += socketRec.BytesRead
		}
	}
	h.observed = append(h.observed, obs)
}

func (h *capturingHandler) ReportInterval() time.Duration {
	return h.cadence
}

func (h *capturingHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeCount++
}

func (h *capturingHandler) snapshot() []observedInterval {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]observedInterval, len(h.observed))
	copy(out, h.observed)
	return out
}

func (h *capturingHandler) closed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closeCount
}

// fixedInstrument bumps a socket record by a constant amount per collection.
type fixedInstrument struct {
	rec  *stats.SocketRecord
	bump uint64
}

func newFixedInstrument(bump uint64) *fixedInstrument {
	return &fixedInstrument{rec: stats.NewSocketRecord(), bump: bump}
}

func (f *fixedInstrument) Collect() {
	f.rec.BytesRead += f.bump
}

func (f *fixedInstrument) Record() stats.Record {
	return f.rec
}

func verifyNoLeaks(t *testing.T) {
	goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("github.com/panjf2000/ants.(*Pool).periodicallyPurge"))
}

func TestSamplerConstruction(t *testing.T) {
	t.Run("nil handler", func(t *testing.T) {
		_, err := NewSampler(nil, nil, nil, log.NewNop())
		assert.ErrorIs(t, err, errorx.ErrNilHandler)
	})

	t.Run("nil instrument", func(t *testing.T) {
		_, err := NewSampler(&capturingHandler{cadence: time.Second}, nil, []Instrument{nil}, log.NewNop())
		assert.ErrorIs(t, err, errorx.ErrNilRecord)
	})
}

func TestSamplerDeliversIntervals(t *testing.T) {
	defer verifyNoLeaks(t)

	handler := &capturingHandler{cadence: 10 * time.Millisecond}
	instrument := newFixedInstrument(5)
	clock := &fakeClock{step: 10}

	s, err := NewSampler(handler, nil, []Instrument{instrument}, log.NewNop(),
		WithClock(clock), WithPoolSize(2))
	assert.NoError(t, err)

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		return len(handler.snapshot()) >= 3
	}, time.Second, 5*time.Millisecond)
	s.Stop()

	observed := handler.snapshot()
	assert.GreaterOrEqual(t, len(observed), 3)

	var prevEnd uint64
	for _, obs := range observed {
		// each interval sees exactly one collection, records were reset in between
		assert.Equal(t, uint64(5), obs.bytesRead)
		assert.GreaterOrEqual(t, obs.interval.EndMs, obs.interval.StartMs)
		assert.GreaterOrEqual(t, obs.interval.EndMs, prevEnd)
		prevEnd = obs.interval.EndMs
	}
}

func TestSamplerStopClosesHandler(t *testing.T) {
	defer verifyNoLeaks(t)

	handler := &capturingHandler{cadence: time.Hour}
	s, err := NewSampler(handler, nil, nil, log.NewNop())
	assert.NoError(t, err)

	s.Start(context.Background())
	s.Stop()
	assert.Equal(t, 1, handler.closed())

	// repeated stops are no-ops, the handler is closed exactly once
	s.Stop()
	assert.Equal(t, 1, handler.closed())
}

func TestSamplerStartIsIdempotent(t *testing.T) {
	defer verifyNoLeaks(t)

	handler := &capturingHandler{cadence: time.Hour}
	s, err := NewSampler(handler, nil, nil, log.NewNop())
	assert.NoError(t, err)

	ctx := context.Background()
	s.Start(ctx)
	s.Start(ctx)
	s.Stop()
	assert.Equal(t, 1, handler.closed())
}

func TestSamplerDrivesWatchdogShutdown(t *testing.T) {
	defer verifyNoLeaks(t)

	watchdog, err := stats.NewTLSWatchdog(stats.TLSWatchdogConfig{Timeout: 30 * time.Millisecond}, log.NewNop())
	assert.NoError(t, err)

	tlsInstrument := NewTLSInstrument()
	tlsInstrument.SetStatus(chanpulse.HandshakeOngoing)

	var mu sync.Mutex
	shutdowns := 0
	target := shutdownFunc(func(reason chanpulse.ShutdownReason) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, chanpulse.ShutdownTLSTimeout, reason)
		shutdowns++
	})

	// wrap the watchdog so the ticker runs faster than its nominal cadence
	handler := &capturingHandlerWrap{inner: watchdog, cadence: 10 * time.Millisecond}
	s, err := NewSampler(handler, target, []Instrument{tlsInstrument}, log.NewNop(),
		WithClock(&fakeClock{step: 10}))
	assert.NoError(t, err)

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return shutdowns >= 1
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}

type shutdownFunc func(reason chanpulse.ShutdownReason)

func (f shutdownFunc) Shutdown(reason chanpulse.ShutdownReason) { f(reason) }

// capturingHandlerWrap overrides the inner handler's cadence for tests.
type capturingHandlerWrap struct {
	inner   stats.Handler
	cadence time.Duration
}

func (w *capturingHandlerWrap) Process(interval stats.Interval, records []stats.Record, target stats.Shutdowner) {
	w.inner.Process(interval, records, target)
}

func (w *capturingHandlerWrap) ReportInterval() time.Duration { return w.cadence }

func (w *capturingHandlerWrap) Close() { w.inner.Close() }
