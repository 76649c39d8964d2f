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
	"time"

	"github.com/TimeWtr/ChanPulse/errorx"
	"github.com/TimeWtr/ChanPulse/stats"
	"github.com/TimeWtr/ChanPulse/utils/atomicx"
	"github.com/TimeWtr/ChanPulse/utils/log"
	"github.com/panjf2000/ants"
	"golang.org/x/net/context"
)

const (
	defaultPoolSize    = 4
	taskExpireDuration = 60 * time.Second
)

// Clock supplies the unix-ms timeline intervals are stamped with. Swappable
// for deterministic tests.
type Clock interface {
	NowMs() uint64
}

type realClock struct{}

func (realClock) NowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}

type Options func(*Sampler)

func WithPoolSize(size int) Options {
	return func(s *Sampler) {
		if size > 0 {
			s.poolSize = size
		}
	}
}

func WithClock(clock Clock) Options {
	return func(s *Sampler) {
		s.clock = clock
	}
}

// Sampler drives the statistics pipeline: it owns the record set, runs every
// instrument at the end of each window (the quiesce point), closes the
// interval and hands it to the installed handler. Delivery is strictly
// sequential, a handler never sees concurrent Process calls.
type Sampler struct {
	handler     stats.Handler
	target      stats.Shutdowner
	instruments []Instrument
	records     []stats.Record
	clock       Clock
	poolSize    int
	pool        *ants.Pool
	ctx         context.Context
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
	state       *atomicx.Bool
	lastEndMs   uint64
	l           log.Logger
}

// NewSampler wires instruments to a handler. The handler is owned by the
// sampler from here on and is closed by Stop.
func NewSampler(
	handler stats.Handler,
	target stats.Shutdowner,
	instruments []Instrument,
	l log.Logger,
	opts ...Options,
) (*Sampler, error) {
	if handler == nil {
		return nil, errorx.ErrNilHandler
	}

	if l == nil {
		l = log.NewNop()
	}

	s := &Sampler{
		handler:     handler,
		target:      target,
		instruments: instruments,
		clock:       realClock{},
		poolSize:    defaultPoolSize,
		state:       atomicx.NewBool(),
		l:           l,
	}

	for _, ins := range instruments {
		if ins == nil || ins.Record() == nil {
			return nil, errorx.ErrNilRecord
		}
		s.records = append(s.records, ins.Record())
	}

	for _, opt := range opts {
		opt(s)
	}

	pool, err := ants.NewPool(s.poolSize,
		ants.WithExpiryDuration(taskExpireDuration),
		ants.WithPreAlloc(true),
		ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	s.pool = pool

	return s, nil
}

// Start begins closing intervals at the handler's reported cadence. Calling
// Start on a running sampler is a no-op.
func (s *Sampler) Start(ctx context.Context) {
	if !s.state.CompareAndSwap(false, true) {
		return
	}

	s.ctx, s.cancelFunc = context.WithCancel(ctx)
	s.lastEndMs = s.clock.NowMs()
	s.wg.Add(1)
	go s.run()
}

func (s *Sampler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.handler.ReportInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.closeInterval()
		case <-s.ctx.Done():
			return
		}
	}
}

// closeInterval is the synchronization point the handler contract relies on:
// all instruments finish mutating their records before Process runs, and the
// records are reset only after Process returns.
func (s *Sampler) closeInterval() {
	var wg sync.WaitGroup
	wg.Add(len(s.instruments))
	for _, ins := range s.instruments {
		ins := ins
		if err := s.pool.Submit(func() {
			defer wg.Done()
			ins.Collect()
		}); err != nil {
			// nonblocking pool rejected the task, collect inline
			ins.Collect()
			wg.Done()
		}
	}
	wg.Wait()

	endMs := s.clock.NowMs()
	if endMs < s.lastEndMs {
		// wall clock stepped backwards, hold the timeline still rather than
		// break the monotonic end-time guarantee
		endMs = s.lastEndMs
	}

	s.handler.Process(stats.Interval{StartMs: s.lastEndMs, EndMs: endMs}, s.records, s.target)
	s.lastEndMs = endMs

	for _, rec := range s.records {
		rec.Reset()
	}
}

// Stop halts interval delivery, closes the owned handler and releases the
// record set. Calling Stop on a stopped sampler is a no-op.
func (s *Sampler) Stop() {
	if !s.state.CompareAndSwap(true, false) {
		return
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.wg.Wait()
	s.pool.Release()

	s.handler.Close()
	for _, rec := range s.records {
		rec.Cleanup()
	}

	s.l.Debug("sampler stopped")
}
