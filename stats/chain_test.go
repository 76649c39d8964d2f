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
	"testing"
	"time"

	chanpulse "github.com/TimeWtr/ChanPulse"
	"github.com/stretchr/testify/assert"
)

type processCall struct {
	interval Interval
	records  []Record
	target   Shutdowner
}

// recordingHandler captures every delivery and counts Close calls. The shared
// order slice tracks cross-handler delivery order.
type recordingHandler struct {
	cadence    time.Duration
	calls      []processCall
	closeCount int
	order      *[]string
	name       string
}

func (r *recordingHandler) Process(interval Interval, records []Record, target Shutdowner) {
	r.calls = append(r.calls, processCall{interval: interval, records: records, target: target})
	if r.order != nil {
		*r.order = append(*r.order, r.name)
	}
}

func (r *recordingHandler) ReportInterval() time.Duration {
	return r.cadence
}

func (r *recordingHandler) Close() {
	r.closeCount++
}

type nopShutdowner struct{}

func (nopShutdowner) Shutdown(_ chanpulse.ShutdownReason) {}

func TestChainReportInterval(t *testing.T) {
	testCases := []struct {
		name     string
		cadences []time.Duration
		want     time.Duration
	}{
		{
			name:     "single member",
			cadences: []time.Duration{time.Second},
			want:     time.Second,
		},
		{
			name:     "minimum wins",
			cadences: []time.Duration{5 * time.Second, time.Second, 30 * time.Second},
			want:     time.Second,
		},
		{
			name:     "duplicated minimum",
			cadences: []time.Duration{time.Second, time.Second},
			want:     time.Second,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handlers := make([]Handler, 0, len(tc.cadences))
			for _, cadence := range tc.cadences {
				handlers = append(handlers, &recordingHandler{cadence: cadence})
			}

			chain := NewChain(handlers...)
			assert.Equal(t, tc.want, chain.ReportInterval())
		})
	}
}

func TestChainEmpty(t *testing.T) {
	chain := NewChain()
	assert.Equal(t, unboundedInterval, chain.ReportInterval())

	// processing and closing an empty chain is safe
	chain.Process(Interval{StartMs: 0, EndMs: 100}, nil, nopShutdowner{})
	chain.Close()
}

func TestChainFanOut(t *testing.T) {
	var order []string
	first := &recordingHandler{cadence: time.Second, order: &order, name: "first"}
	second := &recordingHandler{cadence: 5 * time.Second, order: &order, name: "second"}
	chain := NewChain(first, second)

	interval := Interval{StartMs: 100, EndMs: 1100}
	records := []Record{NewSocketRecord(), NewTLSRecord()}
	target := nopShutdowner{}

	chain.Process(interval, records, target)

	assert.Equal(t, []string{"first", "second"}, order)
	for _, h := range []*recordingHandler{first, second} {
		assert.Len(t, h.calls, 1)
		assert.Equal(t, interval, h.calls[0].interval)
		// identical slice and target, not copies
		assert.Equal(t, records, h.calls[0].records)
		assert.Equal(t, Shutdowner(target), h.calls[0].target)
	}
}

func TestChainSkipsNilMembers(t *testing.T) {
	h := &recordingHandler{cadence: time.Second}
	chain := NewChain(nil, h, nil)

	chain.Process(Interval{StartMs: 0, EndMs: 1000}, nil, nil)
	assert.Len(t, h.calls, 1)
	assert.Equal(t, time.Second, chain.ReportInterval())

	chain.Close()
	assert.Equal(t, 1, h.closeCount)
}

func TestChainCloseEveryMemberOnce(t *testing.T) {
	members := []*recordingHandler{
		{cadence: time.Second},
		{cadence: 2 * time.Second},
		{cadence: 3 * time.Second},
	}
	chain := NewChain(members[0], members[1], members[2])

	chain.Close()
	for _, m := range members {
		assert.Equal(t, 1, m.closeCount)
	}
}

func TestChainOfChains(t *testing.T) {
	inner := &recordingHandler{cadence: 500 * time.Millisecond}
	nested := NewChain(inner)
	outer := NewChain(nested, &recordingHandler{cadence: time.Minute})

	assert.Equal(t, 500*time.Millisecond, outer.ReportInterval())

	outer.Process(Interval{StartMs: 0, EndMs: 500}, nil, nil)
	assert.Len(t, inner.calls, 1)

	outer.Close()
	assert.Equal(t, 1, inner.closeCount)
}
