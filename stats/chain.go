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
	"math"
	"time"
)

// unboundedInterval is reported by a chain with no members. A zero-member
// chain is a caller configuration error in any context that needs a finite
// cadence, but it constructs and closes safely.
const unboundedInterval = time.Duration(math.MaxInt64)

var _ Handler = (*Chain)(nil)

// Chain fans one delivery out to an ordered set of owned sub-handlers. It is
// the composition primitive: several independent observers share a single
// delivery subscription and one negotiated cadence, without the scheduler
// knowing how many observers exist.
type Chain struct {
	handlers       []Handler
	reportInterval time.Duration
}

// NewChain takes ownership of every handler in order. The chain's cadence is
// the minimum cadence over its members, cached once here; members must not
// change their cadence afterwards.
func NewChain(handlers ...Handler) *Chain {
	c := &Chain{
		handlers:       handlers,
		reportInterval: unboundedInterval,
	}

	for _, h := range handlers {
		if h == nil {
			continue
		}

		if ri := h.ReportInterval(); ri < c.reportInterval {
			c.reportInterval = ri
		}
	}

	return c
}

// Process delivers the identical interval, record set and target to every
// member in insertion order. Nil slots are skipped silently, a missing member
// is a non-fatal inconsistency on this best-effort path.
func (c *Chain) Process(interval Interval, records []Record, target Shutdowner) {
	for _, h := range c.handlers {
		if h == nil {
			continue
		}

		h.Process(interval, records, target)
	}
}

func (c *Chain) ReportInterval() time.Duration {
	return c.reportInterval
}

// Close closes every member exactly once, then drops the member list. Sibling
// order is irrelevant, members own no references to each other.
func (c *Chain) Close() {
	for _, h := range c.handlers {
		if h == nil {
			continue
		}

		h.Close()
	}

	c.handlers = nil
}
