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
	"time"

	chanpulse "github.com/TimeWtr/ChanPulse"
)

// Interval is one closed observation window. The scheduler that closes the
// window guarantees EndMs >= StartMs and delivers each interval exactly once,
// with end times monotonically non-decreasing across deliveries.
type Interval struct {
	StartMs uint64
	EndMs   uint64
}

// Record is a single category-tagged statistics sample. Records are owned and
// mutated by the instrumentation layer; handlers only read them during Process.
type Record interface {
	// Category returns the discriminant identifying the concrete record shape.
	Category() chanpulse.Category
	// Reset clears interval-scoped counters at the start of a new window.
	// State that spans intervals (e.g. handshake status) survives a Reset.
	Reset()
	// Cleanup releases any resources the record owns. No current record owns
	// any, but the contract allows future variants to.
	Cleanup()
}

// Shutdowner is the narrow capability a handler holds on the monitored
// channel. Shutdown must be safe to call from inside Process, must not block,
// and is idempotent on the channel side.
type Shutdowner interface {
	Shutdown(reason chanpulse.ShutdownReason)
}

// Handler observes closed sample intervals. Implementations must tolerate
// records of categories they do not recognize and must not assume any record
// ordering. Ownership is single and exclusive: whoever installs a handler
// closes it, exactly once.
type Handler interface {
	// Process observes one closed interval over the full, unfiltered record
	// set. Best effort: failures are not signaled. May request teardown of the
	// monitored channel through target.
	Process(interval Interval, records []Record, target Shutdowner)
	// ReportInterval returns the cadence at which this handler wants to be
	// invoked. Pure query, stable for the handler's lifetime.
	ReportInterval() time.Duration
	// Close releases all resources the handler owns, recursively closing any
	// handlers it owns.
	Close()
}
