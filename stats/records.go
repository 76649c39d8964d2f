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
	chanpulse "github.com/TimeWtr/ChanPulse"
)

var (
	_ Record = (*SocketRecord)(nil)
	_ Record = (*TLSRecord)(nil)
)

// SocketRecord counts socket I/O inside the current interval. Both counters
// are interval-scoped and go back to zero on Reset.
type SocketRecord struct {
	BytesRead    uint64
	BytesWritten uint64
}

func NewSocketRecord() *SocketRecord {
	return &SocketRecord{}
}

func (s *SocketRecord) Category() chanpulse.Category {
	return chanpulse.CategorySocket
}

func (s *SocketRecord) Reset() {
	s.BytesRead = 0
	s.BytesWritten = 0
}

func (s *SocketRecord) Cleanup() {}

// TLSRecord carries the negotiation state last reported by the TLS layer.
// The status is not interval-scoped: it persists across Resets until the
// instrumentation layer changes it.
type TLSRecord struct {
	HandshakeStatus chanpulse.HandshakeStatus
}

func NewTLSRecord() *TLSRecord {
	return &TLSRecord{HandshakeStatus: chanpulse.HandshakeNone}
}

func (t *TLSRecord) Category() chanpulse.Category {
	return chanpulse.CategoryTLS
}

// Reset is a no-op, the handshake status must survive interval boundaries.
func (t *TLSRecord) Reset() {}

func (t *TLSRecord) Cleanup() {}
