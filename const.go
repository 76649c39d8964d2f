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

package ChanPulse

// Category identifies the concrete shape of a statistics record.
type Category int

const (
	CategorySocket Category = iota
	CategoryTLS
)

func (c Category) String() string {
	switch c {
	case CategorySocket:
		return "socket"
	case CategoryTLS:
		return "tls"
	default:
		return "unknown"
	}
}

func (c Category) Validate() bool {
	switch c {
	case CategorySocket, CategoryTLS:
		return true
	default:
		return false
	}
}

// HandshakeStatus is the TLS negotiation state as last reported by the
// instrumentation layer.
type HandshakeStatus int

const (
	HandshakeNone HandshakeStatus = iota
	HandshakeOngoing
	HandshakeSuccess
	HandshakeFailure
)

func (h HandshakeStatus) String() string {
	switch h {
	case HandshakeNone:
		return "none"
	case HandshakeOngoing:
		return "ongoing"
	case HandshakeSuccess:
		return "success"
	case HandshakeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Concluded reports whether the handshake reached a terminal state.
func (h HandshakeStatus) Concluded() bool {
	return h == HandshakeSuccess || h == HandshakeFailure
}

// ShutdownReason is passed to the monitored channel when an observer forces
// teardown.
type ShutdownReason int

const (
	ShutdownNone ShutdownReason = iota
	ShutdownTLSTimeout
)

func (s ShutdownReason) String() string {
	switch s {
	case ShutdownNone:
		return "none"
	case ShutdownTLSTimeout:
		return "tls handshake timeout"
	default:
		return "unknown"
	}
}
