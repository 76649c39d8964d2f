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

package log

var _ Logger = (*NopLogger)(nil)

// NopLogger discards everything. Useful as a default where callers do not
// care about log output.
type NopLogger struct{}

func NewNop() Logger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(_ string, _ ...Field) {}

func (n *NopLogger) Info(_ string, _ ...Field) {}

func (n *NopLogger) Warn(_ string, _ ...Field) {}

func (n *NopLogger) Error(_ string, _ ...Field) {}

func (n *NopLogger) With(_ ...Field) Logger { return n }

func (n *NopLogger) SetLevel(_ Level) error { return nil }

func (n *NopLogger) Sync() error { return nil }
