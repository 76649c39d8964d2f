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

import (
	"errors"

	"go.uber.org/zap"
)

var _ Logger = (*ZapAdapter)(nil)

type ZapAdapter struct {
	logger *zap.Logger
	level  Level
}

func NewZapAdapter(logger *zap.Logger) Logger {
	return &ZapAdapter{
		logger: logger,
		level:  LevelInfo,
	}
}

func (z *ZapAdapter) Debug(msg string, fields ...Field) {
	z.log(LevelDebug, msg, fields...)
}

func (z *ZapAdapter) Info(msg string, fields ...Field) {
	z.log(LevelInfo, msg, fields...)
}

func (z *ZapAdapter) Warn(msg string, fields ...Field) {
	z.log(LevelWarn, msg, fields...)
}

func (z *ZapAdapter) Error(msg string, fields ...Field) {
	z.log(LevelError, msg, fields...)
}

func (z *ZapAdapter) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return z
	}

	return &ZapAdapter{
		logger: z.logger.With(convertZapFields(fields)...),
		level:  z.level,
	}
}

func (z *ZapAdapter) SetLevel(level Level) error {
	if !level.valid() {
		return errors.New("invalid log level")
	}
	z.level = level
	return nil
}

func (z *ZapAdapter) Sync() error {
	return z.logger.Sync()
}

func (z *ZapAdapter) log(level Level, msg string, fields ...Field) {
	if z.level > level {
		return
	}

	zapFields := convertZapFields(fields)
	switch level {
	case LevelDebug:
		z.logger.Debug(msg, zapFields...)
	case LevelInfo:
		z.logger.Info(msg, zapFields...)
	case LevelWarn:
		z.logger.Warn(msg, zapFields...)
	case LevelError:
		z.logger.Error(msg, zapFields...)
	default:
	}
}

func convertZapFields(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		zapFields = append(zapFields, zap.Any(field.Key, field.Val))
	}
	return zapFields
}
