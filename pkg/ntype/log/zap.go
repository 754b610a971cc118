// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap is a Logger backed by a zap logger.
type Zap struct {
	l *zap.Logger
}

// NewZap builds a zap backed Logger. With json set it uses zap's production
// JSON encoding, otherwise a console encoding. Messages below level are
// dropped.
func NewZap(level Severity, json bool) (*Zap, error) {
	cfg := zap.NewDevelopmentConfig()
	if json {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.DisableStacktrace = true
	l, err := cfg.Build(zap.AddCallerSkip(3))
	if err != nil {
		return nil, err
	}
	return &Zap{l: l}, nil
}

// NewZapFromLogger wraps an existing zap logger.
func NewZapFromLogger(l *zap.Logger) *Zap {
	return &Zap{l: l}
}

// Log writes msg at the zap level matching sev. Fatal messages are written
// at error level; exiting is left to the caller.
func (z *Zap) Log(ctx context.Context, sev Severity, calldepth int, msg string) {
	if ce := z.l.Check(zapLevel(sev), msg); ce != nil {
		ce.Write()
	}
}

// Sync flushes buffered log entries.
func (z *Zap) Sync() error {
	return z.l.Sync()
}

func zapLevel(sev Severity) zapcore.Level {
	switch sev {
	case SevDebug:
		return zapcore.DebugLevel
	case SevWarn:
		return zapcore.WarnLevel
	case SevError, SevFatal:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
