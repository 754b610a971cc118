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

// Package log contains a re-targetable context-aware logging system used by
// the ntype packages. Library code logs through the package functions; the
// embedding program picks the backend once during initialization, either the
// Standard logger or a zap logger built with NewZap.
package log

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
)

// Severity is the severity of the log message.
type Severity int

const (
	SevUnspecified Severity = iota
	SevDebug
	SevInfo
	SevWarn
	SevError
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevDebug:
		return "DEBUG"
	case SevInfo:
		return "INFO"
	case SevWarn:
		return "WARN"
	case SevError:
		return "ERROR"
	case SevFatal:
		return "FATAL"
	default:
		return "UNSPECIFIED"
	}
}

// ParseSeverity maps a configured level name to a Severity. Unknown names
// map to SevInfo.
func ParseSeverity(name string) Severity {
	switch name {
	case "debug", "DEBUG":
		return SevDebug
	case "warn", "WARN", "warning":
		return SevWarn
	case "error", "ERROR":
		return SevError
	case "fatal", "FATAL":
		return SevFatal
	default:
		return SevInfo
	}
}

// Logger is a context-aware logging backend. Must be concurrency safe.
type Logger interface {
	// Log logs the message in some implementation-dependent way. Log should
	// always return regardless of the severity.
	Log(ctx context.Context, sev Severity, calldepth int, msg string)
}

type holder struct{ l Logger }

var logger atomic.Value

func init() {
	logger.Store(holder{&Standard{Level: SevInfo}})
}

// SetLogger sets the global Logger. Intended to be called during
// initialization only.
func SetLogger(l Logger) {
	if l == nil {
		panic("Logger cannot be nil")
	}
	logger.Store(holder{l})
}

// Output logs the given message to the global logger. Calldepth is the count
// of the number of frames to skip when computing the file name and line number.
func Output(ctx context.Context, sev Severity, calldepth int, msg string) {
	logger.Load().(holder).l.Log(ctx, sev, calldepth+1, msg) // +1 for this frame
}

// Debugf writes the fmt.Sprintf-formatted arguments to the global logger with
// debug severity.
func Debugf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevDebug, 2, fmt.Sprintf(format, v...))
}

// Infof writes the fmt.Sprintf-formatted arguments to the global logger with
// info severity.
func Infof(ctx context.Context, format string, v ...any) {
	Output(ctx, SevInfo, 2, fmt.Sprintf(format, v...))
}

// Warnf writes the fmt.Sprintf-formatted arguments to the global logger with
// warn severity.
func Warnf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevWarn, 2, fmt.Sprintf(format, v...))
}

// Exitf writes the fmt.Sprintf-formatted arguments to the global logger with
// fatal severity. It then exits.
func Exitf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevFatal, 2, fmt.Sprintf(format, v...))
	os.Exit(1)
}
