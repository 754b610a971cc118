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

// Package errors creates and annotates the errors reported by the ntype
// packages. Annotations nest: each Wrap or WithContext call records one
// link, and the printed form lists the links outermost first, followed by
// the original cause. Typed conditions (parse failures, arity mismatches,
// missing differentiators) stay reachable through As.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// New returns an error with the given message.
func New(message string) error {
	return stderrors.New(message)
}

// Errorf returns an error with a message formatted according to the format
// specifier. A %w verb wraps its operand as usual.
func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Wrap returns a new error annotating err with a new message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &chainError{cause: err, msg: message, top: topOf(err)}
}

// Wrapf returns a new error annotating err with a message formatted
// according to the format specifier.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &chainError{cause: err, msg: fmt.Sprintf(format, args...), top: topOf(err)}
}

// WithContext returns a new error adding additional context to err, such as
// the operation or descriptor being processed when it occurred.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return &chainError{cause: err, context: context, top: topOf(err)}
}

// WithContextf returns a new error adding context formatted according to the
// format specifier.
func WithContextf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &chainError{cause: err, context: fmt.Sprintf(format, args...), top: topOf(err)}
}

// SetTopLevelMsg returns a new error with the given top level message. The
// top level message is printed first by Error, ahead of the full chain, and
// survives any further wrapping.
func SetTopLevelMsg(err error, top string) error {
	if err == nil {
		return nil
	}
	return &chainError{cause: err, top: top}
}

// SetTopLevelMsgf is SetTopLevelMsg with a formatted message.
func SetTopLevelMsgf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &chainError{cause: err, top: fmt.Sprintf(format, args...)}
}

func topOf(err error) string {
	if ce, ok := err.(*chainError); ok {
		return ce.top
	}
	return ""
}

// chainError is one link of an annotated error.
//
//   - A nil cause marks the original error; msg is then always set.
//   - When both msg and context are set, the context describes this link,
//     not the cause.
//   - top is propagated up from the cause; empty means it was never set.
type chainError struct {
	cause   error
	context string
	msg     string
	top     string
}

// Error prints the top level message, if any, followed by every context and
// message of the chain and finally the original cause.
func (e *chainError) Error() string {
	var b strings.Builder
	if e.top != "" {
		fmt.Fprintf(&b, "%s\nFull error:\n", e.top)
	}
	e.write(&b)
	return b.String()
}

func (e *chainError) write(b *strings.Builder) {
	wraps := e.cause != nil
	if e.context != "" {
		fmt.Fprintf(b, "\t%s\n", strings.ReplaceAll(e.context, "\n", "\n\t"))
	}
	if e.msg != "" {
		b.WriteString(e.msg)
		if wraps {
			b.WriteString("\n\tcaused by:\n")
		}
	}
	if !wraps {
		return
	}
	if ce, ok := e.cause.(*chainError); ok {
		ce.write(b)
		return
	}
	b.WriteString(e.cause.Error())
}

// Format implements fmt.Formatter.
func (e *chainError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// Unwrap returns the cause of this error.
func (e *chainError) Unwrap() error {
	return e.cause
}
