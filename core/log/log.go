// Copyright (C) 2024 The wgslint Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a context-carried leveled logger.
//
// The handler, severity filter and bound values all travel on the
// context.Context, keeping callees reentrant and free of package state.
package log

import (
	"context"
	"fmt"
)

// Severity defines the severity of a logging message.
type Severity int32

const (
	// Debug is the severity for debugging messages.
	Debug Severity = iota
	// Info is the severity for informational messages.
	Info
	// Warning is the severity for warning messages.
	Warning
	// Error is the severity for error messages.
	Error
	// Fatal is the severity for process-stopping messages.
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal"
	default:
		return fmt.Sprintf("Severity<%d>", int32(s))
	}
}

// Short returns the single-character name of the severity.
func (s Severity) Short() string {
	switch s {
	case Debug:
		return "D"
	case Info:
		return "I"
	case Warning:
		return "W"
	case Error:
		return "E"
	case Fatal:
		return "F"
	default:
		return "?"
	}
}

// Message is a single log record handed to a Handler.
type Message struct {
	// Text is the formatted message text.
	Text string
	// Severity is the severity of the message.
	Severity Severity
	// Values are the key-value pairs bound to the context, in bind order.
	Values []Value
}

// Value is a single key-value pair bound to a logging context.
type Value struct {
	Name  string
	Value interface{}
}

// Logger is a snapshot of the logging state carried by a context.
type Logger struct {
	handler Handler
	filter  Severity
	values  []Value
}

// From returns a Logger built from the logging state in ctx.
func From(ctx context.Context) *Logger {
	return &Logger{
		handler: GetHandler(ctx),
		filter:  GetFilter(ctx),
		values:  getValues(ctx),
	}
}

// D logs a debug message to the logging target.
func D(ctx context.Context, fmt string, args ...interface{}) { From(ctx).D(fmt, args...) }

// I logs an info message to the logging target.
func I(ctx context.Context, fmt string, args ...interface{}) { From(ctx).I(fmt, args...) }

// W logs a warning message to the logging target.
func W(ctx context.Context, fmt string, args ...interface{}) { From(ctx).W(fmt, args...) }

// E logs an error message to the logging target.
func E(ctx context.Context, fmt string, args ...interface{}) { From(ctx).E(fmt, args...) }

// F logs a fatal message to the logging target.
func F(ctx context.Context, fmt string, args ...interface{}) { From(ctx).F(fmt, args...) }

// Err logs an error message with a cause to the logging target.
func Err(ctx context.Context, err error, msg string) {
	From(ctx).E("%s: %v", msg, err)
}

// D logs a debug message to the logging target.
func (l *Logger) D(fmt string, args ...interface{}) { l.logf(Debug, fmt, args...) }

// I logs an info message to the logging target.
func (l *Logger) I(fmt string, args ...interface{}) { l.logf(Info, fmt, args...) }

// W logs a warning message to the logging target.
func (l *Logger) W(fmt string, args ...interface{}) { l.logf(Warning, fmt, args...) }

// E logs an error message to the logging target.
func (l *Logger) E(fmt string, args ...interface{}) { l.logf(Error, fmt, args...) }

// F logs a fatal message to the logging target.
func (l *Logger) F(fmt string, args ...interface{}) { l.logf(Fatal, fmt, args...) }

func (l *Logger) logf(s Severity, format string, args ...interface{}) {
	if l.handler == nil || s < l.filter {
		return
	}
	l.handler.Handle(&Message{
		Text:     fmt.Sprintf(format, args...),
		Severity: s,
		Values:   l.values,
	})
}
