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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Handler is the interface implemented by log message sinks.
type Handler interface {
	Handle(*Message)
}

// HandlerFunc is a function that implements Handler.
type HandlerFunc func(*Message)

// Handle calls f with m.
func (f HandlerFunc) Handle(m *Message) { f(m) }

// Print returns the message in its single-line printed form.
func Print(m *Message) string {
	sb := &strings.Builder{}
	sb.WriteString(m.Severity.Short())
	sb.WriteString(": ")
	sb.WriteString(m.Text)
	for _, v := range m.Values {
		fmt.Fprintf(sb, " <%s: %v>", v.Name, v.Value)
	}
	return sb.String()
}

// Writer returns a Handler that writes printed messages to w.
// The handler is safe for concurrent use.
func Writer(w io.Writer) Handler {
	mu := &sync.Mutex{}
	return HandlerFunc(func(m *Message) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, Print(m))
	})
}

// Background returns a context logging to stderr at Info and above.
func Background() context.Context {
	ctx := PutHandler(context.Background(), Writer(os.Stderr))
	return PutFilter(ctx, Info)
}
