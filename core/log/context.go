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
	"sort"
)

type handlerKeyTy struct{}
type filterKeyTy struct{}
type valuesKeyTy struct{}

var (
	handlerKey handlerKeyTy
	filterKey  filterKeyTy
	valuesKey  valuesKeyTy
)

// PutHandler returns a new context with the handler h set on it.
func PutHandler(ctx context.Context, h Handler) context.Context {
	return context.WithValue(ctx, handlerKey, h)
}

// GetHandler returns the handler stored in ctx, or nil.
func GetHandler(ctx context.Context) Handler {
	h, _ := ctx.Value(handlerKey).(Handler)
	return h
}

// PutFilter returns a new context that only shows messages at or above the
// severity s.
func PutFilter(ctx context.Context, s Severity) context.Context {
	return context.WithValue(ctx, filterKey, s)
}

// GetFilter returns the severity filter stored in ctx.
// Contexts with no filter show everything.
func GetFilter(ctx context.Context) Severity {
	s, _ := ctx.Value(filterKey).(Severity)
	return s
}

func getValues(ctx context.Context) []Value {
	v, _ := ctx.Value(valuesKey).([]Value)
	return v
}

// V is a map of values to bind to a logging context.
type V map[string]interface{}

// Bind returns a new context with the values in v bound to it.
// Values are appended to any already bound, in key order.
func (v V) Bind(ctx context.Context) context.Context {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	old := getValues(ctx)
	values := make([]Value, len(old), len(old)+len(v))
	copy(values, old)
	for _, k := range keys {
		values = append(values, Value{Name: k, Value: v[k]})
	}
	return context.WithValue(ctx, valuesKey, values)
}
