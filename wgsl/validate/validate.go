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

// Package validate turns uniformity analysis verdicts into the diagnostics
// a host compiler reports to shader authors.
package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/gfxtool/wgslint/core/log"
	"github.com/gfxtool/wgslint/wgsl/builtin"
	"github.com/gfxtool/wgslint/wgsl/sem"
	"github.com/gfxtool/wgslint/wgsl/uniformity"
)

// Issue is a single diagnostic.
type Issue struct {
	// At is the source location of the offending call.
	At sem.Location
	// Function is the analyzed function's name.
	Function string
	// Message is the human-readable diagnostic text.
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%v: in %v: %v", i.At, i.Function, i.Message)
}

// Issues is a list of diagnostics. It implements error so a non-empty list
// can flow through error returns.
type Issues []Issue

func (l Issues) Error() string {
	parts := make([]string, len(l))
	for i, issue := range l {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "\n")
}

func (l *Issues) add(fn *sem.Function, at sem.Location, msg string, args ...interface{}) {
	*l = append(*l, Issue{At: at, Function: fn.Name, Message: fmt.Sprintf(msg, args...)})
}

// Options configures validation.
type Options struct {
	// Registry resolves builtin callee names; nil means builtin.Default().
	Registry builtin.Registry
	// SuppressDerivativeUniformity drops diagnostics for derivative
	// operations, matching the derivative_uniformity diagnostic filter.
	// Suppressed diagnostics are still logged as warnings.
	SuppressDerivativeUniformity bool
}

// Validate analyzes fn and reports a diagnostic for every uniformity
// violation. The error is non-nil only when the input tree itself is
// unusable.
func Validate(ctx context.Context, fn *sem.Function, opts Options) (Issues, error) {
	res, err := uniformity.Analyze(ctx, fn, opts.Registry)
	if err != nil {
		return nil, err
	}
	return WithResults(ctx, fn, res, opts), nil
}

// WithResults builds the diagnostics for an already-computed analysis.
func WithResults(ctx context.Context, fn *sem.Function, res *uniformity.Results, opts Options) Issues {
	issues := Issues{}
	for _, v := range res.Violations() {
		if opts.SuppressDerivativeUniformity && v.Derivative {
			log.W(ctx, "%v: %v uniformity violation suppressed by diagnostic filter",
				v.At, v.Call.Callee)
			continue
		}
		if v.Exec == uniformity.Divergent {
			issues.add(fn, v.At, "%v must only be called from uniform control flow",
				v.Call.Callee)
		}
		for _, a := range v.NonUniformArgs {
			issues.add(fn, v.At, "argument %d of %v must be a uniform value",
				a, v.Call.Callee)
		}
	}
	return issues
}
