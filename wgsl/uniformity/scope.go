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

package uniformity

import (
	"context"
	"fmt"

	"github.com/gfxtool/wgslint/core/fault"
	"github.com/gfxtool/wgslint/wgsl/builtin"
	"github.com/gfxtool/wgslint/wgsl/sem"
)

// stateKey identifies tracked storage: a *sem.Local, *sem.Global or
// *sem.Param.
type stateKey interface{}

type exitKind int

const (
	exitNone exitKind = iota
	exitBreak
	exitContinue
	exitReturn
	// exitUnreachable marks a scope past which no path continues (every
	// branch exited, or a loop with no reachable break).
	exitUnreachable
)

// scope carries the full analysis state for one traversal context.
// Child scopes are pushed for branch arms and loop iterations; values not
// written in a child are read through the parent chain.
type scope struct {
	parent *scope
	shared *shared
	values map[stateKey]Value
	// exec is the ambient execution uniformity: whether the set of
	// invocations executing this point is the same for all group members.
	exec  Tag
	exit  exitKind
	frame *loopFrame
}

// shared is the common data shared between all scopes of one analysis.
type shared struct {
	ctx      context.Context
	fn       *sem.Function
	registry builtin.Registry
	verdicts map[*sem.Call]*Verdict
	order    []*sem.Call
	fail     fault.One
}

// loopFrame collects the states flowing out of the enclosing loop.
type loopFrame struct {
	parent    *loopFrame
	base      *scope
	breaks    []*state
	continues []*state
	sawReturn bool
}

func (f *loopFrame) reset() {
	f.breaks, f.continues, f.sawReturn = nil, nil, false
}

// push returns a new child scope reading through s.
func (s *scope) push() *scope {
	return &scope{
		parent: s,
		shared: s.shared,
		values: map[stateKey]Value{},
		exec:   s.exec,
		frame:  s.frame,
	}
}

// get returns the current value of k, falling back to the binding's
// declared default. A binding never written on the reaching path holds its
// language-defined default, which is identical for all invocations.
func (s *scope) get(k stateKey) Value {
	for c := s; c != nil; c = c.parent {
		if v, ok := c.values[k]; ok {
			return v
		}
	}
	return defaultValue(k)
}

// set records a write to k. Writes to read-only bindings are configuration
// errors; writes to read-write storage leave the tracked state untouched
// (reads of such storage observe other invocations and stay divergent).
func (s *scope) set(k stateKey, v Value) {
	switch k := k.(type) {
	case *sem.Local:
		s.values[k] = v
	case *sem.Global:
		switch k.Class {
		case sem.Private, sem.Workgroup:
			s.values[k] = v
		case sem.StorageRW:
			// Not tracked: concurrent invocations write the same buffer.
		default:
			s.fail(fmt.Errorf("write to %v binding %q: %w", k.Class, k.Name, ErrMalformedInput))
		}
	case *sem.Param:
		s.fail(fmt.Errorf("write to parameter %q: %w", k.Name, ErrMalformedInput))
	default:
		s.fail(fmt.Errorf("write to %T: %w", k, ErrMalformedInput))
	}
}

func (s *scope) fail(err error) {
	s.shared.fail.Collect(err)
}

func (s *scope) failed() bool {
	return s.shared.fail.First() != nil
}

// defaultValue returns the value a binding holds before any write on the
// reaching path.
func defaultValue(k stateKey) Value {
	switch k := k.(type) {
	case *sem.Local:
		return valueFor(k.Type, Uniform)
	case *sem.Global:
		return valueFor(k.Type, classTag(k.Class))
	case *sem.Param:
		return valueFor(k.Type, classTag(k.Class))
	default:
		return ScalarValue{Divergent}
	}
}

// classTag returns the base-fact tag for a binding class.
func classTag(c sem.Class) Tag {
	switch c {
	case sem.PerInvocationBuiltin, sem.StorageRW:
		return Divergent
	default:
		// uniform buffers, overrides, read-only storage, group-uniform
		// builtins, and the zero-initialized private/workgroup spaces.
		return Uniform
	}
}

// setJoin sets the values in s to the join of the given flows. Flows read
// unwritten values through s, so passing s itself as a flow merges the
// unmodified fall-through state. Execution uniformity is the caller's
// responsibility.
func (s *scope) setJoin(flows ...*scope) {
	keys := map[stateKey]struct{}{}
	for _, f := range flows {
		if f == s {
			continue
		}
		for k := range f.values {
			keys[k] = struct{}{}
		}
	}
	for k := range keys {
		var v Value
		for _, f := range flows {
			fv := f.get(k)
			if v == nil {
				v = fv
			} else {
				v = v.Join(fv)
			}
		}
		s.values[k] = v
	}
}

// joinBranches merges the arms of a branch construct into s. arms is the
// number of statically reachable arms; flows are the arms that did not end
// in an unconditional exit. When every arm reaches the join the construct
// reconverges and s keeps its ambient execution uniformity; otherwise the
// invocations that exited cannot rejoin, so the flowing arms' gated
// execution uniformity persists.
func (s *scope) joinBranches(arms int, flows ...*scope) {
	if len(flows) == 0 {
		s.exit = exitUnreachable
		return
	}
	s.setJoin(flows...)
	if len(flows) < arms {
		e := flows[0].exec
		for _, f := range flows[1:] {
			e = Meet(e, f.exec)
		}
		s.exec = e
	}
}

// adopt moves the effects of a fully-traversed child back into s.
func (s *scope) adopt(c *scope) {
	for k, v := range c.values {
		s.values[k] = v
	}
	s.exec = c.exec
	s.exit = c.exit
}
