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

// state is a scope's effects flattened relative to an enclosing base scope.
// Loop analysis records these at break and continue sites and joins them at
// the back edge and at loop exit.
type state struct {
	values map[stateKey]Value
	exec   Tag
}

// flatten collects everything written between s and base (exclusive) into a
// single state.
func (s *scope) flatten(base *scope) *state {
	st := &state{values: map[stateKey]Value{}, exec: s.exec}
	for c := s; c != nil && c != base; c = c.parent {
		for k, v := range c.values {
			if _, ok := st.values[k]; !ok {
				st.values[k] = v
			}
		}
	}
	return st
}

// apply copies the state's values into s and adopts its execution
// uniformity.
func (s *scope) apply(st *state) {
	for k, v := range st.values {
		s.values[k] = v
	}
	s.exec = st.exec
}

// joinStates joins the given states. Keys unwritten in one state take their
// value from base, so a partial writer joins against the fall-through state.
func joinStates(base *scope, states ...*state) *state {
	keys := map[stateKey]struct{}{}
	out := &state{values: map[stateKey]Value{}, exec: Uniform}
	for _, st := range states {
		out.exec = Meet(out.exec, st.exec)
		for k := range st.values {
			keys[k] = struct{}{}
		}
	}
	for k := range keys {
		var v Value
		for _, st := range states {
			sv, ok := st.values[k]
			if !ok {
				sv = base.get(k)
			}
			if v == nil {
				v = sv
			} else {
				v = v.Join(sv)
			}
		}
		out.values[k] = v
	}
	return out
}

// equal reports whether the two states are equivalent, resolving keys absent
// from one side through base.
func (a *state) equal(b *state, base *scope) bool {
	if a.exec != b.exec {
		return false
	}
	keys := map[stateKey]struct{}{}
	for k := range a.values {
		keys[k] = struct{}{}
	}
	for k := range b.values {
		keys[k] = struct{}{}
	}
	for k := range keys {
		av, ok := a.values[k]
		if !ok {
			av = base.get(k)
		}
		bv, ok := b.values[k]
		if !ok {
			bv = base.get(k)
		}
		if !av.Equivalent(bv) {
			return false
		}
	}
	return true
}
