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

// Package uniformity implements the control-flow uniformity analysis.
//
// Every value and the ambient execution state is abstracted to a two-point
// lattice: Uniform (identical across all invocations in the execution
// group) or Divergent. The analysis walks a function's statement tree once,
// iterating loop back edges to a fixed point, and records a verdict for
// every collective-operation call site it reaches.
package uniformity

// Tag is the two-point uniformity lattice.
type Tag uint8

const (
	// Uniform marks a value identical across all invocations in the
	// execution group, or an execution state in which every invocation in
	// the group is active.
	Uniform Tag = iota
	// Divergent is the conservative bottom of the lattice.
	Divergent
)

func (t Tag) String() string {
	if t == Uniform {
		return "uniform"
	}
	return "divergent"
}

// Meet returns the lattice meet of all the given tags: Uniform only when
// every tag is Uniform.
func Meet(tags ...Tag) Tag {
	for _, t := range tags {
		if t == Divergent {
			return Divergent
		}
	}
	return Uniform
}
