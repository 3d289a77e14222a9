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
	"fmt"
	"sort"
	"strings"

	"github.com/gfxtool/wgslint/wgsl/sem"
)

// Verdict is the analysis result for one collective-operation call site.
// A call site reached more than once (loop iterations, several branch arms)
// gets a single verdict holding the meet over all reaching states.
type Verdict struct {
	// Call is the collective call this verdict describes.
	Call *sem.Call
	// At is the call's source location.
	At sem.Location
	// Exec is the execution uniformity at the call site.
	Exec Tag
	// NonUniformArgs lists the argument indices that the operation requires
	// to be uniform but that were found divergent, in ascending order.
	NonUniformArgs []int
	// Derivative is set for derivative operations, whose violations hosts
	// may filter separately.
	Derivative bool
}

// Permitted returns true if the call site satisfies every uniformity
// requirement of the operation.
func (v Verdict) Permitted() bool {
	return v.Exec == Uniform && len(v.NonUniformArgs) == 0
}

func (v Verdict) String() string {
	parts := []string{}
	if v.Exec == Divergent {
		parts = append(parts, "non-uniform control flow")
	}
	for _, i := range v.NonUniformArgs {
		parts = append(parts, fmt.Sprintf("non-uniform argument %d", i))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%v: %v permitted", v.At, v.Call.Callee)
	}
	return fmt.Sprintf("%v: %v requires uniformity: %v",
		v.At, v.Call.Callee, strings.Join(parts, ", "))
}

func (v *Verdict) addArg(i int) {
	for _, a := range v.NonUniformArgs {
		if a == i {
			return
		}
	}
	v.NonUniformArgs = append(v.NonUniformArgs, i)
	sort.Ints(v.NonUniformArgs)
}

// Results holds the verdicts for every collective call site reached while
// analyzing one function.
type Results struct {
	// Verdicts in source-location order; call sites without a location keep
	// the order in which the analysis first reached them.
	Verdicts []Verdict
}

// Violations returns the verdicts that are not permitted.
func (r *Results) Violations() []Verdict {
	out := []Verdict{}
	for _, v := range r.Verdicts {
		if !v.Permitted() {
			out = append(out, v)
		}
	}
	return out
}

// sortVerdicts orders verdicts by location, keeping first-reached order for
// verdicts at the same (or missing) location.
func sortVerdicts(vs []Verdict) {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].At.Before(vs[j].At)
	})
}
