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

// Package builtin describes the builtin functions of the analyzed language:
// which of them are collective operations requiring uniform control flow,
// which arguments must independently be uniform values, and which return
// group-uniform data.
package builtin

import (
	"fmt"

	"github.com/gfxtool/wgslint/core/fault"
)

// ErrUnknownBuiltin is returned by Registry.Lookup for a callee name that is
// not registered. This is a configuration defect of the host compiler, not a
// shader defect.
const ErrUnknownBuiltin = fault.Const("unknown builtin function")

// Signature describes the uniformity-relevant behavior of one builtin.
type Signature struct {
	// Collective marks operations that are only defined under uniform
	// control flow (derivatives, barriers, broadcasts, uniform loads).
	Collective bool `yaml:"collective"`
	// Derivative marks the subset of collective operations whose violations
	// can be suppressed by the derivative_uniformity diagnostic filter.
	Derivative bool `yaml:"derivative"`
	// UniformArgs lists argument indices that must themselves be uniform
	// values, independent of execution uniformity. For pointer arguments the
	// requirement applies to the address.
	UniformArgs []int `yaml:"uniform_args,flow"`
	// ReturnsUniform marks operations whose result is group-uniform
	// regardless of argument uniformity (broadcasts, uniform loads).
	ReturnsUniform bool `yaml:"returns_uniform"`
}

// Registry maps builtin callee names to their signatures.
type Registry map[string]Signature

// Lookup returns the signature registered for name.
func (r Registry) Lookup(name string) (Signature, error) {
	sig, ok := r[name]
	if !ok {
		return Signature{}, fmt.Errorf("%v: %w", name, ErrUnknownBuiltin)
	}
	return sig, nil
}

// Merge returns a new registry with the entries of o overlaid on r.
func (r Registry) Merge(o Registry) Registry {
	out := make(Registry, len(r)+len(o))
	for n, s := range r {
		out[n] = s
	}
	for n, s := range o {
		out[n] = s
	}
	return out
}

// Default returns the registry for the WGSL builtin set.
func Default() Registry {
	out := Registry{
		// Implicit-derivative texture sampling.
		"textureSample":        {Collective: true, Derivative: true},
		"textureSampleBias":    {Collective: true, Derivative: true},
		"textureSampleCompare": {Collective: true, Derivative: true},

		// Explicit derivatives.
		"dpdx":         {Collective: true, Derivative: true},
		"dpdxCoarse":   {Collective: true, Derivative: true},
		"dpdxFine":     {Collective: true, Derivative: true},
		"dpdy":         {Collective: true, Derivative: true},
		"dpdyCoarse":   {Collective: true, Derivative: true},
		"dpdyFine":     {Collective: true, Derivative: true},
		"fwidth":       {Collective: true, Derivative: true},
		"fwidthCoarse": {Collective: true, Derivative: true},
		"fwidthFine":   {Collective: true, Derivative: true},

		// Barriers.
		"workgroupBarrier": {Collective: true},
		"storageBarrier":   {Collective: true},
		"textureBarrier":   {Collective: true},

		// Uniform loads. The address operand must be a uniform value.
		"workgroupUniformLoad": {Collective: true, UniformArgs: []int{0}, ReturnsUniform: true},

		// Subgroup and quad operations. Broadcasts return the same value to
		// every invocation in the relevant group; broadcast lane selectors
		// must be uniform.
		"subgroupBroadcast":      {Collective: true, UniformArgs: []int{1}, ReturnsUniform: true},
		"subgroupBroadcastFirst": {Collective: true, ReturnsUniform: true},
		"quadBroadcast":          {Collective: true, UniformArgs: []int{1}, ReturnsUniform: true},
		"subgroupBallot":         {Collective: true},
		"subgroupElect":          {Collective: true},
		"subgroupAll":            {Collective: true},
		"subgroupAny":            {Collective: true},
		"subgroupAdd":            {Collective: true},
		"subgroupMax":            {Collective: true},
		"subgroupMin":            {Collective: true},
	}
	// Builtins with no uniformity requirements of their own.
	for _, name := range []string{
		"abs", "min", "max", "clamp", "select", "mix", "floor", "ceil",
		"fract", "sqrt", "pow", "exp", "log", "sin", "cos", "dot", "cross",
		"length", "normalize", "distance",
		"textureLoad", "textureSampleLevel", "textureDimensions",
		"atomicLoad", "atomicStore", "atomicAdd", "atomicExchange",
		"arrayLength", "pack4x8unorm", "unpack4x8unorm",
	} {
		out[name] = Signature{}
	}
	return out
}
