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

// Package sem holds the program representation consumed by the uniformity
// analysis: one function at a time, as a tree of typed statements and
// expressions over module-scope bindings, locals and pointers.
//
// The representation is deliberately language-frontend agnostic. A host
// compiler builds these nodes from its own AST; this package never sees
// shader source text.
package sem

import "fmt"

// Node is the interface implemented by all nodes in the tree.
type Node interface {
	isNode()
}

// Location is a source position attached to diagnostic-relevant nodes.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Before returns true if l is ordered before o.
func (l Location) Before(o Location) bool {
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Column < o.Column
}

// Class annotates where a binding's value comes from, supplying the base
// facts of the uniformity lattice.
type Class int

const (
	// Private is a module-scope var<private> binding. Its default value is
	// uniform; writes decide everything after that.
	Private Class = iota
	// Workgroup is a var<workgroup> binding. Zero-initialized, so uniform
	// until written.
	Workgroup
	// Uniform is a var<uniform> buffer binding. Always uniform.
	Uniform
	// StorageRO is a read-only storage buffer binding. Always uniform.
	StorageRO
	// StorageRW is a read-write storage buffer binding. Reads observe other
	// invocations' writes, so never uniform.
	StorageRW
	// Override is a pipeline-overridable constant. Always uniform.
	Override
	// PerInvocationBuiltin is a builtin input that differs per invocation
	// (local/global invocation id, position, and the like).
	PerInvocationBuiltin
	// GroupUniformBuiltin is a builtin input shared by the whole execution
	// group (workgroup id, num_workgroups, and the like).
	GroupUniformBuiltin
)

func (c Class) String() string {
	switch c {
	case Private:
		return "private"
	case Workgroup:
		return "workgroup"
	case Uniform:
		return "uniform"
	case StorageRO:
		return "storage-read-only"
	case StorageRW:
		return "storage-read-write"
	case Override:
		return "override"
	case PerInvocationBuiltin:
		return "per-invocation-builtin"
	case GroupUniformBuiltin:
		return "group-uniform-builtin"
	default:
		return fmt.Sprintf("Class<%d>", int(c))
	}
}

// Mutable returns true if the binding class designates writable storage
// tracked by the analysis.
func (c Class) Mutable() bool {
	return c == Private || c == Workgroup || c == StorageRW
}

// Function is a single function to analyze.
type Function struct {
	Name   string
	Params []*Param
	Body   *Block
}

func (*Function) isNode() {}

// Param is a formal parameter. Its Class annotation supplies the parameter's
// uniformity at function entry.
type Param struct {
	Name  string
	Type  Type
	Class Class
}

func (*Param) isNode()       {}
func (*Param) isExpression() {}

// Global is a module-scope binding.
type Global struct {
	Name  string
	Type  Type
	Class Class
}

func (*Global) isNode()       {}
func (*Global) isExpression() {}

// Local is a function-scope variable. The same node is used for the
// declaration and for every reference.
type Local struct {
	Name string
	Type Type
}

func (*Local) isNode()       {}
func (*Local) isExpression() {}
