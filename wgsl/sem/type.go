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

package sem

import "fmt"

// Type is the interface implemented by all type nodes.
//
// The analysis is type-coarse: it only needs to know the addressable shape
// of a value (scalar, per-field struct, summarized array, pointer), never
// its bit width.
type Type interface {
	Node
	isType()
}

// Scalar is a non-composite type.
type Scalar int

const (
	Bool Scalar = iota
	I32
	U32
	F32
)

func (Scalar) isNode() {}
func (Scalar) isType() {}

func (s Scalar) String() string {
	switch s {
	case Bool:
		return "bool"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case F32:
		return "f32"
	default:
		return fmt.Sprintf("Scalar<%d>", int(s))
	}
}

// Array is a fixed or runtime sized array type.
type Array struct {
	Elem Type
	// Count is the element count, or 0 for a runtime-sized array.
	Count int
}

func (*Array) isNode() {}
func (*Array) isType() {}

func (a *Array) String() string {
	if a.Count == 0 {
		return fmt.Sprintf("array<%v>", a.Elem)
	}
	return fmt.Sprintf("array<%v, %d>", a.Elem, a.Count)
}

// Struct is a structure type with named fields.
type Struct struct {
	Name   string
	Fields []*Field
}

func (*Struct) isNode() {}
func (*Struct) isType() {}

func (s *Struct) String() string { return s.Name }

// Field returns the field with the given name, or nil.
func (s *Struct) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Field is a single member of a Struct.
type Field struct {
	Name string
	Type Type
}

func (*Field) isNode() {}

// Pointer is a pointer type.
type Pointer struct {
	To Type
}

func (*Pointer) isNode() {}
func (*Pointer) isType() {}

func (p *Pointer) String() string { return fmt.Sprintf("ptr<%v>", p.To) }
