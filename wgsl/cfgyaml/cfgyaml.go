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

// Package cfgyaml decodes a YAML description of a function into the tree
// the uniformity analysis consumes. It exists for the command-line tool and
// for test fixtures; a real host compiler builds sem nodes directly.
//
// The format mirrors the tree:
//
//	function: frag
//	globals:
//	  - {name: id, type: u32, class: invocation}
//	  - {name: bound, type: f32, class: uniform}
//	body:
//	  - if:
//	      cond: {binary: {op: ">", lhs: id, rhs: "0"}}
//	      then:
//	        - expr: {call: {name: textureSample, args: [bound], at: "3:5"}}
//
// A bare scalar in expression position names a binding if one is in scope,
// and is a literal otherwise.
package cfgyaml

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gfxtool/wgslint/core/fault"
	"github.com/gfxtool/wgslint/wgsl/sem"
)

// ErrBadDocument is wrapped by every decode failure.
const ErrBadDocument = fault.Const("bad program document")

var classes = map[string]sem.Class{
	"private":    sem.Private,
	"workgroup":  sem.Workgroup,
	"uniform":    sem.Uniform,
	"storage_ro": sem.StorageRO,
	"storage_rw": sem.StorageRW,
	"override":   sem.Override,
	"invocation": sem.PerInvocationBuiltin,
	"group":      sem.GroupUniformBuiltin,
}

var unaryOps = map[string]sem.UnaryOperator{
	"!": sem.OpNot,
	"-": sem.OpNegate,
	"~": sem.OpComplement,
}

var binaryOps = map[string]sem.BinaryOperator{
	"+":  sem.OpAdd,
	"-":  sem.OpSub,
	"*":  sem.OpMul,
	"/":  sem.OpDiv,
	"%":  sem.OpMod,
	"&":  sem.OpBitAnd,
	"|":  sem.OpBitOr,
	"^":  sem.OpBitXor,
	"<<": sem.OpShl,
	">>": sem.OpShr,
	"==": sem.OpEQ,
	"!=": sem.OpNE,
	"<":  sem.OpLT,
	">":  sem.OpGT,
	"<=": sem.OpLE,
	">=": sem.OpGE,
	"&&": sem.OpLogicalAnd,
	"||": sem.OpLogicalOr,
}

// Decode reads one function document from r.
func Decode(r io.Reader) (*sem.Function, error) {
	var doc struct {
		Function string      `yaml:"function"`
		Structs  []yaml.Node `yaml:"structs"`
		Globals  []yaml.Node `yaml:"globals"`
		Params   []yaml.Node `yaml:"params"`
		Body     []yaml.Node `yaml:"body"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "%v", ErrBadDocument)
	}
	d := &decoder{
		structs: map[string]*sem.Struct{},
		symbols: map[string]sem.Expression{},
	}
	for _, n := range doc.Structs {
		if err := d.declStruct(&n); err != nil {
			return nil, err
		}
	}
	fn := &sem.Function{Name: doc.Function}
	if fn.Name == "" {
		fn.Name = "main"
	}
	for _, n := range doc.Globals {
		if err := d.declGlobal(&n); err != nil {
			return nil, err
		}
	}
	for _, n := range doc.Params {
		p, err := d.declParam(&n)
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, p)
	}
	body, err := d.block(doc.Body)
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

type decoder struct {
	structs map[string]*sem.Struct
	symbols map[string]sem.Expression
}

func at(n *yaml.Node, msg string, args ...interface{}) error {
	return fmt.Errorf("line %d: %v: %w", n.Line, fmt.Sprintf(msg, args...), ErrBadDocument)
}

func (d *decoder) declStruct(n *yaml.Node) error {
	var spec struct {
		Name   string `yaml:"name"`
		Fields []struct {
			Name string    `yaml:"name"`
			Type yaml.Node `yaml:"type"`
		} `yaml:"fields"`
	}
	if err := n.Decode(&spec); err != nil {
		return at(n, "struct: %v", err)
	}
	st := &sem.Struct{Name: spec.Name}
	for _, f := range spec.Fields {
		ty, err := d.typeOf(&f.Type)
		if err != nil {
			return err
		}
		st.Fields = append(st.Fields, &sem.Field{Name: f.Name, Type: ty})
	}
	d.structs[st.Name] = st
	return nil
}

type bindingSpec struct {
	Name  string    `yaml:"name"`
	Type  yaml.Node `yaml:"type"`
	Class string    `yaml:"class"`
}

func (d *decoder) binding(n *yaml.Node) (string, sem.Type, sem.Class, error) {
	var spec bindingSpec
	if err := n.Decode(&spec); err != nil {
		return "", nil, 0, at(n, "binding: %v", err)
	}
	ty, err := d.typeOf(&spec.Type)
	if err != nil {
		return "", nil, 0, err
	}
	class, ok := classes[spec.Class]
	if !ok {
		return "", nil, 0, at(n, "unknown binding class %q", spec.Class)
	}
	return spec.Name, ty, class, nil
}

func (d *decoder) declGlobal(n *yaml.Node) error {
	name, ty, class, err := d.binding(n)
	if err != nil {
		return err
	}
	d.symbols[name] = &sem.Global{Name: name, Type: ty, Class: class}
	return nil
}

func (d *decoder) declParam(n *yaml.Node) (*sem.Param, error) {
	name, ty, class, err := d.binding(n)
	if err != nil {
		return nil, err
	}
	p := &sem.Param{Name: name, Type: ty, Class: class}
	d.symbols[name] = p
	return p, nil
}

func (d *decoder) typeOf(n *yaml.Node) (sem.Type, error) {
	if n.Kind == yaml.ScalarNode {
		switch n.Value {
		case "bool":
			return sem.Bool, nil
		case "i32":
			return sem.I32, nil
		case "u32":
			return sem.U32, nil
		case "f32":
			return sem.F32, nil
		}
		if st, ok := d.structs[n.Value]; ok {
			return st, nil
		}
		return nil, at(n, "unknown type %q", n.Value)
	}
	var spec struct {
		Array *struct {
			Elem  yaml.Node `yaml:"elem"`
			Count int       `yaml:"count"`
		} `yaml:"array"`
		Ptr yaml.Node `yaml:"ptr"`
	}
	if err := n.Decode(&spec); err != nil {
		return nil, at(n, "type: %v", err)
	}
	switch {
	case spec.Array != nil:
		elem, err := d.typeOf(&spec.Array.Elem)
		if err != nil {
			return nil, err
		}
		return &sem.Array{Elem: elem, Count: spec.Array.Count}, nil
	case spec.Ptr.Kind != 0:
		to, err := d.typeOf(&spec.Ptr)
		if err != nil {
			return nil, err
		}
		return &sem.Pointer{To: to}, nil
	default:
		return nil, at(n, "unknown type form")
	}
}

func parseLocation(s string) (sem.Location, error) {
	loc := sem.Location{}
	if s == "" {
		return loc, nil
	}
	if _, err := fmt.Sscanf(s, "%d:%d", &loc.Line, &loc.Column); err != nil {
		return loc, errors.Wrapf(err, "location %q", s)
	}
	return loc, nil
}

// singleKey unpacks a mapping node of exactly one entry, the form every
// polymorphic node uses.
func singleKey(n *yaml.Node) (string, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, at(n, "expected a single-key mapping")
	}
	return n.Content[0].Value, n.Content[1], nil
}
