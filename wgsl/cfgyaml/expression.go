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

package cfgyaml

import (
	"gopkg.in/yaml.v3"

	"github.com/gfxtool/wgslint/wgsl/sem"
)

func (d *decoder) expr(n *yaml.Node) (sem.Expression, error) {
	if n.Kind == yaml.ScalarNode {
		if e, ok := d.symbols[n.Value]; ok {
			return e, nil
		}
		return &sem.Literal{Text: n.Value}, nil
	}
	key, val, err := singleKey(n)
	if err != nil {
		return nil, err
	}
	switch key {
	case "lit":
		return &sem.Literal{Text: val.Value}, nil

	case "ref":
		e, ok := d.symbols[val.Value]
		if !ok {
			return nil, at(val, "unknown binding %q", val.Value)
		}
		return e, nil

	case "unary":
		var spec struct {
			Op string    `yaml:"op"`
			X  yaml.Node `yaml:"x"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "unary: %v", err)
		}
		op, ok := unaryOps[spec.Op]
		if !ok {
			return nil, at(val, "unknown unary operator %q", spec.Op)
		}
		x, err := d.expr(&spec.X)
		if err != nil {
			return nil, err
		}
		return &sem.Unary{Op: op, X: x}, nil

	case "binary":
		var spec struct {
			Op  string    `yaml:"op"`
			LHS yaml.Node `yaml:"lhs"`
			RHS yaml.Node `yaml:"rhs"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "binary: %v", err)
		}
		op, ok := binaryOps[spec.Op]
		if !ok {
			return nil, at(val, "unknown binary operator %q", spec.Op)
		}
		lhs, err := d.expr(&spec.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := d.expr(&spec.RHS)
		if err != nil {
			return nil, err
		}
		return &sem.Binary{Op: op, LHS: lhs, RHS: rhs}, nil

	case "index":
		var spec struct {
			Base  yaml.Node `yaml:"base"`
			Index yaml.Node `yaml:"index"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "index: %v", err)
		}
		base, err := d.expr(&spec.Base)
		if err != nil {
			return nil, err
		}
		idx, err := d.expr(&spec.Index)
		if err != nil {
			return nil, err
		}
		return &sem.Index{Base: base, Index: idx}, nil

	case "member":
		var spec struct {
			Base  yaml.Node `yaml:"base"`
			Field string    `yaml:"field"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "member: %v", err)
		}
		base, err := d.expr(&spec.Base)
		if err != nil {
			return nil, err
		}
		return &sem.Member{Base: base, Field: spec.Field}, nil

	case "call":
		var spec struct {
			Name string      `yaml:"name"`
			Args []yaml.Node `yaml:"args"`
			At   string      `yaml:"at"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "call: %v", err)
		}
		loc, err := parseLocation(spec.At)
		if err != nil {
			return nil, at(val, "call: %v", err)
		}
		c := &sem.Call{Callee: spec.Name, At: loc}
		for i := range spec.Args {
			a, err := d.expr(&spec.Args[i])
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, a)
		}
		return c, nil

	case "construct":
		var spec struct {
			Type yaml.Node   `yaml:"type"`
			Args []yaml.Node `yaml:"args"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "construct: %v", err)
		}
		ty, err := d.typeOf(&spec.Type)
		if err != nil {
			return nil, err
		}
		c := &sem.Construct{Type: ty}
		for i := range spec.Args {
			a, err := d.expr(&spec.Args[i])
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, a)
		}
		return c, nil

	case "addr":
		x, err := d.expr(val)
		if err != nil {
			return nil, err
		}
		return &sem.AddressOf{X: x}, nil

	case "deref":
		x, err := d.expr(val)
		if err != nil {
			return nil, err
		}
		return &sem.Deref{X: x}, nil

	default:
		return nil, at(n, "unknown expression form %q", key)
	}
}
