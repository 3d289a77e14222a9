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
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gfxtool/wgslint/wgsl/sem"
)

func (d *decoder) block(ns []yaml.Node) (*sem.Block, error) {
	b := &sem.Block{}
	for i := range ns {
		s, err := d.stmt(&ns[i])
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	return b, nil
}

func (d *decoder) optBlock(ns []yaml.Node) (*sem.Block, error) {
	if ns == nil {
		return nil, nil
	}
	return d.block(ns)
}

func (d *decoder) stmt(n *yaml.Node) (sem.Statement, error) {
	if n.Kind == yaml.ScalarNode {
		switch n.Value {
		case "break":
			return &sem.Break{}, nil
		case "continue":
			return &sem.Continue{}, nil
		case "return":
			return &sem.Return{}, nil
		}
		return nil, at(n, "unknown statement %q", n.Value)
	}
	key, val, err := singleKey(n)
	if err != nil {
		return nil, err
	}
	switch key {
	case "var":
		var spec struct {
			Name string    `yaml:"name"`
			Type yaml.Node `yaml:"type"`
			Init yaml.Node `yaml:"init"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "var: %v", err)
		}
		ty, err := d.typeOf(&spec.Type)
		if err != nil {
			return nil, err
		}
		l := &sem.Local{Name: spec.Name, Type: ty}
		decl := &sem.DeclareLocal{Local: l}
		if spec.Init.Kind != 0 {
			if decl.Value, err = d.expr(&spec.Init); err != nil {
				return nil, err
			}
		}
		d.symbols[spec.Name] = l
		return decl, nil

	case "assign":
		var spec struct {
			LHS yaml.Node `yaml:"lhs"`
			Op  string    `yaml:"op"`
			RHS yaml.Node `yaml:"rhs"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "assign: %v", err)
		}
		a := &sem.Assign{Op: sem.OpNone}
		if spec.Op != "" {
			op, ok := binaryOps[strings.TrimSuffix(spec.Op, "=")]
			if !ok {
				return nil, at(val, "unknown assignment operator %q", spec.Op)
			}
			a.Op = op
		}
		if a.LHS, err = d.expr(&spec.LHS); err != nil {
			return nil, err
		}
		if a.RHS, err = d.expr(&spec.RHS); err != nil {
			return nil, err
		}
		return a, nil

	case "if":
		var spec struct {
			Cond yaml.Node   `yaml:"cond"`
			Then []yaml.Node `yaml:"then"`
			Else []yaml.Node `yaml:"else"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "if: %v", err)
		}
		s := &sem.If{}
		if s.Cond, err = d.expr(&spec.Cond); err != nil {
			return nil, err
		}
		if s.Then, err = d.block(spec.Then); err != nil {
			return nil, err
		}
		if s.Else, err = d.optBlock(spec.Else); err != nil {
			return nil, err
		}
		return s, nil

	case "switch":
		var spec struct {
			Selector yaml.Node `yaml:"selector"`
			Cases    []struct {
				Conds []yaml.Node `yaml:"conds"`
				Body  []yaml.Node `yaml:"body"`
			} `yaml:"cases"`
			Default []yaml.Node `yaml:"default"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "switch: %v", err)
		}
		s := &sem.Switch{}
		if s.Selector, err = d.expr(&spec.Selector); err != nil {
			return nil, err
		}
		for i := range spec.Cases {
			c := &sem.Case{}
			for j := range spec.Cases[i].Conds {
				e, err := d.expr(&spec.Cases[i].Conds[j])
				if err != nil {
					return nil, err
				}
				c.Conds = append(c.Conds, e)
			}
			if c.Block, err = d.block(spec.Cases[i].Body); err != nil {
				return nil, err
			}
			s.Cases = append(s.Cases, c)
		}
		if s.Default, err = d.optBlock(spec.Default); err != nil {
			return nil, err
		}
		return s, nil

	case "loop":
		var spec struct {
			Body       []yaml.Node `yaml:"body"`
			Continuing *struct {
				Body    []yaml.Node `yaml:"body"`
				BreakIf yaml.Node   `yaml:"break_if"`
			} `yaml:"continuing"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "loop: %v", err)
		}
		s := &sem.Loop{}
		if s.Body, err = d.block(spec.Body); err != nil {
			return nil, err
		}
		if spec.Continuing != nil {
			c := &sem.Continuing{}
			if c.Block, err = d.block(spec.Continuing.Body); err != nil {
				return nil, err
			}
			if spec.Continuing.BreakIf.Kind != 0 {
				if c.BreakIf, err = d.expr(&spec.Continuing.BreakIf); err != nil {
					return nil, err
				}
			}
			s.Continuing = c
		}
		return s, nil

	case "for":
		var spec struct {
			Init   yaml.Node   `yaml:"init"`
			Cond   yaml.Node   `yaml:"cond"`
			Update yaml.Node   `yaml:"update"`
			Body   []yaml.Node `yaml:"body"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "for: %v", err)
		}
		s := &sem.ForLoop{}
		if spec.Init.Kind != 0 {
			if s.Init, err = d.stmt(&spec.Init); err != nil {
				return nil, err
			}
		}
		if spec.Cond.Kind != 0 {
			if s.Cond, err = d.expr(&spec.Cond); err != nil {
				return nil, err
			}
		}
		if spec.Update.Kind != 0 {
			if s.Update, err = d.stmt(&spec.Update); err != nil {
				return nil, err
			}
		}
		if s.Body, err = d.block(spec.Body); err != nil {
			return nil, err
		}
		return s, nil

	case "while":
		var spec struct {
			Cond yaml.Node   `yaml:"cond"`
			Body []yaml.Node `yaml:"body"`
		}
		if err := val.Decode(&spec); err != nil {
			return nil, at(val, "while: %v", err)
		}
		s := &sem.While{}
		if s.Cond, err = d.expr(&spec.Cond); err != nil {
			return nil, err
		}
		if s.Body, err = d.block(spec.Body); err != nil {
			return nil, err
		}
		return s, nil

	case "return":
		e, err := d.expr(val)
		if err != nil {
			return nil, err
		}
		return &sem.Return{Value: e}, nil

	case "expr", "call":
		// `call` is shorthand for an expression statement holding a call.
		var e sem.Expression
		if key == "call" {
			e, err = d.expr(n)
		} else {
			e, err = d.expr(val)
		}
		if err != nil {
			return nil, err
		}
		return &sem.ExprStmt{Expr: e}, nil

	default:
		return nil, at(n, "unknown statement form %q", key)
	}
}
