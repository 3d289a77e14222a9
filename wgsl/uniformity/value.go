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

// Value is the analysis representation of a variable or expression result.
//
// Composites track one tag per addressable leaf so that partial writes are
// merged member-by-member; arrays are summarized by a single element value.
// Values are immutable: all transformation methods return a new value.
type Value interface {
	// TagOf returns the meet over all the value's leaves.
	TagOf() Tag
	// Join returns the merge of this value and v at a control-flow join.
	Join(v Value) Value
	// Equivalent returns true iff this and v are the same abstract value.
	Equivalent(v Value) bool
	// gate returns the value with every leaf met with t.
	gate(t Tag) Value
}

// ScalarValue is the Value of a non-composite.
type ScalarValue struct {
	Tag Tag
}

func (v ScalarValue) TagOf() Tag    { return v.Tag }
func (v ScalarValue) String() string { return v.Tag.String() }

func (v ScalarValue) Join(o Value) Value {
	return ScalarValue{Meet(v.Tag, o.TagOf())}
}

func (v ScalarValue) Equivalent(o Value) bool {
	s, ok := o.(ScalarValue)
	return ok && s.Tag == v.Tag
}

func (v ScalarValue) gate(t Tag) Value { return ScalarValue{Meet(v.Tag, t)} }

// CompositeValue is the Value of a struct, tracked per field.
type CompositeValue struct {
	Fields map[string]Value
}

func (v CompositeValue) TagOf() Tag {
	for _, f := range v.Fields {
		if f.TagOf() == Divergent {
			return Divergent
		}
	}
	return Uniform
}

func (v CompositeValue) String() string {
	names := make([]string, 0, len(v.Fields))
	for n := range v.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%v: %v", n, v.Fields[n])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v CompositeValue) Join(o Value) Value {
	c, ok := o.(CompositeValue)
	if !ok {
		return ScalarValue{Meet(v.TagOf(), o.TagOf())}
	}
	fields := make(map[string]Value, len(v.Fields))
	for n, f := range v.Fields {
		if g, ok := c.Fields[n]; ok {
			fields[n] = f.Join(g)
		} else {
			fields[n] = f.gate(Divergent)
		}
	}
	return CompositeValue{Fields: fields}
}

func (v CompositeValue) Equivalent(o Value) bool {
	c, ok := o.(CompositeValue)
	if !ok || len(c.Fields) != len(v.Fields) {
		return false
	}
	for n, f := range v.Fields {
		g, ok := c.Fields[n]
		if !ok || !f.Equivalent(g) {
			return false
		}
	}
	return true
}

func (v CompositeValue) gate(t Tag) Value {
	if t == Uniform {
		return v
	}
	fields := make(map[string]Value, len(v.Fields))
	for n, f := range v.Fields {
		fields[n] = f.gate(t)
	}
	return CompositeValue{Fields: fields}
}

// withField returns a copy of v with the named field replaced.
func (v CompositeValue) withField(name string, f Value) CompositeValue {
	fields := make(map[string]Value, len(v.Fields))
	for n, g := range v.Fields {
		fields[n] = g
	}
	fields[name] = f
	return CompositeValue{Fields: fields}
}

// ArrayValue is the Value of an array, summarized by one element value.
// Indices are dynamic, so individual elements are not distinguished: a
// write merges into the summary, and only a whole-array assignment can
// restore a uniform summary.
type ArrayValue struct {
	Elem Value
}

func (v ArrayValue) TagOf() Tag     { return v.Elem.TagOf() }
func (v ArrayValue) String() string { return fmt.Sprintf("[%v]", v.Elem) }

func (v ArrayValue) Join(o Value) Value {
	a, ok := o.(ArrayValue)
	if !ok {
		return ScalarValue{Meet(v.TagOf(), o.TagOf())}
	}
	return ArrayValue{Elem: v.Elem.Join(a.Elem)}
}

func (v ArrayValue) Equivalent(o Value) bool {
	a, ok := o.(ArrayValue)
	return ok && v.Elem.Equivalent(a.Elem)
}

func (v ArrayValue) gate(t Tag) Value {
	if t == Uniform {
		return v
	}
	return ArrayValue{Elem: v.Elem.gate(t)}
}

// PointerValue is the Value of a pointer-typed binding. Addr is the address
// uniformity: whether the pointer designates the same storage cell for
// every invocation. Targets is the set of storage references the pointer
// may designate; aliases share targets, so a write through one alias is
// observed through every other.
type PointerValue struct {
	Addr    Tag
	Targets []Target
}

// Target is one storage location a pointer may designate: a root binding
// and an access path of field names and array-element markers.
type Target struct {
	// Root is the *sem.Local or *sem.Global whose storage is designated.
	Root sem.Node
	// Path is the access chain below Root: field names, with "[]" standing
	// for any array element.
	Path []string
}

func (t Target) key() string {
	return fmt.Sprintf("%p/%v", t.Root, strings.Join(t.Path, "."))
}

func (v PointerValue) TagOf() Tag { return v.Addr }

func (v PointerValue) String() string {
	return fmt.Sprintf("ptr(%v, %d targets)", v.Addr, len(v.Targets))
}

func (v PointerValue) Join(o Value) Value {
	p, ok := o.(PointerValue)
	if !ok {
		return ScalarValue{Meet(v.TagOf(), o.TagOf())}
	}
	seen := map[string]struct{}{}
	targets := []Target{}
	for _, t := range append(append([]Target{}, v.Targets...), p.Targets...) {
		k := t.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		targets = append(targets, t)
	}
	return PointerValue{Addr: Meet(v.Addr, p.Addr), Targets: targets}
}

func (v PointerValue) Equivalent(o Value) bool {
	p, ok := o.(PointerValue)
	if !ok || p.Addr != v.Addr || len(p.Targets) != len(v.Targets) {
		return false
	}
	keys := map[string]struct{}{}
	for _, t := range v.Targets {
		keys[t.key()] = struct{}{}
	}
	for _, t := range p.Targets {
		if _, ok := keys[t.key()]; !ok {
			return false
		}
	}
	return true
}

func (v PointerValue) gate(t Tag) Value {
	return PointerValue{Addr: Meet(v.Addr, t), Targets: v.Targets}
}

// valueFor builds the Value shape for a binding of type ty with every leaf
// set to tag.
func valueFor(ty sem.Type, tag Tag) Value {
	switch ty := ty.(type) {
	case *sem.Struct:
		fields := make(map[string]Value, len(ty.Fields))
		for _, f := range ty.Fields {
			fields[f.Name] = valueFor(f.Type, tag)
		}
		return CompositeValue{Fields: fields}
	case *sem.Array:
		return ArrayValue{Elem: valueFor(ty.Elem, tag)}
	case *sem.Pointer:
		return PointerValue{Addr: tag}
	default:
		return ScalarValue{Tag: tag}
	}
}
