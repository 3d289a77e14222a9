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
	"context"
	"fmt"

	"github.com/gfxtool/wgslint/core/fault"
	"github.com/gfxtool/wgslint/core/log"
	"github.com/gfxtool/wgslint/wgsl/builtin"
	"github.com/gfxtool/wgslint/wgsl/sem"
)

// ErrMalformedInput is wrapped by every error reported for a statement tree
// the analysis cannot process: writes to read-only bindings, loop-exit
// statements outside a loop, dereferences of non-pointers, and the like.
// These are defects of the host compiler building the tree, never of the
// shader, and abort the analysis.
const ErrMalformedInput = fault.Const("malformed input tree")

// maxLoopPasses bounds the back-edge iteration of a single loop. The
// lattice has two points and values only move downwards between passes, so
// every loop stabilizes within the bound.
const maxLoopPasses = 3

// Analyze walks fn and returns a verdict for every collective-operation
// call site reached. registry resolves callee names; nil means
// builtin.Default(). The returned error is non-nil only for malformed input
// or an unknown callee, in which case the results are withheld.
func Analyze(ctx context.Context, fn *sem.Function, registry builtin.Registry) (*Results, error) {
	if registry == nil {
		registry = builtin.Default()
	}
	ctx = log.V{"function": fn.Name}.Bind(ctx)
	sh := &shared{
		ctx:      ctx,
		fn:       fn,
		registry: registry,
		verdicts: map[*sem.Call]*Verdict{},
	}
	root := &scope{shared: sh, values: map[stateKey]Value{}, exec: Uniform}
	if fn.Body != nil {
		root.traverse(fn.Body)
	}
	if err := sh.fail.First(); err != nil {
		return nil, err
	}
	out := &Results{Verdicts: make([]Verdict, 0, len(sh.order))}
	for _, c := range sh.order {
		out.Verdicts = append(out.Verdicts, *sh.verdicts[c])
	}
	sortVerdicts(out.Verdicts)
	return out, nil
}

func (s *scope) traverse(n sem.Statement) {
	if s.failed() || s.exit != exitNone {
		return
	}
	switch n := n.(type) {
	case *sem.Block:
		for _, c := range n.Stmts {
			if s.failed() || s.exit != exitNone {
				return
			}
			s.traverse(c)
		}

	case *sem.DeclareLocal:
		v := defaultValue(n.Local)
		if n.Value != nil {
			v = conform(s.valueOf(n.Value), n.Local.Type).gate(s.exec)
		}
		s.values[n.Local] = v

	case *sem.Assign:
		s.assign(n)

	case *sem.If:
		condTag := s.valueOf(n.Cond).TagOf()
		flows := []*scope{}
		ts := s.push()
		ts.exec = Meet(s.exec, condTag)
		ts.traverse(n.Then)
		if ts.exit == exitNone {
			flows = append(flows, ts)
		}
		es := s.push()
		es.exec = Meet(s.exec, condTag)
		if n.Else != nil {
			es.traverse(n.Else)
		}
		if es.exit == exitNone {
			flows = append(flows, es)
		}
		s.joinBranches(2, flows...)

	case *sem.Switch:
		selTag := s.valueOf(n.Selector).TagOf()
		arms := len(n.Cases) + 1 // cases plus the (possibly implicit) default
		flows := []*scope{}
		for _, c := range n.Cases {
			cs := s.push()
			cs.exec = Meet(s.exec, selTag)
			cs.traverse(c.Block)
			if cs.exit == exitNone {
				flows = append(flows, cs)
			}
		}
		ds := s.push()
		ds.exec = Meet(s.exec, selTag)
		if n.Default != nil {
			ds.traverse(n.Default)
		}
		if ds.exit == exitNone {
			flows = append(flows, ds)
		}
		s.joinBranches(arms, flows...)

	case *sem.Loop:
		s.analyzeLoop(n)

	case *sem.ForLoop:
		fs := s.push()
		if n.Init != nil {
			fs.traverse(n.Init)
		}
		body := []sem.Statement{}
		if n.Cond != nil {
			body = append(body, breakUnless(n.Cond))
		}
		body = append(body, n.Body.Stmts...)
		var cont *sem.Continuing
		if n.Update != nil {
			cont = &sem.Continuing{Block: &sem.Block{Stmts: []sem.Statement{n.Update}}}
		}
		fs.traverse(&sem.Loop{Body: &sem.Block{Stmts: body}, Continuing: cont})
		s.adopt(fs)

	case *sem.While:
		body := append([]sem.Statement{breakUnless(n.Cond)}, n.Body.Stmts...)
		s.analyzeLoop(&sem.Loop{Body: &sem.Block{Stmts: body}})

	case *sem.Break:
		if s.frame == nil {
			s.fail(fmt.Errorf("break outside loop: %w", ErrMalformedInput))
			return
		}
		s.exit = exitBreak
		s.frame.breaks = append(s.frame.breaks, s.flatten(s.frame.base))

	case *sem.Continue:
		if s.frame == nil {
			s.fail(fmt.Errorf("continue outside loop: %w", ErrMalformedInput))
			return
		}
		s.exit = exitContinue
		s.frame.continues = append(s.frame.continues, s.flatten(s.frame.base))

	case *sem.Return:
		if n.Value != nil {
			s.valueOf(n.Value)
		}
		s.exit = exitReturn
		for f := s.frame; f != nil; f = f.parent {
			f.sawReturn = true
		}

	case *sem.ExprStmt:
		s.valueOf(n.Expr)

	default:
		s.fail(fmt.Errorf("statement %T: %w", n, ErrMalformedInput))
	}
}

// breakUnless builds the implicit loop guard of a for or while condition.
func breakUnless(cond sem.Expression) sem.Statement {
	return &sem.If{
		Cond: &sem.Unary{Op: sem.OpNot, X: cond},
		Then: &sem.Block{Stmts: []sem.Statement{&sem.Break{}}},
	}
}

func (s *scope) assign(n *sem.Assign) {
	rhs := s.valueOf(n.RHS)
	r, ok := s.resolveRef(n.LHS)
	if !ok {
		return
	}
	v := rhs
	if n.Op != sem.OpNone {
		// Compound assignment reads the old value; the result keeps the
		// target's shape with the operand's tag folded in.
		v = s.readRef(r).gate(rhs.TagOf())
	}
	s.writeRef(r, v)
}

// analyzeLoop iterates the loop body until the state at the loop header
// stops changing, then merges every break state into s. The back edge
// carries the meet of the continuing states; a BreakIf condition gates the
// execution uniformity of the invocations that loop again.
func (s *scope) analyzeLoop(n *sem.Loop) {
	frame := &loopFrame{parent: s.frame, base: s}
	var carry *state
	for pass := 0; pass < maxLoopPasses; pass++ {
		frame.reset()
		it := s.push()
		it.frame = frame
		if carry != nil {
			it.apply(carry)
		}
		it.traverse(n.Body)
		if s.failed() {
			return
		}

		contStates := frame.continues
		if it.exit == exitNone {
			contStates = append(contStates, it.flatten(s))
		}
		if len(contStates) == 0 {
			// The back edge is dead: the loop runs a single iteration.
			break
		}
		back := joinStates(s, contStates...)

		if n.Continuing != nil {
			cs := s.push()
			cs.frame = nil // break and continue are invalid in a continuing block
			cs.apply(back)
			cs.traverse(n.Continuing.Block)
			if s.failed() {
				return
			}
			back = cs.flatten(s)
			if n.Continuing.BreakIf != nil {
				// Both the exiting and the looping invocations are selected
				// by the condition, so its tag gates both edges.
				bt := cs.valueOf(n.Continuing.BreakIf).TagOf()
				exit := cs.flatten(s)
				exit.exec = Meet(exit.exec, bt)
				frame.breaks = append(frame.breaks, exit)
				back.exec = Meet(back.exec, bt)
			}
		}

		// Join the back edge with the loop-entry state to form the next
		// header state.
		next := &state{values: map[stateKey]Value{}, exec: Meet(back.exec, s.exec)}
		for k, v := range back.values {
			next.values[k] = v.Join(s.get(k))
		}
		if carry != nil && carry.equal(next, s) {
			break
		}
		carry = next
	}

	if len(frame.breaks) == 0 {
		s.exit = exitUnreachable
		return
	}
	pre := s.exec
	s.apply(joinStates(s, frame.breaks...))
	if !frame.sawReturn {
		// All exits are breaks, so every invocation that entered the loop
		// reaches this join and the pre-loop execution state reconverges.
		s.exec = pre
	}
}

func (s *scope) valueOf(e sem.Expression) Value {
	switch e := e.(type) {
	case *sem.Literal:
		return ScalarValue{Uniform}

	case *sem.Local, *sem.Global, *sem.Param:
		return s.get(e)

	case *sem.Unary:
		return ScalarValue{s.valueOf(e.X).TagOf()}

	case *sem.Binary:
		lhs := s.valueOf(e.LHS)
		if e.Op.ShortCircuit() {
			// The right operand only runs for invocations whose left operand
			// selected it, so it evaluates under execution gated by the left.
			rs := s.push()
			rs.exec = Meet(s.exec, lhs.TagOf())
			rhs := rs.valueOf(e.RHS)
			return ScalarValue{Meet(lhs.TagOf(), rhs.TagOf())}
		}
		rhs := s.valueOf(e.RHS)
		return ScalarValue{Meet(lhs.TagOf(), rhs.TagOf())}

	case *sem.Index:
		base := s.valueOf(e.Base)
		idx := s.valueOf(e.Index).TagOf()
		if a, ok := base.(ArrayValue); ok {
			return a.Elem.gate(idx)
		}
		return ScalarValue{Meet(base.TagOf(), idx)}

	case *sem.Member:
		base := s.valueOf(e.Base)
		if c, ok := base.(CompositeValue); ok {
			if f, ok := c.Fields[e.Field]; ok {
				return f
			}
		}
		return ScalarValue{base.TagOf()}

	case *sem.Call:
		return s.call(e)

	case *sem.Construct:
		return s.construct(e)

	case *sem.AddressOf:
		r, ok := s.resolveRef(e.X)
		if !ok {
			return ScalarValue{Divergent}
		}
		return PointerValue{Addr: r.addr, Targets: r.targets}

	case *sem.Deref:
		r, ok := s.resolveRef(e)
		if !ok {
			return ScalarValue{Divergent}
		}
		return s.readRef(r)

	default:
		s.fail(fmt.Errorf("expression %T: %w", e, ErrMalformedInput))
		return ScalarValue{Divergent}
	}
}

func (s *scope) call(n *sem.Call) Value {
	sig, err := s.shared.registry.Lookup(n.Callee)
	if err != nil {
		s.fail(err)
		return ScalarValue{Divergent}
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = s.valueOf(a)
	}
	if sig.Collective {
		s.checkCollective(n, sig, args)
	}
	if sig.ReturnsUniform {
		return ScalarValue{Uniform}
	}
	t := Uniform
	for _, a := range args {
		t = Meet(t, a.TagOf())
	}
	return ScalarValue{t}
}

// checkCollective records (or tightens) the verdict for a collective call
// site. A site reached under several states keeps the meet, so a single
// divergent reaching state decides the verdict.
func (s *scope) checkCollective(n *sem.Call, sig builtin.Signature, args []Value) {
	v := s.shared.verdicts[n]
	if v == nil {
		v = &Verdict{Call: n, At: n.At, Exec: Uniform, Derivative: sig.Derivative}
		s.shared.verdicts[n] = v
		s.shared.order = append(s.shared.order, n)
	}
	v.Exec = Meet(v.Exec, s.exec)
	for _, i := range sig.UniformArgs {
		if i >= len(args) {
			s.fail(fmt.Errorf("%v: argument %d missing: %w", n.Callee, i, ErrMalformedInput))
			return
		}
		if args[i].TagOf() == Divergent {
			v.addArg(i)
		}
	}
	log.D(s.shared.ctx, "%v at %v: exec %v, non-uniform args %v",
		n.Callee, n.At, v.Exec, v.NonUniformArgs)
}

func (s *scope) construct(n *sem.Construct) Value {
	vals := make([]Value, len(n.Args))
	for i, a := range n.Args {
		vals[i] = s.valueOf(a)
	}
	switch ty := n.Type.(type) {
	case *sem.Struct:
		fields := make(map[string]Value, len(ty.Fields))
		for i, f := range ty.Fields {
			if i < len(vals) {
				fields[f.Name] = conform(vals[i], f.Type)
			} else {
				fields[f.Name] = valueFor(f.Type, Uniform)
			}
		}
		return CompositeValue{Fields: fields}
	case *sem.Array:
		t := Uniform
		for _, v := range vals {
			t = Meet(t, v.TagOf())
		}
		return ArrayValue{Elem: valueFor(ty.Elem, t)}
	default:
		t := Uniform
		for _, v := range vals {
			t = Meet(t, v.TagOf())
		}
		return ScalarValue{t}
	}
}

// conform coerces v to the shape of ty, keeping per-member tags when the
// shapes already agree.
func conform(v Value, ty sem.Type) Value {
	switch ty := ty.(type) {
	case *sem.Struct:
		if c, ok := v.(CompositeValue); ok {
			return c
		}
		return valueFor(ty, v.TagOf())
	case *sem.Array:
		if a, ok := v.(ArrayValue); ok {
			return a
		}
		return valueFor(ty, v.TagOf())
	case *sem.Pointer:
		if p, ok := v.(PointerValue); ok {
			return p
		}
		return valueFor(ty, v.TagOf())
	default:
		return ScalarValue{v.TagOf()}
	}
}

// ref is a resolved reference chain: the storage locations it may designate
// and the uniformity of the designated address.
type ref struct {
	targets []Target
	addr    Tag
}

// resolveRef resolves an addressable expression: an assignment target, an
// AddressOf operand, or a Deref. On malformed input it records the failure
// and returns ok == false.
func (s *scope) resolveRef(e sem.Expression) (ref, bool) {
	switch e := e.(type) {
	case *sem.Local:
		return ref{targets: []Target{{Root: e}}, addr: Uniform}, true

	case *sem.Global:
		return ref{targets: []Target{{Root: e}}, addr: Uniform}, true

	case *sem.Member:
		r, ok := s.resolveRef(e.Base)
		if !ok {
			return ref{}, false
		}
		return r.extend(e.Field, Uniform), true

	case *sem.Index:
		r, ok := s.resolveRef(e.Base)
		if !ok {
			return ref{}, false
		}
		return r.extend("[]", s.valueOf(e.Index).TagOf()), true

	case *sem.Deref:
		p, ok := s.valueOf(e.X).(PointerValue)
		if !ok {
			s.fail(fmt.Errorf("dereference of non-pointer: %w", ErrMalformedInput))
			return ref{}, false
		}
		return ref{targets: p.Targets, addr: p.Addr}, true

	default:
		s.fail(fmt.Errorf("reference %T: %w", e, ErrMalformedInput))
		return ref{}, false
	}
}

// extend appends one access step to every target. t is the uniformity the
// step contributes to the address: Uniform for a field access, the index
// tag for an element access.
func (r ref) extend(step string, t Tag) ref {
	targets := make([]Target, len(r.targets))
	for i, tg := range r.targets {
		path := append(append([]string{}, tg.Path...), step)
		targets[i] = Target{Root: tg.Root, Path: path}
	}
	return ref{targets: targets, addr: Meet(r.addr, t)}
}

// readRef reads the join over everything the reference may designate, gated
// by the address uniformity: a divergent address reads a divergent value
// even from uniform storage.
func (s *scope) readRef(r ref) Value {
	var out Value
	for _, t := range r.targets {
		leaf := leafValue(s.get(t.Root), t.Path)
		if out == nil {
			out = leaf
		} else {
			out = out.Join(leaf)
		}
	}
	if out == nil {
		return ScalarValue{Divergent}
	}
	return out.gate(r.addr)
}

// writeRef stores v through the reference. The stored value is gated by the
// address uniformity and the ambient execution uniformity: a write that
// only some invocations perform leaves the target divergent. A single
// target is updated strongly; multiple possible targets each keep their old
// value joined in.
func (s *scope) writeRef(r ref, v Value) {
	gated := v.gate(Meet(r.addr, s.exec))
	for _, t := range r.targets {
		root := s.get(t.Root)
		upd := gated
		if len(r.targets) > 1 {
			upd = upd.Join(leafValue(root, t.Path))
		}
		s.set(t.Root, setLeaf(root, t.Path, upd))
	}
}

// leafValue navigates an access path through a value.
func leafValue(v Value, path []string) Value {
	for _, p := range path {
		switch t := v.(type) {
		case CompositeValue:
			f, ok := t.Fields[p]
			if !ok {
				return ScalarValue{t.TagOf()}
			}
			v = f
		case ArrayValue:
			v = t.Elem
		default:
			return ScalarValue{v.TagOf()}
		}
	}
	return v
}

// setLeaf returns v with the value at path replaced by leaf. Array steps
// merge into the element summary rather than replacing it, as the written
// element is not distinguished from its neighbors.
func setLeaf(v Value, path []string, leaf Value) Value {
	if len(path) == 0 {
		return leaf
	}
	switch t := v.(type) {
	case CompositeValue:
		f, ok := t.Fields[path[0]]
		if !ok {
			f = ScalarValue{Uniform}
		}
		return t.withField(path[0], setLeaf(f, path[1:], leaf))
	case ArrayValue:
		return ArrayValue{Elem: setLeaf(t.Elem, path[1:], leaf).Join(t.Elem)}
	default:
		return leaf
	}
}
