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

package uniformity_test

import (
	"context"
	"testing"

	"github.com/gfxtool/wgslint/core/assert"
	"github.com/gfxtool/wgslint/core/log"
	"github.com/gfxtool/wgslint/wgsl/sem"
	"github.com/gfxtool/wgslint/wgsl/uniformity"
)

// Tree construction shorthands. Each test builds its own nodes, as bindings
// are identified by pointer.

func fn(ss ...sem.Statement) *sem.Function {
	return &sem.Function{Name: "main", Body: blk(ss...)}
}
func blk(ss ...sem.Statement) *sem.Block { return &sem.Block{Stmts: ss} }
func lit(s string) *sem.Literal          { return &sem.Literal{Text: s} }

func local(name string, ty sem.Type) *sem.Local { return &sem.Local{Name: name, Type: ty} }
func global(name string, ty sem.Type, c sem.Class) *sem.Global {
	return &sem.Global{Name: name, Type: ty, Class: c}
}
func uniformG(name string) *sem.Global   { return global(name, sem.F32, sem.Uniform) }
func divergentG(name string) *sem.Global { return global(name, sem.U32, sem.PerInvocationBuiltin) }
func privateG(name string, ty sem.Type) *sem.Global { return global(name, ty, sem.Private) }

func gt(a, b sem.Expression) sem.Expression {
	return &sem.Binary{Op: sem.OpGT, LHS: a, RHS: b}
}
func and(a, b sem.Expression) sem.Expression {
	return &sem.Binary{Op: sem.OpLogicalAnd, LHS: a, RHS: b}
}
func or(a, b sem.Expression) sem.Expression {
	return &sem.Binary{Op: sem.OpLogicalOr, LHS: a, RHS: b}
}
func not(x sem.Expression) sem.Expression { return &sem.Unary{Op: sem.OpNot, X: x} }

func ix(base, idx sem.Expression) *sem.Index     { return &sem.Index{Base: base, Index: idx} }
func fld(base sem.Expression, f string) *sem.Member { return &sem.Member{Base: base, Field: f} }
func addr(x sem.Expression) *sem.AddressOf       { return &sem.AddressOf{X: x} }
func deref(x sem.Expression) *sem.Deref          { return &sem.Deref{X: x} }

func call(name string, args ...sem.Expression) *sem.Call {
	return &sem.Call{Callee: name, Args: args}
}
func stmt(e sem.Expression) sem.Statement    { return &sem.ExprStmt{Expr: e} }
func set(lhs, rhs sem.Expression) *sem.Assign { return &sem.Assign{LHS: lhs, RHS: rhs} }
func dec(l *sem.Local, v sem.Expression) *sem.DeclareLocal {
	return &sem.DeclareLocal{Local: l, Value: v}
}
func iff(cond sem.Expression, then ...sem.Statement) *sem.If {
	return &sem.If{Cond: cond, Then: blk(then...)}
}
func ifElse(cond sem.Expression, then, els *sem.Block) *sem.If {
	return &sem.If{Cond: cond, Then: then, Else: els}
}
func loop(ss ...sem.Statement) *sem.Loop { return &sem.Loop{Body: blk(ss...)} }
func loopC(c *sem.Continuing, ss ...sem.Statement) *sem.Loop {
	return &sem.Loop{Body: blk(ss...), Continuing: c}
}
func breakIf(cond sem.Expression, ss ...sem.Statement) *sem.Continuing {
	return &sem.Continuing{Block: blk(ss...), BreakIf: cond}
}

func analyze(ctx context.Context, f *sem.Function) *uniformity.Results {
	res, err := uniformity.Analyze(ctx, f, nil)
	assert.For(ctx, "Analyze").ThatError(err).Succeeded()
	return res
}

// collectivePermitted analyzes f and returns whether every collective call
// site it reached was permitted. A collective that was never reached does
// not count against the function.
func collectivePermitted(ctx context.Context, f *sem.Function) bool {
	res := analyze(ctx, f)
	for _, v := range res.Verdicts {
		if !v.Permitted() {
			return false
		}
	}
	return true
}

func TestExecutionUniformity(t *testing.T) {
	uc := uniformG("uc")
	dc := divergentG("dc")
	one := lit("1")

	for _, test := range []struct {
		name      string
		fn        func() *sem.Function
		permitted bool
	}{
		{"top level", func() *sem.Function {
			return fn(stmt(call("workgroupBarrier")))
		}, true},
		{"uniform branch", func() *sem.Function {
			return fn(iff(gt(uc, one), stmt(call("textureSample"))))
		}, true},
		{"divergent branch", func() *sem.Function {
			return fn(iff(gt(dc, one), stmt(call("textureSample"))))
		}, false},
		{"divergent else", func() *sem.Function {
			return fn(ifElse(gt(dc, one), blk(), blk(stmt(call("dpdx", uc)))))
		}, false},
		{"nested uniform in divergent", func() *sem.Function {
			return fn(iff(gt(dc, one), iff(gt(uc, one), stmt(call("workgroupBarrier")))))
		}, false},
		{"after divergent branch", func() *sem.Function {
			x := local("x", sem.U32)
			return fn(
				iff(gt(dc, one), set(x, one)),
				stmt(call("workgroupBarrier")),
			)
		}, true},
		{"after uniform return", func() *sem.Function {
			return fn(
				iff(gt(uc, one), &sem.Return{}),
				stmt(call("workgroupBarrier")),
			)
		}, true},
		{"after divergent return", func() *sem.Function {
			return fn(
				iff(gt(dc, one), &sem.Return{}),
				stmt(call("workgroupBarrier")),
			)
		}, false},
		{"after divergent return in else", func() *sem.Function {
			return fn(
				ifElse(gt(dc, one), blk(), blk(&sem.Return{})),
				stmt(call("storageBarrier")),
			)
		}, false},
		{"condition from divergent compare", func() *sem.Function {
			return fn(iff(and(gt(uc, one), gt(dc, one)), stmt(call("workgroupBarrier"))))
		}, false},
	} {
		t.Run(test.name, func(t *testing.T) {
			ctx := log.Testing(t)
			got := collectivePermitted(ctx, test.fn())
			assert.For(ctx, "permitted").ThatBoolean(got).Equals(test.permitted)
		})
	}
}

func TestValueTracking(t *testing.T) {
	uc := uniformG("uc")
	dc := divergentG("dc")
	one := lit("1")

	for _, test := range []struct {
		name      string
		fn        func() *sem.Function
		permitted bool
	}{
		{"uniform local", func() *sem.Function {
			x := local("x", sem.U32)
			return fn(
				dec(x, one),
				iff(gt(x, one), stmt(call("workgroupBarrier"))),
			)
		}, true},
		{"divergent local", func() *sem.Function {
			x := local("x", sem.U32)
			return fn(
				dec(x, dc),
				iff(gt(x, one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"uniform overwrite", func() *sem.Function {
			x := local("x", sem.U32)
			return fn(
				dec(x, dc),
				set(x, one),
				iff(gt(x, one), stmt(call("workgroupBarrier"))),
			)
		}, true},
		{"write under uniform condition", func() *sem.Function {
			x := local("x", sem.U32)
			return fn(
				dec(x, one),
				iff(gt(uc, one), set(x, uc)),
				iff(gt(x, one), stmt(call("workgroupBarrier"))),
			)
		}, true},
		{"uniform write under divergent condition", func() *sem.Function {
			// Which invocations performed the write varies, so the variable
			// diverges even though the written value was uniform.
			x := local("x", sem.U32)
			return fn(
				dec(x, one),
				iff(gt(dc, one), set(x, one)),
				iff(gt(x, one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"divergent write in one arm", func() *sem.Function {
			x := local("x", sem.U32)
			return fn(
				dec(x, one),
				ifElse(gt(uc, one), blk(set(x, dc)), blk(set(x, one))),
				iff(gt(x, one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"uniform writes in both arms", func() *sem.Function {
			x := local("x", sem.U32)
			return fn(
				dec(x, dc),
				ifElse(gt(uc, one), blk(set(x, one)), blk(set(x, uc))),
				iff(gt(x, one), stmt(call("workgroupBarrier"))),
			)
		}, true},
		{"compound assignment taints", func() *sem.Function {
			x := local("x", sem.U32)
			return fn(
				dec(x, one),
				&sem.Assign{LHS: x, Op: sem.OpAdd, RHS: dc},
				iff(gt(x, one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"divergent declaration in divergent branch", func() *sem.Function {
			x := local("x", sem.U32)
			y := privateG("y", sem.U32)
			return fn(
				iff(gt(dc, one), dec(x, one), set(y, x)),
				iff(gt(y, one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"uniform builtin input", func() *sem.Function {
			wgid := global("wgid", sem.U32, sem.GroupUniformBuiltin)
			return fn(iff(gt(wgid, one), stmt(call("workgroupBarrier"))))
		}, true},
		{"storage read-write is divergent", func() *sem.Function {
			buf := global("buf", sem.U32, sem.StorageRW)
			return fn(iff(gt(buf, one), stmt(call("workgroupBarrier"))))
		}, false},
		{"storage read-only is uniform", func() *sem.Function {
			buf := global("buf", sem.U32, sem.StorageRO)
			return fn(iff(gt(buf, one), stmt(call("workgroupBarrier"))))
		}, true},
		{"storage write does not launder", func() *sem.Function {
			buf := global("buf", sem.U32, sem.StorageRW)
			return fn(
				set(buf, one),
				iff(gt(buf, one), stmt(call("workgroupBarrier"))),
			)
		}, false},
	} {
		t.Run(test.name, func(t *testing.T) {
			ctx := log.Testing(t)
			got := collectivePermitted(ctx, test.fn())
			assert.For(ctx, "permitted").ThatBoolean(got).Equals(test.permitted)
		})
	}
}

func TestSwitch(t *testing.T) {
	uc := uniformG("uc")
	dc := divergentG("dc")
	one := lit("1")
	cases := func(blocks ...*sem.Block) []*sem.Case {
		out := make([]*sem.Case, len(blocks))
		for i, b := range blocks {
			out[i] = &sem.Case{Conds: []sem.Expression{lit("1")}, Block: b}
		}
		return out
	}

	for _, test := range []struct {
		name      string
		fn        func() *sem.Function
		permitted bool
	}{
		{"uniform selector case", func() *sem.Function {
			return fn(&sem.Switch{
				Selector: uc,
				Cases:    cases(blk(stmt(call("workgroupBarrier")))),
			})
		}, true},
		{"divergent selector case", func() *sem.Function {
			return fn(&sem.Switch{
				Selector: dc,
				Cases:    cases(blk(stmt(call("workgroupBarrier")))),
			})
		}, false},
		{"reconverges after divergent selector", func() *sem.Function {
			return fn(
				&sem.Switch{Selector: dc, Cases: cases(blk(), blk())},
				stmt(call("workgroupBarrier")),
			)
		}, true},
		{"case return breaks reconvergence", func() *sem.Function {
			return fn(
				&sem.Switch{Selector: dc, Cases: cases(blk(&sem.Return{}))},
				stmt(call("workgroupBarrier")),
			)
		}, false},
		{"divergent write in default", func() *sem.Function {
			x := local("x", sem.U32)
			return fn(
				dec(x, one),
				&sem.Switch{Selector: dc, Cases: cases(blk()), Default: blk(set(x, one))},
				iff(gt(x, one), stmt(call("workgroupBarrier"))),
			)
		}, false},
	} {
		t.Run(test.name, func(t *testing.T) {
			ctx := log.Testing(t)
			got := collectivePermitted(ctx, test.fn())
			assert.For(ctx, "permitted").ThatBoolean(got).Equals(test.permitted)
		})
	}
}

func TestShortCircuit(t *testing.T) {
	uc := uniformG("uc")
	dc := divergentG("dc")
	one := lit("1")

	for _, test := range []struct {
		name      string
		fn        func() *sem.Function
		permitted bool
	}{
		{"collective left of or", func() *sem.Function {
			return fn(stmt(or(call("subgroupAll", gt(uc, one)), gt(dc, one))))
		}, true},
		{"collective right of divergent or", func() *sem.Function {
			return fn(stmt(or(gt(dc, one), call("subgroupAll", gt(uc, one)))))
		}, false},
		{"collective right of uniform and", func() *sem.Function {
			return fn(stmt(and(gt(uc, one), call("subgroupAll", gt(uc, one)))))
		}, true},
		{"self conjunction stays divergent only", func() *sem.Function {
			// a && a is not more uniform than a.
			a := gt(dc, one)
			return fn(iff(and(a, a), stmt(call("workgroupBarrier"))))
		}, false},
		{"non short-circuit operand order irrelevant", func() *sem.Function {
			return fn(stmt(gt(call("subgroupAdd", dc), gt(dc, one))))
		}, true},
	} {
		t.Run(test.name, func(t *testing.T) {
			ctx := log.Testing(t)
			got := collectivePermitted(ctx, test.fn())
			assert.For(ctx, "permitted").ThatBoolean(got).Equals(test.permitted)
		})
	}
}

func TestLoops(t *testing.T) {
	uc := uniformG("uc")
	dc := divergentG("dc")
	one := lit("1")

	for _, test := range []struct {
		name      string
		fn        func() *sem.Function
		permitted bool
	}{
		{"uniform break if", func() *sem.Function {
			return fn(loopC(breakIf(gt(uc, one)), stmt(call("workgroupBarrier"))))
		}, true},
		{"divergent break if taints later iterations", func() *sem.Function {
			return fn(loopC(breakIf(gt(dc, one)), stmt(call("workgroupBarrier"))))
		}, false},
		{"divergent break statement", func() *sem.Function {
			return fn(loop(
				iff(gt(dc, one), &sem.Break{}),
				stmt(call("workgroupBarrier")),
			))
		}, false},
		{"uniform break statement", func() *sem.Function {
			return fn(loop(
				iff(gt(uc, one), &sem.Break{}),
				stmt(call("workgroupBarrier")),
			))
		}, true},
		{"reconverges after loop", func() *sem.Function {
			return fn(
				loop(iff(gt(dc, one), &sem.Break{}), &sem.Break{}),
				stmt(call("workgroupBarrier")),
			)
		}, true},
		{"return inside loop persists", func() *sem.Function {
			return fn(
				loop(iff(gt(dc, one), &sem.Return{}), &sem.Break{}),
				stmt(call("workgroupBarrier")),
			)
		}, false},
		{"while uniform", func() *sem.Function {
			return fn(&sem.While{Cond: gt(uc, one), Body: blk(stmt(call("workgroupBarrier")))})
		}, true},
		{"while divergent", func() *sem.Function {
			return fn(&sem.While{Cond: gt(dc, one), Body: blk(stmt(call("workgroupBarrier")))})
		}, false},
		{"for uniform bound", func() *sem.Function {
			i := local("i", sem.U32)
			return fn(&sem.ForLoop{
				Init:   dec(i, lit("0")),
				Cond:   gt(uc, i),
				Update: &sem.Assign{LHS: i, Op: sem.OpAdd, RHS: one},
				Body:   blk(stmt(call("workgroupBarrier"))),
			})
		}, true},
		{"for divergent bound", func() *sem.Function {
			i := local("i", sem.U32)
			return fn(&sem.ForLoop{
				Init:   dec(i, lit("0")),
				Cond:   gt(dc, i),
				Update: &sem.Assign{LHS: i, Op: sem.OpAdd, RHS: one},
				Body:   blk(stmt(call("workgroupBarrier"))),
			})
		}, false},
		{"divergence carried by back edge", func() *sem.Function {
			// x is uniform on the first iteration and divergent on every
			// later one; the fixed point must catch the second.
			x := local("x", sem.U32)
			return fn(
				dec(x, one),
				loopC(breakIf(gt(uc, one)),
					iff(gt(x, one), stmt(call("workgroupBarrier"))),
					set(x, dc),
				),
			)
		}, false},
	} {
		t.Run(test.name, func(t *testing.T) {
			ctx := log.Testing(t)
			got := collectivePermitted(ctx, test.fn())
			assert.For(ctx, "permitted").ThatBoolean(got).Equals(test.permitted)
		})
	}
}

func TestLoopState(t *testing.T) {
	uc := uniformG("uc")
	dc := divergentG("dc")
	one := lit("1")

	ctx := log.Testing(t)

	// Value written every iteration stays uniform after the loop.
	x := local("x", sem.U32)
	f := fn(
		dec(x, dc),
		loopC(breakIf(gt(uc, one)), set(x, one)),
		iff(gt(x, one), stmt(call("workgroupBarrier"))),
	)
	assert.For(ctx, "uniform loop write").ThatBoolean(collectivePermitted(ctx, f)).IsTrue()

	// Divergent write inside the loop persists past it.
	x = local("x", sem.U32)
	f = fn(
		dec(x, one),
		loopC(breakIf(gt(uc, one)), set(x, dc)),
		iff(gt(x, one), stmt(call("workgroupBarrier"))),
	)
	assert.For(ctx, "divergent loop write").ThatBoolean(collectivePermitted(ctx, f)).IsFalse()

	// A write after an unconditional break is dead.
	x = local("x", sem.U32)
	f = fn(
		dec(x, one),
		loop(&sem.Break{}, set(x, dc)),
		iff(gt(x, one), stmt(call("workgroupBarrier"))),
	)
	assert.For(ctx, "dead write").ThatBoolean(collectivePermitted(ctx, f)).IsTrue()

	// A loop whose exits all return makes the rest of the function
	// unreachable: the collective after it is never analyzed.
	f = fn(
		loop(&sem.Return{}),
		stmt(call("workgroupBarrier")),
	)
	res := analyze(ctx, f)
	assert.For(ctx, "unreachable verdicts").ThatSlice(res.Verdicts).IsEmpty()
}

func TestCollectiveArguments(t *testing.T) {
	dc := divergentG("dc")
	one := lit("1")

	ctx := log.Testing(t)

	// A divergent lane selector is an argument violation even under uniform
	// control flow.
	f := fn(stmt(call("subgroupBroadcast", one, dc)))
	res := analyze(ctx, f)
	assert.For(ctx, "verdicts").ThatSlice(res.Verdicts).IsLength(1)
	v := res.Verdicts[0]
	assert.For(ctx, "permitted").ThatBoolean(v.Permitted()).IsFalse()
	assert.For(ctx, "exec").That(v.Exec).Equals(uniformity.Uniform)
	assert.For(ctx, "args").That(v.NonUniformArgs).DeepEquals([]int{1})

	// The broadcast value itself carries no uniformity requirement.
	f = fn(stmt(call("subgroupBroadcast", dc, one)))
	assert.For(ctx, "value arg").ThatBoolean(collectivePermitted(ctx, f)).IsTrue()

	// The result of a broadcast is group-uniform even for divergent input.
	x := local("x", sem.U32)
	f = fn(
		dec(x, call("subgroupBroadcast", dc, one)),
		iff(gt(x, one), stmt(call("workgroupBarrier"))),
	)
	assert.For(ctx, "uniform result").ThatBoolean(collectivePermitted(ctx, f)).IsTrue()

	// Both violations are reported together.
	f = fn(iff(gt(dc, one), stmt(call("subgroupBroadcast", one, dc))))
	res = analyze(ctx, f)
	assert.For(ctx, "verdicts").ThatSlice(res.Verdicts).IsLength(1)
	v = res.Verdicts[0]
	assert.For(ctx, "exec").That(v.Exec).Equals(uniformity.Divergent)
	assert.For(ctx, "args").That(v.NonUniformArgs).DeepEquals([]int{1})
}

func TestStructFields(t *testing.T) {
	dc := divergentG("dc")
	one := lit("1")
	vec := &sem.Struct{Name: "Vec", Fields: []*sem.Field{
		{Name: "a", Type: sem.F32},
		{Name: "b", Type: sem.F32},
	}}

	for _, test := range []struct {
		name      string
		fn        func() *sem.Function
		permitted bool
	}{
		{"untouched field stays uniform", func() *sem.Function {
			s := local("s", vec)
			return fn(
				dec(s, nil),
				set(fld(s, "a"), dc),
				iff(gt(fld(s, "b"), one), stmt(call("workgroupBarrier"))),
			)
		}, true},
		{"written field diverges", func() *sem.Function {
			s := local("s", vec)
			return fn(
				dec(s, nil),
				set(fld(s, "a"), dc),
				iff(gt(fld(s, "a"), one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"whole struct assignment resets", func() *sem.Function {
			s := local("s", vec)
			return fn(
				dec(s, nil),
				set(fld(s, "a"), dc),
				set(s, &sem.Construct{Type: vec, Args: []sem.Expression{one, one}}),
				iff(gt(fld(s, "a"), one), stmt(call("workgroupBarrier"))),
			)
		}, true},
		{"construct carries member tags", func() *sem.Function {
			s := local("s", vec)
			return fn(
				dec(s, &sem.Construct{Type: vec, Args: []sem.Expression{dc, one}}),
				iff(gt(fld(s, "b"), one), stmt(call("workgroupBarrier"))),
			)
		}, true},
	} {
		t.Run(test.name, func(t *testing.T) {
			ctx := log.Testing(t)
			got := collectivePermitted(ctx, test.fn())
			assert.For(ctx, "permitted").ThatBoolean(got).Equals(test.permitted)
		})
	}
}

func TestArrays(t *testing.T) {
	uc := uniformG("uc")
	dc := divergentG("dc")
	one := lit("1")
	arr := &sem.Array{Elem: sem.U32, Count: 4}

	for _, test := range []struct {
		name      string
		fn        func() *sem.Function
		permitted bool
	}{
		{"uniform index read", func() *sem.Function {
			a := local("a", arr)
			return fn(
				dec(a, nil),
				iff(gt(ix(a, one), one), stmt(call("workgroupBarrier"))),
			)
		}, true},
		{"divergent index read", func() *sem.Function {
			a := local("a", arr)
			return fn(
				dec(a, nil),
				iff(gt(ix(a, dc), one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"divergent index write taints summary", func() *sem.Function {
			a := local("a", arr)
			return fn(
				dec(a, nil),
				set(ix(a, dc), one),
				iff(gt(ix(a, one), one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"divergent element write taints summary", func() *sem.Function {
			a := local("a", arr)
			return fn(
				dec(a, nil),
				set(ix(a, one), dc),
				iff(gt(ix(a, one), one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"whole array overwrite resets", func() *sem.Function {
			a := local("a", arr)
			b := local("b", arr)
			return fn(
				dec(a, nil),
				dec(b, nil),
				set(ix(a, dc), one),
				set(a, b),
				iff(gt(ix(a, uc), one), stmt(call("workgroupBarrier"))),
			)
		}, true},
	} {
		t.Run(test.name, func(t *testing.T) {
			ctx := log.Testing(t)
			got := collectivePermitted(ctx, test.fn())
			assert.For(ctx, "permitted").ThatBoolean(got).Equals(test.permitted)
		})
	}
}

func TestMalformedInput(t *testing.T) {
	ctx := log.Testing(t)
	one := lit("1")

	_, err := uniformity.Analyze(ctx, fn(&sem.Break{}), nil)
	assert.For(ctx, "break outside loop").ThatError(err).Is(uniformity.ErrMalformedInput)

	_, err = uniformity.Analyze(ctx, fn(&sem.Continue{}), nil)
	assert.For(ctx, "continue outside loop").ThatError(err).Is(uniformity.ErrMalformedInput)

	ub := uniformG("ub")
	_, err = uniformity.Analyze(ctx, fn(set(ub, one)), nil)
	assert.For(ctx, "write to uniform buffer").ThatError(err).Is(uniformity.ErrMalformedInput)

	x := local("x", sem.U32)
	_, err = uniformity.Analyze(ctx, fn(dec(x, one), stmt(deref(x))), nil)
	assert.For(ctx, "deref non-pointer").ThatError(err).Is(uniformity.ErrMalformedInput)
}

func TestVerdictOrder(t *testing.T) {
	ctx := log.Testing(t)
	dc := divergentG("dc")
	one := lit("1")

	second := &sem.Call{Callee: "dpdx", Args: []sem.Expression{one}, At: sem.Location{Line: 9}}
	first := &sem.Call{Callee: "workgroupBarrier", At: sem.Location{Line: 4}}
	f := fn(iff(gt(dc, one), stmt(second), stmt(first)))

	res := analyze(ctx, f)
	assert.For(ctx, "verdicts").ThatSlice(res.Verdicts).IsLength(2)
	assert.For(ctx, "first").That(res.Verdicts[0].Call.Callee).Equals("workgroupBarrier")
	assert.For(ctx, "second").That(res.Verdicts[1].Call.Callee).Equals("dpdx")
	assert.For(ctx, "violations").ThatSlice(res.Violations()).IsLength(2)
}

func TestUnknownCallee(t *testing.T) {
	ctx := log.Testing(t)
	_, err := uniformity.Analyze(ctx, fn(stmt(call("frobnicate"))), nil)
	assert.For(ctx, "err").ThatError(err).Failed()
}
