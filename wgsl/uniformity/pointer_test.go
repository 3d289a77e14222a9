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
	"testing"

	"github.com/gfxtool/wgslint/core/assert"
	"github.com/gfxtool/wgslint/core/log"
	"github.com/gfxtool/wgslint/wgsl/sem"
)

func ptrTo(ty sem.Type) *sem.Pointer { return &sem.Pointer{To: ty} }

func TestPointerWrites(t *testing.T) {
	dc := divergentG("dc")
	one := lit("1")

	for _, test := range []struct {
		name      string
		fn        func() *sem.Function
		permitted bool
	}{
		{"divergent write seen through alias", func() *sem.Function {
			x := local("x", sem.U32)
			p := local("p", ptrTo(sem.U32))
			q := local("q", ptrTo(sem.U32))
			return fn(
				dec(x, one),
				dec(p, addr(x)),
				dec(q, p),
				set(deref(p), dc),
				iff(gt(deref(q), one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"overwrite before read restores", func() *sem.Function {
			x := local("x", sem.U32)
			p := local("p", ptrTo(sem.U32))
			q := local("q", ptrTo(sem.U32))
			return fn(
				dec(x, one),
				dec(p, addr(x)),
				dec(q, p),
				set(deref(p), dc),
				set(deref(p), one),
				iff(gt(deref(q), one), stmt(call("workgroupBarrier"))),
			)
		}, true},
		{"write through pointer seen by direct read", func() *sem.Function {
			x := local("x", sem.U32)
			p := local("p", ptrTo(sem.U32))
			return fn(
				dec(x, one),
				dec(p, addr(x)),
				set(deref(p), dc),
				iff(gt(x, one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"direct write seen through pointer", func() *sem.Function {
			x := local("x", sem.U32)
			p := local("p", ptrTo(sem.U32))
			return fn(
				dec(x, dc),
				dec(p, addr(x)),
				set(x, one),
				iff(gt(deref(p), one), stmt(call("workgroupBarrier"))),
			)
		}, true},
		{"divergent address read", func() *sem.Function {
			a := local("a", &sem.Array{Elem: sem.U32, Count: 4})
			p := local("p", ptrTo(sem.U32))
			return fn(
				dec(a, nil),
				dec(p, addr(ix(a, dc))),
				iff(gt(deref(p), one), stmt(call("workgroupBarrier"))),
			)
		}, false},
		{"pointer to struct field", func() *sem.Function {
			vec := &sem.Struct{Name: "Vec", Fields: []*sem.Field{
				{Name: "a", Type: sem.F32},
				{Name: "b", Type: sem.F32},
			}}
			s := local("s", vec)
			p := local("p", ptrTo(sem.F32))
			return fn(
				dec(s, nil),
				dec(p, addr(fld(s, "a"))),
				set(deref(p), dc),
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

func TestPointerMayTargets(t *testing.T) {
	uc := uniformG("uc")
	dc := divergentG("dc")
	one := lit("1")

	ctx := log.Testing(t)

	// A pointer merged from two branches may target either variable: a
	// divergent write through it taints both.
	x := local("x", sem.U32)
	y := local("y", sem.U32)
	p := local("p", ptrTo(sem.U32))
	f := fn(
		dec(x, one),
		dec(y, one),
		dec(p, addr(x)),
		iff(gt(uc, one), set(p, addr(y))),
		set(deref(p), dc),
		iff(gt(y, one), stmt(call("workgroupBarrier"))),
	)
	assert.For(ctx, "tainted may-target").ThatBoolean(collectivePermitted(ctx, f)).IsFalse()

	// A uniform write through the merged pointer must not launder either
	// target, as only one of them actually received it.
	x = local("x", sem.U32)
	y = local("y", sem.U32)
	p = local("p", ptrTo(sem.U32))
	f = fn(
		dec(x, dc),
		dec(y, dc),
		dec(p, addr(x)),
		iff(gt(uc, one), set(p, addr(y))),
		set(deref(p), one),
		iff(gt(x, one), stmt(call("workgroupBarrier"))),
	)
	assert.For(ctx, "weak update").ThatBoolean(collectivePermitted(ctx, f)).IsFalse()

	// A direct overwrite of one target still updates strongly.
	x = local("x", sem.U32)
	y = local("y", sem.U32)
	p = local("p", ptrTo(sem.U32))
	f = fn(
		dec(x, one),
		dec(y, one),
		dec(p, addr(x)),
		iff(gt(uc, one), set(p, addr(y))),
		set(deref(p), dc),
		set(x, one),
		set(y, one),
		iff(gt(x, one), stmt(call("workgroupBarrier"))),
	)
	assert.For(ctx, "direct overwrite").ThatBoolean(collectivePermitted(ctx, f)).IsTrue()
}

func TestPointerArguments(t *testing.T) {
	dc := divergentG("dc")
	one := lit("1")
	wg := global("wg", sem.U32, sem.Workgroup)
	wgArr := global("wgArr", &sem.Array{Elem: sem.U32, Count: 64}, sem.Workgroup)

	ctx := log.Testing(t)

	// workgroupUniformLoad requires a uniform address, not uniform contents.
	f := fn(stmt(call("workgroupUniformLoad", addr(wg))))
	assert.For(ctx, "uniform address").ThatBoolean(collectivePermitted(ctx, f)).IsTrue()

	f = fn(stmt(call("workgroupUniformLoad", addr(ix(wgArr, dc)))))
	res := analyze(ctx, f)
	assert.For(ctx, "verdicts").ThatSlice(res.Verdicts).IsLength(1)
	assert.For(ctx, "args").That(res.Verdicts[0].NonUniformArgs).DeepEquals([]int{0})

	// Divergent contents behind a uniform address are fine: the load is what
	// makes them uniform.
	f = fn(
		set(wg, dc),
		stmt(call("workgroupUniformLoad", addr(wg))),
	)
	assert.For(ctx, "divergent contents").ThatBoolean(collectivePermitted(ctx, f)).IsTrue()

	// And the loaded value is group-uniform.
	x := local("x", sem.U32)
	f = fn(
		set(wg, dc),
		dec(x, call("workgroupUniformLoad", addr(wg))),
		iff(gt(x, one), stmt(call("workgroupBarrier"))),
	)
	assert.For(ctx, "loaded value").ThatBoolean(collectivePermitted(ctx, f)).IsTrue()
}
