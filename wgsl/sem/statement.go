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

// Statement is the interface implemented by all statement nodes.
type Statement interface {
	Node
	isStatement()
}

// Block is a brace-delimited statement sequence.
type Block struct {
	Stmts []Statement
}

func (*Block) isNode()      {}
func (*Block) isStatement() {}

// DeclareLocal declares (and optionally initializes) a local variable.
// A nil Value means zero-value initialization.
type DeclareLocal struct {
	Local *Local
	Value Expression
}

func (*DeclareLocal) isNode()      {}
func (*DeclareLocal) isStatement() {}

// Assign is a plain or compound assignment. LHS must be a reference chain
// rooted at a Local, Global or Deref. Op is OpNone for plain assignment, or
// the arithmetic operator of a compound assignment (`x += e`).
type Assign struct {
	LHS Expression
	Op  BinaryOperator
	RHS Expression
}

func (*Assign) isNode()      {}
func (*Assign) isStatement() {}

// If is a two-way branch. Else may be nil.
type If struct {
	Cond Expression
	Then *Block
	Else *Block
}

func (*If) isNode()      {}
func (*If) isStatement() {}

// Switch selects one of its cases by selector value, or Default.
// A nil Default flows over the switch.
type Switch struct {
	Selector Expression
	Cases    []*Case
	Default  *Block
}

func (*Switch) isNode()      {}
func (*Switch) isStatement() {}

// Case is a single arm of a Switch. Conds carries the selector expressions
// for diagnostics; they do not affect the analysis beyond their count.
type Case struct {
	Conds []Expression
	Block *Block
}

func (*Case) isNode() {}

// Loop is the core loop construct: body, then the optional continuing block,
// then back to the body. The only exits are Break statements and the
// continuing block's BreakIf.
type Loop struct {
	Body       *Block
	Continuing *Continuing
}

func (*Loop) isNode()      {}
func (*Loop) isStatement() {}

// Continuing is the trailing block of a Loop, executed between iterations.
// BreakIf, when non-nil, exits the loop when true.
type Continuing struct {
	Block   *Block
	BreakIf Expression
}

func (*Continuing) isNode() {}

// ForLoop is sugar for a Loop with an init statement, an optional break
// guard and an update statement in the continuing block. A nil Cond injects
// no implicit break guard.
type ForLoop struct {
	Init   Statement
	Cond   Expression
	Update Statement
	Body   *Block
}

func (*ForLoop) isNode()      {}
func (*ForLoop) isStatement() {}

// While is sugar for a Loop whose body starts with a break guard.
type While struct {
	Cond Expression
	Body *Block
}

func (*While) isNode()      {}
func (*While) isStatement() {}

// Break exits the innermost enclosing loop.
type Break struct{}

func (*Break) isNode()      {}
func (*Break) isStatement() {}

// Continue jumps to the continuing block (or back edge) of the innermost
// enclosing loop.
type Continue struct{}

func (*Continue) isNode()      {}
func (*Continue) isStatement() {}

// Return exits the function.
type Return struct {
	Value Expression
}

func (*Return) isNode()      {}
func (*Return) isStatement() {}

// ExprStmt evaluates an expression for its effects, typically a barrier
// call.
type ExprStmt struct {
	Expr Expression
}

func (*ExprStmt) isNode()      {}
func (*ExprStmt) isStatement() {}
