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

// Expression is the interface implemented by all expression nodes.
type Expression interface {
	Node
	isExpression()
}

// UnaryOperator is an operator of a Unary expression.
type UnaryOperator int

const (
	OpNot UnaryOperator = iota
	OpNegate
	OpComplement
)

// BinaryOperator is an operator of a Binary expression.
type BinaryOperator int

const (
	// OpNone marks a plain assignment on Assign nodes. It is not a valid
	// Binary operator.
	OpNone BinaryOperator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEQ
	OpNE
	OpLT
	OpGT
	OpLE
	OpGE
	// OpLogicalAnd is the short-circuiting && operator: the right operand
	// only evaluates when the left was true.
	OpLogicalAnd
	// OpLogicalOr is the short-circuiting || operator: the right operand
	// only evaluates when the left was false.
	OpLogicalOr
)

// ShortCircuit returns true if the operator conditionally evaluates its
// right operand.
func (op BinaryOperator) ShortCircuit() bool {
	return op == OpLogicalAnd || op == OpLogicalOr
}

// Literal is a constant expression. Its value is irrelevant to the analysis;
// Text is carried for diagnostics only.
type Literal struct {
	Text string
}

func (*Literal) isNode()       {}
func (*Literal) isExpression() {}

// Unary is a unary operator expression.
type Unary struct {
	Op UnaryOperator
	X  Expression
}

func (*Unary) isNode()       {}
func (*Unary) isExpression() {}

// Binary is a binary operator expression, including the short-circuiting
// logical operators.
type Binary struct {
	Op  BinaryOperator
	LHS Expression
	RHS Expression
}

func (*Binary) isNode()       {}
func (*Binary) isExpression() {}

// Index is an array or vector element access.
type Index struct {
	Base  Expression
	Index Expression
}

func (*Index) isNode()       {}
func (*Index) isExpression() {}

// Member is a structure field access.
type Member struct {
	Base  Expression
	Field string
}

func (*Member) isNode()       {}
func (*Member) isExpression() {}

// Call is a builtin function call. Callee is looked up in the collective
// operation registry during analysis.
type Call struct {
	Callee string
	Args   []Expression
	At     Location
}

func (*Call) isNode()       {}
func (*Call) isExpression() {}

// Construct builds a composite value from per-member expressions.
type Construct struct {
	Type Type
	Args []Expression
}

func (*Construct) isNode()       {}
func (*Construct) isExpression() {}

// AddressOf takes the address of an addressable expression.
type AddressOf struct {
	X Expression
}

func (*AddressOf) isNode()       {}
func (*AddressOf) isExpression() {}

// Deref reads or, as an assignment target, writes through a pointer.
type Deref struct {
	X Expression
}

func (*Deref) isNode()       {}
func (*Deref) isExpression() {}
