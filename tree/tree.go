// seehuhn.de/go/implicit - a library for evaluating implicit surfaces
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tree

// Tree is a node in an expression over the three coordinate variables
// and any number of free variables.  Nodes are immutable once
// constructed; sub-expressions may be shared between trees.
//
// A *Tree pointer is also the node's identity.  Free variables in
// particular are identified by their pointer: the same *Tree passed to
// two expressions denotes the same variable.
type Tree struct {
	op    Op
	a, b  *Tree
	value float64
	rank  int
}

// X returns a node for the first coordinate variable.
func X() *Tree { return &Tree{op: OpVarX} }

// Y returns a node for the second coordinate variable.
func Y() *Tree { return &Tree{op: OpVarY} }

// Z returns a node for the third coordinate variable.
func Z() *Tree { return &Tree{op: OpVarZ} }

// Const returns a node with the fixed value v.
func Const(v float64) *Tree {
	return &Tree{op: OpConst, value: v}
}

// Var returns a new free variable.  Its value is supplied when an
// evaluator is constructed and can be changed later through the
// evaluator.
func Var() *Tree {
	return &Tree{op: OpVar}
}

func binary(op Op, a, b *Tree) *Tree {
	rank := a.rank
	if b.rank > rank {
		rank = b.rank
	}
	return &Tree{op: op, a: a, b: b, rank: rank + 1}
}

func unary(op Op, a *Tree) *Tree {
	return &Tree{op: op, a: a, rank: a.rank + 1}
}

// Add returns the node a+b.
func Add(a, b *Tree) *Tree { return binary(OpAdd, a, b) }

// Sub returns the node a-b.
func Sub(a, b *Tree) *Tree { return binary(OpSub, a, b) }

// Mul returns the node a*b.
func Mul(a, b *Tree) *Tree { return binary(OpMul, a, b) }

// Div returns the node a/b.
func Div(a, b *Tree) *Tree { return binary(OpDiv, a, b) }

// Min returns the pointwise minimum of a and b.
func Min(a, b *Tree) *Tree { return binary(OpMin, a, b) }

// Max returns the pointwise maximum of a and b.
func Max(a, b *Tree) *Tree { return binary(OpMax, a, b) }

// Atan2 returns the node atan2(a, b).
func Atan2(a, b *Tree) *Tree { return binary(OpAtan2, a, b) }

// Pow returns the node a^b.  The exponent b must be a constant node;
// this is checked when an evaluator is built.
func Pow(a, b *Tree) *Tree { return binary(OpPow, a, b) }

// NthRoot returns the b-th root of a.  The root order b must be a
// constant node; this is checked when an evaluator is built.
func NthRoot(a, b *Tree) *Tree { return binary(OpNthRoot, a, b) }

// Mod returns the Euclidean remainder of a divided by b.  The result
// is non-negative for positive b.
func Mod(a, b *Tree) *Tree { return binary(OpMod, a, b) }

// NanFill returns a node which evaluates to b wherever a is NaN, and
// to a everywhere else.
func NanFill(a, b *Tree) *Tree { return binary(OpNanFill, a, b) }

// Square returns the node a².
func Square(a *Tree) *Tree { return unary(OpSquare, a) }

// Sqrt returns the square root of a.
func Sqrt(a *Tree) *Tree { return unary(OpSqrt, a) }

// Neg returns the node -a.
func Neg(a *Tree) *Tree { return unary(OpNeg, a) }

// Sin returns the node sin(a).
func Sin(a *Tree) *Tree { return unary(OpSin, a) }

// Cos returns the node cos(a).
func Cos(a *Tree) *Tree { return unary(OpCos, a) }

// Tan returns the node tan(a).
func Tan(a *Tree) *Tree { return unary(OpTan, a) }

// Asin returns the node asin(a).
func Asin(a *Tree) *Tree { return unary(OpAsin, a) }

// Acos returns the node acos(a).
func Acos(a *Tree) *Tree { return unary(OpAcos, a) }

// Atan returns the node atan(a).
func Atan(a *Tree) *Tree { return unary(OpAtan, a) }

// Exp returns the node exp(a).
func Exp(a *Tree) *Tree { return unary(OpExp, a) }

// ConstVar wraps a so that the wrapped sub-expression is treated as
// constant with respect to free variables: values and spatial
// derivatives pass through unchanged, but the variable gradient of the
// wrapped node is zero.
func ConstVar(a *Tree) *Tree { return unary(OpConstVar, a) }

// Op returns the node's operation.
func (t *Tree) Op() Op { return t.op }

// Value returns the value of a constant node.  For all other nodes it
// returns 0.
func (t *Tree) Value() float64 { return t.value }

// Rank returns the height of the node: 0 for leaves, otherwise one
// more than the largest operand rank.
func (t *Tree) Rank() int { return t.rank }

// Operands returns the node's operands.  The second result is nil for
// unary operations; both are nil for leaves.
func (t *Tree) Operands() (a, b *Tree) { return t.a, t.b }

// Ordered returns every distinct node reachable from t, operands
// before the nodes using them.  The receiver is the last element.
func (t *Tree) Ordered() []*Tree {
	var out []*Tree
	seen := make(map[*Tree]bool)
	var walk func(*Tree)
	walk = func(n *Tree) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		walk(n.a)
		walk(n.b)
		out = append(out, n)
	}
	walk(t)
	return out
}
