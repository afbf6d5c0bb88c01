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

// Op identifies the operation performed by a tree node.
//
// The set of operations is closed: evaluators dispatch on Op with a
// dense switch and must handle every value below.
type Op uint8

const (
	OpInvalid Op = iota

	// leaves
	OpConst
	OpVarX
	OpVarY
	OpVarZ
	OpVar

	// binary operators
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
	OpAtan2
	OpPow
	OpNthRoot
	OpMod
	OpNanFill

	// unary operators
	OpSquare
	OpSqrt
	OpNeg
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpExp
	OpConstVar

	opLast
)

// IsLeaf reports whether op is a leaf operation (a constant, a free
// variable, or one of the three coordinate variables).  Leaf nodes
// have no operands.
func (op Op) IsLeaf() bool {
	return op >= OpConst && op <= OpVar
}

// IsBinary reports whether op takes two operands.
func (op Op) IsBinary() bool {
	return op >= OpAdd && op <= OpNanFill
}

// IsUnary reports whether op takes a single operand.
func (op Op) IsUnary() bool {
	return op >= OpSquare && op <= OpConstVar
}

var opNames = []string{
	OpInvalid: "invalid",

	OpConst: "const",
	OpVarX:  "x",
	OpVarY:  "y",
	OpVarZ:  "z",
	OpVar:   "var",

	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpDiv:     "div",
	OpMin:     "min",
	OpMax:     "max",
	OpAtan2:   "atan2",
	OpPow:     "pow",
	OpNthRoot: "nth-root",
	OpMod:     "mod",
	OpNanFill: "nan-fill",

	OpSquare:   "square",
	OpSqrt:     "sqrt",
	OpNeg:      "neg",
	OpSin:      "sin",
	OpCos:      "cos",
	OpTan:      "tan",
	OpAsin:     "asin",
	OpAcos:     "acos",
	OpAtan:     "atan",
	OpExp:      "exp",
	OpConstVar: "const-var",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "invalid"
}
