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

package implicit

import (
	"seehuhn.de/go/implicit/interval"
	"seehuhn.de/go/implicit/tree"
)

// intervalWalk sweeps the current tape once using interval
// arithmetic and returns the root's enclosure.  The input box must
// have been stored with [Evaluator.SetInterval].
func (e *Evaluator) intervalWalk() interval.Interval {
	t := e.tapes[e.cur]
	for k := len(t.clauses) - 1; k >= 0; k-- {
		c := t.clauses[k]
		a := e.res.i[c.a]
		b := e.res.i[c.b]

		var out interval.Interval
		switch c.op {
		case tree.OpAdd:
			out = a.Add(b)
		case tree.OpSub:
			out = a.Sub(b)
		case tree.OpMul:
			out = a.Mul(b)
		case tree.OpDiv:
			out = a.Div(b)
		case tree.OpMin:
			out = a.Min(b)
		case tree.OpMax:
			out = a.Max(b)
		case tree.OpAtan2:
			out = a.Atan2(b)
		case tree.OpPow:
			out = a.PowN(b.Lo)
		case tree.OpNthRoot:
			out = a.NthRoot(b.Lo)
		case tree.OpMod:
			out = a.Mod(b)
		case tree.OpNanFill:
			out = a.NanFill(b)

		case tree.OpSquare:
			out = a.Square()
		case tree.OpSqrt:
			out = a.Sqrt()
		case tree.OpNeg:
			out = a.Neg()
		case tree.OpSin:
			out = a.Sin()
		case tree.OpCos:
			out = a.Cos()
		case tree.OpTan:
			out = a.Tan()
		case tree.OpAsin:
			out = a.Asin()
		case tree.OpAcos:
			out = a.Acos()
		case tree.OpAtan:
			out = a.Atan()
		case tree.OpExp:
			out = a.Exp()
		case tree.OpConstVar:
			out = a

		default:
			panic(&InvalidTapeError{Op: c.op})
		}
		e.res.i[c.id] = out
	}
	return e.res.i[t.root]
}
