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
	"math"

	"seehuhn.de/go/implicit/tree"
)

// Values evaluates the current tape over the first n sample columns
// and returns the root's scalar row.  The sample points must have
// been stored with [Evaluator.Set] beforehand.  The returned slice
// aliases the evaluator's result store and is only valid until the
// next query.
func (e *Evaluator) Values(n int) []float64 {
	if n > BatchSize {
		n = BatchSize
	}
	t := e.tapes[e.cur]
	for k := len(t.clauses) - 1; k >= 0; k-- {
		c := t.clauses[k]
		out := e.res.f[c.id][:n]
		a := e.res.f[c.a][:n]
		b := e.res.f[c.b][:n]

		switch c.op {
		case tree.OpAdd:
			for i := range out {
				out[i] = a[i] + b[i]
			}
		case tree.OpSub:
			for i := range out {
				out[i] = a[i] - b[i]
			}
		case tree.OpMul:
			for i := range out {
				out[i] = a[i] * b[i]
			}
		case tree.OpDiv:
			for i := range out {
				out[i] = a[i] / b[i]
			}
		case tree.OpMin:
			for i := range out {
				out[i] = math.Min(a[i], b[i])
			}
		case tree.OpMax:
			for i := range out {
				out[i] = math.Max(a[i], b[i])
			}
		case tree.OpAtan2:
			for i := range out {
				out[i] = math.Atan2(a[i], b[i])
			}
		case tree.OpPow:
			for i := range out {
				out[i] = math.Pow(a[i], b[i])
			}
		case tree.OpNthRoot:
			for i := range out {
				out[i] = math.Pow(a[i], 1/b[i])
			}
		case tree.OpMod:
			for i := range out {
				m := math.Mod(a[i], b[i])
				if m < 0 {
					m += math.Abs(b[i])
				}
				out[i] = m
			}
		case tree.OpNanFill:
			for i := range out {
				if math.IsNaN(a[i]) {
					out[i] = b[i]
				} else {
					out[i] = a[i]
				}
			}

		case tree.OpSquare:
			for i := range out {
				out[i] = a[i] * a[i]
			}
		case tree.OpSqrt:
			for i := range out {
				out[i] = math.Sqrt(a[i])
			}
		case tree.OpNeg:
			for i := range out {
				out[i] = -a[i]
			}
		case tree.OpSin:
			for i := range out {
				out[i] = math.Sin(a[i])
			}
		case tree.OpCos:
			for i := range out {
				out[i] = math.Cos(a[i])
			}
		case tree.OpTan:
			for i := range out {
				out[i] = math.Tan(a[i])
			}
		case tree.OpAsin:
			for i := range out {
				out[i] = math.Asin(a[i])
			}
		case tree.OpAcos:
			for i := range out {
				out[i] = math.Acos(a[i])
			}
		case tree.OpAtan:
			for i := range out {
				out[i] = math.Atan(a[i])
			}
		case tree.OpExp:
			for i := range out {
				out[i] = math.Exp(a[i])
			}
		case tree.OpConstVar:
			copy(out, a)

		default:
			panic(&InvalidTapeError{Op: c.op})
		}
	}
	return e.res.f[t.root][:n]
}
