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

	"gonum.org/v1/gonum/spatial/r3"

	"seehuhn.de/go/implicit/tree"
)

// Gradient returns the partial derivative of the expression with
// respect to each free variable, evaluated at p.  Sub-expressions
// wrapped in a const-var node contribute a zero gradient.
func (e *Evaluator) Gradient(p r3.Vec) map[*tree.Tree]float64 {
	e.Set(p, 0)
	e.Values(1)

	t := e.tapes[e.cur]
	for k := len(t.clauses) - 1; k >= 0; k-- {
		c := t.clauses[k]
		av := e.res.f[c.a][0]
		bv := e.res.f[c.b][0]
		aj := e.res.j[c.a]
		bj := e.res.j[c.b]
		oj := e.res.j[c.id]

		switch c.op {
		case tree.OpAdd:
			for i := range oj {
				oj[i] = aj[i] + bj[i]
			}
		case tree.OpSub:
			for i := range oj {
				oj[i] = aj[i] - bj[i]
			}
		case tree.OpMul:
			// product rule
			for i := range oj {
				oj[i] = av*bj[i] + bv*aj[i]
			}
		case tree.OpDiv:
			d := bv * bv
			for i := range oj {
				oj[i] = (bv*aj[i] - av*bj[i]) / d
			}
		case tree.OpMin:
			for i := range oj {
				if av < bv {
					oj[i] = aj[i]
				} else {
					oj[i] = bj[i]
				}
			}
		case tree.OpMax:
			for i := range oj {
				if av < bv {
					oj[i] = bj[i]
				} else {
					oj[i] = aj[i]
				}
			}
		case tree.OpAtan2:
			d := av*av + bv*bv
			for i := range oj {
				oj[i] = (aj[i]*bv - av*bj[i]) / d
			}
		case tree.OpPow:
			// constant exponent; the log term is dropped
			d := bv * math.Pow(av, bv-1)
			for i := range oj {
				oj[i] = d * aj[i]
			}
		case tree.OpNthRoot:
			q := 1 / bv
			d := q * math.Pow(av, q-1)
			for i := range oj {
				oj[i] = d * aj[i]
			}
		case tree.OpMod:
			// not exact at the wrap points; fine for normals
			copy(oj, aj)
		case tree.OpNanFill:
			if math.IsNaN(av) {
				copy(oj, bj)
			} else {
				copy(oj, aj)
			}

		case tree.OpSquare:
			d := 2 * av
			for i := range oj {
				oj[i] = d * aj[i]
			}
		case tree.OpSqrt:
			if av < 0 {
				for i := range oj {
					oj[i] = 0
				}
			} else {
				d := 2 * math.Sqrt(av)
				for i := range oj {
					oj[i] = aj[i] / d
				}
			}
		case tree.OpNeg:
			for i := range oj {
				oj[i] = -aj[i]
			}
		case tree.OpSin:
			d := math.Cos(av)
			for i := range oj {
				oj[i] = aj[i] * d
			}
		case tree.OpCos:
			d := -math.Sin(av)
			for i := range oj {
				oj[i] = aj[i] * d
			}
		case tree.OpTan:
			sec := 1 / math.Cos(av)
			d := sec * sec
			for i := range oj {
				oj[i] = aj[i] * d
			}
		case tree.OpAsin:
			d := math.Sqrt(1 - av*av)
			for i := range oj {
				oj[i] = aj[i] / d
			}
		case tree.OpAcos:
			d := -math.Sqrt(1 - av*av)
			for i := range oj {
				oj[i] = aj[i] / d
			}
		case tree.OpAtan:
			d := av*av + 1
			for i := range oj {
				oj[i] = aj[i] / d
			}
		case tree.OpExp:
			d := math.Exp(av)
			for i := range oj {
				oj[i] = d * aj[i]
			}
		case tree.OpConstVar:
			// pins the sub-expression against gradient propagation
			for i := range oj {
				oj[i] = 0
			}

		default:
			panic(&InvalidTapeError{Op: c.op})
		}
	}

	out := make(map[*tree.Tree]float64, len(e.varOrder))
	rj := e.res.j[t.root]
	for col, id := range e.varOrder {
		out[e.vars[id]] = rj[col]
	}
	return out
}
