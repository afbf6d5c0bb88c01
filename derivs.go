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

// Derivs holds the root rows after a derivative sweep.  The slices
// alias the evaluator's result store and are only valid until the
// next query.
type Derivs struct {
	V          []float64
	Dx, Dy, Dz []float64
}

// Derivs runs [Evaluator.Values] over the first n sample columns and
// then propagates spatial partial derivatives through the current
// tape.  Sample points must have been stored with [Evaluator.Set].
func (e *Evaluator) Derivs(n int) Derivs {
	if n > BatchSize {
		n = BatchSize
	}
	e.Values(n)

	t := e.tapes[e.cur]
	for k := len(t.clauses) - 1; k >= 0; k-- {
		c := t.clauses[k]

		ov := e.res.f[c.id][:n]
		odx := e.res.dx[c.id][:n]
		ody := e.res.dy[c.id][:n]
		odz := e.res.dz[c.id][:n]

		av := e.res.f[c.a][:n]
		adx := e.res.dx[c.a][:n]
		ady := e.res.dy[c.a][:n]
		adz := e.res.dz[c.a][:n]

		bv := e.res.f[c.b][:n]
		bdx := e.res.dx[c.b][:n]
		bdy := e.res.dy[c.b][:n]
		bdz := e.res.dz[c.b][:n]

		// d receives the common chain-rule factor for the ops that
		// have one.
		d := e.res.scratch[:n]

		switch c.op {
		case tree.OpAdd:
			for i := 0; i < n; i++ {
				odx[i] = adx[i] + bdx[i]
				ody[i] = ady[i] + bdy[i]
				odz[i] = adz[i] + bdz[i]
			}
		case tree.OpSub:
			for i := 0; i < n; i++ {
				odx[i] = adx[i] - bdx[i]
				ody[i] = ady[i] - bdy[i]
				odz[i] = adz[i] - bdz[i]
			}
		case tree.OpMul:
			// product rule
			for i := 0; i < n; i++ {
				odx[i] = av[i]*bdx[i] + adx[i]*bv[i]
				ody[i] = av[i]*bdy[i] + ady[i]*bv[i]
				odz[i] = av[i]*bdz[i] + adz[i]*bv[i]
			}
		case tree.OpDiv:
			for i := 0; i < n; i++ {
				d[i] = bv[i] * bv[i]
				odx[i] = (bv[i]*adx[i] - av[i]*bdx[i]) / d[i]
				ody[i] = (bv[i]*ady[i] - av[i]*bdy[i]) / d[i]
				odz[i] = (bv[i]*adz[i] - av[i]*bdz[i]) / d[i]
			}
		case tree.OpMin:
			for i := 0; i < n; i++ {
				if av[i] < bv[i] {
					odx[i], ody[i], odz[i] = adx[i], ady[i], adz[i]
				} else {
					odx[i], ody[i], odz[i] = bdx[i], bdy[i], bdz[i]
				}
			}
		case tree.OpMax:
			for i := 0; i < n; i++ {
				if av[i] < bv[i] {
					odx[i], ody[i], odz[i] = bdx[i], bdy[i], bdz[i]
				} else {
					odx[i], ody[i], odz[i] = adx[i], ady[i], adz[i]
				}
			}
		case tree.OpAtan2:
			for i := 0; i < n; i++ {
				d[i] = av[i]*av[i] + bv[i]*bv[i]
				odx[i] = (adx[i]*bv[i] - av[i]*bdx[i]) / d[i]
				ody[i] = (ady[i]*bv[i] - av[i]*bdy[i]) / d[i]
				odz[i] = (adz[i]*bv[i] - av[i]*bdz[i]) / d[i]
			}
		case tree.OpPow:
			// The exponent is constant, so its derivative term
			// (which would involve log of a possibly negative base)
			// is dropped.
			for i := 0; i < n; i++ {
				d[i] = bv[i] * math.Pow(av[i], bv[i]-1)
				odx[i] = d[i] * adx[i]
				ody[i] = d[i] * ady[i]
				odz[i] = d[i] * adz[i]
			}
		case tree.OpNthRoot:
			for i := 0; i < n; i++ {
				p := 1 / bv[i]
				d[i] = p * math.Pow(av[i], p-1)
				odx[i] = d[i] * adx[i]
				ody[i] = d[i] * ady[i]
				odz[i] = d[i] * adz[i]
			}
		case tree.OpMod:
			// not exact at the wrap points; fine for normals
			for i := 0; i < n; i++ {
				odx[i], ody[i], odz[i] = adx[i], ady[i], adz[i]
			}
		case tree.OpNanFill:
			for i := 0; i < n; i++ {
				if math.IsNaN(av[i]) {
					odx[i], ody[i], odz[i] = bdx[i], bdy[i], bdz[i]
				} else {
					odx[i], ody[i], odz[i] = adx[i], ady[i], adz[i]
				}
			}

		case tree.OpSquare:
			for i := 0; i < n; i++ {
				d[i] = 2 * av[i]
				odx[i] = d[i] * adx[i]
				ody[i] = d[i] * ady[i]
				odz[i] = d[i] * adz[i]
			}
		case tree.OpSqrt:
			for i := 0; i < n; i++ {
				if av[i] < 0 {
					odx[i], ody[i], odz[i] = 0, 0, 0
				} else {
					d[i] = 2 * ov[i]
					odx[i] = adx[i] / d[i]
					ody[i] = ady[i] / d[i]
					odz[i] = adz[i] / d[i]
				}
			}
		case tree.OpNeg:
			for i := 0; i < n; i++ {
				odx[i], ody[i], odz[i] = -adx[i], -ady[i], -adz[i]
			}
		case tree.OpSin:
			for i := 0; i < n; i++ {
				d[i] = math.Cos(av[i])
				odx[i] = adx[i] * d[i]
				ody[i] = ady[i] * d[i]
				odz[i] = adz[i] * d[i]
			}
		case tree.OpCos:
			for i := 0; i < n; i++ {
				d[i] = -math.Sin(av[i])
				odx[i] = adx[i] * d[i]
				ody[i] = ady[i] * d[i]
				odz[i] = adz[i] * d[i]
			}
		case tree.OpTan:
			for i := 0; i < n; i++ {
				sec := 1 / math.Cos(av[i])
				d[i] = sec * sec
				odx[i] = adx[i] * d[i]
				ody[i] = ady[i] * d[i]
				odz[i] = adz[i] * d[i]
			}
		case tree.OpAsin:
			for i := 0; i < n; i++ {
				d[i] = math.Sqrt(1 - av[i]*av[i])
				odx[i] = adx[i] / d[i]
				ody[i] = ady[i] / d[i]
				odz[i] = adz[i] / d[i]
			}
		case tree.OpAcos:
			for i := 0; i < n; i++ {
				d[i] = -math.Sqrt(1 - av[i]*av[i])
				odx[i] = adx[i] / d[i]
				ody[i] = ady[i] / d[i]
				odz[i] = adz[i] / d[i]
			}
		case tree.OpAtan:
			for i := 0; i < n; i++ {
				d[i] = av[i]*av[i] + 1
				odx[i] = adx[i] / d[i]
				ody[i] = ady[i] / d[i]
				odz[i] = adz[i] / d[i]
			}
		case tree.OpExp:
			for i := 0; i < n; i++ {
				d[i] = math.Exp(av[i])
				odx[i] = d[i] * adx[i]
				ody[i] = d[i] * ady[i]
				odz[i] = d[i] * adz[i]
			}
		case tree.OpConstVar:
			for i := 0; i < n; i++ {
				odx[i], ody[i], odz[i] = adx[i], ady[i], adz[i]
			}

		default:
			panic(&InvalidTapeError{Op: c.op})
		}
	}

	root := t.root
	return Derivs{
		V:  e.res.f[root][:n],
		Dx: e.res.dx[root][:n],
		Dy: e.res.dy[root][:n],
		Dz: e.res.dz[root][:n],
	}
}
