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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/r3"

	"seehuhn.de/go/implicit/tree"
)

// FeaturesAt returns the distinct one-sided gradients of the
// expression at p, one [Feature] per locally consistent assignment of
// the ambiguous min/max branches.  At a smooth point the result has a
// single element.  ErrNoFeature is returned if no branch assignment
// is feasible.
func (e *Evaluator) FeaturesAt(p r3.Vec) ([]*Feature, error) {
	e.Specialize(p)

	todo := []*Feature{{}}
	var done []*Feature
	seen := make(map[string]bool)

	for len(todo) > 0 {
		f := todo[0]
		todo = todo[1:]

		// Restrict the tape to the feature's choices.  The value at p
		// is unchanged, but the one-sided derivatives depend on which
		// branches survive.
		f = e.PushFeature(f)
		ds := e.Derivs(1)

		// Scan for the first still-ambiguous min/max clause, deepest
		// first.
		ambiguous := false
		t := e.tapes[e.cur]
	scan:
		for k := len(t.clauses) - 1; k >= 0; k-- {
			c := t.clauses[k]
			if c.op != tree.OpMin && c.op != tree.OpMax {
				continue
			}
			switch {
			case c.a == c.b:
				// Both branches collapsed to the same slot; record a
				// nominal choice so the clause is dropped next time.
				fa := f.clone()
				fa.pushChoice(choice{id: c.id, which: 0})
				todo = append(todo, fa)
				ambiguous = true
				break scan

			case e.res.f[c.a][0] == e.res.f[c.b][0]:
				lhs := r3.Vec{X: e.res.dx[c.a][0], Y: e.res.dy[c.a][0], Z: e.res.dz[c.a][0]}
				rhs := r3.Vec{X: e.res.dx[c.b][0], Y: e.res.dy[c.b][0], Z: e.res.dz[c.b][0]}

				// ε points into the half-space where the first
				// operand is selected.
				var eps r3.Vec
				if c.op == tree.OpMin {
					eps = r3.Sub(rhs, lhs)
				} else {
					eps = r3.Sub(lhs, rhs)
				}

				fa := f.clone()
				if fa.push(eps, choice{id: c.id, which: 0}) {
					todo = append(todo, fa)
				}
				fb := f.clone()
				if fb.push(r3.Scale(-1, eps), choice{id: c.id, which: 1}) {
					todo = append(todo, fb)
				}
				// If neither direction is compatible nothing is
				// enqueued: the path is infeasible and the feature
				// dies here.
				ambiguous = true
				break scan
			}
		}

		if !ambiguous {
			f.Deriv = r3.Vec{X: ds.Dx[0], Y: ds.Dy[0], Z: ds.Dz[0]}
			if k := f.key(); !seen[k] {
				seen[k] = true
				done = append(done, f)
			}
		}
		e.Pop() // feature tape
	}
	e.Pop() // specialization tape

	if len(done) == 0 {
		return nil, ErrNoFeature
	}
	return done, nil
}

// IsInside reports whether p lies inside the solid, treating the
// surface itself as outside only where every one-sided gradient
// points outward.  This gives the correct answer at cusps and
// creases, where the function is zero but not smooth.
func (e *Evaluator) IsInside(p r3.Vec) bool {
	e.Set(p, 0)
	ds := e.Derivs(1)

	if ds.V[0] < 0 {
		return true
	}
	if ds.V[0] > 0 {
		return false
	}

	// On the surface with a well-defined non-zero gradient, points
	// arbitrarily close on the inside exist.
	if !e.IsAmbiguous() {
		return ds.Dx[0] != 0 || ds.Dy[0] != 0 || ds.Dz[0] != 0
	}

	fs, err := e.FeaturesAt(p)
	if err != nil {
		return false
	}
	if len(fs) == 1 {
		return r3.Norm(fs[0].Deriv) > 0
	}

	// The point is outside only if some feature's cone admits its
	// outward direction and no feature's cone admits its inward one.
	pos := false
	neg := false
	for _, f := range fs {
		pos = pos || f.IsCompatible(f.Deriv)
		neg = neg || f.IsCompatible(r3.Scale(-1, f.Deriv))
	}
	return !(pos && !neg)
}

// IsAmbiguous reports whether the current tape contains a min/max
// clause whose operands are exactly equal in sample column 0 of the
// most recent scalar evaluation.
func (e *Evaluator) IsAmbiguous() bool {
	t := e.tapes[e.cur]
	for _, c := range t.clauses {
		if (c.op == tree.OpMin || c.op == tree.OpMax) &&
			e.res.f[c.a][0] == e.res.f[c.b][0] {
			return true
		}
	}
	return false
}

// IsAmbiguousAt evaluates the expression at p and reports whether any
// min/max clause is ambiguous there.
func (e *Evaluator) IsAmbiguousAt(p r3.Vec) bool {
	e.Eval(p)
	return e.IsAmbiguous()
}

// Ambiguous returns the sorted sample columns j < n in which some
// min/max clause of the current tape has exactly equal operands.
// Sample points must have been stored with [Evaluator.Set] and
// evaluated.
func (e *Evaluator) Ambiguous(n int) []int {
	if n > BatchSize {
		n = BatchSize
	}
	cols := make(map[int]bool)
	t := e.tapes[e.cur]
	for _, c := range t.clauses {
		if c.op != tree.OpMin && c.op != tree.OpMax {
			continue
		}
		a := e.res.f[c.a][:n]
		b := e.res.f[c.b][:n]
		for j := 0; j < n; j++ {
			if a[j] == b[j] {
				cols[j] = true
			}
		}
	}
	out := maps.Keys(cols)
	slices.Sort(out)
	return out
}
