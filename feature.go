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
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// choice records the resolution of one ambiguous min/max clause:
// which == 0 selects the first operand, 1 the second.
type choice struct {
	id    clauseID
	which int
}

// Feature is one locally consistent assignment of branches through
// the ambiguous min/max clauses at a point, together with the
// one-sided gradient that assignment produces.
//
// Each resolved ambiguity may carry an ε-direction: moving the query
// point slightly along that direction makes the recorded branch win
// outright.  A feature is only extended with a new ε if the open cone
// cut out by all previously recorded directions stays non-empty.
type Feature struct {
	// Deriv is the one-sided gradient, filled in once the feature is
	// fully resolved.
	Deriv r3.Vec

	choices  []choice
	epsilons []r3.Vec // unit length
	eps      map[clauseID]r3.Vec
}

func (f *Feature) clone() *Feature {
	out := &Feature{
		Deriv:    f.Deriv,
		choices:  append([]choice(nil), f.choices...),
		epsilons: append([]r3.Vec(nil), f.epsilons...),
	}
	if f.eps != nil {
		out.eps = make(map[clauseID]r3.Vec, len(f.eps))
		for id, v := range f.eps {
			out.eps[id] = v
		}
	}
	return out
}

func (f *Feature) epsilon(id clauseID) (r3.Vec, bool) {
	v, ok := f.eps[id]
	return v, ok
}

// addRaw appends an already-validated choice and its ε-direction.
// Used when minimizing a feature during PushFeature.
func (f *Feature) addRaw(c choice, eps r3.Vec) {
	f.choices = append(f.choices, c)
	f.epsilons = append(f.epsilons, eps)
	if f.eps == nil {
		f.eps = make(map[clauseID]r3.Vec)
	}
	f.eps[c.id] = eps
}

// addChoiceRaw appends a choice that carries no ε-direction
// (a degenerate clause whose operands are the same slot).
func (f *Feature) addChoiceRaw(c choice) {
	f.choices = append(f.choices, c)
}

// insertChoice adds c keeping the list sorted by clause id.  The
// pruner walks the tape root-first, where clause ids increase, and
// matches choices with a single forward cursor; the list order must
// agree with the walk order.
func (f *Feature) insertChoice(c choice) {
	i := 0
	for i < len(f.choices) && f.choices[i].id < c.id {
		i++
	}
	f.choices = append(f.choices, choice{})
	copy(f.choices[i+1:], f.choices[i:])
	f.choices[i] = c
}

// pushChoice records the resolution of a degenerate clause, which
// constrains no ε-direction.
func (f *Feature) pushChoice(c choice) {
	f.insertChoice(c)
}

// push tries to extend the feature by a choice with ε-direction eps.
// It reports whether the extended constraint cone is still feasible;
// on false the feature is unchanged.
func (f *Feature) push(eps r3.Vec, c choice) bool {
	n := r3.Norm(eps)
	if n == 0 {
		return false
	}
	u := r3.Scale(1/n, eps)
	if !f.IsCompatible(u) {
		return false
	}
	f.insertChoice(c)
	f.epsilons = append(f.epsilons, u)
	if f.eps == nil {
		f.eps = make(map[clauseID]r3.Vec)
	}
	f.eps[c.id] = u
	return true
}

// IsCompatible reports whether moving the query point along d keeps
// every branch recorded in the feature selected, i.e. whether d lies
// in the open cone cut out by the feature's ε-directions.
func (f *Feature) IsCompatible(d r3.Vec) bool {
	n := r3.Norm(d)
	if n == 0 {
		return false
	}
	u := r3.Scale(1/n, d)
	cone := append(append([]r3.Vec(nil), f.epsilons...), u)
	return coneFeasible(cone)
}

// key returns a canonical encoding of the choice list, used to
// deduplicate features.  ε values do not participate.
func (f *Feature) key() string {
	var sb strings.Builder
	for _, c := range f.choices {
		fmt.Fprintf(&sb, "%d:%d;", c.id, c.which)
	}
	return sb.String()
}

const coneTol = 1e-12

// coneFeasible reports whether some direction d has eps·d > 0 for
// every constraint.  Rather than solving a general linear program, a
// certificate set of candidate rays is tested: the constraints
// themselves, their sum, pairwise bisectors and pairwise cross
// products (the possible extreme rays of the cone in three
// dimensions), and finally the centroid of the surviving boundary
// rays.
func coneFeasible(eps []r3.Vec) bool {
	if len(eps) <= 1 {
		return true
	}

	var cands []r3.Vec
	var sum r3.Vec
	for _, v := range eps {
		cands = append(cands, v)
		sum = r3.Add(sum, v)
	}
	if r3.Norm(sum) > coneTol {
		cands = append(cands, r3.Unit(sum))
	}
	for i := 0; i < len(eps); i++ {
		for j := i + 1; j < len(eps); j++ {
			if c := r3.Cross(eps[i], eps[j]); r3.Norm(c) > coneTol {
				u := r3.Unit(c)
				cands = append(cands, u, r3.Scale(-1, u))
			}
			if m := r3.Add(eps[i], eps[j]); r3.Norm(m) > coneTol {
				cands = append(cands, r3.Unit(m))
			}
		}
	}

	minDot := func(d r3.Vec) float64 {
		lo := r3.Dot(d, eps[0])
		for _, v := range eps[1:] {
			if x := r3.Dot(d, v); x < lo {
				lo = x
			}
		}
		return lo
	}

	var boundary r3.Vec
	nBoundary := 0
	for _, d := range cands {
		lo := minDot(d)
		if lo > coneTol {
			return true
		}
		if lo >= -coneTol {
			boundary = r3.Add(boundary, d)
			nBoundary++
		}
	}

	// The interior may be reachable only as a combination of
	// boundary rays.
	if nBoundary > 0 && r3.Norm(boundary) > coneTol {
		if minDot(r3.Unit(boundary)) > coneTol {
			return true
		}
	}
	return false
}
