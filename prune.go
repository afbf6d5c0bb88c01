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
	"gonum.org/v1/gonum/spatial/r3"

	"seehuhn.de/go/implicit/tree"
)

// resetScratch prepares the disabled/remap arrays for a pruning pass:
// everything disabled, nothing remapped, only the root alive.
func (e *Evaluator) resetScratch() {
	for i := range e.disabled {
		e.disabled[i] = true
	}
	for i := range e.remap {
		e.remap[i] = 0
	}
	e.disabled[e.tapes[e.cur].root] = false
}

// pushTape emits the successor tape from the disabled/remap arrays,
// advancing the stack cursor.  Tape storage above the cursor is
// reused, so pushing does not allocate after the first visit to a
// given depth.
func (e *Evaluator) pushTape(kind tapeKind) {
	prev := e.tapes[e.cur]

	e.cur++
	if e.cur == len(e.tapes) {
		e.tapes = append(e.tapes, &tape{
			clauses: make([]clause, 0, len(e.tapes[0].clauses)),
		})
	}
	t := e.tapes[e.cur]
	t.clauses = t.clauses[:0]
	t.kind = kind

	for _, c := range prev.clauses {
		if e.disabled[c.id] {
			continue
		}
		// Collapse remap chains to their fixed point, so the new
		// tape contains no stale indirection.
		ra := c.a
		for e.remap[ra] != 0 {
			ra = e.remap[ra]
		}
		rb := c.b
		for e.remap[rb] != 0 {
			rb = e.remap[rb]
		}
		t.clauses = append(t.clauses, clause{op: c.op, id: c.id, a: ra, b: rb})
	}

	root := prev.root
	for e.remap[root] != 0 {
		root = e.remap[root]
	}
	t.root = root
}

// Push derives a new tape by pruning min/max branches which the most
// recent interval walk has shown to be decisively dominated over the
// queried box.  The box is recorded on the new tape for
// [Evaluator.BaseEval].  Each Push must be matched by one
// [Evaluator.Pop].
func (e *Evaluator) Push() {
	e.resetScratch()

	t := e.tapes[e.cur]
	for _, c := range t.clauses {
		if e.disabled[c.id] {
			continue
		}
		// Strict inequalities on the interval bounds: an endpoint tie
		// does not prove dominance.
		switch c.op {
		case tree.OpMax:
			if e.res.i[c.a].Lo > e.res.i[c.b].Hi {
				e.disabled[c.a] = false
				e.remap[c.id] = c.a
			} else if e.res.i[c.b].Lo > e.res.i[c.a].Hi {
				e.disabled[c.b] = false
				e.remap[c.id] = c.b
			}
		case tree.OpMin:
			if e.res.i[c.a].Lo > e.res.i[c.b].Hi {
				e.disabled[c.b] = false
				e.remap[c.id] = c.b
			} else if e.res.i[c.b].Lo > e.res.i[c.a].Hi {
				e.disabled[c.a] = false
				e.remap[c.id] = c.a
			}
		}
		if e.remap[c.id] == 0 {
			e.disabled[c.a] = false
			e.disabled[c.b] = false
		} else {
			e.disabled[c.id] = true
		}
	}

	e.pushTape(tapeInterval)
	e.tapes[e.cur].box = r3.Box{
		Min: r3.Vec{X: e.res.i[e.x].Lo, Y: e.res.i[e.y].Lo, Z: e.res.i[e.z].Lo},
		Max: r3.Vec{X: e.res.i[e.x].Hi, Y: e.res.i[e.y].Hi, Z: e.res.i[e.z].Hi},
	}
}

// Specialize evaluates the expression at p and derives a new tape in
// which min/max branches losing strictly at p are pruned.  Each
// Specialize must be matched by one [Evaluator.Pop].
func (e *Evaluator) Specialize(p r3.Vec) {
	e.Eval(p)
	e.resetScratch()

	t := e.tapes[e.cur]
	for _, c := range t.clauses {
		if e.disabled[c.id] {
			continue
		}
		switch c.op {
		case tree.OpMax:
			if e.res.f[c.a][0] > e.res.f[c.b][0] {
				e.disabled[c.a] = false
				e.remap[c.id] = c.a
			} else if e.res.f[c.b][0] > e.res.f[c.a][0] {
				e.disabled[c.b] = false
				e.remap[c.id] = c.b
			}
		case tree.OpMin:
			if e.res.f[c.a][0] > e.res.f[c.b][0] {
				e.disabled[c.b] = false
				e.remap[c.id] = c.b
			} else if e.res.f[c.b][0] > e.res.f[c.a][0] {
				e.disabled[c.a] = false
				e.remap[c.id] = c.a
			}
		}
		if e.remap[c.id] == 0 {
			e.disabled[c.a] = false
			e.disabled[c.b] = false
		} else {
			e.disabled[c.id] = true
		}
	}

	e.pushTape(tapeSpecialized)
}

// PushFeature derives a new tape in which ambiguous min/max clauses
// are resolved according to f's recorded choices.  The clause values
// from the most recent scalar evaluation decide which clauses are
// ambiguous.  PushFeature returns a minimized copy of f containing
// exactly the choices that matched clauses of the current tape.  Each
// PushFeature must be matched by one [Evaluator.Pop].
func (e *Evaluator) PushFeature(f *Feature) *Feature {
	e.resetScratch()

	out := &Feature{Deriv: f.Deriv}

	choices := f.choices
	next := 0

	t := e.tapes[e.cur]
	for _, c := range t.clauses {
		match := next < len(choices) && choices[next].id == c.id &&
			(c.op == tree.OpMin || c.op == tree.OpMax) &&
			(c.a == c.b || e.res.f[c.a][0] == e.res.f[c.b][0])

		if !e.disabled[c.id] {
			if match {
				ch := choices[next]
				if eps, ok := f.epsilon(c.id); ok {
					out.addRaw(ch, eps)
				} else {
					out.addChoiceRaw(ch)
				}
				if ch.which == 0 {
					e.disabled[c.a] = false
					e.remap[c.id] = c.a
				} else {
					e.disabled[c.b] = false
					e.remap[c.id] = c.b
				}
			}
			if e.remap[c.id] == 0 {
				e.disabled[c.a] = false
				e.disabled[c.b] = false
			} else {
				e.disabled[c.id] = true
			}
		}

		if match {
			next++
		}
	}

	e.pushTape(tapeFeature)
	return out
}
