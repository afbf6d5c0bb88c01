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
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/r3"

	"seehuhn.de/go/implicit/interval"
	"seehuhn.de/go/implicit/tree"
)

// Evaluator holds a compiled expression together with all evaluation
// state.  It is not safe for concurrent use; see the package
// documentation.
type Evaluator struct {
	rootOp tree.Op

	res *result

	// tapes is the specialisation stack.  tapes[0] is the unpruned
	// program; cur points at the tape answering queries.  Tapes above
	// cur are retained so their storage can be reused by the next
	// push.
	tapes []*tape
	cur   int

	// disabled and remap are the pruner's scratch arrays, sized to
	// the number of result slots.
	disabled []bool
	remap    []clauseID

	// vars maps clause slots to variable handles and back.
	vars     map[clauseID]*tree.Tree
	varIDs   map[*tree.Tree]clauseID
	varOrder []clauseID // ascending; defines Jacobian column order

	// result slots of the coordinate variables
	x, y, z clauseID
}

// New compiles the expression rooted at root into an evaluator.  The
// vars map must provide an initial value for every free variable in
// the tree; extra entries are ignored.
func New(root *tree.Tree, vars map[*tree.Tree]float64) (*Evaluator, error) {
	e := &Evaluator{
		rootOp: root.Op(),
		vars:   make(map[clauseID]*tree.Tree),
		varIDs: make(map[*tree.Tree]clauseID),
	}

	flat := root.Ordered()

	// Assign ids in decreasing order, so that operands always have
	// larger ids than the clauses using them.  The root receives the
	// smallest id.
	ids := map[*tree.Tree]clauseID{nil: 0}
	id := clauseID(len(flat))

	var rev []clause // clauses in operand-first order
	consts := make(map[clauseID]float64)

	for _, m := range flat {
		op := m.Op()
		switch {
		case op == tree.OpConst:
			consts[id] = m.Value()
			ids[m] = id

		case op == tree.OpVar:
			v, ok := vars[m]
			if !ok {
				return nil, &MalformedTreeError{Op: op, Reason: "missing variable value"}
			}
			consts[id] = v
			e.vars[id] = m
			e.varIDs[m] = id
			ids[m] = id

		case op == tree.OpVarX:
			// All occurrences of a coordinate variable share one slot.
			if e.x == 0 {
				e.x = id
			}
			ids[m] = e.x

		case op == tree.OpVarY:
			if e.y == 0 {
				e.y = id
			}
			ids[m] = e.y

		case op == tree.OpVarZ:
			if e.z == 0 {
				e.z = id
			}
			ids[m] = e.z

		case op.IsBinary() || op.IsUnary():
			a, b := m.Operands()
			ca, ok := ids[a]
			if !ok || ca == 0 {
				return nil, &MalformedTreeError{Op: op, Reason: "operand not yet assigned"}
			}
			cb := clauseID(0)
			if op.IsBinary() {
				if cb, ok = ids[b]; !ok || cb == 0 {
					return nil, &MalformedTreeError{Op: op, Reason: "operand not yet assigned"}
				}
			}
			if (op == tree.OpPow || op == tree.OpNthRoot) && b.Op() != tree.OpConst {
				return nil, &MalformedTreeError{Op: op, Reason: "exponent must be a constant"}
			}
			rev = append(rev, clause{op: op, id: id, a: ca, b: cb})
			ids[m] = id

		default:
			return nil, &MalformedTreeError{Op: op, Reason: "unexpected opcode"}
		}
		id--
	}

	// Make sure the coordinate variables have slots even when they do
	// not occur in the tree.
	total := clauseID(len(flat))
	for _, axis := range []*clauseID{&e.x, &e.y, &e.z} {
		if *axis == 0 {
			total++
			*axis = total
		}
	}

	e.res = newResult(int(total)+1, len(e.varIDs))
	e.disabled = make([]bool, total+1)
	e.remap = make([]clauseID, total+1)

	for cid, v := range consts {
		e.res.fill(v, cid)
	}

	// The spatial derivatives of the coordinate slots never change.
	e.res.setDeriv(e.x, 1, 0, 0)
	e.res.setDeriv(e.y, 0, 1, 0)
	e.res.setDeriv(e.z, 0, 0, 1)

	// Jacobian columns are assigned in increasing slot order.
	for cid := range e.vars {
		e.varOrder = append(e.varOrder, cid)
	}
	slices.Sort(e.varOrder)
	for col, cid := range e.varOrder {
		e.res.setGradient(cid, col)
	}

	// Materialise the bottom tape, root first.
	cl := make([]clause, len(rev))
	for i, c := range rev {
		cl[len(rev)-1-i] = c
	}
	e.tapes = []*tape{{clauses: cl, root: ids[root], kind: tapeBase}}

	return e, nil
}

// RootOp returns the operation of the expression's root node.
// Callers use this to special-case constant or affine roots.
func (e *Evaluator) RootOp() tree.Op {
	return e.rootOp
}

// Set stores p as the col-th sample point for a subsequent batched
// call to [Evaluator.Values] or [Evaluator.Derivs].
func (e *Evaluator) Set(p r3.Vec, col int) {
	e.res.f[e.x][col] = p.X
	e.res.f[e.y][col] = p.Y
	e.res.f[e.z][col] = p.Z
}

// SetInterval stores the box [lo, hi] as the input region for a
// subsequent interval walk or [Evaluator.Push].
func (e *Evaluator) SetInterval(lo, hi r3.Vec) {
	e.res.i[e.x] = interval.New(lo.X, hi.X)
	e.res.i[e.y] = interval.New(lo.Y, hi.Y)
	e.res.i[e.z] = interval.New(lo.Z, hi.Z)
}

// Eval returns the expression's value at p, using the current tape.
func (e *Evaluator) Eval(p r3.Vec) float64 {
	e.Set(p, 0)
	return e.Values(1)[0]
}

// EvalInterval returns an enclosure of the expression's values over
// the box [lo, hi].  It also leaves the per-clause interval state
// populated, so that a following [Evaluator.Push] can prune against
// it.
func (e *Evaluator) EvalInterval(lo, hi r3.Vec) interval.Interval {
	e.SetInterval(lo, hi)
	return e.intervalWalk()
}

// BaseEval evaluates at p using the deepest tape on the stack whose
// validating box contains p, falling back to the unpruned bottom
// tape.  The current tape is restored before returning.
func (e *Evaluator) BaseEval(p r3.Vec) float64 {
	prev := e.cur
	for e.cur > 0 {
		t := e.tapes[e.cur]
		if t.kind == tapeInterval && t.contains(p) {
			break
		}
		e.cur--
	}
	out := e.Eval(p)
	e.cur = prev
	return out
}

// Pop undoes the most recent [Evaluator.Push], [Evaluator.PushFeature]
// or [Evaluator.Specialize].  Popping the bottom tape is a bug in the
// caller and panics.
func (e *Evaluator) Pop() {
	if e.cur == 0 {
		panic("implicit: tape stack underflow")
	}
	e.cur--
}

// Utilization returns the length of the current tape divided by the
// length of the unpruned tape, as a measure of how effective the
// specialisation stack is.
func (e *Evaluator) Utilization() float64 {
	return float64(len(e.tapes[e.cur].clauses)) / float64(len(e.tapes[0].clauses))
}

// SetVar sets the value of the free variable v.  Variables not known
// to the evaluator are ignored.
func (e *Evaluator) SetVar(v *tree.Tree, x float64) {
	if id, ok := e.varIDs[v]; ok {
		e.res.fill(x, id)
	}
}

// UpdateVars sets all variables present in vals and reports whether
// any value changed.
func (e *Evaluator) UpdateVars(vals map[*tree.Tree]float64) bool {
	changed := false
	for _, id := range e.varOrder {
		v := e.vars[id]
		x, ok := vals[v]
		if !ok {
			continue
		}
		if x != e.res.f[id][0] {
			e.res.fill(x, id)
			changed = true
		}
	}
	return changed
}

// VarValues returns the current value of every free variable.
func (e *Evaluator) VarValues() map[*tree.Tree]float64 {
	out := make(map[*tree.Tree]float64, len(e.vars))
	for id, v := range e.vars {
		out[v] = e.res.f[id][0]
	}
	return out
}
