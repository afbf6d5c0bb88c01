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

// clauseID indexes a result slot.  IDs are small and dense so that
// per-clause state lives in plain slices.  ID 0 is reserved: it marks
// "no remap" in the pruner and is the unused second operand of unary
// clauses.
type clauseID uint32

// clause is one instruction of a tape: an operation, the slot it
// writes, and the slots of its operands.  Unary operations ignore b.
type clause struct {
	op   tree.Op
	id   clauseID
	a, b clauseID
}

// tapeKind records how a tape came to be on the stack.
type tapeKind uint8

const (
	tapeBase        tapeKind = iota // the unpruned program
	tapeInterval                    // pruned by interval bounds over a box
	tapeFeature                     // pruned by a feature's branch choices
	tapeSpecialized                 // pruned by scalar dominance at a point
)

// tape is a flat program.  Clauses are stored root-first: operands of
// a clause appear at larger indices.  Interpreters walk the slice
// from the end towards the front so that operand slots are written
// before they are read; the pruner walks front-to-back, so that it
// sees each clause before its operands.
type tape struct {
	clauses []clause
	root    clauseID
	kind    tapeKind

	// box is the region which validated the pruning.
	// Only set for tapeInterval tapes.
	box r3.Box
}

// contains reports whether p lies in the tape's validating box.
func (t *tape) contains(p r3.Vec) bool {
	return p.X >= t.box.Min.X && p.X <= t.box.Max.X &&
		p.Y >= t.box.Min.Y && p.Y <= t.box.Max.Y &&
		p.Z >= t.box.Min.Z && p.Z <= t.box.Max.Z
}
