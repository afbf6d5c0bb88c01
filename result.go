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

import "seehuhn.de/go/implicit/interval"

// BatchSize is the number of sample columns held per clause.  Batched
// queries such as [Evaluator.Values] evaluate up to BatchSize points
// in one tape walk.
const BatchSize = 256

// result is the dense store written by the interpreters.  All rows
// are indexed by clauseID; row 0 belongs to the reserved null id.
type result struct {
	f          [][]float64 // scalar samples
	dx, dy, dz [][]float64 // spatial partial derivatives per sample
	i          []interval.Interval
	j          [][]float64 // gradient w.r.t. free variables, column 0 only

	// scratch holds per-clause common factors during the
	// derivative sweep.
	scratch []float64
}

// newResult allocates storage for n clause slots and nVars free
// variables.  A single backing array per plane keeps the rows
// contiguous.
func newResult(n, nVars int) *result {
	r := &result{
		f:       makeRows(n, BatchSize),
		dx:      makeRows(n, BatchSize),
		dy:      makeRows(n, BatchSize),
		dz:      makeRows(n, BatchSize),
		i:       make([]interval.Interval, n),
		j:       makeRows(n, nVars),
		scratch: make([]float64, BatchSize),
	}
	return r
}

func makeRows(n, cols int) [][]float64 {
	backing := make([]float64, n*cols)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return rows
}

// fill writes v into every scalar column of slot id, and sets the
// slot's interval to the point [v, v].  Used for constants and for
// variable updates.
func (r *result) fill(v float64, id clauseID) {
	row := r.f[id]
	for i := range row {
		row[i] = v
	}
	r.i[id] = interval.Point(v)
}

// setDeriv pins the spatial derivative of slot id to (dx, dy, dz) in
// every column.  Only used for the coordinate variable slots.
func (r *result) setDeriv(id clauseID, dx, dy, dz float64) {
	for i := 0; i < BatchSize; i++ {
		r.dx[id][i] = dx
		r.dy[id][i] = dy
		r.dz[id][i] = dz
	}
}

// setGradient makes slot id's variable gradient the col-th basis
// vector.  Only used for free variable slots.
func (r *result) setGradient(id clauseID, col int) {
	row := r.j[id]
	for i := range row {
		row[i] = 0
	}
	row[col] = 1
}
