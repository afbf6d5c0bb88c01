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

// Package implicit evaluates implicit surfaces given as expression
// trees over the coordinates x, y, z.
//
// An [Evaluator] compiles a [seehuhn.de/go/implicit/tree.Tree] into a
// flat tape of clauses and answers four kinds of queries against it:
// point values, conservative interval enclosures over boxes, spatial
// partial derivatives, and gradients with respect to the expression's
// free variables.
//
// The evaluator maintains a stack of progressively specialised tapes.
// [Evaluator.Push] prunes branches of min/max operations which an
// interval query has shown to be inactive over a box;
// [Evaluator.Specialize] does the same using a point evaluation, and
// [Evaluator.Pop] restores the previous tape.  Spatial subdivision
// algorithms use this to shorten the program as they descend, without
// allocating on each push.
//
// At points where the surface is not smooth (coincident min/max
// branches), [Evaluator.FeaturesAt] enumerates the distinct one-sided
// gradients, and [Evaluator.IsInside] uses them to decide membership
// correctly at cusps and creases.
//
// An Evaluator must only be used from a single goroutine.  Callers
// who evaluate in parallel construct one Evaluator per goroutine from
// the shared tree.
package implicit
