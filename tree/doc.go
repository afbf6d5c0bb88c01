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

// Package tree represents mathematical expressions over the three
// coordinate variables x, y, z and any number of free variables.
//
// Expressions are built bottom-up from the leaf constructors [X], [Y],
// [Z], [Const] and [Var] using operator constructors such as [Add],
// [Min] or [Sqrt].  The resulting trees are immutable and may share
// sub-expressions.  They serve as the input to the evaluator in the
// parent package.
package tree
