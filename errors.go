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
	"errors"
	"fmt"

	"seehuhn.de/go/implicit/tree"
)

// ErrNoFeature is returned by [Evaluator.FeaturesAt] if no branch
// resolution at the query point is feasible.
var ErrNoFeature = errors.New("no feasible feature")

// MalformedTreeError indicates that an expression tree cannot be
// compiled into a tape.
type MalformedTreeError struct {
	Op     tree.Op
	Reason string
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed tree at %q node: %s", e.Op, e.Reason)
}

func (e *MalformedTreeError) Is(target error) bool {
	_, ok := target.(*MalformedTreeError)
	return ok
}

// InvalidTapeError indicates structural corruption of a tape: a leaf
// or sentinel opcode appeared as a clause operation.  Interpreters
// panic with this error since the tape cannot have been produced by
// the builder.
type InvalidTapeError struct {
	Op tree.Op
}

func (e *InvalidTapeError) Error() string {
	return fmt.Sprintf("invalid opcode %q in tape", e.Op)
}
