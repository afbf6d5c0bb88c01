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
	"math"
	"testing"

	"github.com/go-test/deep"
	"gonum.org/v1/gonum/spatial/r3"

	"seehuhn.de/go/implicit/tree"
)

// sphere returns the implicit unit sphere centred at (cx, cy, cz).
func sphere(cx, cy, cz float64) *tree.Tree {
	dx := tree.Sub(tree.X(), tree.Const(cx))
	dy := tree.Sub(tree.Y(), tree.Const(cy))
	dz := tree.Sub(tree.Z(), tree.Const(cz))
	rr := tree.Add(tree.Add(tree.Square(dx), tree.Square(dy)), tree.Square(dz))
	return tree.Sub(rr, tree.Const(1))
}

func mustNew(t *testing.T, root *tree.Tree, vars map[*tree.Tree]float64) *Evaluator {
	t.Helper()
	e, err := New(root, vars)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestSphere(t *testing.T) {
	e := mustNew(t, sphere(0, 0, 0), nil)

	if got := e.Eval(r3.Vec{}); got != -1 {
		t.Errorf("f(0,0,0) = %g, want -1", got)
	}
	if got := e.Eval(r3.Vec{X: 1}); got != 0 {
		t.Errorf("f(1,0,0) = %g, want 0", got)
	}

	iv := e.EvalInterval(r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})
	if !iv.Contains(-1) || !iv.Contains(2) {
		t.Errorf("interval %v does not contain [-1, 2]", iv)
	}

	if grad := e.Gradient(r3.Vec{X: 1}); len(grad) != 0 {
		t.Errorf("gradient of a variable-free tree has %d entries", len(grad))
	}
}

func TestBatchValues(t *testing.T) {
	e := mustNew(t, sphere(0, 0, 0), nil)

	pts := []r3.Vec{
		{},
		{X: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 0.5},
	}
	for i, p := range pts {
		e.Set(p, i)
	}
	got := e.Values(len(pts))
	want := []float64{-1, 0, 2, -0.75}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d: got %g, want %g", i, got[i], want[i])
		}
	}
}

func TestRootOp(t *testing.T) {
	e := mustNew(t, tree.Min(tree.X(), tree.Y()), nil)
	if op := e.RootOp(); op != tree.OpMin {
		t.Errorf("root op = %v, want min", op)
	}
}

func TestVariables(t *testing.T) {
	a := tree.Var()
	e := mustNew(t, tree.Mul(a, tree.X()), map[*tree.Tree]float64{a: 3})

	if got := e.Eval(r3.Vec{X: 2}); got != 6 {
		t.Errorf("3*2 = %g, want 6", got)
	}

	grad := e.Gradient(r3.Vec{X: 2})
	if diff := deep.Equal(grad, map[*tree.Tree]float64{a: 2}); diff != nil {
		t.Error(diff)
	}

	e.SetVar(a, 4)
	if got := e.Eval(r3.Vec{X: 2}); got != 8 {
		t.Errorf("4*2 = %g, want 8", got)
	}

	if vals := e.VarValues(); vals[a] != 4 {
		t.Errorf("VarValues()[a] = %g, want 4", vals[a])
	}

	if changed := e.UpdateVars(map[*tree.Tree]float64{a: 4}); changed {
		t.Error("UpdateVars reported a change for an unchanged value")
	}
	if changed := e.UpdateVars(map[*tree.Tree]float64{a: 5}); !changed {
		t.Error("UpdateVars did not report a change")
	}
	if got := e.Eval(r3.Vec{X: 2}); got != 10 {
		t.Errorf("5*2 = %g, want 10", got)
	}
}

func TestConstVar(t *testing.T) {
	a := tree.Var()
	// a*x + constvar(a): the second use of a is pinned
	root := tree.Add(tree.Mul(a, tree.X()), tree.ConstVar(a))
	e := mustNew(t, root, map[*tree.Tree]float64{a: 3})

	if got := e.Eval(r3.Vec{X: 2}); got != 9 {
		t.Errorf("f = %g, want 9", got)
	}
	grad := e.Gradient(r3.Vec{X: 2})
	if grad[a] != 2 {
		t.Errorf("df/da = %g, want 2 (const-var leg must not contribute)", grad[a])
	}
}

func TestMissingVariable(t *testing.T) {
	a := tree.Var()
	_, err := New(tree.Mul(a, tree.X()), nil)
	var mErr *MalformedTreeError
	if !errors.As(err, &mErr) {
		t.Fatalf("got %v, want MalformedTreeError", err)
	}
}

func TestPowExponentMustBeConstant(t *testing.T) {
	_, err := New(tree.Pow(tree.X(), tree.Y()), nil)
	var mErr *MalformedTreeError
	if !errors.As(err, &mErr) {
		t.Fatalf("got %v, want MalformedTreeError", err)
	}

	// a constant exponent is fine
	e := mustNew(t, tree.Pow(tree.X(), tree.Const(3)), nil)
	if got := e.Eval(r3.Vec{X: 2}); got != 8 {
		t.Errorf("2^3 = %g, want 8", got)
	}
}

func TestOpcodeSemantics(t *testing.T) {
	x := tree.X()
	tests := []struct {
		name string
		root *tree.Tree
		p    r3.Vec
		want float64
	}{
		{"mod positive", tree.Mod(x, tree.Const(3)), r3.Vec{X: 7}, 1},
		{"mod euclidean", tree.Mod(x, tree.Const(3)), r3.Vec{X: -1}, 2},
		{"nanfill passthrough", tree.NanFill(x, tree.Const(7)), r3.Vec{X: 2}, 2},
		{"nanfill fallback", tree.NanFill(tree.Sqrt(x), tree.Const(7)), r3.Vec{X: -1}, 7},
		{"nth root", tree.NthRoot(x, tree.Const(2)), r3.Vec{X: 9}, 3},
		{"atan2", tree.Atan2(tree.Y(), x), r3.Vec{X: 1, Y: 1}, math.Pi / 4},
		{"div", tree.Div(x, tree.Const(4)), r3.Vec{X: 1}, 0.25},
		{"exp", tree.Exp(x), r3.Vec{}, 1},
		{"neg", tree.Neg(x), r3.Vec{X: 5}, -5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := mustNew(t, tc.root, nil)
			if got := e.Eval(tc.p); got != tc.want {
				t.Errorf("got %g, want %g", got, tc.want)
			}
		})
	}
}

func TestSharedSubexpression(t *testing.T) {
	// x² used twice through the same node
	sq := tree.Square(tree.X())
	e := mustNew(t, tree.Add(sq, sq), nil)
	if got := e.Eval(r3.Vec{X: 3}); got != 18 {
		t.Errorf("2*x² = %g, want 18", got)
	}
}

func TestLeafRoot(t *testing.T) {
	e := mustNew(t, tree.X(), nil)
	if got := e.Eval(r3.Vec{X: 7}); got != 7 {
		t.Errorf("f = %g, want 7", got)
	}

	e = mustNew(t, tree.Const(4), nil)
	if got := e.Eval(r3.Vec{X: 7}); got != 4 {
		t.Errorf("f = %g, want 4", got)
	}
}
