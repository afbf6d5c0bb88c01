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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"

	"seehuhn.de/go/implicit/tree"
)

// derivSet extracts the gradients of a feature list, in feature
// order; comparisons sort them with vecLess.
func derivSet(fs []*Feature) []r3.Vec {
	out := make([]r3.Vec, len(fs))
	for i, f := range fs {
		out[i] = f.Deriv
	}
	return out
}

var vecLess = cmpopts.SortSlices(func(a, b r3.Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
})

func TestFeaturesMinXY(t *testing.T) {
	e := mustNew(t, tree.Min(tree.X(), tree.Y()), nil)

	fs, err := e.FeaturesAt(r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	want := []r3.Vec{{X: 1}, {Y: 1}}
	if diff := cmp.Diff(want, derivSet(fs), vecLess); diff != "" {
		t.Errorf("features at the crease (-want +got):\n%s", diff)
	}

	if !e.IsAmbiguousAt(r3.Vec{}) {
		t.Error("origin not reported as ambiguous")
	}
	if e.IsAmbiguousAt(r3.Vec{X: 1}) {
		t.Error("(1,0,0) reported as ambiguous")
	}

	// the stack must be balanced afterwards
	if e.cur != 0 {
		t.Errorf("cursor = %d after FeaturesAt, want 0", e.cur)
	}
}

func TestFeaturesSmoothPoint(t *testing.T) {
	e := mustNew(t, tree.Min(tree.X(), tree.Y()), nil)

	fs, err := e.FeaturesAt(r3.Vec{X: 1, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 1 {
		t.Fatalf("smooth point has %d features, want 1", len(fs))
	}
	if want := (r3.Vec{X: 1}); fs[0].Deriv != want {
		t.Errorf("gradient = %v, want %v", fs[0].Deriv, want)
	}
}

func TestFeaturesAbs(t *testing.T) {
	x := tree.X()
	e := mustNew(t, tree.Max(x, tree.Neg(x)), nil)

	fs, err := e.FeaturesAt(r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	want := []r3.Vec{{X: -1}, {X: 1}}
	if diff := cmp.Diff(want, derivSet(fs), vecLess); diff != "" {
		t.Errorf("features of |x| at 0 (-want +got):\n%s", diff)
	}
}

func TestIsInside(t *testing.T) {
	x := tree.X()

	tests := []struct {
		name string
		root *tree.Tree
		p    r3.Vec
		want bool
	}{
		{"sphere centre", sphere(0, 0, 0), r3.Vec{}, true},
		{"sphere surface", sphere(0, 0, 0), r3.Vec{X: 1}, true},
		{"sphere outside", sphere(0, 0, 0), r3.Vec{X: 2}, false},
		{"abs cusp", tree.Max(x, tree.Neg(x)), r3.Vec{}, false},
		{"abs positive", tree.Max(x, tree.Neg(x)), r3.Vec{X: 1}, false},
		{"neg abs cusp", tree.Neg(tree.Max(x, tree.Neg(x))), r3.Vec{}, true},
		{"crease on boundary", tree.Min(x, tree.Y()), r3.Vec{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := mustNew(t, tc.root, nil)
			if got := e.IsInside(tc.p); got != tc.want {
				t.Errorf("IsInside(%v) = %t, want %t", tc.p, got, tc.want)
			}
		})
	}
}

func TestAmbiguousColumns(t *testing.T) {
	e := mustNew(t, tree.Min(tree.X(), tree.Y()), nil)

	pts := []r3.Vec{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 2, Y: 2},
	}
	for i, p := range pts {
		e.Set(p, i)
	}
	e.Values(len(pts))

	got := e.Ambiguous(len(pts))
	if diff := cmp.Diff([]int{0, 2}, got); diff != "" {
		t.Errorf("ambiguous columns (-want +got):\n%s", diff)
	}
}

func TestPushFeatureResolvesAmbiguity(t *testing.T) {
	e := mustNew(t, tree.Min(tree.X(), tree.Y()), nil)

	fs, err := e.FeaturesAt(r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}

	// Re-push each feature and check that the tape follows its branch
	// choice.
	for _, f := range fs {
		e.Specialize(r3.Vec{})
		minimized := e.PushFeature(f)
		ds := e.Derivs(1)
		got := r3.Vec{X: ds.Dx[0], Y: ds.Dy[0], Z: ds.Dz[0]}
		if got != f.Deriv {
			t.Errorf("re-pushed feature: gradient %v, want %v", got, f.Deriv)
		}
		if len(minimized.choices) != len(f.choices) {
			t.Errorf("minimized feature has %d choices, want %d",
				len(minimized.choices), len(f.choices))
		}
		e.Pop()
		e.Pop()
	}
}

func TestFeatureCompatibility(t *testing.T) {
	f := &Feature{}
	if !f.push(r3.Vec{X: 1}, choice{id: 5, which: 0}) {
		t.Fatal("first epsilon rejected")
	}
	g := f.clone()

	// same direction is fine, the opposite is not
	if !f.IsCompatible(r3.Vec{X: 2}) {
		t.Error("codirectional epsilon rejected")
	}
	if f.IsCompatible(r3.Vec{X: -1}) {
		t.Error("opposite epsilon accepted")
	}
	if f.IsCompatible(r3.Vec{}) {
		t.Error("zero epsilon accepted")
	}

	// orthogonal pairs leave an open quadrant
	if !g.push(r3.Vec{Y: 1}, choice{id: 7, which: 1}) {
		t.Error("orthogonal epsilon rejected")
	}
	if !g.IsCompatible(r3.Vec{X: 1, Y: 1}) {
		t.Error("interior direction rejected")
	}
	if g.IsCompatible(r3.Vec{X: -1, Y: -1}) {
		t.Error("anti-interior direction accepted")
	}
}

func TestFeaturesDegenerateClause(t *testing.T) {
	// min(x, x) with both operands being the same node: the clause is
	// degenerate, not ambiguous, and collapses to a single smooth
	// feature.
	x := tree.X()
	e := mustNew(t, tree.Min(x, x), nil)

	fs, err := e.FeaturesAt(r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 1 {
		t.Fatalf("got %d features, want 1", len(fs))
	}
	if want := (r3.Vec{X: 1}); fs[0].Deriv != want {
		t.Errorf("gradient = %v, want %v", fs[0].Deriv, want)
	}
}

func TestFeaturesInfeasible(t *testing.T) {
	// Two branches with exactly equal values and gradients at the
	// query point: the difference of one-sided gradients is zero, no
	// ε-direction separates them, and no feature is feasible.
	x := tree.X()
	e := mustNew(t, tree.Min(x, tree.Mul(x, tree.Const(1))), nil)

	_, err := e.FeaturesAt(r3.Vec{})
	if err != ErrNoFeature {
		t.Fatalf("got %v, want ErrNoFeature", err)
	}
	if e.cur != 0 {
		t.Errorf("cursor = %d after failed FeaturesAt, want 0", e.cur)
	}
}
