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

package interval

import "math"

// Interval is a closed interval [Lo, Hi] of real numbers.  The
// arithmetic operations below are conservative: the result always
// contains every value obtainable by applying the operation to points
// of the operand intervals.
type Interval struct {
	Lo, Hi float64
}

// New returns the interval [lo, hi].
func New(lo, hi float64) Interval {
	return Interval{Lo: lo, Hi: hi}
}

// Point returns the degenerate interval [v, v].
func Point(v float64) Interval {
	return Interval{Lo: v, Hi: v}
}

// whole is the interval covering the entire real line.
var whole = Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}

// Contains reports whether v lies in x.
func (x Interval) Contains(v float64) bool {
	return v >= x.Lo && v <= x.Hi
}

// IsNaN reports whether either endpoint of x is NaN.
func (x Interval) IsNaN() bool {
	return math.IsNaN(x.Lo) || math.IsNaN(x.Hi)
}

// Add returns x+y.
func (x Interval) Add(y Interval) Interval {
	return Interval{x.Lo + y.Lo, x.Hi + y.Hi}
}

// Sub returns x-y.
func (x Interval) Sub(y Interval) Interval {
	return Interval{x.Lo - y.Hi, x.Hi - y.Lo}
}

// Neg returns -x.
func (x Interval) Neg() Interval {
	return Interval{-x.Hi, -x.Lo}
}

// Mul returns x*y.
func (x Interval) Mul(y Interval) Interval {
	return hull4(x.Lo*y.Lo, x.Lo*y.Hi, x.Hi*y.Lo, x.Hi*y.Hi)
}

// Div returns x/y.  If y contains zero, the result is the whole real
// line.
func (x Interval) Div(y Interval) Interval {
	if y.Contains(0) {
		return whole
	}
	return hull4(x.Lo/y.Lo, x.Lo/y.Hi, x.Hi/y.Lo, x.Hi/y.Hi)
}

// Min returns the componentwise minimum of x and y.
func (x Interval) Min(y Interval) Interval {
	return Interval{math.Min(x.Lo, y.Lo), math.Min(x.Hi, y.Hi)}
}

// Max returns the componentwise maximum of x and y.
func (x Interval) Max(y Interval) Interval {
	return Interval{math.Max(x.Lo, y.Lo), math.Max(x.Hi, y.Hi)}
}

// Square returns x².
func (x Interval) Square() Interval {
	a, b := x.Lo*x.Lo, x.Hi*x.Hi
	lo, hi := math.Min(a, b), math.Max(a, b)
	if x.Contains(0) {
		lo = 0
	}
	return Interval{lo, hi}
}

// Sqrt returns the square root of x.  The negative part of x's domain
// is clipped; an interval entirely below zero yields [0, NaN].
func (x Interval) Sqrt() Interval {
	lo := x.Lo
	if lo < 0 {
		lo = 0
	}
	return Interval{math.Sqrt(lo), math.Sqrt(x.Hi)}
}

// Exp returns e^x.
func (x Interval) Exp() Interval {
	return Interval{math.Exp(x.Lo), math.Exp(x.Hi)}
}

// Atan returns the arc tangent of x.
func (x Interval) Atan() Interval {
	return Interval{math.Atan(x.Lo), math.Atan(x.Hi)}
}

// Asin returns the arc sine of x, with the domain clipped to [-1, 1].
func (x Interval) Asin() Interval {
	return Interval{math.Asin(clamp1(x.Lo)), math.Asin(clamp1(x.Hi))}
}

// Acos returns the arc cosine of x, with the domain clipped to [-1, 1].
func (x Interval) Acos() Interval {
	return Interval{math.Acos(clamp1(x.Hi)), math.Acos(clamp1(x.Lo))}
}

// Cos returns the cosine of x.
func (x Interval) Cos() Interval {
	if x.IsNaN() {
		return Interval{math.NaN(), math.NaN()}
	}
	if x.Hi-x.Lo >= 2*math.Pi || math.IsInf(x.Lo, 0) || math.IsInf(x.Hi, 0) {
		return Interval{-1, 1}
	}
	lo := math.Min(math.Cos(x.Lo), math.Cos(x.Hi))
	hi := math.Max(math.Cos(x.Lo), math.Cos(x.Hi))
	// cos attains 1 at even multiples of pi and -1 at odd multiples
	if containsMultiple(x, 0, 2*math.Pi) {
		hi = 1
	}
	if containsMultiple(x, math.Pi, 2*math.Pi) {
		lo = -1
	}
	return Interval{lo, hi}
}

// Sin returns the sine of x.
func (x Interval) Sin() Interval {
	if x.IsNaN() {
		return Interval{math.NaN(), math.NaN()}
	}
	if x.Hi-x.Lo >= 2*math.Pi || math.IsInf(x.Lo, 0) || math.IsInf(x.Hi, 0) {
		return Interval{-1, 1}
	}
	lo := math.Min(math.Sin(x.Lo), math.Sin(x.Hi))
	hi := math.Max(math.Sin(x.Lo), math.Sin(x.Hi))
	if containsMultiple(x, math.Pi/2, 2*math.Pi) {
		hi = 1
	}
	if containsMultiple(x, -math.Pi/2, 2*math.Pi) {
		lo = -1
	}
	return Interval{lo, hi}
}

// Tan returns the tangent of x.  Intervals spanning a pole yield the
// whole real line.
func (x Interval) Tan() Interval {
	if x.IsNaN() {
		return Interval{math.NaN(), math.NaN()}
	}
	if x.Hi-x.Lo >= math.Pi || math.IsInf(x.Lo, 0) || math.IsInf(x.Hi, 0) {
		return whole
	}
	if containsMultiple(x, math.Pi/2, math.Pi) {
		return whole
	}
	return Interval{math.Tan(x.Lo), math.Tan(x.Hi)}
}

// Atan2 returns atan2(y, x) for y ranging over the receiver.  When x
// is bounded away from the branch cut the corner values are exact;
// otherwise the full range [-pi, pi] is returned.
func (y Interval) Atan2(x Interval) Interval {
	if x.Lo > 0 {
		return hull4(
			math.Atan2(y.Lo, x.Lo), math.Atan2(y.Lo, x.Hi),
			math.Atan2(y.Hi, x.Lo), math.Atan2(y.Hi, x.Hi))
	}
	return Interval{-math.Pi, math.Pi}
}

// PowN returns x^p for a constant exponent p.  Non-integer exponents
// clip x to non-negative values.
func (x Interval) PowN(p float64) Interval {
	n := int(p)
	if float64(n) != p {
		lo := x.Lo
		if lo < 0 {
			lo = 0
		}
		a, b := math.Pow(lo, p), math.Pow(x.Hi, p)
		return Interval{math.Min(a, b), math.Max(a, b)}
	}

	a, b := math.Pow(x.Lo, p), math.Pow(x.Hi, p)
	switch {
	case n == 0:
		return Point(1)
	case n%2 == 0:
		lo, hi := math.Min(a, b), math.Max(a, b)
		if x.Contains(0) {
			if n > 0 {
				lo = 0
			} else {
				hi = math.Inf(1)
			}
		}
		return Interval{lo, hi}
	case n > 0:
		return Interval{a, b}
	default:
		// negative odd exponent
		if x.Contains(0) {
			return whole
		}
		return Interval{math.Min(a, b), math.Max(a, b)}
	}
}

// NthRoot returns the p-th root of x.  Odd roots are defined for
// negative arguments; even roots clip the domain at zero.
func (x Interval) NthRoot(p float64) Interval {
	n := int(p)
	if float64(n) == p && n%2 != 0 {
		return Interval{signedRoot(x.Lo, p), signedRoot(x.Hi, p)}
	}
	lo := x.Lo
	if lo < 0 {
		lo = 0
	}
	return Interval{math.Pow(lo, 1/p), math.Pow(x.Hi, 1/p)}
}

// Mod returns a conservative hull for x mod y.  The hull is
// deliberately loose ([0, hi(y)] for positive y); callers using the
// result for surface normals accept the loss.
func (x Interval) Mod(y Interval) Interval {
	hi := y.Hi
	if hi < 0 {
		hi = 0
	}
	return Interval{0, hi}
}

// NanFill returns y if x has NaN endpoints, otherwise x.
func (x Interval) NanFill(y Interval) Interval {
	if x.IsNaN() {
		return y
	}
	return x
}

func hull4(a, b, c, d float64) Interval {
	return Interval{
		Lo: math.Min(math.Min(a, b), math.Min(c, d)),
		Hi: math.Max(math.Max(a, b), math.Max(c, d)),
	}
}

func clamp1(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// containsMultiple reports whether x contains a point of the form
// offset + period*k for integer k.
func containsMultiple(x Interval, offset, period float64) bool {
	k := math.Ceil((x.Lo - offset) / period)
	return offset+period*k <= x.Hi
}

// signedRoot computes the odd root of v, preserving sign.
func signedRoot(v, p float64) float64 {
	if v < 0 {
		return -math.Pow(-v, 1/p)
	}
	return math.Pow(v, 1/p)
}
