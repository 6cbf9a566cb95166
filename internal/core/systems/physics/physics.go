package physics

import "math"

// ZeroEpsilon is the tolerance used by IsZero and by the swept solvers when
// deciding that a quantity vanished.
const ZeroEpsilon = 1e-6

// Vec2 is a 2D point or displacement. Values are immutable; the *Assign
// methods exist for accumulation loops.
type Vec2 struct{ X, Y float64 }

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Div(f float64) Vec2   { return Vec2{v.X / f, v.Y / f} }
func (v Vec2) Neg() Vec2            { return Vec2{-v.X, -v.Y} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64       { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64         { return math.Sqrt(v.LenSq()) }

func (v *Vec2) AddAssign(o Vec2) {
	v.X += o.X
	v.Y += o.Y
}

func (v *Vec2) SubAssign(o Vec2) {
	v.X -= o.X
	v.Y -= o.Y
}

func (v *Vec2) ScaleAssign(f float64) {
	v.X *= f
	v.Y *= f
}

func (v *Vec2) DivAssign(f float64) {
	v.X /= f
	v.Y /= f
}

// Normal returns v rotated by 90 degrees: (-y, x).
func (v Vec2) Normal() Vec2 { return Vec2{-v.Y, v.X} }

// Unit returns v scaled to length 1. The zero vector has no direction and is
// returned unchanged.
func (v Vec2) Unit() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Div(l)
}

// Rotate rotates v counter-clockwise by rad radians.
func (v Vec2) Rotate(rad float64) Vec2 {
	sin, cos := math.Sincos(rad)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Transform applies t to each component.
func (v Vec2) Transform(t func(float64) float64) Vec2 { return Vec2{t(v.X), t(v.Y)} }

// IsZero reports whether both components are within ZeroEpsilon of zero.
func (v Vec2) IsZero() bool { return math.Abs(v.X) < ZeroEpsilon && math.Abs(v.Y) < ZeroEpsilon }

// IsNaN reports whether either component is NaN.
func (v Vec2) IsNaN() bool { return math.IsNaN(v.X) || math.IsNaN(v.Y) }

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return !v.IsNaN() && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Dot computes a·b.
func Dot(a, b Vec2) float64 { return a.Dot(b) }

// Proj projects a onto b.
func Proj(a, b Vec2) Vec2 { return b.Scale(a.Dot(b) / b.LenSq()) }

// Perp returns the component of a perpendicular to b.
func Perp(a, b Vec2) Vec2 { return a.Sub(Proj(a, b)) }

// Min returns the componentwise minimum.
func Min(a, b Vec2) Vec2 { return Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)} }

// Max returns the componentwise maximum.
func Max(a, b Vec2) Vec2 { return Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)} }

// MinOf reduces vs with Min. An empty input yields (+MaxFloat64, +MaxFloat64).
func MinOf(vs ...Vec2) Vec2 {
	m := Vec2{math.MaxFloat64, math.MaxFloat64}
	for _, v := range vs {
		m = Min(m, v)
	}
	return m
}

// MaxOf reduces vs with Max. An empty input yields (-MaxFloat64, -MaxFloat64).
func MaxOf(vs ...Vec2) Vec2 {
	m := Vec2{-math.MaxFloat64, -math.MaxFloat64}
	for _, v := range vs {
		m = Max(m, v)
	}
	return m
}

// Distance computes the Euclidean distance between two points.
func Distance(a, b Vec2) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

// InAABB reports whether p lies in the box spanned by the corners a and b,
// in any order.
func InAABB(p, a, b Vec2) bool {
	tl, br := Min(a, b), Max(a, b)
	return p.X >= tl.X && p.X <= br.X && p.Y >= tl.Y && p.Y <= br.Y
}

// AABBVertices returns the four corners of the box at p with size s:
// top-left, top-right, bottom-left, bottom-right.
func AABBVertices(p, s Vec2) []Vec2 {
	return []Vec2{
		p,
		{p.X + s.X, p.Y},
		{p.X, p.Y + s.Y},
		{p.X + s.X, p.Y + s.Y},
	}
}

// ClosestPointOnCircle returns the point of the circle (ct, r) nearest to o.
func ClosestPointOnCircle(ct Vec2, r float64, o Vec2) Vec2 {
	return ct.Add(o.Sub(ct).Unit().Scale(r))
}
