package physics

import "math"

// CollideCircle reports whether the circles (p1, r1) and (p2, r2) overlap,
// touching included.
func CollideCircle(p1 Vec2, r1 float64, p2 Vec2, r2 float64) bool {
	rs := r1 + r2
	return p2.Sub(p1).LenSq() <= rs*rs
}

// SweepCircle returns the earliest time t >= 0 at which circle 1 moving at v1
// and circle 2 moving at v2 touch. Unlike SweepAABB there is no horizon.
func SweepCircle(p1 Vec2, r1 float64, v1 Vec2, p2 Vec2, r2 float64, v2 Vec2) (t float64, ok bool) {
	if CollideCircle(p1, r1, p2, r2) {
		return 0, true
	}

	dp := p2.Sub(p1)
	dv := v2.Sub(v1)
	rs := r1 + r2

	// |dp + t*dv|^2 = rs^2
	n, x1, x2 := SolveQuadratic(dv.LenSq(), 2*dp.Dot(dv), dp.LenSq()-rs*rs)
	switch {
	case n >= 1 && usable(x1):
		return x1, true
	case n == 2 && usable(x2):
		return x2, true
	}
	return 0, false
}

// SolveQuadratic solves a*x^2 + b*x + c = 0 and returns the number of real
// roots. With two roots x1 < x2; with one root it is in x1. Unused roots are
// NaN.
func SolveQuadratic(a, b, c float64) (n int, x1, x2 float64) {
	x1, x2 = math.NaN(), math.NaN()
	if a == 0 {
		if b == 0 {
			return 0, x1, x2
		}
		return 1, -c / b, x2
	}

	d := b*b - 4*a*c
	switch {
	case d < 0:
		return 0, x1, x2
	case d == 0:
		return 1, -b / (2 * a), x2
	}

	rtd := math.Sqrt(d)
	x1 = (-b - rtd) / (2 * a)
	x2 = (-b + rtd) / (2 * a)
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	return 2, x1, x2
}

// SweepCircleLine estimates when the circle (center, r) moving at vel meets
// the infinite line through l1 and l2.
//
// The closed form below has never been derived or checked; it is kept for
// compatibility with recorded runs and ignores vel. Do not use it as a
// reference result.
func SweepCircleLine(center, vel Vec2, r float64, l1, l2 Vec2) float64 {
	a := l1.Y - l2.Y
	b := l2.X - l1.X
	c := (l1.X-l2.X)*l1.Y + (l2.Y-l1.Y)*l1.X

	bn := a*a + 2*a*b + b*b
	d := math.Sqrt(a*a*a*a*r*r + 2*a*a*a*b*r*r + 2*a*a*b*b*r*r + 2*a*b*b*b*r*r + b*b*b*b*r*r)
	sh := a*b*center.X - a*b*center.Y - a*c - b*b*center.Y - b*c

	t1 := (-a*a*center.X - d - sh) / bn
	t2 := (-a*a*center.X + d - sh) / bn
	return math.Min(t1, t2)
}
