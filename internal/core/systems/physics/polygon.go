package physics

import "math"

// CollideConvexPolygon runs the separating axis test on two convex polygons
// given as ordered vertex lists. The candidate axes are the edge normals of
// both polygons; the polygons collide unless one axis separates their
// projections.
func CollideConvexPolygon(a, b []Vec2) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	axes := make([]Vec2, 0, len(a)+len(b))
	axes = appendEdgeNormals(axes, a)
	axes = appendEdgeNormals(axes, b)

	for _, n := range axes {
		minA, maxA := project(a, n)
		minB, maxB := project(b, n)
		if maxB < minA || minB > maxA {
			return false
		}
	}
	return true
}

func appendEdgeNormals(dst, poly []Vec2) []Vec2 {
	for i, p := range poly {
		next := poly[(i+1)%len(poly)]
		dst = append(dst, next.Sub(p).Normal())
	}
	return dst
}

func project(poly []Vec2, axis Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range poly {
		d := p.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
