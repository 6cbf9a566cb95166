package physics

import "math"

// CollideAABB reports whether the boxes (p1, s1) and (p2, s2) overlap.
// Intervals are closed, so touching edges count.
func CollideAABB(p1, s1, p2, s2 Vec2) bool {
	return p1.X <= p2.X+s2.X &&
		p1.X+s1.X >= p2.X &&
		p1.Y <= p2.Y+s2.Y &&
		p1.Y+s1.Y >= p2.Y
}

// ContainAABB reports whether box (p2, s2) lies entirely within box (p1, s1).
func ContainAABB(p1, s1, p2, s2 Vec2) bool {
	return p2.X >= p1.X &&
		p2.X+s2.X <= p1.X+s1.X &&
		p2.Y >= p1.Y &&
		p2.Y+s2.Y <= p1.Y+s1.Y
}

// SweepAABB returns the earliest time t >= 0 at which box 1 moving at v1 and
// box 2 moving at v2 overlap. ok is false when they never meet before Horizon.
//
// Each of the four edge contacts is solved on its own axis and then
// re-checked with a full overlap test at that time, since touching on one
// axis says nothing about the other.
func SweepAABB(p1, s1, v1, p2, s2, v2 Vec2) (t float64, ok bool) {
	if CollideAABB(p1, s1, p2, s2) {
		return 0, true
	}

	rv := v2.Sub(v1)
	events := [4]float64{
		(p1.X - p2.X - s2.X) / rv.X,
		(p1.X - p2.X + s1.X) / rv.X,
		(p1.Y - p2.Y - s2.Y) / rv.Y,
		(p1.Y - p2.Y + s1.Y) / rv.Y,
	}

	best := math.Inf(1)
	for _, e := range events {
		if !usable(e) || e >= best {
			continue
		}
		if CollideAABB(p1.Add(v1.Scale(e)), s1, p2.Add(v2.Scale(e)), s2) {
			best = e
		}
	}
	return horizon(best)
}

// SweepExitAABB only answers for box 2 fully contained in box 1 at t = 0;
// for any other starting layout, including partial overlap, it reports
// ok = false rather than an exit time. Given containment it returns the
// earliest t >= 0 at which box 2 crosses one of box 1's edges, and ok is
// false when box 2 stays inside past Horizon.
func SweepExitAABB(p1, s1, v1, p2, s2, v2 Vec2) (t float64, ok bool) {
	if !ContainAABB(p1, s1, p2, s2) {
		return 0, false
	}

	rv := v2.Sub(v1)
	events := [4]float64{
		(p1.X + s1.X - p2.X - s2.X) / rv.X,
		(p1.X - p2.X) / rv.X,
		(p1.Y - p2.Y) / rv.Y,
		(p1.Y + s1.Y - p2.Y - s2.Y) / rv.Y,
	}

	best := math.Inf(1)
	for _, e := range events {
		if usable(e) && e < best {
			best = e
		}
	}
	return horizon(best)
}

func horizon(t float64) (float64, bool) {
	if math.IsInf(t, 1) || t >= Horizon {
		return 0, false
	}
	return t, true
}
