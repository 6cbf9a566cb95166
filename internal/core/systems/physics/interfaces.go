package physics

import "math"

const (
	// TickRate is the fixed simulation rate, in ticks per second.
	TickRate = 60
	// Horizon bounds the swept AABB solvers: 100 seconds of ticks. A contact
	// at or past the horizon counts as no collision.
	Horizon = 100 * TickRate
)

// ShapeKind tags the variant held by a Shape.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// ParseShapeKind maps "box" or "circle" to its kind.
func ParseShapeKind(s string) (ShapeKind, bool) {
	switch s {
	case "box", "aabb", "":
		return ShapeBox, true
	case "circle":
		return ShapeCircle, true
	default:
		return ShapeBox, false
	}
}

// Shape is a box (top-left anchored, Size) or a circle (center anchored,
// Radius). Only the field matching Kind is meaningful.
type Shape struct {
	Kind   ShapeKind
	Size   Vec2
	Radius float64
}

// Box returns a box shape of the given size.
func Box(w, h float64) Shape { return Shape{Kind: ShapeBox, Size: Vec2{w, h}} }

// Circle returns a circle shape of radius r.
func Circle(r float64) Shape { return Shape{Kind: ShapeCircle, Radius: r} }

// Bounds returns the top-left corner and size of the shape placed at pos.
func (s Shape) Bounds(pos Vec2) (Vec2, Vec2) {
	if s.Kind == ShapeCircle {
		return pos.Sub(Vec2{s.Radius, s.Radius}), Vec2{2 * s.Radius, 2 * s.Radius}
	}
	return pos, s.Size
}

// Center returns the center of the shape placed at pos.
func (s Shape) Center(pos Vec2) Vec2 {
	if s.Kind == ShapeCircle {
		return pos
	}
	return pos.Add(s.Size.Scale(0.5))
}

// At returns the position at which the shape is centered on c; the inverse
// of Center.
func (s Shape) At(c Vec2) Vec2 {
	if s.Kind == ShapeCircle {
		return c
	}
	return c.Sub(s.Size.Scale(0.5))
}

// As converts the shape placed at pos to kind. A box becomes the circle
// inscribed in it; a circle becomes its bounding box.
func (s Shape) As(kind ShapeKind, pos Vec2) (Shape, Vec2) {
	switch {
	case s.Kind == kind:
		return s, pos
	case kind == ShapeCircle:
		return Circle(math.Min(s.Size.X, s.Size.Y) / 2), s.Center(pos)
	default:
		p, size := s.Bounds(pos)
		return Box(size.X, size.Y), p
	}
}

// Body is a shape moving at a constant velocity.
type Body struct {
	Shape Shape
	Pos   Vec2
	Vel   Vec2
}

// Collide reports whether two bodies overlap now.
func Collide(a, b Body) bool {
	if a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapeCircle {
		return CollideCircle(a.Pos, a.Shape.Radius, b.Pos, b.Shape.Radius)
	}
	p1, s1 := a.Shape.Bounds(a.Pos)
	p2, s2 := b.Shape.Bounds(b.Pos)
	return CollideAABB(p1, s1, p2, s2)
}

// Sweep returns the earliest time at which a and b overlap. Circle pairs use
// the circle solver; any pair involving a box is solved on bounding boxes.
func Sweep(a, b Body) (float64, bool) {
	if a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapeCircle {
		return SweepCircle(a.Pos, a.Shape.Radius, a.Vel, b.Pos, b.Shape.Radius, b.Vel)
	}
	p1, s1 := a.Shape.Bounds(a.Pos)
	p2, s2 := b.Shape.Bounds(b.Pos)
	return SweepAABB(p1, s1, a.Vel, p2, s2, b.Vel)
}

// usable reports whether a candidate contact time may take part in a minimum.
func usable(t float64) bool {
	return t >= 0 && !math.IsNaN(t) && !math.IsInf(t, 0)
}
