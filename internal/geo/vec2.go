// Package geo provides the continuous-coordinate vector math shared by
// the arena and overworld simulations. The teacher engine's
// common.Position is a tile-grid integer point with Manhattan/Chebyshev
// distance helpers; this generalizes it to the float64 world/arena
// coordinates the specification's kinematics model requires.
package geo

import "math"

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64 { return math.Sqrt(v.Dot(v)) }
func (v Vec2) LenSq() float64 { return v.Dot(v) }

func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }
func (v Vec2) DistSq(o Vec2) float64 { return v.Sub(o).LenSq() }

// Unit returns a unit vector in v's direction, or fallback if v is the
// zero vector.
func (v Vec2) Unit(fallback Vec2) Vec2 {
	l := v.Len()
	if l < 1e-9 {
		return fallback
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Clamp confines v to [min,max] on each axis independently.
func (v Vec2) Clamp(min, max Vec2) Vec2 {
	return Vec2{
		X: clampF(v.X, min.X, max.X),
		Y: clampF(v.Y, min.Y, max.Y),
	}
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Rect is an axis-aligned rectangle used for terrain and high-ground
// zones.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}
