package core

import (
	"fmt"
	"math"
)

// Point is a position in the plane, in metres. Points are plain values
// and are compared by value.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// DistanceTo returns the straight-line distance between two points.
func (p Point) DistanceTo(other Point) float64 {
	return math.Sqrt(p.DistanceSquaredTo(other))
}

// DistanceSquaredTo returns the squared distance between two points.
// The coverage and neighbour predicates compare squared quantities, so
// no square root is taken on the hot path.
func (p Point) DistanceSquaredTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// IsFinite reports whether both coordinates are ordinary finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
