package core

import (
	"fmt"
	"math"
)

// MinPowerDensity is the minimum received power density (W/m²) that
// still counts as coverage. A transceiver's coverage circle is the set
// of points where its signal density meets or exceeds this threshold.
const MinPowerDensity = 1.0

// Transceiver is a radio with an ideal spherical radiation pattern.
// Its coverage is the disk around Location where the power density is
// at least MinPowerDensity. Power and Location are fixed for the
// lifetime of a query; the Field that owns the transceiver assigns ID
// in insertion order.
type Transceiver struct {
	ID       int
	Location Point
	Power    float64 // transmit power, watts
}

func (t *Transceiver) String() string {
	return fmt.Sprintf("Transceiver %d: (%g, %g) r=%g", t.ID, t.Location.X, t.Location.Y, t.Range())
}

// Range returns the coverage radius derived from the transmit power.
//
// The power spreads over a sphere of surface S = 4πr², so the density
// at distance r is P / (4πr²). Solving density == MinPowerDensity for
// r gives r = sqrt(P / MinPowerDensity / 4π).
func (t *Transceiver) Range() float64 {
	return math.Sqrt(t.Power / MinPowerDensity / (4 * math.Pi))
}

// CoversPoint reports whether p lies inside or on the boundary of the
// coverage circle.
func (t *Transceiver) CoversPoint(p Point) bool {
	r := t.Range()
	return t.Location.DistanceSquaredTo(p) <= r*r
}

// IsNeighbour reports whether the two coverage circles overlap or are
// exactly tangent, i.e. the center distance does not exceed the sum of
// the radii. The relation is symmetric. It is trivially true for a
// transceiver and itself; callers that walk the overlap graph must
// exclude the reflexive case themselves.
func (t *Transceiver) IsNeighbour(other *Transceiver) bool {
	sum := t.Range() + other.Range()
	return t.Location.DistanceSquaredTo(other.Location) <= sum*sum
}
