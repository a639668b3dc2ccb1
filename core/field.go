package core

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	ErrBadPower    = errors.New("transceiver power must be positive and finite")
	ErrBadLocation = errors.New("transceiver location must be finite")
)

// Field is the set of transceivers a query runs against. It is built
// once, up front, and passed explicitly into the search functions —
// there is no process-wide registry of transceivers.
//
// The field keeps insertion order: candidate filtering and neighbour
// expansion both walk transceivers in the order they were added, which
// makes query results deterministic for a given dataset.
//
// Access is guarded by an RWMutex so a server can answer concurrent
// queries against one field; a query itself never mutates it.
type Field struct {
	mu           sync.RWMutex
	transceivers []*Transceiver
}

// NewField creates an empty field.
func NewField() *Field {
	return &Field{}
}

// AddTransceiver validates the inputs, assigns the next ID (1-based,
// insertion order) and adds the transceiver to the field.
func (f *Field) AddTransceiver(location Point, power float64) (*Transceiver, error) {
	if power <= 0 || math.IsNaN(power) || math.IsInf(power, 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadPower, power)
	}
	if !location.IsFinite() {
		return nil, fmt.Errorf("%w: (%v, %v)", ErrBadLocation, location.X, location.Y)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	t := &Transceiver{
		ID:       len(f.transceivers) + 1,
		Location: location,
		Power:    power,
	}
	f.transceivers = append(f.transceivers, t)
	return t, nil
}

// Len returns the number of transceivers in the field.
func (f *Field) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.transceivers)
}

// All returns the transceivers in insertion order. The slice is a copy;
// the transceivers themselves are shared and must be treated as
// read-only.
func (f *Field) All() []*Transceiver {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]*Transceiver, len(f.transceivers))
	copy(out, f.transceivers)
	return out
}

// Covering returns the transceivers whose coverage circle contains p,
// preserving insertion order.
func (f *Field) Covering(p Point) []*Transceiver {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []*Transceiver
	for _, t := range f.transceivers {
		if t.CoversPoint(p) {
			out = append(out, t)
		}
	}
	return out
}

// Neighbours returns the transceivers whose coverage circles overlap or
// touch t's, in insertion order, excluding t itself. The overlap graph
// is never stored; edges are recomputed from the predicate on demand.
func (f *Field) Neighbours(t *Transceiver) []*Transceiver {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []*Transceiver
	for _, other := range f.transceivers {
		if other != t && t.IsNeighbour(other) {
			out = append(out, other)
		}
	}
	return out
}
