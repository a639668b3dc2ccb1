package core

import "context"

// Route is an ordered chain of distinct transceivers in which every
// consecutive pair's coverage circles overlap or touch.
type Route []*Transceiver

// Contains reports whether the route already includes t.
func (r Route) Contains(t *Transceiver) bool {
	for _, member := range r {
		if member == t {
			return true
		}
	}
	return false
}

// Validate checks the structural route invariants: at least one member,
// no transceiver twice, and every consecutive pair neighbours.
func (r Route) Validate() bool {
	if len(r) == 0 {
		return false
	}
	seen := make(map[int]bool, len(r))
	for i, t := range r {
		if seen[t.ID] {
			return false
		}
		seen[t.ID] = true
		if i > 0 && !r[i-1].IsNeighbour(t) {
			return false
		}
	}
	return true
}

// searchItem is one worklist entry: a candidate route under
// exploration plus its own membership set. Every expansion copies
// both, so branches never share mutable state.
type searchItem struct {
	route   Route
	visited map[*Transceiver]bool
}

// findRouteFrom walks the implicit overlap graph breadth-first from
// start and returns the first simple route whose last transceiver
// satisfies target, or nil if the component rooted at start contains
// none.
//
// Each queued item carries its own path and visited set; a transceiver
// already on the path is never re-entered, which is what bounds the
// walk on cyclic overlap arrangements (three mutually overlapping
// circles would otherwise loop forever). Neighbours are expanded in
// field insertion order, so discovery order is deterministic.
// Breadth-first order means the returned route happens to have the
// fewest hops, though callers are promised only *a* valid route.
func findRouteFrom(ctx context.Context, field *Field, start *Transceiver, target func(*Transceiver) bool) (Route, error) {
	if target(start) {
		return Route{start}, nil
	}

	queue := []searchItem{{
		route:   Route{start},
		visited: map[*Transceiver]bool{start: true},
	}}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		item := queue[0]
		queue = queue[1:]

		last := item.route[len(item.route)-1]
		for _, next := range field.Neighbours(last) {
			if item.visited[next] {
				continue
			}

			route := make(Route, len(item.route), len(item.route)+1)
			copy(route, item.route)
			route = append(route, next)

			if target(next) {
				return route, nil
			}

			visited := make(map[*Transceiver]bool, len(item.visited)+1)
			for t := range item.visited {
				visited[t] = true
			}
			visited[next] = true

			queue = append(queue, searchItem{route: route, visited: visited})
		}
	}

	return nil, nil
}
