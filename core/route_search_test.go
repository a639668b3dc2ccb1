package core

import (
	"context"
	"testing"
)

// checkRoute asserts the full route contract: first member covers a,
// last member covers b, consecutive members are neighbours, and no
// transceiver repeats.
func checkRoute(t *testing.T, route Route, a, b Point) {
	t.Helper()
	if !route.Validate() {
		t.Fatalf("route %v violates simple-path invariants", route)
	}
	if !route[0].CoversPoint(a) {
		t.Errorf("first transceiver %v does not cover A %v", route[0], a)
	}
	if !route[len(route)-1].CoversPoint(b) {
		t.Errorf("last transceiver %v does not cover B %v", route[len(route)-1], b)
	}
}

// Scenario from the original planning example: two range-5 circles 9
// apart overlap, so their centers are connected.
func TestFindRouteTwoOverlappingCircles(t *testing.T) {
	f := NewField()
	t1 := addWithRange(t, f, 0, 0, 5)
	t2 := addWithRange(t, f, 9, 0, 5)

	a := Point{0, 0}
	b := Point{9, 0}

	route, err := FindRoute(context.Background(), f, a, b)
	if err != nil {
		t.Fatalf("FindRoute: %v", err)
	}
	if len(route) != 2 || route[0] != t1 || route[1] != t2 {
		t.Fatalf("route = %v, want [T1, T2]", route)
	}
	checkRoute(t, route, a, b)
}

// Same layout but the second circle moved out of reach: 50 > 5+5, and
// nothing covers B.
func TestFindRouteDisconnectedReturnsAbsence(t *testing.T) {
	f := NewField()
	addWithRange(t, f, 0, 0, 5)
	addWithRange(t, f, 50, 0, 5)

	route, err := FindRoute(context.Background(), f, Point{0, 0}, Point{9, 0})
	if err != nil {
		t.Fatalf("FindRoute: %v", err)
	}
	if route != nil {
		t.Fatalf("route = %v, want absence", route)
	}
}

func TestFindRouteSingleTransceiverCoversBoth(t *testing.T) {
	f := NewField()
	trx := addWithRange(t, f, 0, 0, 10)
	addWithRange(t, f, 5, 0, 10)

	route, err := FindRoute(context.Background(), f, Point{-3, 0}, Point{3, 0})
	if err != nil {
		t.Fatalf("FindRoute: %v", err)
	}
	if len(route) != 1 || route[0] != trx {
		t.Fatalf("route = %v, want the single length-1 route [T1]", route)
	}
}

func TestFindRouteNoCoverageAtA(t *testing.T) {
	f := NewField()
	addWithRange(t, f, 0, 0, 5)

	route, err := FindRoute(context.Background(), f, Point{100, 100}, Point{0, 0})
	if err != nil {
		t.Fatalf("FindRoute: %v", err)
	}
	if route != nil {
		t.Fatalf("route = %v, want absence when nothing covers A", route)
	}
}

func TestFindRouteEmptyField(t *testing.T) {
	route, err := FindRoute(context.Background(), NewField(), Point{0, 0}, Point{1, 1})
	if err != nil {
		t.Fatalf("FindRoute: %v", err)
	}
	if route != nil {
		t.Fatalf("route = %v, want absence on empty field", route)
	}
}

// A chain of circles where only the full walk connects the endpoints.
func TestFindRouteMultiHopChain(t *testing.T) {
	f := NewField()
	for i := 0; i < 5; i++ {
		addWithRange(t, f, float64(i)*9, 0, 5)
	}

	a := Point{0, 0}
	b := Point{36, 0}

	route, err := FindRoute(context.Background(), f, a, b)
	if err != nil {
		t.Fatalf("FindRoute: %v", err)
	}
	if len(route) != 5 {
		t.Fatalf("route length = %d, want 5", len(route))
	}
	checkRoute(t, route, a, b)
}

// Three mutually overlapping circles form a cycle in the overlap
// graph. The path-local visited guard must keep the walk finite and
// still find the exit.
func TestFindRouteTerminatesOnCycles(t *testing.T) {
	f := NewField()
	addWithRange(t, f, 0, 0, 5)
	addWithRange(t, f, 6, 0, 5)
	addWithRange(t, f, 3, 5, 5)
	addWithRange(t, f, 12, 0, 5) // hangs off the cycle, covers B

	a := Point{0, 0}
	b := Point{14, 0}

	route, err := FindRoute(context.Background(), f, a, b)
	if err != nil {
		t.Fatalf("FindRoute: %v", err)
	}
	if route == nil {
		t.Fatalf("want a route out of the cyclic component")
	}
	checkRoute(t, route, a, b)
}

// Coverage exists at both endpoints, but in disjoint components of the
// overlap graph.
func TestFindRouteDisjointComponents(t *testing.T) {
	f := NewField()
	addWithRange(t, f, 0, 0, 5)
	addWithRange(t, f, 9, 0, 5)
	addWithRange(t, f, 100, 0, 5)
	addWithRange(t, f, 109, 0, 5)

	route, err := FindRoute(context.Background(), f, Point{0, 0}, Point{109, 0})
	if err != nil {
		t.Fatalf("FindRoute: %v", err)
	}
	if route != nil {
		t.Fatalf("route = %v, want absence across disjoint components", route)
	}
}

// Breadth-first expansion in insertion order makes results
// deterministic: with a short detour available, the fewest-hop route
// through the earliest-inserted transceivers is returned every time.
func TestFindRouteDeterministic(t *testing.T) {
	build := func() *Field {
		f := NewField()
		addWithRange(t, f, 0, 0, 5)   // covers A
		addWithRange(t, f, 9, 0, 5)   // direct hop towards B
		addWithRange(t, f, 5, 7, 5)   // alternative detour
		addWithRange(t, f, 18, 0, 5)  // covers B
		return f
	}

	want, err := FindRoute(context.Background(), build(), Point{0, 0}, Point{18, 0})
	if err != nil {
		t.Fatalf("FindRoute: %v", err)
	}
	if want == nil {
		t.Fatalf("expected a route")
	}

	for i := 0; i < 10; i++ {
		got, err := FindRoute(context.Background(), build(), Point{0, 0}, Point{18, 0})
		if err != nil {
			t.Fatalf("FindRoute: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("run %d: route length %d, want %d", i, len(got), len(want))
		}
		for j := range got {
			if got[j].ID != want[j].ID {
				t.Fatalf("run %d: route[%d] = %d, want %d", i, j, got[j].ID, want[j].ID)
			}
		}
	}
}

func TestFindRouteCancelled(t *testing.T) {
	f := NewField()
	addWithRange(t, f, 0, 0, 5)
	addWithRange(t, f, 9, 0, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := FindRoute(ctx, f, Point{0, 0}, Point{9, 0}); err == nil {
		t.Fatalf("want context error after cancellation")
	}
}

func TestRouteValidate(t *testing.T) {
	f := NewField()
	t1 := addWithRange(t, f, 0, 0, 5)
	t2 := addWithRange(t, f, 9, 0, 5)
	t3 := addWithRange(t, f, 100, 0, 5)

	if (Route{}).Validate() {
		t.Errorf("empty route must not validate")
	}
	if !(Route{t1}).Validate() {
		t.Errorf("single-member route must validate")
	}
	if !(Route{t1, t2}).Validate() {
		t.Errorf("neighbour pair must validate")
	}
	if (Route{t1, t3}).Validate() {
		t.Errorf("non-neighbour pair must not validate")
	}
	if (Route{t1, t2, t1}).Validate() {
		t.Errorf("repeated transceiver must not validate")
	}
}
