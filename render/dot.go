package render

import (
	"bytes"
	"fmt"
)

// DOTRenderer outputs the overlap graph as Graphviz dot: one node per
// transceiver, one edge per neighbouring pair, route members and route
// edges emphasised.
type DOTRenderer struct{}

func (r *DOTRenderer) Name() string { return "dot" }

func (r *DOTRenderer) Render(scene *Scene, options *Options) ([]byte, error) {
	if scene == nil || scene.Field == nil {
		return nil, fmt.Errorf("dot render: nil scene")
	}
	if options == nil {
		options = NewDefaultOptions()
	}

	onRoute := make(map[int]bool, len(scene.Route))
	routeEdge := make(map[[2]int]bool)
	for i, t := range scene.Route {
		onRoute[t.ID] = true
		if i > 0 {
			routeEdge[edgeKey(scene.Route[i-1].ID, t.ID)] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph coverage {\n")
	buf.WriteString("  node [shape=circle, fontname=\"Arial\"];\n")

	transceivers := scene.Field.All()
	for _, t := range transceivers {
		color := options.CircleColor
		if onRoute[t.ID] {
			color = options.RouteColor
		}
		buf.WriteString(fmt.Sprintf("  t%d [label=\"%d\", color=\"%s\", pos=\"%g,%g!\"];\n",
			t.ID, t.ID, color, t.Location.X, t.Location.Y))
	}

	// Each undirected overlap edge once.
	for i, t := range transceivers {
		for _, other := range transceivers[i+1:] {
			if !t.IsNeighbour(other) {
				continue
			}
			style := ""
			if routeEdge[edgeKey(t.ID, other.ID)] {
				style = " [penwidth=2]"
			}
			buf.WriteString(fmt.Sprintf("  t%d -- t%d%s;\n", t.ID, other.ID, style))
		}
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
