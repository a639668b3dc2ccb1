package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/signalsfoundry/coverage-planner/core"
)

// SVGRenderer outputs SVG.
type SVGRenderer struct{}

func (r *SVGRenderer) Name() string { return "svg" }

// viewport maps world coordinates onto the SVG canvas with a uniform
// scale and a flipped Y axis (SVG grows downward).
type viewport struct {
	scale          float64
	offX, offY float64
}

func (v viewport) x(wx float64) float64 { return v.offX + wx*v.scale }
func (v viewport) y(wy float64) float64 { return v.offY - wy*v.scale }

func fitViewport(scene *Scene, options *Options) viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	extend := func(x, y, r float64) {
		minX = math.Min(minX, x-r)
		minY = math.Min(minY, y-r)
		maxX = math.Max(maxX, x+r)
		maxY = math.Max(maxY, y+r)
	}

	for _, t := range scene.Field.All() {
		extend(t.Location.X, t.Location.Y, t.Range())
	}
	extend(scene.A.X, scene.A.Y, 0)
	extend(scene.B.X, scene.B.Y, 0)

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	innerW := options.Width - 2*options.Margin
	innerH := options.Height - 2*options.Margin
	scale := math.Min(innerW/spanX, innerH/spanY)

	// Center the drawn extent on the canvas.
	return viewport{
		scale: scale,
		offX:  options.Margin + (innerW-spanX*scale)/2 - minX*scale,
		offY:  options.Height - options.Margin - (innerH-spanY*scale)/2 + minY*scale,
	}
}

// Render draws all coverage circles in the circle color, repaints the
// route's circles in the route color, and marks A and B as filled
// dots.
func (r *SVGRenderer) Render(scene *Scene, options *Options) ([]byte, error) {
	if scene == nil || scene.Field == nil {
		return nil, fmt.Errorf("svg render: nil scene")
	}
	if options == nil {
		options = NewDefaultOptions()
	}

	vp := fitViewport(scene, options)

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
`, options.Width, options.Height, options.Width, options.Height))
	buf.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%g" height="%g" fill="%s"/>
`, options.Width, options.Height, options.Background))

	onRoute := make(map[int]bool, len(scene.Route))
	for _, t := range scene.Route {
		onRoute[t.ID] = true
	}

	// All coverage circles first, then the route on top so its stroke
	// is never hidden.
	for _, t := range scene.Field.All() {
		if onRoute[t.ID] {
			continue
		}
		writeCoverageCircle(&buf, vp, t, options.CircleColor, 1)
	}
	for _, t := range scene.Route {
		writeCoverageCircle(&buf, vp, t, options.RouteColor, 2)
	}

	if options.ShowLabels {
		for _, t := range scene.Field.All() {
			buf.WriteString(fmt.Sprintf(`<text x="%g" y="%g" font-family="sans-serif" font-size="%g" fill="#333333" text-anchor="middle">%d</text>
`, vp.x(t.Location.X), vp.y(t.Location.Y)-4, options.FontSize, t.ID))
		}
	}

	writeQueryPoint(&buf, vp, scene.A, "A", options)
	writeQueryPoint(&buf, vp, scene.B, "B", options)

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func writeCoverageCircle(buf *bytes.Buffer, vp viewport, t *core.Transceiver, color string, strokeWidth float64) {
	buf.WriteString(fmt.Sprintf(`<circle cx="%g" cy="%g" r="%g" fill="none" stroke="%s" stroke-width="%g"/>
`, vp.x(t.Location.X), vp.y(t.Location.Y), t.Range()*vp.scale, color, strokeWidth))
}

func writeQueryPoint(buf *bytes.Buffer, vp viewport, p core.Point, label string, options *Options) {
	buf.WriteString(fmt.Sprintf(`<circle cx="%g" cy="%g" r="3" fill="%s"/>
`, vp.x(p.X), vp.y(p.Y), options.PointColor))
	buf.WriteString(fmt.Sprintf(`<text x="%g" y="%g" font-family="sans-serif" font-size="%g" fill="%s">%s</text>
`, vp.x(p.X)+5, vp.y(p.Y)-5, options.FontSize, options.PointColor, label))
}
