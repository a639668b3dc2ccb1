// Package render draws query results: every transceiver's coverage
// circle, the returned route highlighted, and the two query points.
package render

import (
	"fmt"
	"strings"

	"github.com/signalsfoundry/coverage-planner/core"
)

// Scene is everything a renderer needs: the full field, the route that
// was found (nil when no chain exists), and the query points.
type Scene struct {
	Field *core.Field
	Route core.Route
	A, B  core.Point
}

// Options defines rendering configuration.
type Options struct {
	Width  float64 // canvas width in pixels
	Height float64 // canvas height in pixels
	Margin float64 // padding around the drawn extent, pixels

	Background  string // canvas background color
	CircleColor string // coverage circles outside the route
	RouteColor  string // coverage circles on the route
	PointColor  string // query points A and B

	ShowLabels bool // annotate transceivers with their IDs
	FontSize   float64
}

// NewDefaultOptions returns the options used by the CLI when none are
// given.
func NewDefaultOptions() *Options {
	return &Options{
		Width:       800,
		Height:      600,
		Margin:      20,
		Background:  "#ffffff",
		CircleColor: "#d62728",
		RouteColor:  "#000000",
		PointColor:  "#1f77b4",
		ShowLabels:  true,
		FontSize:    10,
	}
}

// Renderer turns a scene into one output format.
type Renderer interface {
	Render(scene *Scene, options *Options) ([]byte, error)
	Name() string
}

// GetRenderer returns the renderer for a format name.
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
