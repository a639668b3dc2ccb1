// core/dataset_loader.go
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	ErrMissingEndpoint = errors.New("dataset must define both A and B")
	ErrBadEndpoint     = errors.New("endpoint must be a finite [x, y] pair")
	ErrBadCoordinates  = errors.New("location must be a finite [x, y] pair")
)

// Dataset is one fully validated query input: the transceiver field
// plus the two points to connect.
type Dataset struct {
	Field *Field
	A, B  Point
}

// internal JSON shapes — kept unexported so the wire format can evolve
// independently of the core types.
type datasetJSON struct {
	Transceivers []transceiverJSON `json:"transceivers"`
	A            []float64         `json:"A"`
	B            []float64         `json:"B"`
}

type transceiverJSON struct {
	Location []float64 `json:"location"`
	Power    float64   `json:"power"`
}

// LoadDataset reads a JSON dataset from r, validates it, and builds the
// Field the query will run against.
//
// The core assumes validated input, so everything is checked here:
// locations and endpoints must be finite [x, y] pairs and power must be
// positive and finite. A validation failure is fatal to the query — it
// is reported as an error and never degraded to "no route".
func LoadDataset(r io.Reader) (*Dataset, error) {
	var payload datasetJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadDataset: decode failed: %w", err)
	}
	return buildDataset(&payload)
}

// ParseDataset is LoadDataset over an in-memory document, used by the
// HTTP layer and the dataset store.
func ParseDataset(data []byte) (*Dataset, error) {
	var payload datasetJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("ParseDataset: decode failed: %w", err)
	}
	return buildDataset(&payload)
}

func buildDataset(payload *datasetJSON) (*Dataset, error) {
	field := NewField()
	for i, jt := range payload.Transceivers {
		loc, err := pointFromPair(jt.Location)
		if err != nil {
			return nil, fmt.Errorf("transceiver %d: %w: %v", i+1, ErrBadCoordinates, err)
		}
		if _, err := field.AddTransceiver(loc, jt.Power); err != nil {
			return nil, fmt.Errorf("transceiver %d: %w", i+1, err)
		}
	}

	if payload.A == nil || payload.B == nil {
		return nil, ErrMissingEndpoint
	}
	a, err := pointFromPair(payload.A)
	if err != nil {
		return nil, fmt.Errorf("point A: %w: %v", ErrBadEndpoint, err)
	}
	b, err := pointFromPair(payload.B)
	if err != nil {
		return nil, fmt.Errorf("point B: %w: %v", ErrBadEndpoint, err)
	}

	return &Dataset{Field: field, A: a, B: b}, nil
}

func pointFromPair(pair []float64) (Point, error) {
	if len(pair) != 2 {
		return Point{}, fmt.Errorf("want 2 coordinates, got %d", len(pair))
	}
	p := Point{X: pair[0], Y: pair[1]}
	if !p.IsFinite() {
		return Point{}, fmt.Errorf("non-finite coordinates (%v, %v)", pair[0], pair[1])
	}
	return p, nil
}

// PowerForRange returns the transmit power that yields the given
// coverage radius, the inverse of Transceiver.Range. Handy when
// authoring datasets and fixtures in terms of radii.
func PowerForRange(r float64) float64 {
	return r * r * 4 * math.Pi * MinPowerDensity
}
