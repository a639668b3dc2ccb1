package core

import (
	"context"

	"github.com/signalsfoundry/coverage-planner/internal/logging"
)

// Planner answers point-to-point reachability queries against a field
// of transceivers: does a chain of overlapping coverage circles connect
// point A to point B, and if so, which one.
type Planner struct {
	field *Field
	log   logging.Logger
}

// NewPlanner creates a planner over the given field. A nil logger is
// replaced with a no-op logger.
func NewPlanner(field *Field, log logging.Logger) *Planner {
	if log == nil {
		log = logging.Noop()
	}
	return &Planner{field: field, log: log}
}

// Field returns the field this planner queries.
func (p *Planner) Field() *Field { return p.field }

// FindRoute returns a route of neighbour-linked transceivers whose
// first member covers a and whose last member covers b, or nil when no
// such chain exists. Absence is a normal result, not an error; the
// only error returned is the context's, when the caller cancels.
//
// Candidate start transceivers are the ones covering a, tried in field
// insertion order; the first route discovered wins. The field is never
// mutated.
func (p *Planner) FindRoute(ctx context.Context, a, b Point) (Route, error) {
	starts := p.field.Covering(a)
	p.log.Debug(ctx, "route query",
		logging.Int("transceivers", p.field.Len()),
		logging.Int("candidate_starts", len(starts)),
	)

	coversB := func(t *Transceiver) bool { return t.CoversPoint(b) }

	for _, start := range starts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		route, err := findRouteFrom(ctx, p.field, start, coversB)
		if err != nil {
			return nil, err
		}
		if route != nil {
			p.log.Info(ctx, "route found",
				logging.Int("start_id", start.ID),
				logging.Int("hops", len(route)),
			)
			return route, nil
		}
	}

	p.log.Info(ctx, "no route", logging.Int("candidate_starts", len(starts)))
	return nil, nil
}

// FindRoute runs a single query against a field without constructing a
// Planner first.
func FindRoute(ctx context.Context, field *Field, a, b Point) (Route, error) {
	return NewPlanner(field, nil).FindRoute(ctx, a, b)
}
