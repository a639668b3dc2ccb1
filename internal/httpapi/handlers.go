package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/coverage-planner/core"
	"github.com/signalsfoundry/coverage-planner/internal/datastore"
	"github.com/signalsfoundry/coverage-planner/internal/logging"
	"github.com/signalsfoundry/coverage-planner/internal/observability"
	"github.com/signalsfoundry/coverage-planner/render"
)

type transceiverDTO struct {
	ID       int        `json:"id"`
	Location [2]float64 `json:"location"`
	Power    float64    `json:"power"`
	Range    float64    `json:"range"`
}

type routeResponse struct {
	Found bool             `json:"found"`
	Hops  int              `json:"hops,omitempty"`
	Route []transceiverDTO `json:"route,omitempty"`
}

func routeToResponse(route core.Route) routeResponse {
	if route == nil {
		return routeResponse{Found: false}
	}
	resp := routeResponse{Found: true, Hops: len(route)}
	for _, t := range route {
		resp.Route = append(resp.Route, transceiverDTO{
			ID:       t.ID,
			Location: [2]float64{t.Location.X, t.Location.Y},
			Power:    t.Power,
			Range:    t.Range(),
		})
	}
	return resp
}

type createDatasetRequest struct {
	Name    string          `json:"name" binding:"required"`
	Dataset json.RawMessage `json:"dataset" binding:"required"`
}

type pointPairRequest struct {
	A []float64 `json:"a" binding:"required"`
	B []float64 `json:"b" binding:"required"`
}

// runQuery executes one route query with the server-side timeout, a
// span, metrics, and a request-scoped log line.
func (s *Server) runQuery(c *gin.Context, ds *core.Dataset, a, b core.Point) (core.Route, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.queryTimeout)
	defer cancel()

	ctx, span := observability.StartQuerySpan(ctx, "FindRoute",
		attribute.Int("transceivers", ds.Field.Len()),
	)
	defer span.End()

	ctx, log := logging.WithRequestLogger(ctx, s.log)

	s.metrics.SetDatasetTransceivers(ds.Field.Len())

	start := time.Now()
	route, err := core.NewPlanner(ds.Field, log).FindRoute(ctx, a, b)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveQuery(observability.OutcomeError, elapsed, 0)
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}

	outcome := observability.OutcomeAbsent
	if route != nil {
		outcome = observability.OutcomeFound
	}
	span.SetAttributes(
		attribute.String("outcome", outcome),
		attribute.Int("hops", len(route)),
	)
	s.metrics.ObserveQuery(outcome, elapsed, len(route))
	return route, true
}

// handleAdHocRoute answers a query whose dataset travels inline in the
// request body.
func (s *Server) handleAdHocRoute(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ds, err := core.ParseDataset(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route, ok := s.runQuery(c, ds, ds.A, ds.B)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, routeToResponse(route))
}

// handleAdHocRender answers an inline query with a rendering instead
// of JSON. Format defaults to svg.
func (s *Server) handleAdHocRender(c *gin.Context) {
	format := c.DefaultQuery("format", "svg")
	renderer, err := render.GetRenderer(format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ds, err := core.ParseDataset(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route, ok := s.runQuery(c, ds, ds.A, ds.B)
	if !ok {
		return
	}

	out, err := renderer.Render(&render.Scene{Field: ds.Field, Route: route, A: ds.A, B: ds.B}, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	contentType := "image/svg+xml"
	if format == "dot" {
		contentType = "text/vnd.graphviz"
	}
	c.Data(http.StatusOK, contentType, out)
}

func (s *Server) handleCreateDataset(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset store disabled"})
		return
	}

	var req createDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate up front so a stored dataset is always loadable later.
	ds, err := core.ParseDataset(req.Dataset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := s.store.Put(c.Request.Context(), req.Name, req.Dataset, ds.Field.Len())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.updateStoredDatasetsGauge(c)

	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleListDatasets(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset store disabled"})
		return
	}

	records, err := s.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": records})
}

func (s *Server) handleGetDataset(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset store disabled"})
		return
	}

	rec, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                rec.ID,
		"name":              rec.Name,
		"transceiver_count": rec.TransceiverCount,
		"created_at":        rec.CreatedAt,
		"dataset":           json.RawMessage(rec.Body),
	})
}

func (s *Server) handleDeleteDataset(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset store disabled"})
		return
	}

	err := s.store.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.updateStoredDatasetsGauge(c)
	c.Status(http.StatusNoContent)
}

// handleStoredRoute queries a stored dataset with a fresh point pair,
// ignoring the A/B the dataset was uploaded with.
func (s *Server) handleStoredRoute(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset store disabled"})
		return
	}

	var req pointPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, okA := pairToPoint(req.A)
	b, okB := pairToPoint(req.B)
	if !okA || !okB {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a and b must be finite [x, y] pairs"})
		return
	}

	rec, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ds, err := core.ParseDataset(rec.Body)
	if err != nil {
		// Stored datasets are validated on upload; failing here means
		// the store itself is corrupt.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	route, ok := s.runQuery(c, ds, a, b)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, routeToResponse(route))
}

func (s *Server) updateStoredDatasetsGauge(c *gin.Context) {
	if s.store == nil || s.metrics == nil {
		return
	}
	if n, err := s.store.Count(c.Request.Context()); err == nil {
		s.metrics.SetStoredDatasets(n)
	}
}

func pairToPoint(pair []float64) (core.Point, bool) {
	if len(pair) != 2 {
		return core.Point{}, false
	}
	p := core.Point{X: pair[0], Y: pair[1]}
	return p, p.IsFinite()
}
