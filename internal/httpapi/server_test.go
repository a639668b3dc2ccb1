package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/coverage-planner/internal/datastore"
	"github.com/signalsfoundry/coverage-planner/internal/observability"
)

const twoCircleDataset = `{
	"transceivers": [
		{"location": [0, 0], "power": 314.159265358979},
		{"location": [9, 0], "power": 314.159265358979}
	],
	"A": [0, 0],
	"B": [9, 0]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := datastore.Open(":memory:")
	if err != nil {
		t.Fatalf("datastore.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	metrics, err := observability.NewPlannerCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewPlannerCollector: %v", err)
	}

	return New(Options{Store: store, Metrics: metrics})
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func TestAdHocRouteFound(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/v1/route", twoCircleDataset)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp routeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Found || resp.Hops != 2 {
		t.Fatalf("response = %+v, want found 2-hop route", resp)
	}
	if resp.Route[0].ID != 1 || resp.Route[1].ID != 2 {
		t.Fatalf("route IDs = %v, want [1, 2]", resp.Route)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID header")
	}
}

func TestAdHocRouteAbsent(t *testing.T) {
	s := newTestServer(t)

	doc := `{
		"transceivers": [
			{"location": [0, 0], "power": 314.159265358979},
			{"location": [50, 0], "power": 314.159265358979}
		],
		"A": [0, 0],
		"B": [9, 0]
	}`
	rr := doJSON(t, s, http.MethodPost, "/api/v1/route", doc)
	if rr.Code != http.StatusOK {
		t.Fatalf("absence must be 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp routeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Found || resp.Route != nil {
		t.Fatalf("response = %+v, want absence", resp)
	}
}

func TestAdHocRouteRejectsMalformedDataset(t *testing.T) {
	s := newTestServer(t)

	doc := `{"transceivers": [{"location": [0, 0], "power": -3}], "A": [0,0], "B": [1,1]}`
	if rr := doJSON(t, s, http.MethodPost, "/api/v1/route", doc); rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestAdHocRenderReturnsSVG(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/v1/route/render?format=svg", twoCircleDataset)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.Contains(rr.Body.String(), "<svg") {
		t.Fatalf("body is not SVG")
	}
}

func TestDatasetLifecycle(t *testing.T) {
	s := newTestServer(t)

	createBody, _ := json.Marshal(map[string]any{
		"name":    "demo field",
		"dataset": json.RawMessage(twoCircleDataset),
	})
	rr := doJSON(t, s, http.MethodPost, "/api/v1/datasets", string(createBody))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}
	var rec datastore.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if rec.TransceiverCount != 2 {
		t.Fatalf("transceiver_count = %d, want 2", rec.TransceiverCount)
	}

	// Query the stored dataset with a fresh point pair.
	rr = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/datasets/%s/route", rec.ID),
		`{"a": [0, 0], "b": [9, 0]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("stored route status = %d: %s", rr.Code, rr.Body.String())
	}
	var resp routeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Found || resp.Hops != 2 {
		t.Fatalf("stored route response = %+v, want found 2-hop route", resp)
	}

	// List, fetch, delete.
	rr = doJSON(t, s, http.MethodGet, "/api/v1/datasets", "")
	if rr.Code != http.StatusOK || !bytes.Contains(rr.Body.Bytes(), []byte(rec.ID)) {
		t.Fatalf("list status = %d body = %s", rr.Code, rr.Body.String())
	}
	rr = doJSON(t, s, http.MethodGet, "/api/v1/datasets/"+rec.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	rr = doJSON(t, s, http.MethodDelete, "/api/v1/datasets/"+rec.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr = doJSON(t, s, http.MethodGet, "/api/v1/datasets/"+rec.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rr.Code)
	}
}

func TestCreateDatasetRejectsInvalidBody(t *testing.T) {
	s := newTestServer(t)

	// Valid JSON envelope, invalid dataset inside.
	body := `{"name": "broken", "dataset": {"transceivers": [{"location": [1], "power": 5}], "A": [0,0], "B": [1,1]}}`
	if rr := doJSON(t, s, http.MethodPost, "/api/v1/datasets", body); rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestStoredRouteUnknownDataset(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/v1/datasets/nope/route", `{"a": [0,0], "b": [1,1]}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestStoredRouteRejectsBadPointPair(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/v1/datasets/any/route", `{"a": [0], "b": [1, 1]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	s := newTestServer(t)

	if rr := doJSON(t, s, http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK {
		t.Fatalf("/healthz status = %d", rr.Code)
	}

	// Run one query then confirm it shows up on /metrics.
	doJSON(t, s, http.MethodPost, "/api/v1/route", twoCircleDataset)
	rr := doJSON(t, s, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "route_queries_total") {
		t.Fatalf("route_queries_total missing from /metrics")
	}
}
