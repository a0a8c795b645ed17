package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus"

	"drone-flightpath/internal/geometry"
	"drone-flightpath/internal/metrics"
	"drone-flightpath/internal/planner"
)

var testZone = geometry.NewRegion("block",
	geometry.Position{Lng: -3.1900, Lat: 55.9430},
	geometry.Position{Lng: -3.1895, Lat: 55.9430},
	geometry.Position{Lng: -3.1895, Lat: 55.9435},
	geometry.Position{Lng: -3.1900, Lat: 55.9435},
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	pl, err := planner.New(defaultCentralArea, []geometry.Region{testZone})
	if err != nil {
		t.Fatalf("planner.New: %v", err)
	}
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	server, err := NewServer(pl, collector, planner.WithMaxExpansions(20000))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return server
}

func post(t *testing.T, s *Server, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeRoute(t *testing.T, rr *httptest.ResponseRecorder) RouteResponse {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var resp RouteResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

const routeBody = `{"start":{"lng":-3.1880,"lat":55.9440},"destination":{"lng":-3.1870,"lat":55.9440}}`

func TestRouteFound(t *testing.T) {
	s := newTestServer(t)
	resp := decodeRoute(t, post(t, s, "/route", routeBody))

	if !resp.Success || resp.Moves == 0 {
		t.Fatalf("resp = %+v", resp)
	}
	if len(resp.Path) != resp.Moves+1 || len(resp.Steps) != resp.Moves {
		t.Fatalf("path has %d waypoints and %d steps for %d moves", len(resp.Path), len(resp.Steps), resp.Moves)
	}
	start := geometry.Position{Lng: -3.1880, Lat: 55.9440}
	if resp.Path[0] != start {
		t.Fatalf("first waypoint = %v, want %v", resp.Path[0], start)
	}
	dest := geometry.Position{Lng: -3.1870, Lat: 55.9440}
	if !geometry.IsClose(resp.Path[len(resp.Path)-1], dest) {
		t.Fatalf("last waypoint %v not close to %v", resp.Path[len(resp.Path)-1], dest)
	}
	if resp.DistanceMeters <= 0 || resp.Expansions == 0 {
		t.Fatalf("distance = %v, expansions = %d", resp.DistanceMeters, resp.Expansions)
	}
}

func TestRouteHover(t *testing.T) {
	s := newTestServer(t)
	plain := decodeRoute(t, post(t, s, "/route", routeBody))
	hover := decodeRoute(t, post(t, s, "/route", strings.Replace(routeBody, "{\"start\"", "{\"hover\":true,\"start\"", 1)))

	if hover.Moves != plain.Moves+1 {
		t.Fatalf("hover moves = %d, want %d", hover.Moves, plain.Moves+1)
	}
	last := hover.Steps[len(hover.Steps)-1]
	if !last.Move.IsHover() || last.From != last.To {
		t.Fatalf("last step = %+v, want hover", last)
	}
}

func TestRouteRejected(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name    string
		body    string
		success bool
		message string
	}{
		{
			name:    "null start",
			body:    `{"start":null,"destination":{"lng":-3.187,"lat":55.944}}`,
			message: "start position is required",
		},
		{
			name:    "start in zone",
			body:    `{"start":{"lng":-3.1898,"lat":55.9432},"destination":{"lng":-3.187,"lat":55.944}}`,
			message: "start position is inside a no-fly zone",
		},
		{
			name:    "already there",
			body:    `{"start":{"lng":-3.187,"lat":55.944},"destination":{"lng":-3.18701,"lat":55.944}}`,
			success: true,
			message: "already at destination",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decodeRoute(t, post(t, s, "/route", tt.body))
			if resp.Success != tt.success || resp.Message != tt.message || resp.Moves != 0 {
				t.Fatalf("resp = %+v", resp)
			}
			if resp.Path == nil || len(resp.Path) != 0 {
				t.Fatalf("path = %v, want empty", resp.Path)
			}
		})
	}
}

func TestRouteRequestRegions(t *testing.T) {
	s := newTestServer(t)
	body := `{"start":{"lng":-3.1880,"lat":55.9440},"destination":{"lng":-3.1870,"lat":55.9440},
		"noFlyZones":[{"name":"cage","vertices":[
			{"lng":-3.1883,"lat":55.9437},{"lng":-3.1877,"lat":55.9437},
			{"lng":-3.1877,"lat":55.9443},{"lng":-3.1883,"lat":55.9443}]}]}`
	resp := decodeRoute(t, post(t, s, "/route", body))
	if resp.Message != "start position is inside a no-fly zone" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestRouteBadRequest(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"start":`},
		{"missing destination", `{"start":{"lng":-3.188,"lat":55.944}}`},
		{"string coordinate", `{"start":{"lng":"x","lat":55.944},"destination":{"lng":-3.187,"lat":55.944}}`},
		{"latitude out of range", `{"start":{"lng":-3.188,"lat":95},"destination":{"lng":-3.187,"lat":55.944}}`},
		{"two vertex zone", `{"start":null,"destination":{"lng":-3.187,"lat":55.944},
			"noFlyZones":[{"vertices":[{"lng":0,"lat":0},{"lng":1,"lat":1}]}]}`},
		{"degenerate area", `{"start":null,"destination":{"lng":-3.187,"lat":55.944},
			"centralArea":{"name":"dot","vertices":[{"lng":0,"lat":0},{"lng":0,"lat":0},{"lng":0,"lat":0}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, s, "/route", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rr.Code, rr.Body.String())
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil || resp.Error == "" {
				t.Fatalf("error body = %+v, %v", resp, err)
			}
		})
	}
}

func TestRouteGeoJSON(t *testing.T) {
	s := newTestServer(t)
	rr := post(t, s, "/route?format=geojson", routeBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	fc, err := geojson.UnmarshalFeatureCollection(rr.Body.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(fc.Features))
	}
	if _, ok := fc.Features[0].Geometry.(orb.LineString); !ok {
		t.Fatalf("geometry is %T, want LineString", fc.Features[0].Geometry)
	}
}

func TestRouteMethodAndPreflight(t *testing.T) {
	s := newTestServer(t)

	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/route", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /route status = %d, want 405", rr.Code)
	}

	rr = httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/route", nil))
	if rr.Code != http.StatusOK || rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight status = %d, headers = %v", rr.Code, rr.Header())
	}
}

func TestZonesAndHealth(t *testing.T) {
	s := newTestServer(t)

	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/zones", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("/zones status = %d", rr.Code)
	}
	fc, err := geojson.UnmarshalFeatureCollection(rr.Body.Bytes())
	if err != nil {
		t.Fatalf("decode zones: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}

	rr = httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "ready" || health["noFlyZones"] != float64(1) {
		t.Fatalf("health = %v", health)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	decodeRoute(t, post(t, s, "/route", routeBody))

	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, want := range []string{`route_requests_total{outcome="found"} 1`, "no_fly_zones 1", "route_steps_count 1"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in /metrics output:\n%s", want, body)
		}
	}
}

func TestRouteSimplify(t *testing.T) {
	s := newTestServer(t)
	plain := decodeRoute(t, post(t, s, "/route", routeBody))
	if plain.Corners != nil {
		t.Fatalf("corners returned without simplify: %v", plain.Corners)
	}

	resp := decodeRoute(t, post(t, s, "/route?simplify=true", routeBody))
	if len(resp.Corners) < 2 || len(resp.Corners) > len(resp.Path) {
		t.Fatalf("got %d corners for %d waypoints", len(resp.Corners), len(resp.Path))
	}
	if resp.Corners[0] != resp.Path[0] || resp.Corners[len(resp.Corners)-1] != resp.Path[len(resp.Path)-1] {
		t.Fatalf("corners %v do not span path %v", resp.Corners, resp.Path)
	}
}
