package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"drone-flightpath/internal/geodata"
	"drone-flightpath/internal/geometry"
	"drone-flightpath/internal/metrics"
	"drone-flightpath/internal/planner"
)

const maxRequestBytes = 1 << 20

type RouteRequest struct {
	Start       *geometry.Position `json:"start"`
	Destination geometry.Position  `json:"destination"`
	Hover       bool               `json:"hover,omitempty"`
	NoFlyZones  []geometry.Region  `json:"noFlyZones,omitempty"` // Optional: replaces the loaded zones
	CentralArea *geometry.Region   `json:"centralArea,omitempty"`
}

type RouteResponse struct {
	Success        bool                `json:"success"`
	Message        string              `json:"message,omitempty"`
	Steps          planner.Path        `json:"steps,omitempty"`
	Path           []geometry.Position `json:"path"`
	Corners        []geometry.Position `json:"corners,omitempty"`
	Moves          int                 `json:"moves"`
	DistanceMeters float64             `json:"distanceMeters,omitempty"`
	Expansions     int                 `json:"expansions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Server answers route requests against a loaded planner.
type Server struct {
	planner *planner.Planner
	options []planner.Option
	metrics *metrics.Collector
	schema  *jsonschema.Schema
}

// NewServer wraps p. The options are reused for planners built from
// per-request zones.
func NewServer(p *planner.Planner, collector *metrics.Collector, opts ...planner.Option) (*Server, error) {
	schema, err := compileRouteSchema()
	if err != nil {
		return nil, err
	}
	collector.SetNoFlyZones(len(p.NoFlyZones()))
	return &Server{
		planner: p,
		options: opts,
		metrics: collector,
		schema:  schema,
	}, nil
}

// Routes registers the service endpoints on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/route", corsMiddleware(s.routeHandler))
	mux.HandleFunc("/zones", corsMiddleware(s.zonesHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// POST /route - Plan a flight from start to destination
func (s *Server) routeHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Route request received")
	defer log.Println("========================================")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		log.Printf("❌ Failed to read request body: %v\n", err)
		s.metrics.CountRequest(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRouteRequest(s.schema, body); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		s.metrics.CountRequest(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	var req RouteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		s.metrics.CountRequest(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pl, err := s.plannerFor(req)
	if err != nil {
		log.Printf("❌ Invalid regions: %v\n", err)
		s.metrics.CountRequest(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Start != nil {
		log.Printf("   Start:       %s\n", req.Start)
	}
	log.Printf("   Destination: %s\n", req.Destination)

	switch {
	case req.Start == nil:
		log.Println("❌ No start position")
		s.metrics.CountRequest(metrics.OutcomeRejected)
		writeJSON(w, RouteResponse{Message: "start position is required", Path: []geometry.Position{}})
		return
	case pl.InNoFlyZone(*req.Start):
		log.Println("❌ Start position is inside a no-fly zone")
		s.metrics.CountRequest(metrics.OutcomeRejected)
		writeJSON(w, RouteResponse{Message: "start position is inside a no-fly zone", Path: []geometry.Position{}})
		return
	case geometry.IsClose(*req.Start, req.Destination):
		log.Println("✅ Already at destination")
		s.metrics.CountRequest(metrics.OutcomeArrived)
		writeJSON(w, RouteResponse{Success: true, Message: "already at destination", Path: []geometry.Position{}})
		return
	}

	log.Println("🔍 Running A* over compass moves...")
	began := time.Now()
	path, stats := pl.Search(req.Start, req.Destination)
	elapsed := time.Since(began)

	if path.Empty() {
		s.metrics.ObserveSearch(metrics.OutcomeNoRoute, stats.Expansions, 0, elapsed)
		message := "no route found"
		if stats.BoundReached {
			message = fmt.Sprintf("no route found within %d expansions", stats.Expansions)
		}
		log.Printf("❌ %s (%v)\n", message, elapsed)
		writeJSON(w, RouteResponse{Message: message, Path: []geometry.Position{}, Expansions: stats.Expansions})
		return
	}

	if req.Hover {
		path = path.WithHover()
	}
	s.metrics.ObserveSearch(metrics.OutcomeFound, stats.Expansions, path.Len(), elapsed)

	distanceMeters := path.LengthMeters()
	log.Printf("✅ Path found with %d moves after %d expansions (%v)\n", path.Len(), stats.Expansions, elapsed)
	log.Printf("   Distance: %.2f meters\n", distanceMeters)

	if r.URL.Query().Get("format") == "geojson" {
		data, err := geodata.EncodePath(path)
		if err != nil {
			log.Printf("❌ Failed to encode path: %v\n", err)
			writeError(w, http.StatusInternalServerError, "failed to encode path")
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(data)
		return
	}

	resp := RouteResponse{
		Success:        true,
		Steps:          path,
		Path:           path.Waypoints(),
		Moves:          path.Len(),
		DistanceMeters: distanceMeters,
		Expansions:     stats.Expansions,
	}
	if r.URL.Query().Get("simplify") == "true" {
		resp.Corners = path.Corners()
		log.Printf("   Simplified to %d corners\n", len(resp.Corners))
	}
	writeJSON(w, resp)
}

// plannerFor returns the loaded planner, or a new one when the request carries
// its own regions.
func (s *Server) plannerFor(req RouteRequest) (*planner.Planner, error) {
	if req.NoFlyZones == nil && req.CentralArea == nil {
		return s.planner, nil
	}
	zones := s.planner.NoFlyZones()
	if req.NoFlyZones != nil {
		zones = req.NoFlyZones
	}
	area := s.planner.CentralArea()
	if req.CentralArea != nil {
		area = *req.CentralArea
	}
	log.Printf("   Using request regions: %d no-fly zones, central area %q\n", len(zones), area.Name)
	return planner.New(area, zones, s.options...)
}

// GET /zones - No-fly zones and central area as GeoJSON
func (s *Server) zonesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	fc := geojson.NewFeatureCollection()
	geodata.AppendRegions(fc, geodata.RoleNoFlyZone, s.planner.NoFlyZones()...)
	geodata.AppendRegions(fc, geodata.RoleCentralArea, s.planner.CentralArea())

	data, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode zones")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":      "ready",
		"noFlyZones":  len(s.planner.NoFlyZones()),
		"centralArea": s.planner.CentralArea().Name,
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
