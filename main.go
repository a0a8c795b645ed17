package main

import (
	"flag"
	"log"
	"net/http"

	"drone-flightpath/internal/metrics"
	"drone-flightpath/internal/planner"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to a TOML or YAML config file")
	flag.Parse()

	log.Println("========================================")
	log.Println("🚀 Drone Flight Path Server")
	log.Println("========================================")

	config, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	area, err := config.LoadCentralArea()
	if err != nil {
		log.Fatalf("Failed to load central area: %v", err)
	}
	log.Printf("✅ Central area %q with %d vertices\n", area.Name, len(area.Vertices))

	zones, err := config.LoadNoFlyZones()
	if err != nil {
		log.Fatalf("Failed to load no-fly zones: %v", err)
	}

	opts := config.PlannerOptions()
	pl, err := planner.New(area, zones, opts...)
	if err != nil {
		log.Fatalf("Failed to build planner: %v", err)
	}
	if dropped := len(zones) - len(pl.NoFlyZones()); dropped > 0 {
		log.Printf("   Dropped %d no-fly zones contained in other zones\n", dropped)
	}

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	server, err := NewServer(pl, collector, opts...)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	log.Printf("Server starting on %s\n", config.Port)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /route     - Compute a flight path from start to destination")
	log.Println("  GET  /zones     - No-fly zones and central area as GeoJSON")
	log.Println("  GET  /health    - Check server status")
	log.Println("  GET  /metrics   - Prometheus metrics")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	if err := http.ListenAndServe(config.Port, server.Routes()); err != nil {
		log.Fatal(err)
	}
}
