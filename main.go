package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex-data/telemetry.report/internal/api"
	"github.com/apex-data/telemetry.report/internal/units"
	"github.com/apex-data/telemetry.report/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	speedUnits  = flag.String("units", units.KPH, "Display units for speeds (kph, mph, mps)")
	maxUploadMB = flag.Int64("max-upload-mb", 50, "Maximum telemetry upload size in MB")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if !units.IsValid(*speedUnits) {
		log.Fatalf("invalid units %q (valid: %s)", *speedUnits, units.GetValidUnitsString())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(
		api.WithUnits(*speedUnits),
		api.WithMaxUpload(*maxUploadMB<<20),
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", srv.ServeMux()))

	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}

	// Start server in a goroutine so it doesn't block
	go func() {
		log.Printf("telemetry-report %s listening on %s", version.Version, *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for context cancellation to shut down server
	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	// Create a shutdown context with a timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Printf("Graceful shutdown complete")
}
