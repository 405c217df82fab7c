package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visibility/scene"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	scenePath := flag.String("scene", "scene.json", "scene file loaded on startup and written by PUT /scene?save=true")
	workers := flag.Int("workers", 0, "parallel sweeps per request (0 uses GOMAXPROCS)")
	flag.Parse()

	log.Println("========================================")
	log.Println("🚀 Visibility Polygon Server")
	log.Println("========================================")
	log.Println("Checking for existing scene file...")

	srv := newServer(*scenePath, *workers)

	if sc, err := scene.Load(*scenePath); err == nil {
		srv.setScene(sc)
		log.Printf("✅ Loaded scene %q\n", sc.Name)
		if sc.Bounds != nil {
			log.Printf("   Bounding box: (%.2f, %.2f) to (%.2f, %.2f)\n",
				sc.Bounds.MinX, sc.Bounds.MinY, sc.Bounds.MaxX, sc.Bounds.MaxY)
		}
	} else {
		log.Printf("ℹ️  No scene loaded (%v)\n", err)
		log.Println("   Call PUT /scene to upload one")
	}
	log.Println("")

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      srv.routes(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on %s\n", *addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  GET  /scene        - Current scene (?format=geojson)")
	log.Println("  PUT  /scene        - Replace the scene (?format=json|yaml|geojson, ?save=true)")
	log.Println("  POST /visibility   - Visibility polygons for one or many origins")
	log.Println("  POST /los          - Line of sight between two points")
	log.Println("  GET  /health       - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("HTTP server stopped")
}
