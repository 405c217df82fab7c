package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/paulmach/orb/geojson"

	"visibility"
	"visibility/scene"
)

var (
	//go:embed schema/visibility.json
	visibilitySchema []byte
	//go:embed schema/los.json
	losSchema []byte
)

type OriginRequest struct {
	ID string `json:"id,omitempty"`
	visibility.Point
}

type VisibilityRequest struct {
	Origin  *visibility.Point `json:"origin,omitempty"`
	Origins []OriginRequest   `json:"origins,omitempty"`
	Lights  bool              `json:"lights,omitempty"` // sweep from every light in the scene

	Type     visibility.Type `json:"type"`
	Angle    float64         `json:"angle,omitempty"`
	Rotation float64         `json:"rotation,omitempty"`
	Radius   float64         `json:"radius,omitempty"`
	Density  int             `json:"density,omitempty"`

	Compose bool               `json:"compose,omitempty"` // cut the radius as a boundary shape instead of during the sweep
	Limit   *scene.BoundingBox `json:"limit,omitempty"`   // extra rectangular boundary
	Format  string             `json:"format,omitempty"`  // "json" (default) or "geojson"

	// Simplify thins the polygons with this tolerance; 0 derives one from
	// each source's radius and density, absent leaves them untouched
	Simplify *float64 `json:"simplify,omitempty"`
}

type PolygonResponse struct {
	ID       string             `json:"id"`
	Polygon  []visibility.Point `json:"polygon"`
	Area     float64            `json:"area"`
	Vertices int                `json:"vertices"`
	Edges    int                `json:"edges"`
	Faults   []string           `json:"faults,omitempty"`
}

type VisibilityResponse struct {
	Success bool              `json:"success"`
	Results []PolygonResponse `json:"results"`
	Message string            `json:"message,omitempty"`
}

type LineOfSightRequest struct {
	Origin visibility.Point `json:"origin"`
	Target visibility.Point `json:"target"`
	Type   visibility.Type  `json:"type"`
}

type LineOfSightResponse struct {
	Visible bool   `json:"visible"`
	Blocker string `json:"blocker,omitempty"`
}

// snapshot is an immutable scene plus its wall index. Replacing the scene
// swaps the whole snapshot so running sweeps keep the one they started with.
type snapshot struct {
	scene *scene.Scene
	index *visibility.WallIndex
}

func newSnapshot(s *scene.Scene) *snapshot {
	return &snapshot{scene: s, index: s.Index()}
}

type server struct {
	mu      sync.RWMutex
	current *snapshot

	scenePath string
	workers   int

	visibilityValidator *scene.Validator
	losValidator        *scene.Validator
}

func newServer(scenePath string, workers int) *server {
	return &server{
		scenePath:           scenePath,
		workers:             workers,
		visibilityValidator: scene.MustValidator(visibilitySchema),
		losValidator:        scene.MustValidator(losSchema),
	}
}

func (s *server) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *server) setScene(sc *scene.Scene) {
	snap := newSnapshot(sc)
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/scene", s.getSceneHandler).Methods(http.MethodGet)
	r.HandleFunc("/scene", s.putSceneHandler).Methods(http.MethodPut)
	r.HandleFunc("/visibility", s.visibilityHandler).Methods(http.MethodPost)
	r.HandleFunc("/los", s.losHandler).Methods(http.MethodPost)

	// preflight requests for every route
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	return r
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to encode response: %v\n", err)
	}
}

// GET /health - Health check endpoint
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()

	status := "ready"
	numWalls, numLights := 0, 0
	if snap == nil {
		status = "waiting for scene"
	} else {
		numWalls = snap.index.Len()
		numLights = len(snap.scene.Lights)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"hasScene":  snap != nil,
		"numWalls":  numWalls,
		"numLights": numLights,
	})
}

// GET /scene - Current scene as JSON, or GeoJSON with ?format=geojson
func (s *server) getSceneHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		http.Error(w, "No scene loaded. PUT /scene first", http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("format") == "geojson" {
		writeGeoJSON(w, snap.scene.FeatureCollection())
		return
	}
	writeJSON(w, http.StatusOK, snap.scene)
}

// PUT /scene - Replace the scene. The body format follows ?format=json|yaml|geojson.
// With ?save=true the scene is also written to the server's scene file.
func (s *server) putSceneHandler(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	log.Println("========================================")
	log.Printf("🗺️  Scene upload %s received\n", reqID)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var sc *scene.Scene
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		sc, err = scene.ParseJSON(data)
	case "yaml":
		sc, err = scene.ParseYAML(data)
	case "geojson":
		sc, err = scene.ParseGeoJSON(data)
	default:
		err = fmt.Errorf("unsupported scene format %q", format)
	}
	if err != nil {
		log.Printf("❌ Invalid scene: %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Println("========================================")
		return
	}

	s.setScene(sc)
	log.Printf("   ✅ Scene replaced: %d walls, %d lights\n", len(sc.Walls), len(sc.Lights))

	saved := false
	if r.URL.Query().Get("save") == "true" && s.scenePath != "" {
		if err := saveScene(sc, s.scenePath); err != nil {
			log.Printf("⚠️  Failed to save scene: %v\n", err)
		} else {
			saved = true
		}
	}
	log.Println("========================================")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"numWalls":  len(sc.Walls),
		"numLights": len(sc.Lights),
		"saved":     saved,
	})
}

func saveScene(sc *scene.Scene, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return scene.SaveYAML(sc, filename)
	case ".json":
		return scene.Save(sc, filename)
	}
	return fmt.Errorf("cannot save scene as %q", filename)
}

// POST /visibility - Visibility polygons for one or many origins
func (s *server) visibilityHandler(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	log.Println("========================================")
	log.Printf("👁️  Visibility request %s received\n", reqID)
	defer log.Println("========================================")

	var req VisibilityRequest
	if err := decodeValidated(r, s.visibilityValidator, &req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := s.snapshot()
	if snap == nil {
		log.Println("❌ No scene loaded")
		http.Error(w, "No scene loaded. PUT /scene first", http.StatusBadRequest)
		return
	}

	sources := req.sources(snap.scene)
	log.Printf("   Sources: %d, type %s, angle %.1f, radius %.1f\n", len(sources), req.Type, req.Angle, req.Radius)

	results, err := visibility.ComputeAll(r.Context(), snap.index, sources, s.workers)
	if err != nil {
		log.Printf("❌ Sweep failed: %v\n", err)
		status := http.StatusBadRequest
		if errors.Is(err, r.Context().Err()) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, VisibilityResponse{Success: false, Results: []PolygonResponse{}, Message: err.Error()})
		return
	}

	if req.Simplify != nil {
		before := 0
		for _, res := range results {
			before += res.Polygon.Len()
		}
		req.simplify(sources, results)
		after := 0
		for _, res := range results {
			after += res.Polygon.Len()
		}
		log.Printf("   Simplified %d vertices down to %d\n", before, after)
	}

	if req.Format == "geojson" {
		fc := geojson.NewFeatureCollection()
		for i, res := range results {
			fc.Append(scene.PolygonFeature(sources[i].ID, res.Polygon))
		}
		log.Printf("✅ Returning %d polygons as GeoJSON\n", len(results))
		writeGeoJSON(w, fc)
		return
	}

	resp := VisibilityResponse{Success: true, Results: make([]PolygonResponse, len(results))}
	for i, res := range results {
		pr := PolygonResponse{
			ID:       sources[i].ID,
			Polygon:  res.Polygon.Vertices,
			Area:     res.Polygon.Area(),
			Vertices: res.Polygon.Len(),
			Edges:    len(res.Edges),
		}
		for _, f := range res.Faults {
			pr.Faults = append(pr.Faults, f.Error())
		}
		if pr.Polygon == nil {
			pr.Polygon = []visibility.Point{}
		}
		resp.Results[i] = pr
		log.Printf("   ✅ %s: %d vertices, area %.2f\n", pr.ID, pr.Vertices, pr.Area)
	}

	writeJSON(w, http.StatusOK, resp)
}

// sources turns the request into one sweep source per origin
func (req VisibilityRequest) sources(sc *scene.Scene) []visibility.Source {
	if req.Lights {
		sources := sc.Sources()
		if req.Limit != nil {
			for i := range sources {
				sources[i].Shapes = []visibility.Shape{rectOf(req.Limit)}
			}
		}
		return sources
	}

	origins := req.Origins
	if req.Origin != nil {
		origins = append([]OriginRequest{{ID: "origin", Point: *req.Origin}}, origins...)
	}

	sources := make([]visibility.Source, len(origins))
	for i, o := range origins {
		id := o.ID
		if id == "" {
			id = fmt.Sprintf("origin-%d", i)
		}

		cfg := visibility.Config{
			Type:     req.Type,
			Angle:    req.Angle,
			Rotation: req.Rotation,
			Radius:   req.Radius,
			Density:  req.Density,
			Bounds:   sc.Bounds.Bound(),
		}

		var shapes []visibility.Shape
		if req.Limit != nil {
			shapes = append(shapes, rectOf(req.Limit))
		}
		if req.Compose && req.Radius > 0 {
			shapes = append(shapes, visibility.Circle{Center: o.Point, Radius: req.Radius, Density: req.Density})
			cfg.Radius = 0
		}

		sources[i] = visibility.Source{ID: id, Origin: o.Point, Config: cfg, Shapes: shapes}
	}
	return sources
}

// simplify thins the result polygons in place
func (req VisibilityRequest) simplify(sources []visibility.Source, results []*visibility.Result) {
	if eps := *req.Simplify; eps > 0 {
		polygons := make([]visibility.Polygon, len(results))
		for i, res := range results {
			polygons[i] = res.Polygon
		}
		for i, p := range visibility.SimplifyPolygons(polygons, eps) {
			results[i].Polygon = p
		}
		return
	}
	for i, res := range results {
		eps := visibility.EstimateSimplificationEpsilon(reach(sources[i]), sources[i].Config.Density)
		res.Polygon = res.Polygon.Simplify(eps)
	}
}

// reach is the view radius of a source, whether swept or composed
func reach(src visibility.Source) float64 {
	for _, sh := range src.Shapes {
		if c, ok := sh.(visibility.Circle); ok {
			return c.Radius
		}
	}
	return src.Config.Radius
}

func rectOf(b *scene.BoundingBox) visibility.Rect {
	return visibility.Rect{
		Min: visibility.Point{X: b.MinX, Y: b.MinY},
		Max: visibility.Point{X: b.MaxX, Y: b.MaxY},
	}
}

// POST /los - Whether a target is in line of sight of an origin
func (s *server) losHandler(w http.ResponseWriter, r *http.Request) {
	var req LineOfSightRequest
	if err := decodeValidated(r, s.losValidator, &req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := s.snapshot()
	if snap == nil {
		http.Error(w, "No scene loaded. PUT /scene first", http.StatusBadRequest)
		return
	}

	var resp LineOfSightResponse
	blocker, blocked := visibility.FirstBlocker(req.Origin, req.Target, snap.index, req.Type, nil)
	resp.Visible = !blocked
	if blocked {
		resp.Blocker = blocker.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeValidated checks the body against the schema before decoding it into v
func decodeValidated(r *http.Request, validator *scene.Validator, v interface{}) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err := validator.ValidateBytes(data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode body: %w", err)
	}
	return nil
}

func writeGeoJSON(w http.ResponseWriter, fc *geojson.FeatureCollection) {
	data, err := fc.MarshalJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}
