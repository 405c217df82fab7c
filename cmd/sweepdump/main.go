// Command sweepdump runs one sweep and dumps its result for debugging.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"

	"visibility"
	"visibility/scene"
)

func main() {
	scenePath := flag.String("scene", "", "scene file (.json, .yaml or .geojson); empty uses a small demo room")
	x := flag.Float64("x", 300, "origin x")
	y := flag.Float64("y", 300, "origin y")
	radius := flag.Float64("radius", 0, "view radius, 0 for unlimited")
	angle := flag.Float64("angle", 0, "field of view in degrees, 0 for a full turn")
	rotation := flag.Float64("rotation", 0, "facing in degrees, clockwise from east")
	typeName := flag.String("type", "sight", "sight, light, move or sound")
	fast := flag.Bool("fast", false, "use the plain cross product orientation test")
	depth := flag.Int("depth", 4, "maximum nesting shown by the dump")
	asGeoJSON := flag.Bool("geojson", false, "print the scene and polygon as GeoJSON instead of a dump")
	simplify := flag.Float64("simplify", -1, "simplification tolerance, 0 to estimate it from the radius, negative to keep every vertex")
	flag.Parse()

	sc, err := loadScene(*scenePath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	t, err := visibility.ParseType(*typeName)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	cfg := visibility.Config{
		Type:     t,
		Angle:    *angle,
		Rotation: *rotation,
		Radius:   *radius,
		Bounds:   sc.Bounds.Bound(),
	}
	if *fast {
		cfg.Orient = visibility.Fast
	}

	origin := visibility.Point{X: *x, Y: *y}

	begin := time.Now()
	res, err := visibility.Compute(origin, sc.WallList(), cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fmt.Fprintln(os.Stderr, "Took", float64(time.Since(begin).Microseconds())/1000.0, "ms")

	if *simplify >= 0 {
		eps := *simplify
		if eps == 0 {
			eps = visibility.EstimateSimplificationEpsilon(*radius, cfg.Density)
		}
		before := res.Polygon.Len()
		res.Polygon = res.Polygon.Simplify(eps)
		fmt.Fprintf(os.Stderr, "Simplified %d vertices down to %d (tolerance %g)\n", before, res.Polygon.Len(), eps)
	}

	if *asGeoJSON {
		fc := sc.FeatureCollection()
		fc.Append(scene.PolygonFeature("visibility", res.Polygon))
		data, err := fc.MarshalJSON()
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		fmt.Println(string(data))
		return
	}

	show := spew.ConfigState{MaxDepth: *depth, Indent: "    ", DisablePointerAddresses: true}
	show.Dump(res.Polygon)
	show.Dump(res.Faults)
	show.Dump(res.Edges)
}

func loadScene(path string) (*scene.Scene, error) {
	if path != "" {
		return scene.Load(path)
	}
	demo := &scene.Scene{
		Name:   "demo",
		Bounds: &scene.BoundingBox{MinX: 0, MinY: 0, MaxX: 400, MaxY: 400},
		Walls: []scene.Wall{
			{ID: "a", A: visibility.Point{X: 20, Y: 20}, B: visibility.Point{X: 20, Y: 120}},
			{ID: "b", A: visibility.Point{X: 20, Y: 20}, B: visibility.Point{X: 100, Y: 20}},
			{ID: "c", A: visibility.Point{X: 100, Y: 20}, B: visibility.Point{X: 150, Y: 100}},
			{ID: "d", A: visibility.Point{X: 150, Y: 100}, B: visibility.Point{X: 50, Y: 100}},
		},
	}
	return demo, demo.Prepare()
}
