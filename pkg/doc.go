// Package pkg provides the core libraries of the museum map.
//
// # Overview
//
// The museum map places artifacts on a large virtual canvas. A handful of
// fixed category anchors sit on the canvas; each owns a semicircle of
// numbered slots, and every artifact names the anchor and slot it belongs
// to. The user pans and zooms the canvas and clicks a filled slot to read
// about its artifact.
//
// The pkg directory is organized into four areas:
//
//  1. Geometry and layout ([geom], [anchor], [layout], [viewport])
//  2. Interaction ([gesture], [scene], [mapview], [session])
//  3. Data ([artifact], [binder], [enrich])
//  4. Output and infrastructure ([render], [cache], [observability])
//
// # Architecture
//
// The typical data flow:
//
//	Artifact store (file, MongoDB)
//	         ↓
//	    [artifact] package (ingest and validate documents)
//	         ↓
//	    [binder] package (resolve slot claims)
//	         ↓
//	    [scene] package (compose anchors, slots, connections)
//	         ↓
//	    [render] packages (SVG, JSON, DOT, PNG, PDF)
//
// Input runs the other way: pointer, touch and wheel events reach a
// [mapview.View], whose [gesture] router drives the [viewport] controller.
//
// # Quick Start
//
// Render the map for a set of artifacts:
//
//	b, _ := binder.New(records, binder.PolicyFirst)
//	sc := scene.Build(anchor.Defaults(), b, viewport.Initial())
//	svg := sink.RenderSVG(sc, sink.WithSize(1280, 800))
//
// Drive an interactive view:
//
//	view, _ := mapview.Open(records, binder.PolicyFirst)
//	view.Mount()
//	defer view.Unmount()
//
//	view.Dispatch(ctx, gesture.Event{Kind: gesture.Wheel, DeltaY: -100})
//	res := view.Click(geom.Pt(704, 445))
//	if d, ok := view.Detail(); ok {
//	    fmt.Println(d.Heading, d.Name)
//	}
//
// # Main Packages
//
// ## Geometry and Layout
//
// [geom] - Points, arcs and the quadratic connection curves.
//
// [anchor] - The fixed category anchors and their color themes.
//
// [layout] - Slot positions on the arc around each anchor. Pure functions.
//
// [viewport] - Pan and zoom state with clamping, drag and pinch.
//
// ## Interaction
//
// [gesture] - Input events, the per-view event bus and the router that turns
// events into viewport changes.
//
// [scene] - The composed map, hit testing and the detail overlay content.
//
// [mapview] - One mounted map: viewport, router, selection and bus, safe for
// concurrent use.
//
// [session] - Server-side views with a TTL, for the HTTP API.
//
// ## Data
//
// [artifact] - Artifact records, document ingestion and the file, memory and
// cached sources. MongoDB lives in artifact/mongostore.
//
// [binder] - Resolves which record fills each slot, with a configurable
// duplicate policy.
//
// [enrich] - Client for the label enrichment webhook, with retries and a
// circuit breaker.
//
// ## Output and Infrastructure
//
// [render] - SVG to PDF/PNG conversion. render/sink writes scenes;
// render/nodelink draws the anchor/slot tree with Graphviz.
//
// [cache] - Null, file and Redis caches behind one interface, plus key
// builders.
//
// [observability] - Hooks for scene, cache and HTTP events. The
// observability/prom subpackage exports them to Prometheus.
//
// [errors] - Coded errors with HTTP status mapping and input validation.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/viewport/...           # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Tests that need MongoDB or Redis skip unless MUSEUMMAP_MONGO_URI or
// MUSEUMMAP_REDIS_ADDR is set.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/geom
// [anchor]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/anchor
// [layout]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/viewport
// [gesture]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/gesture
// [scene]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/scene
// [mapview]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/mapview
// [mapview.View]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/mapview#View
// [session]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/session
// [artifact]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/artifact
// [binder]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/binder
// [enrich]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/enrich
// [render]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/museummap/pkg/errors
package pkg
