// Package render provides output rendering for museum map scenes.
//
// # Overview
//
// A [scene.Scene] is a format-neutral description of the map: anchor cards,
// slot markers, connection curves and the viewport transform. This package
// and its subpackages turn it into files and HTTP responses:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Scene sinks: SVG, JSON, PNG and PDF (in [sink] subpackage)
//   - Node-link diagrams via Graphviz (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both sinks rely on them.
//
//	svg := sink.RenderSVG(s, sink.WithSize(1280, 800))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage lays out the anchor/slot tree with Graphviz,
// ignoring the radial layout. It is useful for checking bindings at a glance.
//
//	dot := nodelink.ToDOT(s, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [scene.Scene]: github.com/matzehuels/museummap/pkg/scene
// [sink]: github.com/matzehuels/museummap/pkg/render/sink
// [nodelink]: github.com/matzehuels/museummap/pkg/render/nodelink
package render
