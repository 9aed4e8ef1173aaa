// Package nodelink renders museum map scenes as node-link diagrams.
//
// # Overview
//
// The map's radial layout is good for browsing but hides which slots are
// bound when zoomed out. This package draws the same scene as a Graphviz
// tree: one box per anchor, one circle per slot, and an edge from each
// anchor to its slots. Bound slots are filled and carry their artifact
// label; unbound slots and their edges are dashed, mirroring the connection
// styles of the map.
//
// # Usage
//
//	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
