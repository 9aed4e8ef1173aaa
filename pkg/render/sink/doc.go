// Package sink provides output format renderers for museum map scenes.
//
// # Overview
//
// A "sink" transforms a composed [scene.Scene] into a final output format.
// This package provides renderers for:
//
//   - SVG: the map as the browser shows it, optionally with the detail overlay
//   - JSON: scene data for external front ends and the HTTP API
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws the scene in three layers, bottom to top: connection
// curves, anchor cards and slot markers. All three sit in one group carrying
// the viewport transform; the detail overlay is drawn last in screen space.
//
//	svg := sink.RenderSVG(s,
//	    sink.WithSize(1280, 800),
//	    sink.WithDetail(detail),
//	    sink.WithGlow(),
//	)
//
// # JSON Output
//
// [RenderJSON] exports positions, bindings and connection styles:
//
//	data, err := sink.RenderJSON(s, sink.WithJSONRecords())
//
// # PDF and PNG Output
//
// These formats require rsvg-convert (from librsvg):
//
//	pdf, err := sink.RenderPDF(s, sink.WithPDFSVGOptions(sink.WithSize(1600, 1000)))
//	png, err := sink.RenderPNG(s, sink.WithScale(2.0))
//
// [scene.Scene]: github.com/matzehuels/museummap/pkg/scene
package sink
