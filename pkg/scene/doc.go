// Package scene composes the drawable museum map.
//
// [Build] combines the fixed anchors, their slot rings from package layout,
// the artifact bindings and the current viewport state into a [Scene]: a
// flat list of anchor cards, slot markers and connection curves, all in
// canvas coordinates under one transform. A scene is a value; rebuilding it
// after a gesture is cheap (3 anchors x 9 slots).
//
// Bound slots are solid and clickable, their connections solid and mostly
// opaque. Unbound slots are muted and inert, their connections dashed and
// translucent. Every slot is always present, so an empty artifact
// collection still yields a complete, interactive scene.
//
// [Selection] holds the single expanded artifact and [NewDetail] prepares the
// overlay for it. Output formats live in the sink and nodelink subpackages.
package scene
