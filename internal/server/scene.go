package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/binder"
	"github.com/matzehuels/museummap/pkg/cache"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/observability"
	"github.com/matzehuels/museummap/pkg/render"
	"github.com/matzehuels/museummap/pkg/render/nodelink"
	"github.com/matzehuels/museummap/pkg/render/sink"
	"github.com/matzehuels/museummap/pkg/scene"
	"github.com/matzehuels/museummap/pkg/viewport"
)

// Scene output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodeLink = "nodelink"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

var contentTypes = map[string]string{
	FormatSVG:      "image/svg+xml",
	FormatJSON:     "application/json",
	FormatDOT:      "text/vnd.graphviz",
	FormatNodeLink: "image/svg+xml",
	FormatPNG:      "image/png",
	FormatPDF:      "application/pdf",
}

// sceneQuery holds the render parameters of a scene request.
type sceneQuery struct {
	format   string
	zoom     float64
	pan      geom.Point
	width    float64
	height   float64
	selected string
	detailed bool
}

func parseSceneQuery(r *http.Request) (sceneQuery, error) {
	q := r.URL.Query()
	sq := sceneQuery{
		format:   q.Get("format"),
		zoom:     viewport.DefaultZoom,
		selected: q.Get("select"),
		detailed: q.Get("detailed") == "true",
	}
	if sq.format == "" {
		sq.format = FormatSVG
	}
	if _, ok := contentTypes[sq.format]; !ok {
		return sq, mmerrors.New(mmerrors.ErrCodeInvalidInput, "unsupported format %q", sq.format)
	}

	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"zoom", &sq.zoom},
		{"panX", &sq.pan.X},
		{"panY", &sq.pan.Y},
		{"width", &sq.width},
		{"height", &sq.height},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return sq, mmerrors.New(mmerrors.ErrCodeInvalidInput, "invalid %s %q", p.name, raw)
		}
		*p.dst = v
	}
	sq.zoom = viewport.Clamp(sq.zoom)
	return sq, nil
}

func (s *Server) handleAnchors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.anchors)
}

type artifactsResponse struct {
	Count     int               `json:"count"`
	Bound     int               `json:"bound"`
	Policy    binder.Policy     `json:"policy"`
	Records   []artifact.Record `json:"records"`
	Conflicts []binder.Conflict `json:"conflicts"`
}

func (s *Server) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	records, err := s.source.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := binder.New(records, s.policy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	conflicts := b.Conflicts()
	if conflicts == nil {
		conflicts = []binder.Conflict{}
	}
	if records == nil {
		records = []artifact.Record{}
	}
	writeJSON(w, http.StatusOK, artifactsResponse{
		Count:     len(records),
		Bound:     len(b.Keys()),
		Policy:    b.Policy(),
		Records:   records,
		Conflicts: conflicts,
	})
}

// handleScene renders a scene for a viewport given entirely by the query.
// Output is cached per snapshot hash and render parameters.
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := parseSceneQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	records, err := s.source.List(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key := s.keyer.SceneKey(artifact.Hash(records), cache.SceneKeyOpts{
		Format:   q.format,
		Zoom:     q.zoom,
		PanX:     q.pan.X,
		PanY:     q.pan.Y,
		Width:    q.width,
		Height:   q.height,
		Selected: q.selected,
		Policy:   string(s.policy),
	})
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("scene cache read failed", "err", err)
	} else if ok {
		w.Header().Set("X-Cache", "hit")
		writeScene(w, q.format, data)
		return
	}

	b, err := binder.New(records, s.policy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var detail *scene.Detail
	selected := ""
	if q.selected != "" {
		if rec, ok := b.Find(q.selected); ok {
			d := scene.NewDetail(rec, s.anchors)
			detail = &d
			selected = rec.ID
		}
	}

	start := time.Now()
	state := viewport.State{Zoom: q.zoom, Pan: q.pan}
	sc := scene.Build(s.anchors, b, state, scene.WithSelected(selected))
	observability.Scene().OnBuild(ctx, sc.BoundCount(), len(sc.Slots), time.Since(start))

	data, err := s.render(ctx, sc, detail, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.sceneTTL); err != nil {
		s.logger.Warn("scene cache write failed", "err", err)
	}
	w.Header().Set("X-Cache", "miss")
	writeScene(w, q.format, data)
}

func writeScene(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// render writes sc in the query's format and reports it to the scene hooks.
func (s *Server) render(ctx context.Context, sc *scene.Scene, detail *scene.Detail, q sceneQuery) ([]byte, error) {
	start := time.Now()
	data, err := renderFormat(ctx, sc, detail, q)
	observability.Scene().OnRender(ctx, q.format, len(data), time.Since(start), err)
	return data, err
}

func renderFormat(ctx context.Context, sc *scene.Scene, detail *scene.Detail, q sceneQuery) ([]byte, error) {
	svgOpts := []sink.SVGOption{sink.WithGlow(), sink.WithInteraction(), sink.WithSize(q.width, q.height)}
	if detail != nil {
		svgOpts = append(svgOpts, sink.WithDetail(*detail))
	}
	dotOpts := nodelink.Options{Detailed: q.detailed}

	switch q.format {
	case FormatSVG:
		return sink.RenderSVG(sc, svgOpts...), nil
	case FormatJSON:
		jsonOpts := []sink.JSONOption{sink.WithJSONRecords()}
		if detail != nil {
			jsonOpts = append(jsonOpts, sink.WithJSONDetail(*detail))
		}
		return sink.RenderJSON(sc, jsonOpts...)
	case FormatDOT:
		return []byte(nodelink.ToDOT(sc, dotOpts)), nil
	case FormatNodeLink:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(sc, dotOpts))
	case FormatPNG, FormatPDF:
		if !render.Available() {
			return nil, mmerrors.New(mmerrors.ErrCodeUnsupported, "%s output requires rsvg-convert", q.format)
		}
		if q.format == FormatPNG {
			return sink.RenderPNG(sc, sink.WithPNGSVGOptions(svgOpts...))
		}
		return sink.RenderPDF(sc, sink.WithPDFSVGOptions(svgOpts...))
	default:
		return nil, mmerrors.New(mmerrors.ErrCodeInvalidInput, "unsupported format %q", q.format)
	}
}
