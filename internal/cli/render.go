package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/museummap/internal/config"
	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/binder"
	"github.com/matzehuels/museummap/pkg/cache"
	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/observability"
	"github.com/matzehuels/museummap/pkg/render"
	"github.com/matzehuels/museummap/pkg/render/nodelink"
	"github.com/matzehuels/museummap/pkg/render/sink"
	"github.com/matzehuels/museummap/pkg/scene"
	"github.com/matzehuels/museummap/pkg/viewport"
)

const (
	formatSVG      = "svg"
	formatJSON     = "json"
	formatDOT      = "dot"
	formatNodeLink = "nodelink"
	formatPNG      = "png"
	formatPDF      = "pdf"

	defaultOutput = appName
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{
	formatSVG: true, formatJSON: true, formatDOT: true,
	formatNodeLink: true, formatPNG: true, formatPDF: true,
}

// extensions maps formats to file extensions where they differ.
var extensions = map[string]string{formatNodeLink: "nodelink.svg"}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	input      string   // artifact JSON file to render instead of the configured store
	formats    []string // svg, json, dot, nodelink, png, pdf
	zoom       float64  // viewport zoom, clamped to [0.1, 3]
	panX       float64  // viewport pan
	panY       float64  // viewport pan
	selected   string   // artifact id to open in the detail overlay
	width      float64  // SVG frame width
	height     float64  // SVG frame height
	scale      float64  // PNG scale factor
	detailed   bool     // show artifact names in DOT output
	duplicates string   // duplicate-slot policy override
	noCache    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		zoom:   viewport.DefaultZoom,
		width:  sink.DefaultWidth,
		height: sink.DefaultHeight,
		scale:  2.0,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the museum map to SVG, JSON, DOT, PNG or PDF",
		Long: `Render binds the artifact snapshot to the map slots and writes the scene
for the given viewport. With several formats, --output is a base path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "artifact JSON file (default: configured store)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, nodelink, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", opts.zoom, "zoom factor")
	cmd.Flags().Float64Var(&opts.panX, "pan-x", 0, "horizontal pan in screen pixels")
	cmd.Flags().Float64Var(&opts.panY, "pan-y", 0, "vertical pan in screen pixels")
	cmd.Flags().StringVar(&opts.selected, "select", "", "artifact id to show in the detail overlay")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "frame height")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label DOT slots with artifact names and ids")
	cmd.Flags().StringVar(&opts.duplicates, "duplicates", "", "duplicate-slot policy: first, lowest-id, reject")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")

	return cmd
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be svg, json, dot, nodelink, png or pdf)", f)
		}
		if (f == formatPNG || f == formatPDF) && !render.Available() {
			return fmt.Errorf("%s output requires rsvg-convert (install librsvg)", f)
		}
	}
	return nil
}

// basePath strips a known format extension from output, or returns the
// default base when output is empty.
func basePath(output string) string {
	if output == "" {
		return defaultOutput
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for one format.
func outputPath(opts *renderOpts, format string) string {
	if len(opts.formats) == 1 && opts.output != "" {
		return opts.output
	}
	ext, ok := extensions[format]
	if !ok {
		ext = format
	}
	return basePath(opts.output) + "." + ext
}

// loadRecords reads the --input file, or the configured store through the
// snapshot cache.
func (c *CLI) loadRecords(ctx context.Context, cfg config.Config, input string, noCache bool) ([]artifact.Record, error) {
	logger := loggerFromContext(ctx)
	if input != "" {
		logger.Debugf("Reading artifacts from %s", input)
		return artifact.NewFileStore(input, logger).List(ctx)
	}

	store, closeStore, err := c.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeStore()
	ca, err := c.openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	defer ca.Close()
	return c.cachedSource(store, ca, cfg).List(ctx)
}

// runRender loads the snapshot, composes the scene and writes every format.
func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	pol, err := policy(opts.duplicates, cfg)
	if err != nil {
		return err
	}

	records, err := c.loadRecords(ctx, cfg, opts.input, opts.noCache)
	if err != nil {
		return err
	}
	prog.done("loaded artifacts", "count", len(records), "source", cfg.Store.Backend)

	b, err := binder.New(records, pol)
	if err != nil {
		return err
	}
	printConflicts(b.Conflicts())

	ca, err := c.openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer ca.Close()

	anchors := anchor.Defaults()
	state := viewport.State{Zoom: viewport.Clamp(opts.zoom), Pan: geom.Pt(opts.panX, opts.panY)}

	var detail *scene.Detail
	selected := ""
	if opts.selected != "" {
		r, ok := b.Find(opts.selected)
		if !ok {
			return fmt.Errorf("unknown artifact id: %s", opts.selected)
		}
		d := scene.NewDetail(r, anchors)
		detail, selected = &d, r.ID
	}

	start := time.Now()
	sc := scene.Build(anchors, b, state, scene.WithSelected(selected))
	observability.Scene().OnBuild(ctx, sc.BoundCount(), len(sc.Slots), time.Since(start))

	hash := artifact.Hash(records)
	keyer := cache.NewDefaultKeyer()
	anyCached := false
	for _, format := range opts.formats {
		key := keyer.SceneKey(hash, cache.SceneKeyOpts{
			Format:   fmt.Sprintf("%s;detailed=%t;scale=%g", format, opts.detailed, opts.scale),
			Zoom:     state.Zoom,
			PanX:     state.Pan.X,
			PanY:     state.Pan.Y,
			Width:    opts.width,
			Height:   opts.height,
			Selected: selected,
			Policy:   string(pol),
		})
		data, cached, err := ca.Get(ctx, key)
		if err != nil || !cached {
			data, err = renderScene(ctx, sc, detail, format, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			if err := ca.Set(ctx, key, data, cfg.Cache.TTL.Duration); err != nil {
				logger.Warn("scene cache write failed", "err", err)
			}
		}
		anyCached = anyCached || cached

		path := outputPath(opts, format)
		if err := writeOutput(path, data); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", format, len(data))
		if path != "-" {
			printFile(path)
		}
	}

	fmt.Fprintln(os.Stderr, sceneStats(len(sc.Slots), sc.BoundCount(), len(b.Conflicts()), anyCached))
	return nil
}

// renderScene writes sc in one format and reports it to the scene hooks.
func renderScene(ctx context.Context, sc *scene.Scene, detail *scene.Detail, format string, opts *renderOpts) ([]byte, error) {
	start := time.Now()
	data, err := encodeScene(ctx, sc, detail, format, opts)
	observability.Scene().OnRender(ctx, format, len(data), time.Since(start), err)
	return data, err
}

func encodeScene(ctx context.Context, sc *scene.Scene, detail *scene.Detail, format string, opts *renderOpts) ([]byte, error) {
	logger := loggerFromContext(ctx)

	svgOpts := []sink.SVGOption{sink.WithSize(opts.width, opts.height), sink.WithGlow(), sink.WithLabels()}
	if detail != nil {
		svgOpts = append(svgOpts, sink.WithDetail(*detail))
	}
	dot := func() string {
		return nodelink.ToDOT(sc, nodelink.Options{Detailed: opts.detailed})
	}

	switch format {
	case formatSVG:
		logger.Info("Rendering map SVG")
		return sink.RenderSVG(sc, svgOpts...), nil
	case formatJSON:
		logger.Info("Rendering scene as JSON")
		jsonOpts := []sink.JSONOption{sink.WithJSONRecords()}
		if detail != nil {
			jsonOpts = append(jsonOpts, sink.WithJSONDetail(*detail))
		}
		return sink.RenderJSON(sc, jsonOpts...)
	case formatDOT:
		logger.Info("Rendering node-link DOT")
		return []byte(dot()), nil
	case formatNodeLink:
		logger.Info("Rendering node-link SVG")
		return nodelink.RenderSVG(ctx, dot())
	case formatPNG:
		logger.Info("Rendering map PNG")
		return sink.RenderPNG(sc, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.scale))
	case formatPDF:
		logger.Info("Rendering map PDF")
		return sink.RenderPDF(sc, sink.WithPDFSVGOptions(svgOpts...))
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// openOutput opens path for writing; "-" is stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
