package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/binder"
	"github.com/matzehuels/museummap/pkg/layout"
)

// Binding states shown by "artifacts list".
const (
	stateBound    = "bound"
	stateShadowed = "shadowed"
	stateOffMap   = "off-map"
)

// artifactRow is one line of "artifacts list".
type artifactRow struct {
	artifact.Record
	State string `json:"state"`
}

// artifactsCommand creates the artifacts command.
func (c *CLI) artifactsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Inspect and import the artifact collection",
	}

	cmd.AddCommand(c.artifactsListCommand())
	cmd.AddCommand(c.artifactsImportCommand())
	cmd.AddCommand(c.artifactsExportCommand())

	return cmd
}

func (c *CLI) artifactsListCommand() *cobra.Command {
	var (
		asJSON     bool
		duplicates string
		input      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List artifacts and the slot each one binds to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			pol, err := policy(duplicates, cfg)
			if err != nil {
				return err
			}
			records, err := c.loadRecords(ctx, cfg, input, false)
			if err != nil {
				return err
			}
			b, err := binder.New(records, pol)
			if err != nil {
				return err
			}

			rows := artifactRows(b, anchor.Defaults())
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			fmt.Println(renderArtifactTable(rows))
			fmt.Println(sceneStats(len(anchor.Defaults())*layout.SlotCount, len(b.Keys()), len(b.Conflicts()), false))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&duplicates, "duplicates", "", "duplicate-slot policy: first, lowest-id, reject")
	cmd.Flags().StringVarP(&input, "input", "i", "", "artifact JSON file (default: configured store)")

	return cmd
}

// artifactRows classifies every record against the anchors and bindings.
func artifactRows(b *binder.Binder, anchors []anchor.Anchor) []artifactRow {
	records := b.Records()
	rows := make([]artifactRow, len(records))
	for i, r := range records {
		rows[i] = artifactRow{Record: r, State: bindingState(b, anchors, r)}
	}
	return rows
}

func bindingState(b *binder.Binder, anchors []anchor.Anchor, r artifact.Record) string {
	if _, ok := anchor.Find(anchors, r.ParentID); !ok {
		return stateOffMap
	}
	if _, ok := layout.Index(r.SlotNo); !ok {
		return stateOffMap
	}
	if winner, ok := b.Bind(r.ParentID, r.SlotNo); ok && winner.ID == r.ID {
		return stateBound
	}
	return stateShadowed
}

func renderArtifactTable(rows []artifactRow) string {
	anchors := anchor.Defaults()
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			r.ID,
			anchorLabel(anchors, r.ParentID),
			strconv.Itoa(r.SlotNo),
			r.DisplayName(),
			r.State,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Anchor", "Slot", "Name", "State").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(rows) {
				return lipgloss.NewStyle()
			}
			switch rows[row].State {
			case stateBound:
				if col == 4 {
					return lipgloss.NewStyle().Foreground(colorGreen)
				}
				return lipgloss.NewStyle()
			case stateShadowed:
				return lipgloss.NewStyle().Foreground(colorYellow)
			default:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
		})

	return t.Render()
}

func (c *CLI) artifactsImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append artifact documents from a JSON file to the configured store",
		Long: `Import reads a JSON array of artifact documents (or an object with an
"artifacts" array) and appends them to the configured store. Documents
without an id get one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runImport(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	docs, err := artifact.DecodeDocuments(data)
	if err != nil {
		return err
	}
	_, skipped := artifact.Ingest(docs)
	for _, err := range skipped {
		printWarning("%v", err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	importer, ok := store.(artifact.Importer)
	if !ok {
		return fmt.Errorf("store backend %q does not support import", cfg.Store.Backend)
	}
	n, err := importer.Import(ctx, docs)
	if err != nil {
		return err
	}

	ca, err := c.openCache(ctx, cfg, false)
	if err == nil {
		if err := c.cachedSource(store, ca, cfg).Invalidate(ctx); err != nil {
			loggerFromContext(ctx).Warn("snapshot cache invalidation failed", "err", err)
		}
		ca.Close()
	}

	printSuccess("Imported %s documents into the %s store", StyleNumber.Render(strconv.Itoa(n)), cfg.Store.Backend)
	if len(skipped) > 0 {
		printDetail("%d documents will be skipped when the map loads", len(skipped))
	}
	printNextStep("Render the map", appName+" render")
	return nil
}

func (c *CLI) artifactsExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the artifact snapshot as a JSON document array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			records, err := c.loadRecords(ctx, cfg, "", true)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return artifact.WriteJSON(records, os.Stdout)
			}
			if err := artifact.ExportJSON(records, output); err != nil {
				return err
			}
			printSuccess("Exported %s artifacts", StyleNumber.Render(strconv.Itoa(len(records))))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
