package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/museummap/internal/cli/browse"
	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/mapview"
	"github.com/matzehuels/museummap/pkg/viewport"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		input      string
		duplicates string
		zoom       float64
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore the museum map in the terminal",
		Long: `Browse opens an interactive map in the terminal. Drag with the mouse to
pan, scroll to zoom and click a numbered slot to read about its artifact.`,
		Args: cobra.NoArgs,
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
			records, err := c.loadRecords(ctx, cfg, input, noCache)
			if err != nil {
				return err
			}

			state := viewport.Initial()
			state.Zoom = viewport.Clamp(zoom)
			view, err := mapview.Open(records, pol,
				mapview.WithAnchors(anchor.Defaults()),
				mapview.WithState(state),
			)
			if err != nil {
				return err
			}
			printConflicts(view.Binder().Conflicts())
			return browse.Run(ctx, view)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "artifact JSON file (default: configured store)")
	cmd.Flags().StringVar(&duplicates, "duplicates", "", "duplicate-slot policy: first, lowest-id, reject")
	cmd.Flags().Float64Var(&zoom, "zoom", 0.5, "initial zoom factor")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the snapshot cache")

	return cmd
}
