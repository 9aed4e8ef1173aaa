package cli

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/museummap/pkg/binder"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for museummap.

Bash:
  $ source <(museummap completion bash)

Zsh:
  $ museummap completion zsh > "${fpath[1]}/_museummap"

Fish:
  $ museummap completion fish > ~/.config/fish/completions/museummap.fish

PowerShell:
  PS> museummap completion powershell | Out-String | Invoke-Expression

Besides command names, the scripts complete --duplicates policies, --format
lists and the artifact ids accepted by render --select.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// registerCompletions attaches value completions to every command in the
// tree that defines one of the shared flags.
func (c *CLI) registerCompletions(root *cobra.Command) {
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		flags := cmd.Flags()
		if flags.Lookup("duplicates") != nil {
			_ = cmd.RegisterFlagCompletionFunc("duplicates", completeDuplicates)
		}
		if flags.Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
		}
		if flags.Lookup("select") != nil {
			_ = cmd.RegisterFlagCompletionFunc("select", c.completeArtifactIDs)
		}
		if flags.Lookup("input") != nil {
			_ = cmd.MarkFlagFilename("input", "json")
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}

func completeDuplicates(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(binder.PolicyFirst) + "\tfirst record in store order wins",
		string(binder.PolicyLowestID) + "\tlowest artifact id wins",
		string(binder.PolicyReject) + "\tduplicate slots are an error",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last element of a comma-separated list.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	var out []string
	for f := range validFormats {
		out = append(out, prefix+f)
	}
	sort.Strings(out)
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func (c *CLI) completeArtifactIDs(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	input, _ := cmd.Flags().GetString("input")
	records, err := c.loadRecords(ctx, cfg, input, false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID + "\t" + r.DisplayName()
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
