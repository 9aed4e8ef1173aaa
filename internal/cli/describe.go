package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/museummap/pkg/cache"
	"github.com/matzehuels/museummap/pkg/enrich"
)

type describeOpts struct {
	webhook string
	save    bool
	ask     bool
	raw     bool
}

// describeCommand creates the describe command.
func (c *CLI) describeCommand() *cobra.Command {
	var opts describeOpts

	cmd := &cobra.Command{
		Use:   "describe <label text>",
		Short: "Send recognized label text to the enrichment webhook",
		Long: `Describe forwards the text of a museum label to the enrichment webhook
and prints the cleaned answer. With --save the answer is parsed as an
artifact and stored; with --ask the text is sent as a follow-up question.
Use "-" to read the text from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				data, err := readStdin()
				if err != nil {
					return err
				}
				text = data
			}
			return c.runDescribe(cmd.Context(), text, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.webhook, "webhook", "", "webhook URL (default from config)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the described artifact")
	cmd.Flags().BoolVar(&opts.ask, "ask", false, "send a follow-up question instead")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the cleaned JSON body")

	return cmd
}

func readStdin() (string, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(os.Stdin); err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (c *CLI) runDescribe(ctx context.Context, text string, opts *describeOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.webhook != "" {
		cfg.Webhook.URL = opts.webhook
	}
	if cfg.Webhook.URL == "" {
		return fmt.Errorf("no webhook configured (set [webhook] url or pass --webhook)")
	}

	ca, err := c.openCache(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer ca.Close()

	client, err := enrich.New(enrich.Config{
		URL:         cfg.Webhook.URL,
		FollowupURL: cfg.Webhook.FollowupURL,
		Timeout:     cfg.Webhook.Timeout.Duration,
		CacheTTL:    cfg.Cache.TTL.Duration,
	}, enrich.WithCache(ca, cache.NewDefaultKeyer()), enrich.WithLogger(logger))
	if err != nil {
		return err
	}

	if opts.ask {
		spinner := newSpinnerWithContext(ctx, "Asking the museum guide...")
		spinner.Start()
		reply, err := client.Ask(ctx, text)
		if err != nil {
			spinner.StopWithError("Follow-up failed")
			return err
		}
		spinner.Stop()
		fmt.Println(reply)
		return nil
	}

	spinner := newSpinnerWithContext(ctx, "Describing artifact...")
	spinner.Start()
	res, err := client.Describe(ctx, text)
	if err != nil {
		spinner.StopWithError("Describe failed")
		if details := enrich.Details(err); details != nil {
			printDetail("%v", details)
		}
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Webhook answered %d", res.Status))

	if opts.raw {
		var out bytes.Buffer
		if err := json.Indent(&out, res.Body, "", "  "); err != nil {
			return err
		}
		fmt.Println(out.String())
	} else if output, ok := res.Output(); ok {
		fmt.Println(output)
	} else {
		fmt.Println(string(res.Body))
	}

	if !opts.save {
		return nil
	}

	draft, err := res.Draft()
	if err != nil {
		return err
	}
	store, closeStore, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	id, err := c.cachedSource(store, ca, cfg).Add(ctx, draft)
	if err != nil {
		return err
	}
	printSuccess("Saved %s as %s", StyleValue.Render(draft.Title), StyleNumber.Render(id))
	printDetail("Anchor %s, slot %s", draft.No, orDash(draft.Slot))
	printNextStep("See it on the map", appName+" render --select "+id)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
