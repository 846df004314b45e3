package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/render/sink"
)

// layoutCommand creates the layout command for packing cards onto pages.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		sheet   sheetFlags
		output  string
		noCache bool
		guides  bool
	)

	cmd := &cobra.Command{
		Use:   "layout [manifest.toml | dir | images...]",
		Short: "Pack cards onto pages and write the layout as JSON",
		Long: `Pack cards onto pages and write the layout as JSON.

Cards are placed left to right in rows, starting a new row when the next card
does not fit and a new page when the next row does not fit. With a back image
the mirrored back layout is included. The output is the same document as
'render -f json' and can be inspected with 'stats', 'guides' or 'preview'.

Results are cached locally for faster subsequent runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := sheet.loadInput(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), in, output, noCache, guides)
		},
	}

	sheet.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <manifest>.layout.json, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&guides, "guides", false, "include cut guides")

	return cmd
}

// runLayout packs the cards and writes the JSON document.
func (c *CLI) runLayout(ctx context.Context, in *input, output string, noCache, guides bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := in.options(c)
	opts.Guides = opts.Guides || guides
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	layouts, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, in.images, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	doc, mixed, err := runner.BuildDocument(ctx, layouts, opts)
	if err != nil {
		return err
	}
	for _, issue := range mixed {
		printWarning("%s", issue)
	}

	data, err := sink.RenderJSON(doc)
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if output == "" {
		output = in.name + ".layout.json"
	}
	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printSheetStats(doc.Front.NumPages(), doc.Front.NumCards(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render -f pdf")

	return nil
}
