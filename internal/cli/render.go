package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/guides"
	"github.com/matzehuels/cardsheet/pkg/pipeline"
	"github.com/matzehuels/cardsheet/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single file formats) or base path
	formats  []string // svg, pdf, png, json
	guides   bool     // draw cut guides
	markSize float64  // corner mark arm length in mm
	foldSize float64  // fold tick half-length in mm
	embed    bool     // inline images as data URIs in SVG
	pngDPI   float64
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command that writes printable sheets.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		sheet      sheetFlags
		formatsStr string
	)
	opts := renderOpts{
		markSize: guides.DefaultMarkSize,
		foldSize: guides.DefaultFoldSize,
		pngDPI:   pipeline.DefaultPNGDPI,
	}

	cmd := &cobra.Command{
		Use:   "render [manifest.toml | dir | images...]",
		Short: "Render card sheets to SVG, PDF, PNG or JSON",
		Long: `Render card sheets to SVG, PDF, PNG or JSON.

Front pages come first, followed by the mirrored back pages when a back image
is set. Print the PDF double-sided, flipping on the long edge.

PDF and PNG need rsvg-convert (librsvg).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			in, err := sheet.loadInput(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("guides") {
				opts.guides = opts.guides || in.guides
			}
			return c.runRender(cmd.Context(), in, &opts)
		},
	}

	sheet.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default: manifest name)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png, json (comma-separated)")
	cmd.Flags().BoolVarP(&opts.guides, "guides", "g", false, "draw corner marks, cut lines and fold marks")
	cmd.Flags().Float64Var(&opts.markSize, "mark-size", opts.markSize, "corner mark arm length in mm")
	cmd.Flags().Float64Var(&opts.foldSize, "fold-size", opts.foldSize, "fold mark half-length in mm")
	cmd.Flags().BoolVar(&opts.embed, "embed", false, "embed images in SVG output")
	cmd.Flags().Float64Var(&opts.pngDPI, "png-dpi", opts.pngDPI, "PNG resolution")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, in *input, opts *renderOpts) error {
	if needsConverter(opts.formats) && !render.Available() {
		return errors.New(errors.ErrCodeUnsupported, "pdf and png output need rsvg-convert: brew install librsvg (macOS) or apt install librsvg2-bin (Linux)")
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := in.options(c)
	popts.Formats = opts.formats
	popts.Guides = opts.guides
	popts.MarkSize = opts.markSize
	popts.FoldSize = opts.foldSize
	popts.Embed = opts.embed
	popts.PNGDPI = opts.pngDPI
	popts.Refresh = opts.refresh

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d cards...", len(in.images)))
	spinner.Start()
	result, err := runner.Execute(ctx, in.images, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, msg := range result.Document.Validation.Errors {
		printWarning("%s", msg)
	}
	for _, issue := range result.MixedRows {
		printWarning("%s", issue)
	}
	if a := result.Document.Alignment; a != nil && !a.IsAligned {
		for _, msg := range a.Errors {
			printWarning("%s", msg)
		}
	}

	paths, err := writeArtifacts(result.Artifacts, opts.formats, basePath(opts.output, in.name))
	if err != nil {
		return err
	}

	printSuccess("Rendered %d cards", result.Document.Front.NumCards())
	for _, p := range paths {
		printFile(p)
	}
	printSheetStats(result.Document.Front.NumPages(), result.Document.Front.NumCards(), result.CacheInfo.RenderHit)
	if result.Document.BackLayout != nil {
		printDetail("Print double-sided, flip on long edge")
	}
	return nil
}

func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPDF || f == pipeline.FormatPNG {
			return true
		}
	}
	return false
}

// basePath derives the base output path. Known format extensions on
// output are stripped.
func basePath(output, name string) string {
	if output == "" {
		return name
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPaths names the files for one format. Single artifacts get
// base.ext; multi-page formats get base-01.ext, base-02.ext, ...
func artifactPaths(base, format string, n int) []string {
	if n == 1 {
		return []string{base + "." + format}
	}
	paths := make([]string, n)
	width := len(fmt.Sprint(n))
	width = max(width, 2)
	for i := range n {
		paths[i] = fmt.Sprintf("%s-%0*d.%s", base, width, i+1, format)
	}
	return paths
}

// writeArtifacts writes every artifact in formats order and returns the
// paths written.
func writeArtifacts(artifacts map[string][][]byte, formats []string, base string) ([]string, error) {
	if err := errors.ValidateOutputPath(base); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	var written []string
	for _, format := range formats {
		pages := artifacts[format]
		for i, path := range artifactPaths(base, format, len(pages)) {
			if err := os.WriteFile(path, pages[i], 0o644); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}
