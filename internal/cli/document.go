package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/layout"
	"github.com/matzehuels/cardsheet/pkg/mirror"
	"github.com/matzehuels/cardsheet/pkg/render/sink"
)

// docFlags back the inspection commands (mirror, validate, stats, guides,
// preview). They accept the same inputs as render, or a layout JSON file
// written by 'layout'.
type docFlags struct {
	sheet   sheetFlags
	noCache bool
}

func (f *docFlags) register(cmd *cobra.Command) {
	f.sheet.register(cmd)
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// loaded is a computed document plus the inputs it came from. images is
// nil when the document was read from a layout file.
type loaded struct {
	doc    sink.Document
	mixed  []mirror.RowIssue
	images []layout.SourceImage
}

func (c *CLI) loadDocument(ctx context.Context, cmd *cobra.Command, f *docFlags, args []string) (*loaded, error) {
	if len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), ".json") {
		return readLayoutFile(args[0])
	}

	in, err := f.sheet.loadInput(ctx, cmd, args)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(f.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := in.options(c)
	opts.Guides = true
	layouts, err := runner.ComputeLayout(ctx, in.images, opts)
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}
	doc, mixed, err := runner.BuildDocument(ctx, layouts, opts)
	if err != nil {
		return nil, err
	}
	doc.Validation = layout.ValidateImages(in.images)
	return &loaded{doc: doc, mixed: mixed, images: in.images}, nil
}

func readLayoutFile(path string) (*loaded, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
	}
	if err != nil {
		return nil, err
	}
	doc, err := sink.ReadJSON(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read layout %s", path)
	}
	var mixed []mirror.RowIssue
	if doc.BackLayout != nil {
		mixed = mirror.UniformRows(doc.Front)
	}
	return &loaded{doc: doc, mixed: mixed}, nil
}
