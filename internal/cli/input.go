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
	"github.com/matzehuels/cardsheet/pkg/pipeline"
	"github.com/matzehuels/cardsheet/pkg/source"
)

// sheetFlags are the layout flags shared by every command that reads cards.
type sheetFlags struct {
	pageSize     string
	customWidth  float64
	customHeight float64
	margin       float64
	spacing      float64
	dpi          float64
	back         string
	noBack       bool
}

func (f *sheetFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.pageSize, "page-size", "p", pipeline.DefaultPageSize, "sheet size: A4, A3 or custom")
	flags.Float64Var(&f.customWidth, "page-width", 0, "custom sheet width in mm")
	flags.Float64Var(&f.customHeight, "page-height", 0, "custom sheet height in mm")
	flags.Float64Var(&f.margin, "margin", pipeline.DefaultMargin, "page margin in mm")
	flags.Float64Var(&f.spacing, "spacing", pipeline.DefaultSpacing, "gap between cards in mm")
	flags.Float64Var(&f.dpi, "dpi", source.DefaultDPI, "resolution used to size images without explicit dimensions")
	flags.StringVarP(&f.back, "back", "b", "", "back image printed behind every card")
	flags.BoolVar(&f.noBack, "no-back", false, "ignore the manifest back image")
}

// input is everything a command needs to lay out cards.
type input struct {
	name     string // base name for derived output paths
	images   []layout.SourceImage
	settings layout.Settings
	back     string
	guides   bool // manifest asks for cut guides
}

// loadInput resolves args into card images and settings.
//
// With no args the current directory's cardsheet.toml is used. A single
// .toml file or a directory containing cardsheet.toml is read as a
// manifest. Anything else is a list of image files.
func (f *sheetFlags) loadInput(ctx context.Context, cmd *cobra.Command, args []string) (*input, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	manifestPath, err := findManifestArg(args)
	if err != nil {
		return nil, err
	}

	in := &input{settings: pipeline.DefaultSettings()}
	dpi := f.dpi

	if manifestPath != "" {
		m, err := source.ReadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("read manifest", "path", manifestPath, "cards", len(m.Cards))
		in.name = strings.TrimSuffix(manifestPath, filepath.Ext(manifestPath))
		in.settings = m.LayoutSettings(in.settings)
		in.back = m.BackPath()
		in.guides = m.Settings.Guides
		if m.Settings.DPI > 0 && !cmd.Flags().Changed("dpi") {
			dpi = m.Settings.DPI
		}
		in.images, err = m.Images(ctx, source.LoadOptions{DPI: dpi})
		if err != nil {
			return nil, fmt.Errorf("load cards: %w", err)
		}
	} else {
		in.name = "cardsheet"
		in.images, err = source.FromPaths(ctx, args, source.LoadOptions{DPI: dpi})
		if err != nil {
			return nil, fmt.Errorf("load cards: %w", err)
		}
	}

	f.applyOverrides(cmd, in)
	prog.done(fmt.Sprintf("Loaded %d cards", len(in.images)))
	return in, nil
}

// applyOverrides copies explicitly set flags over manifest values.
func (f *sheetFlags) applyOverrides(cmd *cobra.Command, in *input) {
	changed := cmd.Flags().Changed
	if changed("page-size") {
		in.settings.PageSize = f.pageSize
	}
	if changed("page-width") {
		in.settings.CustomWidth = f.customWidth
	}
	if changed("page-height") {
		in.settings.CustomHeight = f.customHeight
	}
	if changed("margin") {
		in.settings.Margin = f.margin
	}
	if changed("spacing") {
		in.settings.Spacing = f.spacing
	}
	if changed("back") {
		in.back = f.back
	}
	if f.noBack {
		in.back = ""
	}
}

// options builds pipeline options from the resolved input.
func (in *input) options(c *CLI) pipeline.Options {
	return pipeline.Options{
		Settings: in.settings,
		Back:     in.back,
		Guides:   in.guides,
		Logger:   c.Logger,
	}
}

func findManifestArg(args []string) (string, error) {
	if len(args) == 0 {
		if path, ok := source.FindManifest("."); ok {
			return path, nil
		}
		return "", errors.New(errors.ErrCodeInvalidInput, "no %s in the current directory and no images given", source.DefaultManifest)
	}
	if len(args) > 1 {
		return "", nil
	}
	arg := args[0]
	if strings.EqualFold(filepath.Ext(arg), ".toml") {
		return arg, nil
	}
	info, err := os.Stat(arg)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", arg)
		}
		return "", err
	}
	if info.IsDir() {
		path, ok := source.FindManifest(arg)
		if !ok {
			return "", errors.New(errors.ErrCodeFileNotFound, "no %s in %s", source.DefaultManifest, arg)
		}
		return path, nil
	}
	return "", nil
}
