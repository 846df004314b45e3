package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardsheet/pkg/align"
	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/layout"
	"github.com/matzehuels/cardsheet/pkg/source"
)

// validateCommand checks images, front/back alignment and cut guides.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		f         docFlags
		exportDir string
	)

	cmd := &cobra.Command{
		Use:   "validate [manifest.toml | dir | layout.json | images...]",
		Short: "Check card images, back alignment and cut guides",
		Long: `Check card images, back alignment and cut guides.

Reports cards without usable dimensions, back pages that do not line up with
their fronts, and cut guides that do not match the cards. Exits non-zero
when any check fails.

With --export the settings are saved as card-layout-settings-<time>.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.loadDocument(cmd.Context(), cmd, &f, args)
			if err != nil {
				return err
			}
			if exportDir != "" {
				if err := exportSettings(l, exportDir); err != nil {
					return err
				}
			}
			if !printValidation(l) {
				return errors.New(errors.ErrCodeInvalidInput, "validation failed")
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&exportDir, "export", "", "write a settings snapshot to this directory")

	return cmd
}

// printValidation prints every check and reports whether all passed.
func printValidation(l *loaded) bool {
	ok := true
	doc := l.doc

	if l.images != nil {
		if doc.Validation.IsValid {
			printSuccess("%d images have dimensions", len(l.images))
		} else {
			ok = false
			for _, msg := range doc.Validation.Errors {
				printError("%s", msg)
			}
		}
	}

	if doc.BackLayout != nil {
		res := align.Validate(doc.Front, *doc.BackLayout)
		if res.IsAligned {
			printSuccess("Back pages line up with fronts")
		} else {
			ok = false
			for _, msg := range res.Errors {
				printError("%s", msg)
			}
		}
		for _, issue := range l.mixed {
			printWarning("%s", issue)
		}
	} else {
		printInfo("No back image, skipping alignment")
	}

	if doc.Guides != nil {
		res := align.ValidateGuides(doc.Guides, doc.Front)
		if res.IsValid {
			printSuccess("Cut guides match %d cards", doc.Front.NumCards())
		} else {
			ok = false
			for _, msg := range res.Errors {
				printError("%s", msg)
			}
		}
	}

	return ok
}

func exportSettings(l *loaded, dir string) error {
	now := time.Now()
	path := filepath.Join(dir, source.ExportFilename(now))
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	images := l.images
	if images == nil {
		// A layout file has no source list; count its cards instead.
		images = make([]layout.SourceImage, 0, l.doc.Front.NumCards())
		for _, page := range l.doc.Front.Pages {
			for _, c := range page {
				images = append(images, layout.SourceImage{Src: c.Src, Width: c.DisplayWidth, Height: c.DisplayHeight})
			}
		}
	}
	if err := source.WriteExport(file, source.ExportSettings(images, l.doc.Settings, l.doc.Back, now)); err != nil {
		return err
	}
	printFile(path)
	return nil
}
