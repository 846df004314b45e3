// Package pipeline runs the card sheet pipeline shared by the CLI and the
// HTTP API.
//
// One run validates the card images, packs them onto pages, derives the
// mirrored back layout when a back image is set, checks front/back
// alignment, builds cut guides and statistics, and renders the requested
// output formats. Keeping this in one place gives every entry point the
// same defaults and the same behaviour.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Settings: layout.Settings{PageSize: geometry.A4, Margin: 10, Spacing: 5},
//	    Back:     "back.png",
//	    Formats:  []string{"pdf"},
//	    Guides:   true,
//	}
//	result, err := runner.Execute(ctx, images, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Artifacts["pdf"][0]
//
// Stages can also be run on their own:
//
//	front, back, err := runner.ComputeLayout(ctx, images, opts)
//	artifacts, err := runner.Render(ctx, doc, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardsheet/pkg/align"
	"github.com/matzehuels/cardsheet/pkg/cache"
	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/geometry"
	"github.com/matzehuels/cardsheet/pkg/guides"
	"github.com/matzehuels/cardsheet/pkg/layout"
	"github.com/matzehuels/cardsheet/pkg/mirror"
	"github.com/matzehuels/cardsheet/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPageSize is the sheet used when none is given.
	DefaultPageSize = geometry.A4

	// DefaultMargin is the page margin in mm.
	DefaultMargin = 10.0

	// DefaultSpacing is the gap between cards in mm.
	DefaultSpacing = 5.0

	// DefaultPNGDPI is the raster resolution for PNG output.
	DefaultPNGDPI = sink.DefaultPNGDPI
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// DefaultSettings returns layout settings filled with the defaults above.
func DefaultSettings() layout.Settings {
	return layout.Settings{
		PageSize: DefaultPageSize,
		Margin:   DefaultMargin,
		Spacing:  DefaultSpacing,
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Settings layout.Settings `json:"settings"`
	Back     string          `json:"back,omitempty"` // uniform back image; empty disables backs

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Guides   bool     `json:"guides,omitempty"`
	MarkSize float64  `json:"mark_size,omitempty"`
	FoldSize float64  `json:"fold_size,omitempty"`
	Embed    bool     `json:"embed,omitempty"` // inline local images as data URIs
	PNGDPI   float64  `json:"png_dpi,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"` // bypass cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document holds the computed layouts, statistics and guides.
	Document sink.Document

	// MixedRows lists front rows whose cards differ in width. The back
	// layout is only exact for uniform rows.
	MixedRows []mirror.RowIssue

	// Artifacts contains rendered outputs keyed by format. SVG and PNG hold
	// one entry per page, PDF and JSON exactly one.
	Artifacts map[string][][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Images     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layouts came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the settings and formats and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills an empty page size and the logger.
func (o *Options) SetLayoutDefaults() {
	if o.Settings.PageSize == "" {
		o.Settings.PageSize = DefaultPageSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates the settings,
// including the page size lookup.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.Settings.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.MarkSize == 0 {
		o.MarkSize = guides.DefaultMarkSize
	}
	if o.FoldSize == 0 {
		o.FoldSize = guides.DefaultFoldSize
	}
	if o.PNGDPI == 0 {
		o.PNGDPI = DefaultPNGDPI
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.GuideOptions().Validate(); err != nil {
		return err
	}
	if !guides.NonNegativeFinite(o.PNGDPI) {
		return errors.New(errors.ErrCodeInvalidSettings, "invalid png dpi %v", o.PNGDPI)
	}
	return nil
}

// HasBack reports whether a back layout will be derived.
func (o *Options) HasBack() bool {
	return o.Back != ""
}

// GuideOptions returns the guide sizes.
func (o *Options) GuideOptions() guides.Options {
	return guides.Options{MarkSize: o.MarkSize, FoldSize: o.FoldSize}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		PageSize:     o.Settings.PageSize,
		CustomWidth:  o.Settings.CustomWidth,
		CustomHeight: o.Settings.CustomHeight,
		Margin:       o.Settings.Margin,
		Spacing:      o.Settings.Spacing,
		Back:         o.Back,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Embed: o.Embed}
	if format == FormatPNG {
		k.DPI = o.PNGDPI
	}
	if o.Guides {
		k.Guides = true
		k.MarkSize = o.MarkSize
		k.FoldSize = o.FoldSize
	}
	return k
}

// pageDims resolves the sheet size. Callers validate first.
func (o *Options) pageDims() (geometry.PageDimensions, error) {
	return o.Settings.PageDimensions()
}

// alignment is the front/back check result, nil without a back image.
func alignmentOf(front layout.Layout, back *layout.Layout) *align.Result {
	if back == nil {
		return nil
	}
	r := align.Validate(front, *back)
	return &r
}
