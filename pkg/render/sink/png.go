package sink

import (
	"context"
	"fmt"

	"github.com/matzehuels/cardsheet/pkg/geometry"
	"github.com/matzehuels/cardsheet/pkg/layout"
	"github.com/matzehuels/cardsheet/pkg/render"
)

// DefaultPNGDPI is the raster resolution when none is set.
const DefaultPNGDPI = 150.0

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	dpi     float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithDPI sets the raster resolution.
func WithDPI(dpi float64) PNGOption {
	return func(r *pngRenderer) { r.dpi = dpi }
}

// RenderPNG rasterizes every page of l.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, l layout.Layout, dims geometry.PageDimensions, opts ...PNGOption) ([][]byte, error) {
	r := pngRenderer{dpi: DefaultPNGDPI}
	for _, opt := range opts {
		opt(&r)
	}
	pages, err := RenderSVGPages(l, dims, r.svgOpts...)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(pages))
	for i, svg := range pages {
		if out[i], err = render.ToPNG(ctx, svg, r.dpi); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	return out, nil
}
