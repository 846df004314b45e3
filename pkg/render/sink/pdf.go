package sink

import (
	"context"

	"github.com/matzehuels/cardsheet/pkg/geometry"
	"github.com/matzehuels/cardsheet/pkg/layout"
	"github.com/matzehuels/cardsheet/pkg/render"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts  []SVGOption
	backOpts []SVGOption
}

// WithPDFSVGOptions passes options through to the SVG renderer for every
// page.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// WithPDFBackOptions adds SVG options used only for back pages.
func WithPDFBackOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.backOpts = opts }
}

// RenderPDF renders front pages followed by back pages as one PDF. back may
// be empty. Pages keep the exact sheet size.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, front, back layout.Layout, dims geometry.PageDimensions, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	pages, err := RenderSVGPages(front, dims, r.svgOpts...)
	if err != nil {
		return nil, err
	}
	if !back.Empty() {
		backPages, err := RenderSVGPages(back, dims, append(r.svgOpts, r.backOpts...)...)
		if err != nil {
			return nil, err
		}
		pages = append(pages, backPages...)
	}
	if len(pages) == 0 {
		// An empty layout still produces a blank sheet.
		blank, err := RenderPageSVG(nil, dims, r.svgOpts...)
		if err != nil {
			return nil, err
		}
		pages = append(pages, blank)
	}
	return render.ToPDF(ctx, pages...)
}
