package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/cardsheet/pkg/render/sink"
)

// RenderDocument renders doc in every format of opts.Formats without
// caching. Back pages are included when doc has a back layout.
func RenderDocument(ctx context.Context, doc sink.Document, opts Options) (map[string][][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var pages [][]byte
		var err error

		switch format {
		case FormatSVG:
			pages, err = renderSVG(doc, svgOpts)
		case FormatPDF:
			var pdf []byte
			pdf, err = sink.RenderPDF(ctx, doc.Front, doc.Backs(), doc.Page, sink.WithPDFSVGOptions(svgOpts...))
			pages = [][]byte{pdf}
		case FormatPNG:
			pages, err = renderPNG(ctx, doc, svgOpts, opts.PNGDPI)
		case FormatJSON:
			var data []byte
			data, err = sink.RenderJSON(doc)
			pages = [][]byte{data}
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = pages
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Guides {
		svgOpts = append(svgOpts, sink.WithGuides(opts.GuideOptions()))
	}
	if opts.Embed {
		svgOpts = append(svgOpts, sink.WithImageResolver(sink.EmbedImages()))
	}
	return svgOpts
}

// renderSVG returns front pages followed by back pages.
func renderSVG(doc sink.Document, svgOpts []sink.SVGOption) ([][]byte, error) {
	pages, err := sink.RenderSVGPages(doc.Front, doc.Page, svgOpts...)
	if err != nil {
		return nil, err
	}
	if doc.BackLayout == nil {
		return pages, nil
	}
	backs, err := sink.RenderSVGPages(*doc.BackLayout, doc.Page, svgOpts...)
	if err != nil {
		return nil, fmt.Errorf("back: %w", err)
	}
	return append(pages, backs...), nil
}

func renderPNG(ctx context.Context, doc sink.Document, svgOpts []sink.SVGOption, dpi float64) ([][]byte, error) {
	pngOpts := []sink.PNGOption{sink.WithPNGSVGOptions(svgOpts...), sink.WithDPI(dpi)}
	pages, err := sink.RenderPNG(ctx, doc.Front, doc.Page, pngOpts...)
	if err != nil {
		return nil, err
	}
	if doc.BackLayout == nil {
		return pages, nil
	}
	backs, err := sink.RenderPNG(ctx, *doc.BackLayout, doc.Page, pngOpts...)
	if err != nil {
		return nil, fmt.Errorf("back: %w", err)
	}
	return append(pages, backs...), nil
}
