// Package render converts SVG sheets to print formats.
//
// # Overview
//
// Sheets are drawn as SVG by the [sink] subpackage, one SVG document per
// page, sized in millimetres. This package turns those documents into PDF
// or PNG with the external rsvg-convert tool (from librsvg):
//
//	pages, _ := sink.RenderSVGPages(front, dims)
//	pdf, err := render.ToPDF(ctx, pages...)     // one PDF page per sheet
//	png, err := render.ToPNG(ctx, pages[0], 300) // 300 dpi raster
//
// Because SVG width and height carry mm units, rsvg-convert produces PDF
// pages of the exact physical sheet size; nothing is scaled.
//
// [sink]: github.com/matzehuels/cardsheet/pkg/render/sink
package render
