// Package sink writes card layouts in output formats.
//
// Every format starts from one SVG document per sheet ([RenderPageSVG]).
// The SVG is sized in millimetres so that converters keep the physical
// size. PDF and PNG go through the parent render package; JSON is a plain
// export of the computed layout.
//
// Formats:
//
//   - SVG: [RenderSVGPages], one document per page
//   - PDF: [RenderPDF], fronts followed by backs in one document
//   - PNG: [RenderPNG], one raster per page
//   - JSON: [RenderJSON], settings, layouts, statistics and guides
package sink
