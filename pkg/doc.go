// Package pkg provides the core libraries for cardsheet.
//
// # Overview
//
// Cardsheet places card images of known physical size onto printable pages
// and, for double-sided printing, derives mirrored back pages so that each
// back lands behind its front. All lengths are millimetres.
//
// # Architecture
//
// The typical data flow:
//
//	cardsheet.toml / image files
//	         ↓
//	    [source] (manifest, image probing)
//	         ↓
//	    [layout] (greedy row packing, stats, cut lines)
//	         ↓
//	    [mirror] (back pages) → [align] (front/back checks)
//	         ↓
//	    [guides] (corner, cut and fold marks)
//	         ↓
//	    [render/sink] SVG/PDF/PNG/JSON output
//
// # Quick Start
//
//	s := layout.Settings{PageSize: geometry.A4, Margin: 10, Spacing: 5}
//	front, _ := layout.Pack(images, s)
//	dims, _ := s.PageDimensions()
//	back := mirror.Mirror(front, "back.png", s, dims)
//	res := align.Validate(front, back)
//
// # Main Packages
//
// [geometry] - Page sizes (A4, A3, custom).
//
// [layout] - The packer, layout statistics, image validation, cut
// instructions and alignment summaries. It has no I/O and does not log.
//
// [mirror] - Back layouts, mirrored margins and the mixed-width row check.
//
// [align] - Front/back alignment validation, alignment marks and the
// guides-vs-layout check.
//
// [guides] - Cut guides and the print-shop report.
//
// [source] - Manifest parsing and image dimension probing.
//
// [render] and [render/sink] - SVG sheets, and PDF/PNG via rsvg-convert.
//
// ## Infrastructure
//
// [pipeline] - pack → mirror → align → guides → render, with caching. Used by
// the CLI and the HTTP API.
//
// [cache] - File, Redis and null caches plus key derivation.
//
// [storage] - Layout jobs for the HTTP API, in memory or in MongoDB.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [errors] - Structured error codes shared by the CLI and the API.
//
// [geometry]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/geometry
// [layout]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/layout
// [mirror]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/mirror
// [align]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/align
// [guides]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/guides
// [source]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/source
// [render]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/storage
// [observability]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/cardsheet/pkg/errors
package pkg
