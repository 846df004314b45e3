package source

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cardsheet/pkg/layout"
)

// DefaultConcurrency bounds parallel header reads.
const DefaultConcurrency = 8

// LoadOptions controls how card sizes are resolved.
type LoadOptions struct {
	// DPI converts pixel sizes to millimetres. Zero means DefaultDPI.
	DPI float64
	// Concurrency bounds parallel probes. Zero means DefaultConcurrency.
	Concurrency int
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

// Load resolves every entry to a [layout.SourceImage] and expands repeat
// counts, keeping manifest order.
//
// An entry with both width and height is used without touching the image.
// With one of them set, the other follows the image's aspect ratio. With
// neither, both come from the pixel size at opts.DPI.
func Load(ctx context.Context, cards []CardEntry, opts LoadOptions) ([]layout.SourceImage, error) {
	opts = opts.withDefaults()
	sized := make([]layout.SourceImage, len(cards))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, c := range cards {
		if c.Width > 0 && c.Height > 0 {
			sized[i] = layout.SourceImage{Src: c.Src, Width: c.Width, Height: c.Height}
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			px, err := ProbeRef(c.Src)
			if err != nil {
				return err
			}
			sized[i] = resolveSize(c, px, opts.DPI)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]layout.SourceImage, 0, len(sized))
	for i, img := range sized {
		for range max(cards[i].Count, 1) {
			out = append(out, img)
		}
	}
	return out, nil
}

func resolveSize(c CardEntry, px PixelSize, dpi float64) layout.SourceImage {
	img := layout.SourceImage{Src: c.Src, Width: c.Width, Height: c.Height}
	if px.Width == 0 || px.Height == 0 {
		return img
	}
	ratio := float64(px.Height) / float64(px.Width)
	switch {
	case c.Width > 0:
		img.Height = c.Width * ratio
	case c.Height > 0:
		img.Width = c.Height / ratio
	default:
		img.Width = PixelsToMM(px.Width, dpi)
		img.Height = PixelsToMM(px.Height, dpi)
	}
	return img
}

// Images loads the manifest's cards with paths resolved against BaseDir.
// The manifest DPI, when set, overrides opts.DPI.
func (m *Manifest) Images(ctx context.Context, opts LoadOptions) ([]layout.SourceImage, error) {
	if m.Settings.DPI > 0 {
		opts.DPI = m.Settings.DPI
	}
	cards := make([]CardEntry, len(m.Cards))
	for i, c := range m.Cards {
		c.Src = m.resolve(c.Src)
		cards[i] = c
	}
	return Load(ctx, cards, opts)
}

// FromPaths loads one card per path, sized from the image header.
func FromPaths(ctx context.Context, paths []string, opts LoadOptions) ([]layout.SourceImage, error) {
	cards := make([]CardEntry, len(paths))
	for i, p := range paths {
		cards[i] = CardEntry{Src: p}
	}
	return Load(ctx, cards, opts)
}
