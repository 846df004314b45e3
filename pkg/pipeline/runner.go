package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardsheet/pkg/align"
	"github.com/matzehuels/cardsheet/pkg/buildinfo"
	"github.com/matzehuels/cardsheet/pkg/cache"
	"github.com/matzehuels/cardsheet/pkg/guides"
	"github.com/matzehuels/cardsheet/pkg/layout"
	"github.com/matzehuels/cardsheet/pkg/mirror"
	"github.com/matzehuels/cardsheet/pkg/observability"
	"github.com/matzehuels/cardsheet/pkg/render/sink"
)

// Layouts is the packed front layout and, with a back image, its mirror.
type Layouts struct {
	Front layout.Layout  `json:"front"`
	Back  *layout.Layout `json:"back,omitempty"`
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the caching logic lives in one place.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// ReleaseKeyer returns the default keyer scoped to the running release, so
// that entries written by another version are never read back.
func ReleaseKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs validate → pack → mirror → align → guides → stats → render.
//
// Image validation findings are recorded in the result and logged; they do
// not stop the run. Invalid settings and formats do.
func (r *Runner) Execute(ctx context.Context, images []layout.SourceImage, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Stats: Stats{Images: len(images)}}

	validation := layout.ValidateImages(images)
	for _, msg := range validation.Errors {
		r.Logger.Warn("image validation", "finding", msg)
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	layouts, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, images, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("packed layout",
		"pages", layouts.Front.NumPages(),
		"cards", layouts.Front.NumCards(),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	doc, mixed, err := r.BuildDocument(ctx, layouts, opts)
	if err != nil {
		return nil, err
	}
	doc.Validation = validation
	result.Document = doc
	result.MixedRows = mixed

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildDocument adds alignment, guides and statistics to packed layouts.
// It also returns the front rows that mix card widths, which make the
// mirrored back inexact.
func (r *Runner) BuildDocument(ctx context.Context, layouts Layouts, opts Options) (sink.Document, []mirror.RowIssue, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return sink.Document{}, nil, err
	}
	opts.SetRenderDefaults()
	if err := opts.GuideOptions().Validate(); err != nil {
		return sink.Document{}, nil, err
	}

	dims, err := opts.pageDims()
	if err != nil {
		return sink.Document{}, nil, err
	}
	stats, err := layout.ComputeStats(layouts.Front, opts.Settings)
	if err != nil {
		return sink.Document{}, nil, err
	}

	doc := sink.Document{
		Settings:   opts.Settings,
		Page:       dims,
		Back:       opts.Back,
		Front:      layouts.Front,
		BackLayout: layouts.Back,
		Stats:      stats,
		Validation: layout.ValidationResult{IsValid: true, Errors: []string{}},
	}

	var mixed []mirror.RowIssue
	if layouts.Back != nil {
		mixed = mirror.UniformRows(layouts.Front)
		for _, issue := range mixed {
			r.Logger.Warn("back layout may not line up", "reason", issue.String())
		}
		observability.Pipeline().OnMirror(ctx, layouts.Back.NumPages(), len(mixed))

		doc.Alignment = alignmentOf(layouts.Front, layouts.Back)
		observability.Pipeline().OnAlignment(ctx, doc.Alignment.IsAligned, len(doc.Alignment.Errors))
		if !doc.Alignment.IsAligned {
			r.Logger.Warn("front and back are not aligned", "findings", len(doc.Alignment.Errors))
		}
	}

	if opts.Guides {
		doc.Guides = guides.Generate(layouts.Front, opts.GuideOptions())
		if res := align.ValidateGuides(doc.Guides, layouts.Front); !res.IsValid {
			r.Logger.Warn("cut guides do not match layout", "findings", res.Errors)
		}
	}

	r.Logger.Debug("layout stats",
		"utilization", stats.Utilization,
		"card_area", stats.TotalCardArea)

	return doc, mixed, nil
}

// ComputeLayoutWithCacheInfo packs images and mirrors the back, with
// caching, and reports whether the result came from the cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, images []layout.SourceImage, opts Options) (Layouts, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return Layouts{}, false, err
	}

	inputHash, err := cache.HashJSON(images)
	if err != nil {
		return Layouts{}, false, fmt.Errorf("hash images: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(inputHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Layouts
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Debug("layout cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	layouts, err := ComputeLayout(ctx, images, opts)
	if err != nil {
		return Layouts{}, false, err
	}

	if data, err := json.Marshal(layouts); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		} else {
			opts.Logger.Debug("layout cache write failed", "error", err)
		}
	}

	return layouts, false, nil
}

// ComputeLayout packs images and, when opts.Back is set, derives the
// mirrored back layout. It does not touch any cache.
func ComputeLayout(ctx context.Context, images []layout.SourceImage, opts Options) (Layouts, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Layouts{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnPackStart(ctx, len(images))
	start := time.Now()
	front, err := layout.Pack(images, opts.Settings)
	hooks.OnPackComplete(ctx, front.NumPages(), front.NumCards(), time.Since(start), err)
	if err != nil {
		return Layouts{}, err
	}

	out := Layouts{Front: front}
	if opts.HasBack() {
		dims, err := opts.pageDims()
		if err != nil {
			return Layouts{}, err
		}
		back := mirror.Mirror(front, opts.Back, opts.Settings, dims)
		out.Back = &back
	}
	return out, nil
}

// RenderWithCacheInfo renders every requested format with caching and
// reports whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc sink.Document, opts Options) (map[string][][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	docHash, err := cache.HashJSON(doc)
	if err != nil {
		return nil, false, fmt.Errorf("hash document for cache key: %w", err)
	}

	artifacts := make(map[string][][]byte)
	var missing []string
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		var pages [][]byte
		if err == nil && hit && json.Unmarshal(data, &pages) == nil {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = pages
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := RenderDocument(ctx, doc, renderOpts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, pages := range rendered {
		artifacts[format] = pages
		data, err := json.Marshal(pages)
		if err != nil {
			continue
		}
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc sink.Document, opts Options) (map[string][][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, images []layout.SourceImage, opts Options) (Layouts, error) {
	layouts, _, err := r.ComputeLayoutWithCacheInfo(ctx, images, opts)
	return layouts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
