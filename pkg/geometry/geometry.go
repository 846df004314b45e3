// Package geometry resolves page-size configuration into physical page
// dimensions.
//
// All values are millimetres. Named sizes come from a fixed table; the
// special name [Custom] passes caller-supplied dimensions through verbatim.
// Unknown names are a configuration error: callers never receive a zero
// value to do arithmetic with.
package geometry

import (
	"math"
	"sort"

	"github.com/matzehuels/cardsheet/pkg/errors"
)

// Page size names.
const (
	A4     = "A4"
	A3     = "A3"
	Custom = "custom"
)

// PageDimensions is the size of a sheet in millimetres.
type PageDimensions struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Landscape reports whether the sheet is wider than it is tall.
func (d PageDimensions) Landscape() bool { return d.Width > d.Height }

// Area returns Width*Height.
func (d PageDimensions) Area() float64 { return d.Width * d.Height }

// Usable returns the area left after removing margin from every edge.
func (d PageDimensions) Usable(margin float64) (width, height float64) {
	return d.Width - 2*margin, d.Height - 2*margin
}

var sizes = map[string]PageDimensions{
	A4: {Width: 210, Height: 297},
	A3: {Width: 297, Height: 420},
}

// Resolve maps a page-size name to its dimensions.
//
// For [Custom] the custom width and height are returned unchanged, but they
// must be positive and finite. Lookup of named sizes is case-sensitive.
func Resolve(size string, customWidth, customHeight float64) (PageDimensions, error) {
	if size == Custom {
		if !positive(customWidth) || !positive(customHeight) {
			return PageDimensions{}, errors.New(errors.ErrCodeInvalidDimensions,
				"custom page size must be positive: %gx%g", customWidth, customHeight)
		}
		return PageDimensions{Width: customWidth, Height: customHeight}, nil
	}
	d, ok := sizes[size]
	if !ok {
		return PageDimensions{}, errors.New(errors.ErrCodeUnknownPageSize, "unknown page size: %q", size)
	}
	return d, nil
}

// Sizes returns the known named page sizes in sorted order, followed by
// [Custom].
func Sizes() []string {
	names := make([]string, 0, len(sizes)+1)
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, Custom)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
