// Package align cross-checks layouts for duplex printing.
//
// [Validate] compares a front layout against its back, [ValidateGuides]
// compares generated cut guides against the layout they came from, and
// [Marks] pairs every front card with its back card. All three are
// diagnostics: they collect findings and never stop the caller.
package align

import (
	"fmt"
	"math"

	"github.com/matzehuels/cardsheet/pkg/guides"
	"github.com/matzehuels/cardsheet/pkg/layout"
)

// Tolerance is the largest width or height difference, in millimetres,
// accepted between matching cards.
const Tolerance = 0.1

// Result is the outcome of [Validate]. IsAligned is true exactly when Errors
// is empty.
type Result struct {
	IsAligned bool     `json:"is_aligned"`
	Errors    []string `json:"errors,omitempty"`
}

// Validate compares layouts a (front) and b (back). Every check runs:
// page counts, then for each page present in both, an empty back page,
// card counts, and the width and height of the first card.
//
// Only the first card of a page is compared for size.
func Validate(a, b layout.Layout) Result {
	var errs []string
	if a.NumPages() != b.NumPages() {
		errs = append(errs, fmt.Sprintf("page count differs: front has %d, back has %d", a.NumPages(), b.NumPages()))
	}
	for i := range min(a.NumPages(), b.NumPages()) {
		front, back := a.Pages[i], b.Pages[i]
		n := i + 1
		if len(back) == 0 && len(front) > 0 {
			errs = append(errs, fmt.Sprintf("page %d of the back is empty", n))
		}
		if len(front) != len(back) {
			errs = append(errs, fmt.Sprintf("page %d: card count differs (front: %d, back: %d)", n, len(front), len(back)))
		}
		if len(front) > 0 && len(back) > 0 {
			if math.Abs(front[0].DisplayWidth-back[0].DisplayWidth) > Tolerance {
				errs = append(errs, fmt.Sprintf("page %d: width differs between front and back", n))
			}
			if math.Abs(front[0].DisplayHeight-back[0].DisplayHeight) > Tolerance {
				errs = append(errs, fmt.Sprintf("page %d: height differs between front and back", n))
			}
		}
	}
	return Result{IsAligned: len(errs) == 0, Errors: errs}
}

// Box is a card rectangle.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func boxOf(c layout.Card) Box {
	return Box{X: c.X, Y: c.Y, Width: c.DisplayWidth, Height: c.DisplayHeight}
}

// Mark pairs a front card with the back card at the same index.
// IsAligned requires equal width, height and y.
type Mark struct {
	PageIndex int  `json:"page_index"`
	CardIndex int  `json:"card_index"`
	Front     Box  `json:"front"`
	Back      Box  `json:"back"`
	IsAligned bool `json:"is_aligned"`
}

// Marks returns a [Mark] for every card index present on both sides.
func Marks(front, back layout.Layout) []Mark {
	var marks []Mark
	for p := range min(front.NumPages(), back.NumPages()) {
		fp, bp := front.Pages[p], back.Pages[p]
		for i := range min(len(fp), len(bp)) {
			f, b := fp[i], bp[i]
			marks = append(marks, Mark{
				PageIndex: p,
				CardIndex: i,
				Front:     boxOf(f),
				Back:      boxOf(b),
				IsAligned: f.DisplayWidth == b.DisplayWidth && f.DisplayHeight == b.DisplayHeight && f.Y == b.Y,
			})
		}
	}
	return marks
}

// GuideResult is the outcome of [ValidateGuides].
type GuideResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidateGuides checks that g was generated from l: one guide page per
// layout page, one guide per card, and matching positions and sizes.
func ValidateGuides(g []guides.PageGuides, l layout.Layout) GuideResult {
	var errs []string
	if len(g) != l.NumPages() {
		errs = append(errs, fmt.Sprintf("guide page count %d differs from layout page count %d", len(g), l.NumPages()))
	}
	for i := range min(len(g), l.NumPages()) {
		cards, page := g[i].Cards, l.Pages[i]
		if len(cards) != len(page) {
			errs = append(errs, fmt.Sprintf("page %d: %d guides for %d cards", i+1, len(cards), len(page)))
		}
		for j := range min(len(cards), len(page)) {
			cg, c := cards[j], page[j]
			if cg.X != c.X || cg.Y != c.Y {
				errs = append(errs, fmt.Sprintf("page %d, card %d: guide position differs from card", i+1, j+1))
			}
			if cg.Width != c.DisplayWidth || cg.Height != c.DisplayHeight {
				errs = append(errs, fmt.Sprintf("page %d, card %d: guide size differs from card", i+1, j+1))
			}
		}
	}
	return GuideResult{IsValid: len(errs) == 0, Errors: errs}
}
