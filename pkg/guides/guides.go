// Package guides derives cut guides for placed cards: corner marks, cut
// lines and fold marks. Everything is computed from a card's own position
// and size; neighbouring cards play no part.
package guides

import (
	"math"

	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/layout"
)

// Default mark lengths in millimetres.
const (
	DefaultMarkSize = 3.0
	DefaultFoldSize = 2.0
)

// Corner positions.
const (
	TopLeft     = "top-left"
	TopRight    = "top-right"
	BottomLeft  = "bottom-left"
	BottomRight = "bottom-right"
)

// Fold mark orientations.
const (
	Horizontal = "horizontal"
	Vertical   = "vertical"
)

// Options sets mark lengths. MarkSize is how far a corner mark extends on
// each side of the corner; FoldSize is the same for fold marks.
type Options struct {
	MarkSize float64 `json:"mark_size"`
	FoldSize float64 `json:"fold_size"`
}

// DefaultOptions returns 3 mm corner marks and 2 mm fold marks.
func DefaultOptions() Options {
	return Options{MarkSize: DefaultMarkSize, FoldSize: DefaultFoldSize}
}

// Validate rejects negative and non-finite mark lengths. Zero is allowed
// and means the default.
func (o Options) Validate() error {
	for _, v := range []struct {
		name string
		size float64
	}{{"mark size", o.MarkSize}, {"fold size", o.FoldSize}} {
		if !NonNegativeFinite(v.size) {
			return errors.New(errors.ErrCodeInvalidSettings, "invalid %s %v", v.name, v.size)
		}
	}
	return nil
}

// NonNegativeFinite reports whether v is a usable length.
func NonNegativeFinite(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// Segment is a straight line from (X1,Y1) to (X2,Y2).
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// CornerMark is a small cross centred on one card corner.
type CornerMark struct {
	Position   string  `json:"position"`
	Horizontal Segment `json:"horizontal"`
	Vertical   Segment `json:"vertical"`
}

// CutLine holds the four edges of a card.
type CutLine struct {
	Top    Segment `json:"top"`
	Right  Segment `json:"right"`
	Bottom Segment `json:"bottom"`
	Left   Segment `json:"left"`
}

// Segments returns the edges in top, right, bottom, left order.
func (c CutLine) Segments() []Segment {
	return []Segment{c.Top, c.Right, c.Bottom, c.Left}
}

// FoldMark is a short tick marking the middle of a card side.
type FoldMark struct {
	Orientation string `json:"orientation"`
	Segment
	Label string `json:"label"`
}

// CardGuide is the complete guide set for one card.
type CardGuide struct {
	CardIndex   int          `json:"card_index"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	CornerMarks []CornerMark `json:"corner_marks"`
	CutLine     CutLine      `json:"cut_line"`
	FoldMarks   []FoldMark   `json:"fold_marks"`
}

// PageGuides groups card guides by page. PageIndex is 0-based.
type PageGuides struct {
	PageIndex int         `json:"page_index"`
	Cards     []CardGuide `json:"cards"`
}

// Generate returns guides for every card of l, one entry per page.
// Zero-valued options fall back to the defaults.
func Generate(l layout.Layout, opts Options) []PageGuides {
	if opts.MarkSize <= 0 {
		opts.MarkSize = DefaultMarkSize
	}
	if opts.FoldSize <= 0 {
		opts.FoldSize = DefaultFoldSize
	}
	out := make([]PageGuides, len(l.Pages))
	for pi, page := range l.Pages {
		cards := make([]CardGuide, len(page))
		for ci, c := range page {
			cards[ci] = ForCard(ci, c, opts)
		}
		out[pi] = PageGuides{PageIndex: pi, Cards: cards}
	}
	return out
}

// ForCard returns the guides for a single card.
func ForCard(index int, c layout.Card, opts Options) CardGuide {
	return CardGuide{
		CardIndex:   index,
		X:           c.X,
		Y:           c.Y,
		Width:       c.DisplayWidth,
		Height:      c.DisplayHeight,
		CornerMarks: cornerMarks(c, opts.MarkSize),
		CutLine:     cutLine(c),
		FoldMarks:   foldMarks(c, opts.FoldSize),
	}
}

func cornerMarks(c layout.Card, m float64) []CornerMark {
	left, top, right, bottom := c.X, c.Y, c.Right(), c.Bottom()
	cross := func(pos string, x, y float64) CornerMark {
		return CornerMark{
			Position:   pos,
			Horizontal: Segment{X1: x - m, Y1: y, X2: x + m, Y2: y},
			Vertical:   Segment{X1: x, Y1: y - m, X2: x, Y2: y + m},
		}
	}
	return []CornerMark{
		cross(TopLeft, left, top),
		cross(TopRight, right, top),
		cross(BottomLeft, left, bottom),
		cross(BottomRight, right, bottom),
	}
}

func cutLine(c layout.Card) CutLine {
	left, top, right, bottom := c.X, c.Y, c.Right(), c.Bottom()
	return CutLine{
		Top:    Segment{X1: left, Y1: top, X2: right, Y2: top},
		Right:  Segment{X1: right, Y1: top, X2: right, Y2: bottom},
		Bottom: Segment{X1: left, Y1: bottom, X2: right, Y2: bottom},
		Left:   Segment{X1: left, Y1: top, X2: left, Y2: bottom},
	}
}

// Fold ticks sit on the left edge at mid-height and on the top edge at
// mid-width.
func foldMarks(c layout.Card, f float64) []FoldMark {
	midY := c.Y + c.DisplayHeight/2
	midX := c.X + c.DisplayWidth/2
	return []FoldMark{
		{Orientation: Horizontal, Segment: Segment{X1: c.X - f, Y1: midY, X2: c.X + f, Y2: midY}, Label: "fold"},
		{Orientation: Vertical, Segment: Segment{X1: midX, Y1: c.Y - f, X2: midX, Y2: c.Y + f}, Label: "fold"},
	}
}
