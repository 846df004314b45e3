// Package mirror derives the reverse side of a card layout for duplex
// printing.
//
// A back page keeps every card's vertical position and reflects its
// horizontal position about the page width, so that cut lines on the front
// and back coincide once the sheet is flipped on its long edge.
//
// The mirrored x is rebuilt from the card's column index:
//
//	backX = pageWidth - margin - width - col*(width + spacing)
//
// This matches the front only when every card in a row has the same width.
// [UniformRows] reports rows that break that assumption.
package mirror

import (
	"fmt"

	"github.com/matzehuels/cardsheet/pkg/geometry"
	"github.com/matzehuels/cardsheet/pkg/layout"
)

// Mirror returns the back-side layout for front. Every card gets backSrc as
// its image. The result has the same number of pages and the same number of
// cards per page as front; front is not modified.
func Mirror(front layout.Layout, backSrc string, s layout.Settings, dims geometry.PageDimensions) layout.Layout {
	pages := make([]layout.Page, len(front.Pages))
	for i, page := range front.Pages {
		back := make(layout.Page, len(page))
		for j, c := range page {
			back[j] = layout.Card{
				Src:            backSrc,
				X:              dims.Width - s.Margin - c.DisplayWidth - float64(c.Col)*(c.DisplayWidth+s.Spacing),
				Y:              c.Y,
				DisplayWidth:   c.DisplayWidth,
				DisplayHeight:  c.DisplayHeight,
				OriginalWidth:  c.OriginalWidth,
				OriginalHeight: c.OriginalHeight,
				Row:            c.Row,
				Col:            c.Col,
				IsBackPage:     true,
			}
		}
		pages[i] = back
	}
	return layout.Layout{Pages: pages}
}

// RowIssue identifies a row whose cards do not share one width.
type RowIssue struct {
	Page   int       `json:"page"` // 0-based
	Row    int       `json:"row"`
	Widths []float64 `json:"widths"`
}

func (r RowIssue) String() string {
	return fmt.Sprintf("page %d row %d has mixed card widths %v", r.Page+1, r.Row+1, r.Widths)
}

// UniformRows returns every row of l that mixes card widths. Back pages for
// such rows are mirrored incorrectly. An empty result means [Mirror] is
// exact for l.
func UniformRows(l layout.Layout) []RowIssue {
	var issues []RowIssue
	for pi, page := range l.Pages {
		start := 0
		for i := 1; i <= len(page); i++ {
			if i < len(page) && page[i].Row == page[start].Row {
				continue
			}
			if widths, mixed := rowWidths(page[start:i]); mixed {
				issues = append(issues, RowIssue{Page: pi, Row: page[start].Row, Widths: widths})
			}
			start = i
		}
	}
	return issues
}

func rowWidths(row layout.Page) ([]float64, bool) {
	widths := make([]float64, len(row))
	mixed := false
	for i, c := range row {
		widths[i] = c.DisplayWidth
		if c.DisplayWidth != row[0].DisplayWidth {
			mixed = true
		}
	}
	return widths, mixed
}

// Margins are the page margins for the two print sides. With a single
// uniform margin the back's left and right equal the front's.
type Margins struct {
	Top       float64 `json:"top"`
	Right     float64 `json:"right"`
	Bottom    float64 `json:"bottom"`
	Left      float64 `json:"left"`
	BackLeft  float64 `json:"back_left"`
	BackRight float64 `json:"back_right"`
}

// MirroredMargins returns the margins for both sides of a sheet.
func MirroredMargins(s layout.Settings) Margins {
	m := s.Margin
	return Margins{Top: m, Right: m, Bottom: m, Left: m, BackLeft: m, BackRight: m}
}

// CardDimensions is the size of a representative card.
type CardDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// Report summarizes a front/back pair for the print shop.
type Report struct {
	FrontPages     int             `json:"front_pages"`
	BackPages      int             `json:"back_pages"`
	IsAligned      bool            `json:"is_aligned"`
	CardsPerPage   int             `json:"cards_per_page"`
	TotalCards     int             `json:"total_cards"`
	Alignment      string          `json:"alignment"`
	CardDimensions *CardDimensions `json:"card_dimensions,omitempty"`
}

// NewReport builds a [Report]. IsAligned only compares page counts; use
// align.Validate for a full check. CardsPerPage and CardDimensions come from
// the first front page.
func NewReport(front, back layout.Layout) Report {
	r := Report{
		FrontPages: front.NumPages(),
		BackPages:  back.NumPages(),
		IsAligned:  front.NumPages() == back.NumPages(),
		TotalCards: front.NumCards(),
		Alignment:  "grid aligned for cutting",
	}
	if !front.Empty() {
		r.CardsPerPage = len(front.Pages[0])
		if len(front.Pages[0]) > 0 {
			c := front.Pages[0][0]
			r.CardDimensions = &CardDimensions{Width: c.DisplayWidth, Height: c.DisplayHeight, Unit: "mm"}
		}
	}
	return r
}
