package layout

import "fmt"

// CutLines are the four edges of a card, as page coordinates.
type CutLines struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// CutInstruction tells the print shop where one card sits. Page and card
// numbers start at 1.
type CutInstruction struct {
	PageNumber int      `json:"page_number"`
	CardNumber int      `json:"card_number"`
	Row        int      `json:"row"`
	Col        int      `json:"col"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	CutLines   CutLines `json:"cut_lines"`
}

// EdgesOf returns the cut lines bounding c.
func EdgesOf(c Card) CutLines {
	return CutLines{Top: c.Y, Right: c.Right(), Bottom: c.Bottom(), Left: c.X}
}

// CutInstructions lists every card of l in page order.
func CutInstructions(l Layout) []CutInstruction {
	out := make([]CutInstruction, 0, l.NumCards())
	for pi, page := range l.Pages {
		for ci, c := range page {
			out = append(out, CutInstruction{
				PageNumber: pi + 1,
				CardNumber: ci + 1,
				Row:        c.Row,
				Col:        c.Col,
				X:          c.X,
				Y:          c.Y,
				Width:      c.DisplayWidth,
				Height:     c.DisplayHeight,
				CutLines:   EdgesOf(c),
			})
		}
	}
	return out
}

// AlignmentSummary describes how cards line up for cutting.
type AlignmentSummary struct {
	TotalCards  int    `json:"total_cards"`
	TotalPages  int    `json:"total_pages"`
	CardsPerRow int    `json:"cards_per_row"`
	IsAligned   bool   `json:"is_aligned"`
	Message     string `json:"message"`
}

// AlignmentInfo counts the cards on the first row of every page and reports
// the largest count. It returns false when l has no cards on its first page.
func AlignmentInfo(l Layout) (AlignmentSummary, bool) {
	if l.Empty() || len(l.Pages[0]) == 0 {
		return AlignmentSummary{}, false
	}
	perRow := 0
	for _, page := range l.Pages {
		if len(page) == 0 {
			continue
		}
		n := 0
		for _, c := range page {
			if c.Y == page[0].Y {
				n++
			}
		}
		perRow = max(perRow, n)
	}
	total := l.NumCards()
	return AlignmentSummary{
		TotalCards:  total,
		TotalPages:  l.NumPages(),
		CardsPerRow: perRow,
		IsAligned:   true,
		Message:     fmt.Sprintf("%d cards on %d page(s), aligned for cutting", total, l.NumPages()),
	}, true
}
