package guides

import (
	"fmt"
	"math"

	"github.com/matzehuels/cardsheet/pkg/layout"
)

// PrintingInstructions are included in every [Report].
var PrintingInstructions = []string{
	"1. Print every page at 100% scale (no fit-to-page)",
	"2. Use the corner marks to line up the cut",
	"3. Cut along the solid cut lines",
	"4. For duplex printing, line up the back pages with the alignment marks",
	"5. Check the alignment before cutting",
}

// Report is a print-shop summary with positions rounded to whole
// millimetres.
type Report struct {
	TotalPages   int            `json:"total_pages"`
	TotalCards   int            `json:"total_cards"`
	Pages        []PageReport   `json:"pages"`
	Settings     ReportSettings `json:"settings"`
	Instructions []string       `json:"instructions"`
}

// PageReport lists the cards on one page. Numbers start at 1.
type PageReport struct {
	PageNumber int          `json:"page_number"`
	CardCount  int          `json:"card_count"`
	Cards      []CardReport `json:"cards"`
}

// CardReport describes one card for cutting.
type CardReport struct {
	CardNumber int          `json:"card_number"`
	Position   string       `json:"position"`
	Size       string       `json:"size"`
	CutLines   RoundedEdges `json:"cut_lines"`
}

// RoundedEdges are card edges rounded to whole millimetres.
type RoundedEdges struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// ReportSettings echoes the settings the layout was built with.
type ReportSettings struct {
	PageSize string  `json:"page_size"`
	Margin   float64 `json:"margin"`
	Spacing  float64 `json:"spacing"`
}

// NewReport builds the cut-guide report for l.
func NewReport(l layout.Layout, s layout.Settings) Report {
	r := Report{
		TotalPages:   l.NumPages(),
		TotalCards:   l.NumCards(),
		Pages:        make([]PageReport, len(l.Pages)),
		Settings:     ReportSettings{PageSize: s.PageSize, Margin: s.Margin, Spacing: s.Spacing},
		Instructions: PrintingInstructions,
	}
	for pi, page := range l.Pages {
		pr := PageReport{PageNumber: pi + 1, CardCount: len(page), Cards: make([]CardReport, len(page))}
		for ci, c := range page {
			pr.Cards[ci] = CardReport{
				CardNumber: ci + 1,
				Position:   fmt.Sprintf("X: %dmm, Y: %dmm", round(c.X), round(c.Y)),
				Size:       fmt.Sprintf("%dmm × %dmm", round(c.DisplayWidth), round(c.DisplayHeight)),
				CutLines: RoundedEdges{
					Top:    round(c.Y),
					Right:  round(c.Right()),
					Bottom: round(c.Bottom()),
					Left:   round(c.X),
				},
			}
		}
		r.Pages[pi] = pr
	}
	return r
}

func round(v float64) int { return int(math.Round(v)) }
