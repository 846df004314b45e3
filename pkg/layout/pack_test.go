package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/geometry"
)

var a4 = Settings{PageSize: geometry.A4, Margin: 10, Spacing: 5}

func repeat(n int, w, h float64) []SourceImage {
	out := make([]SourceImage, n)
	for i := range out {
		out[i] = SourceImage{Src: "card.png", Width: w, Height: h}
	}
	return out
}

func TestPackSingleCard(t *testing.T) {
	l, err := Pack([]SourceImage{{Src: "a.png", Width: 100, Height: 100}}, a4)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	want := Layout{Pages: []Page{{
		{Src: "a.png", X: 10, Y: 10, DisplayWidth: 100, DisplayHeight: 100, OriginalWidth: 100, OriginalHeight: 100},
	}}}
	if diff := cmp.Diff(want, l); diff != "" {
		t.Errorf("Pack() mismatch (-want +got):\n%s", diff)
	}
}

func TestPackSameRow(t *testing.T) {
	l, err := Pack(repeat(2, 50, 50), a4)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if l.NumPages() != 1 || len(l.Pages[0]) != 2 {
		t.Fatalf("Pack() = %d pages, %d cards, want 1 page with 2 cards", l.NumPages(), l.NumCards())
	}
	first, second := l.Pages[0][0], l.Pages[0][1]
	if first.Y != second.Y {
		t.Errorf("cards on different rows: y=%v and y=%v", first.Y, second.Y)
	}
	if second.X != 65 {
		t.Errorf("second card x = %v, want 65", second.X)
	}
	if second.Col != 1 || second.Row != 0 {
		t.Errorf("second card row/col = %d/%d, want 0/1", second.Row, second.Col)
	}
}

func TestPackRowsAndPages(t *testing.T) {
	// 63x88 on A4 with 10mm margin: two cards per row, two rows per page.
	l, err := Pack(repeat(5, 63, 88), a4)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}

	type pos struct {
		X, Y     float64
		Row, Col int
	}
	var got [][]pos
	for _, page := range l.Pages {
		var ps []pos
		for _, c := range page {
			ps = append(ps, pos{c.X, c.Y, c.Row, c.Col})
		}
		got = append(got, ps)
	}
	want := [][]pos{
		{{10, 10, 0, 0}, {78, 10, 0, 1}, {10, 103, 1, 0}, {78, 103, 1, 1}},
		{{10, 10, 0, 0}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestPackExactSize(t *testing.T) {
	images := []SourceImage{
		{Src: "a", Width: 63, Height: 88},
		{Src: "b", Width: 70, Height: 120},
		{Src: "c", Width: 40.5, Height: 40.5},
		{Src: "d", Width: 150, Height: 30},
		{Src: "e", Width: 63, Height: 88},
	}
	l, err := Pack(images, a4)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if l.NumCards() != len(images) {
		t.Fatalf("NumCards() = %d, want %d", l.NumCards(), len(images))
	}
	i := 0
	for _, page := range l.Pages {
		for _, c := range page {
			img := images[i]
			if c.DisplayWidth != img.Width || c.DisplayHeight != img.Height {
				t.Errorf("card %d display = %vx%v, want %vx%v", i, c.DisplayWidth, c.DisplayHeight, img.Width, img.Height)
			}
			if c.OriginalWidth != c.DisplayWidth || c.OriginalHeight != c.DisplayHeight {
				t.Errorf("card %d original size differs from display size", i)
			}
			if c.X < a4.Margin || c.Y < a4.Margin {
				t.Errorf("card %d at (%v,%v) inside margin", i, c.X, c.Y)
			}
			if c.Right() > 210-a4.Margin {
				t.Errorf("card %d right edge %v past margin", i, c.Right())
			}
			i++
		}
	}
}

func TestPackIdempotent(t *testing.T) {
	images := append(repeat(7, 63, 88), repeat(3, 90, 40)...)
	first, err := Pack(images, a4)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	second, err := Pack(images, a4)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Pack() not deterministic (-first +second):\n%s", diff)
	}
}

func TestPackEmpty(t *testing.T) {
	l, err := Pack(nil, a4)
	if err != nil {
		t.Fatalf("Pack(nil) error: %v", err)
	}
	if !l.Empty() {
		t.Errorf("Pack(nil) = %d pages, want 0", l.NumPages())
	}
}

func TestPackOversized(t *testing.T) {
	l, err := Pack([]SourceImage{{Width: 300, Height: 300}}, a4)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if l.NumPages() != 1 {
		t.Fatalf("NumPages() = %d, want 1", l.NumPages())
	}
	c := l.Pages[0][0]
	if c.X != 10 || c.Y != 10 || c.DisplayWidth != 300 {
		t.Errorf("oversized card = %+v, want at (10,10) with width 300", c)
	}

	// A second card cannot share the overflowing card's row or page.
	l, err = Pack([]SourceImage{{Width: 300, Height: 300}, {Width: 50, Height: 50}}, a4)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if l.NumPages() != 2 {
		t.Errorf("NumPages() = %d, want 2", l.NumPages())
	}
}

func TestPackConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     errors.Code
	}{
		{"unknown size", Settings{PageSize: "Letter", Margin: 10}, errors.ErrCodeUnknownPageSize},
		{"missing size", Settings{Margin: 10}, errors.ErrCodeInvalidSettings},
		{"negative margin", Settings{PageSize: geometry.A4, Margin: -1}, errors.ErrCodeInvalidSettings},
		{"negative spacing", Settings{PageSize: geometry.A4, Spacing: -5}, errors.ErrCodeInvalidSettings},
		{"custom zero", Settings{PageSize: geometry.Custom, CustomWidth: 0, CustomHeight: 100}, errors.ErrCodeInvalidDimensions},
		{"margin fills width", Settings{PageSize: geometry.A4, Margin: 105}, errors.ErrCodeInvalidSettings},
		{"margin past page", Settings{PageSize: geometry.A4, Margin: 200}, errors.ErrCodeInvalidSettings},
		{"custom margin fills height", Settings{PageSize: geometry.Custom, CustomWidth: 100, CustomHeight: 40, Margin: 20}, errors.ErrCodeInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pack(repeat(1, 10, 10), tt.settings)
			if !errors.Is(err, tt.want) {
				t.Errorf("Pack() error = %v, want code %v", err, tt.want)
			}
		})
	}
}

func TestStepDoesNotModifyInput(t *testing.T) {
	p, err := NewPacker(a4)
	if err != nil {
		t.Fatalf("NewPacker() error: %v", err)
	}
	st := p.Step(p.Start(), SourceImage{Src: "a", Width: 50, Height: 50})

	left := p.Step(st, SourceImage{Src: "b", Width: 50, Height: 50})
	right := p.Step(st, SourceImage{Src: "c", Width: 60, Height: 60})

	if len(st.PageCards) != 1 {
		t.Fatalf("input state has %d cards after stepping, want 1", len(st.PageCards))
	}
	if got := left.PageCards[1].Src; got != "b" {
		t.Errorf("left branch second card = %q, want %q", got, "b")
	}
	if got := right.PageCards[1].Src; got != "c" {
		t.Errorf("right branch second card = %q, want %q", got, "c")
	}
	if right.MaxHeightInRow != 60 || left.MaxHeightInRow != 50 {
		t.Errorf("MaxHeightInRow = %v/%v, want 50/60", left.MaxHeightInRow, right.MaxHeightInRow)
	}
}

func TestStepNewRow(t *testing.T) {
	p, err := NewPacker(a4)
	if err != nil {
		t.Fatalf("NewPacker() error: %v", err)
	}
	st := p.Start()
	st = p.Step(st, SourceImage{Width: 120, Height: 40})
	st = p.Step(st, SourceImage{Width: 60, Height: 70})
	st = p.Step(st, SourceImage{Width: 30, Height: 20})

	if st.Row != 1 {
		t.Errorf("Row = %d, want 1", st.Row)
	}
	// Row 0 is 70 tall, so row 1 starts at 10 + 70 + 5.
	if st.CurrentY != 85 {
		t.Errorf("CurrentY = %v, want 85", st.CurrentY)
	}
	if len(st.RowCards) != 1 || st.RowCards[0].X != 10 {
		t.Errorf("RowCards = %+v, want one card at x=10", st.RowCards)
	}
	if st.MaxHeightInRow != 20 {
		t.Errorf("MaxHeightInRow = %v, want 20", st.MaxHeightInRow)
	}
}
