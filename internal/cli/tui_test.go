package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/cardsheet/pkg/geometry"
	"github.com/matzehuels/cardsheet/pkg/layout"
	"github.com/matzehuels/cardsheet/pkg/render/sink"
)

var testA4 = geometry.PageDimensions{Width: 210, Height: 297}

func previewDoc(pages int, back bool) sink.Document {
	l := layout.Layout{Pages: make([]layout.Page, pages)}
	for i := range l.Pages {
		l.Pages[i] = layout.Page{{Src: "a.png", X: 10, Y: 10, DisplayWidth: 63, DisplayHeight: 88}}
	}
	doc := sink.Document{Settings: layout.Settings{PageSize: geometry.A4}, Page: testA4, Front: l}
	if back {
		b := l
		doc.BackLayout = &b
	}
	return doc
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, keys ...string) PreviewModel {
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m.(PreviewModel)
}

func TestPreviewNavigation(t *testing.T) {
	m := NewPreviewModel(previewDoc(3, true))

	tests := []struct {
		keys     []string
		wantPage int
		wantBack bool
	}{
		{nil, 0, false},
		{[]string{"right"}, 1, false},
		{[]string{"right", "right", "right", "right"}, 2, false},
		{[]string{"right", "left", "left"}, 0, false},
		{[]string{"G"}, 2, false},
		{[]string{"G", "g"}, 0, false},
		{[]string{"tab"}, 0, true},
		{[]string{"tab", "b"}, 0, false},
	}
	for _, tt := range tests {
		got := press(m, tt.keys...)
		if got.Page != tt.wantPage || got.Back != tt.wantBack {
			t.Errorf("keys %v: page=%d back=%v, want page=%d back=%v", tt.keys, got.Page, got.Back, tt.wantPage, tt.wantBack)
		}
	}
}

func TestPreviewNoBackToggle(t *testing.T) {
	m := press(NewPreviewModel(previewDoc(1, false)), "tab")
	if m.Back {
		t.Error("tab switched to back without a back layout")
	}
	if strings.Contains(m.View(), "front/back") {
		t.Error("help mentions front/back without a back layout")
	}
}

func TestPreviewQuit(t *testing.T) {
	_, cmd := NewPreviewModel(previewDoc(1, false)).Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestPreviewView(t *testing.T) {
	view := NewPreviewModel(previewDoc(2, true)).View()
	for _, want := range []string{"Front page 1/2", "┌", "1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSheetSize(t *testing.T) {
	tests := []struct {
		name             string
		dims             geometry.PageDimensions
		maxCols, maxRows int
		cols, rows       int
	}{
		{"portrait limited by rows", testA4, 200, 40, 56, 40},
		{"landscape limited by cols", geometry.PageDimensions{Width: 297, Height: 210}, 60, 40, 60, 21},
		{"degenerate dims", geometry.PageDimensions{}, 30, 20, 30, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := sheetSize(tt.dims, tt.maxCols, tt.maxRows)
			if cols != tt.cols || rows != tt.rows {
				t.Errorf("sheetSize() = %d×%d, want %d×%d", cols, rows, tt.cols, tt.rows)
			}
		})
	}
}

func TestDrawSheet(t *testing.T) {
	page := layout.Page{
		{X: 0, Y: 0, DisplayWidth: 105, DisplayHeight: 148.5},
		{X: 105, Y: 148.5, DisplayWidth: 105, DisplayHeight: 148.5},
	}
	out := drawSheet(page, testA4, 20, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	if !strings.HasPrefix(lines[0], "┌────────┐") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[9], "└────────┘") {
		t.Errorf("last line = %q", lines[9])
	}
	if !strings.Contains(out, "1") || !strings.Contains(out, "2") {
		t.Errorf("card labels missing:\n%s", out)
	}
}
