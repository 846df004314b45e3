package sink

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardsheet/pkg/geometry"
	"github.com/matzehuels/cardsheet/pkg/guides"
	"github.com/matzehuels/cardsheet/pkg/layout"
	"github.com/matzehuels/cardsheet/pkg/render"
)

var a4 = geometry.PageDimensions{Width: 210, Height: 297}

func twoCards() layout.Layout {
	return layout.Layout{Pages: []layout.Page{{
		{Src: "a.png", X: 10, Y: 10, DisplayWidth: 63, DisplayHeight: 88},
		{Src: "b.png", X: 78, Y: 10, DisplayWidth: 63, DisplayHeight: 88},
	}}}
}

func TestRenderPageSVG(t *testing.T) {
	svg, err := RenderPageSVG(twoCards().Pages[0], a4)
	if err != nil {
		t.Fatalf("RenderPageSVG: %v", err)
	}
	s := string(svg)

	for _, want := range []string{
		`width="210mm"`,
		`height="297mm"`,
		`viewBox="0 0 210 297"`,
		`fill="#ffffff"`,
		`<image x="10" y="10" width="63" height="88" preserveAspectRatio="none" href="a.png"`,
		`<image x="78" y="10" width="63" height="88"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Contains(s, `class="guides"`) {
		t.Error("guides drawn without WithGuides")
	}
	if !strings.HasSuffix(s, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestRenderPageSVGGuides(t *testing.T) {
	svg, err := RenderPageSVG(twoCards().Pages[0], a4, WithGuides(guides.DefaultOptions()), WithOutlines())
	if err != nil {
		t.Fatalf("RenderPageSVG: %v", err)
	}
	s := string(svg)

	tests := []struct {
		class string
		want  int
	}{
		{`class="cut"`, 8},     // 4 edges per card
		{`class="corner"`, 16}, // 4 corners, 2 strokes each
		{`class="fold"`, 4},
		{`class="outline"`, 2},
	}
	for _, tt := range tests {
		if got := strings.Count(s, tt.class); got != tt.want {
			t.Errorf("count(%s) = %d, want %d", tt.class, got, tt.want)
		}
	}
	// Top-left corner of the first card, horizontal arm.
	if !strings.Contains(s, `x1="7" y1="10" x2="13" y2="10"`) {
		t.Errorf("missing top-left corner mark:\n%s", s)
	}
}

func TestRenderPageSVGEscapesHref(t *testing.T) {
	page := layout.Page{{Src: `a"b&c.png`, DisplayWidth: 10, DisplayHeight: 10}}
	svg, err := RenderPageSVG(page, a4)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`href="a&#34;b&amp;c.png"`)) {
		t.Errorf("href not escaped:\n%s", svg)
	}
}

func TestRenderSVGPages(t *testing.T) {
	l := twoCards()
	l.Pages = append(l.Pages, layout.Page{{Src: "c.png", X: 10, Y: 10, DisplayWidth: 63, DisplayHeight: 88}})

	pages, err := RenderSVGPages(l, a4)
	if err != nil {
		t.Fatalf("RenderSVGPages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if !bytes.Contains(pages[1], []byte(`href="c.png"`)) {
		t.Error("second page does not hold c.png")
	}
}

func TestEmbedImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.png")
	png := []byte("\x89PNG\r\n\x1a\nrest")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		t.Fatal(err)
	}

	resolve := EmbedImages()
	tests := []struct {
		name, src, prefix string
	}{
		{"file", path, "data:image/png;base64,"},
		{"data uri", "data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"url", "https://example.com/a.png", "https://example.com/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("resolve(%q) = %q, want prefix %q", tt.src, got, tt.prefix)
			}
		})
	}

	if _, err := resolve(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}

	page := layout.Page{{Src: path, DisplayWidth: 10, DisplayHeight: 10}}
	svg, err := RenderPageSVG(page, a4, WithImageResolver(resolve))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(svg, []byte(path)) {
		t.Error("embedded svg still references the file path")
	}
}

func TestRenderJSON(t *testing.T) {
	front := twoCards()
	back := twoCards()
	doc := Document{
		Settings:   layout.Settings{PageSize: geometry.A4, Margin: 10, Spacing: 5},
		Page:       a4,
		Back:       "back.png",
		Front:      front,
		BackLayout: &back,
		Stats:      layout.Stats{TotalPages: 1, TotalCards: 2},
	}
	data, err := RenderJSON(doc)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !bytes.Contains(data, []byte(`"back_layout"`)) {
		t.Errorf("missing back_layout:\n%s", data)
	}

	got, err := ReadJSON(data)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if diff := cmp.Diff(doc.Front, got.Front); diff != "" {
		t.Errorf("front mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(back, got.Backs()); diff != "" {
		t.Errorf("back mismatch (-want +got):\n%s", diff)
	}
	if (Document{}).Backs().NumPages() != 0 {
		t.Error("Backs() of a document without back layout should be empty")
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	ctx := context.Background()
	front := twoCards()

	single, err := RenderPDF(ctx, front, layout.Layout{}, a4)
	if err != nil {
		t.Fatalf("RenderPDF(front): %v", err)
	}
	both, err := RenderPDF(ctx, front, twoCards(), a4, WithPDFSVGOptions(WithGuides(guides.DefaultOptions())))
	if err != nil {
		t.Fatalf("RenderPDF(front, back): %v", err)
	}
	if !bytes.HasPrefix(both, []byte("%PDF")) || len(both) <= len(single) {
		t.Errorf("RenderPDF(front, back) = %d bytes, want a PDF larger than front only (%d bytes)", len(both), len(single))
	}

	if _, err := RenderPDF(ctx, layout.Layout{}, layout.Layout{}, a4); err != nil {
		t.Errorf("RenderPDF(empty): %v", err)
	}
}

func TestRenderPNG(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	pages, err := RenderPNG(context.Background(), twoCards(), a4, WithDPI(72))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if len(pages) != 1 || !bytes.HasPrefix(pages[0], []byte("\x89PNG")) {
		t.Errorf("RenderPNG returned %d pages, want one PNG", len(pages))
	}
}
