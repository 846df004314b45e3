package sink

import (
	"bytes"
	"fmt"
	"html"
	"strconv"

	"github.com/matzehuels/cardsheet/pkg/geometry"
	"github.com/matzehuels/cardsheet/pkg/guides"
	"github.com/matzehuels/cardsheet/pkg/layout"
)

// Guide stroke styling, in millimetres.
const (
	cutStroke  = 0.1
	markStroke = 0.2
	guideColor = "#000000"
	foldColor  = "#888888"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	guides    bool
	guideOpts guides.Options
	resolve   func(src string) (string, error)
	outline   bool
}

// WithGuides draws corner marks, cut lines and fold marks over the cards.
func WithGuides(opts guides.Options) SVGOption {
	return func(r *svgRenderer) { r.guides = true; r.guideOpts = opts }
}

// WithImageResolver maps a card's Src to the href written into the SVG,
// for example an embedded data URI. See [EmbedImages].
func WithImageResolver(fn func(src string) (string, error)) SVGOption {
	return func(r *svgRenderer) { r.resolve = fn }
}

// WithOutlines draws a thin rectangle around every card.
func WithOutlines() SVGOption { return func(r *svgRenderer) { r.outline = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{guideOpts: guides.DefaultOptions()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderPageSVG draws one sheet.
func RenderPageSVG(page layout.Page, dims geometry.PageDimensions, opts ...SVGOption) ([]byte, error) {
	r := newSVGRenderer(opts...)
	return r.page(page, dims)
}

// RenderSVGPages draws every page of l.
func RenderSVGPages(l layout.Layout, dims geometry.PageDimensions, opts ...SVGOption) ([][]byte, error) {
	r := newSVGRenderer(opts...)
	out := make([][]byte, 0, l.NumPages())
	for i, p := range l.Pages {
		svg, err := r.page(p, dims)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		out = append(out, svg)
	}
	return out, nil
}

func (r *svgRenderer) page(page layout.Page, dims geometry.PageDimensions) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%smm" height="%smm" viewBox="0 0 %s %s">`+"\n",
		num(dims.Width), num(dims.Height), num(dims.Width), num(dims.Height))
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%s" height="%s" fill="#ffffff"/>`+"\n", num(dims.Width), num(dims.Height))

	for _, c := range page {
		href := c.Src
		if r.resolve != nil {
			var err error
			if href, err = r.resolve(c.Src); err != nil {
				return nil, err
			}
		}
		if href != "" {
			h := html.EscapeString(href)
			fmt.Fprintf(&buf, `  <image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none" href="%s" xlink:href="%s"/>`+"\n",
				num(c.X), num(c.Y), num(c.DisplayWidth), num(c.DisplayHeight), h, h)
		}
		if r.outline {
			fmt.Fprintf(&buf, `  <rect class="outline" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
				num(c.X), num(c.Y), num(c.DisplayWidth), num(c.DisplayHeight), foldColor, num(cutStroke))
		}
	}

	if r.guides {
		writeGuides(&buf, page, r.guideOpts)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func writeGuides(buf *bytes.Buffer, page layout.Page, opts guides.Options) {
	buf.WriteString(`  <g class="guides" fill="none">` + "\n")
	for i, c := range page {
		g := guides.ForCard(i, c, opts)
		for _, s := range g.CutLine.Segments() {
			line(buf, "cut", s, guideColor, cutStroke, `stroke-dasharray="1 1"`)
		}
		for _, m := range g.CornerMarks {
			line(buf, "corner", m.Horizontal, guideColor, markStroke, "")
			line(buf, "corner", m.Vertical, guideColor, markStroke, "")
		}
		for _, f := range g.FoldMarks {
			line(buf, "fold", f.Segment, foldColor, cutStroke, "")
		}
	}
	buf.WriteString("  </g>\n")
}

func line(buf *bytes.Buffer, class string, s guides.Segment, color string, width float64, extra string) {
	if extra != "" {
		extra = " " + extra
	}
	fmt.Fprintf(buf, `    <line class="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"%s/>`+"\n",
		class, num(s.X1), num(s.Y1), num(s.X2), num(s.Y2), color, num(width), extra)
}

// num formats v without exponent or trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
