package layout

import "slices"

// PackerState is the cursor carried between placement steps. A step never
// modifies the state it receives.
type PackerState struct {
	Pages          []Page  // closed pages
	PageCards      Page    // cards on the open page
	RowCards       Page    // cards on the open row
	CurrentY       float64 // top of the open row
	MaxHeightInRow float64 // tallest card on the open row
	Row            int     // index of the open row on the open page
}

// Packer holds the resolved geometry for one packing pass.
type Packer struct {
	Margin      float64
	Spacing     float64
	AvailWidth  float64 // page width minus both side margins
	AvailHeight float64 // page height minus top and bottom margins
}

// NewPacker validates s and resolves its page geometry.
func NewPacker(s Settings) (Packer, error) {
	if err := s.Validate(); err != nil {
		return Packer{}, err
	}
	dims, err := s.PageDimensions()
	if err != nil {
		return Packer{}, err
	}
	w, h := dims.Usable(s.Margin)
	return Packer{
		Margin:      s.Margin,
		Spacing:     s.Spacing,
		AvailWidth:  w,
		AvailHeight: h,
	}, nil
}

// Start returns the state before any card is placed.
func (p Packer) Start() PackerState {
	return PackerState{CurrentY: p.Margin}
}

// Step places one image and returns the advanced state.
func (p Packer) Step(st PackerState, img SourceImage) PackerState {
	w, h := img.Width, img.Height

	if p.rowWidth(st.RowCards)+w > p.AvailWidth && len(st.RowCards) > 0 {
		st.CurrentY += st.MaxHeightInRow + p.Spacing
		st.RowCards = nil
		st.MaxHeightInRow = 0
		st.Row++
	}

	// CurrentY includes the top margin and AvailHeight excludes both, so
	// the bottom gap is at least twice the margin.
	if st.CurrentY+h > p.AvailHeight && len(st.PageCards) > 0 {
		st.Pages = append(slices.Clip(st.Pages), st.PageCards)
		st.PageCards = nil
		st.RowCards = nil
		st.CurrentY = p.Margin
		st.MaxHeightInRow = 0
		st.Row = 0
	}

	card := Card{
		Src:            img.Src,
		X:              p.Margin + p.rowWidth(st.RowCards),
		Y:              st.CurrentY,
		DisplayWidth:   w,
		DisplayHeight:  h,
		OriginalWidth:  img.Width,
		OriginalHeight: img.Height,
		Row:            st.Row,
		Col:            len(st.RowCards),
	}
	st.PageCards = append(slices.Clip(st.PageCards), card)
	st.RowCards = append(slices.Clip(st.RowCards), card)
	st.MaxHeightInRow = max(st.MaxHeightInRow, h)
	return st
}

// Finish closes the open page, if it holds any cards, and returns the
// layout.
func (p Packer) Finish(st PackerState) Layout {
	pages := slices.Clone(st.Pages)
	if len(st.PageCards) > 0 {
		pages = append(pages, slices.Clone(st.PageCards))
	}
	if pages == nil {
		pages = []Page{}
	}
	return Layout{Pages: pages}
}

func (p Packer) rowWidth(row Page) float64 {
	used := 0.0
	for _, c := range row {
		used += c.DisplayWidth + p.Spacing
	}
	return used
}

// Pack lays out images in order.
//
// The only errors are configuration faults: an unknown page size, invalid
// custom dimensions, or negative margin or spacing. An empty image list
// yields an empty layout. Images are not checked here; see [ValidateImages].
func Pack(images []SourceImage, s Settings) (Layout, error) {
	p, err := NewPacker(s)
	if err != nil {
		return Layout{}, err
	}
	st := p.Start()
	for _, img := range images {
		st = p.Step(st, img)
	}
	return p.Finish(st), nil
}
