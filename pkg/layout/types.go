package layout

import (
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/geometry"
)

var validate = validator.New()

// Settings controls page size and card placement. All lengths are
// millimetres.
type Settings struct {
	PageSize     string  `json:"page_size" bson:"page_size" validate:"required"`
	CustomWidth  float64 `json:"custom_width,omitempty" bson:"custom_width,omitempty" validate:"gte=0"`
	CustomHeight float64 `json:"custom_height,omitempty" bson:"custom_height,omitempty" validate:"gte=0"`
	Margin       float64 `json:"margin" bson:"margin" validate:"gte=0"`
	Spacing      float64 `json:"spacing" bson:"spacing" validate:"gte=0"`
}

// Validate checks field constraints and resolves the page size. The
// margins must leave a usable area on both axes.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "invalid settings")
	}
	dims, err := s.PageDimensions()
	if err != nil {
		return err
	}
	if 2*s.Margin >= min(dims.Width, dims.Height) {
		return errors.New(errors.ErrCodeInvalidSettings,
			"margin %g leaves no usable area on a %gx%g mm page", s.Margin, dims.Width, dims.Height)
	}
	return nil
}

// PageDimensions resolves the configured page size.
func (s Settings) PageDimensions() (geometry.PageDimensions, error) {
	return geometry.Resolve(s.PageSize, s.CustomWidth, s.CustomHeight)
}

// SourceImage is a card to place. Width and Height are the physical render
// size in millimetres.
type SourceImage struct {
	Src    string  `json:"src" bson:"src"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Card is a placed image. X and Y are the top-left corner measured from the
// page origin. Display sizes always equal the original sizes.
type Card struct {
	Src            string  `json:"src" bson:"src"`
	X              float64 `json:"x" bson:"x"`
	Y              float64 `json:"y" bson:"y"`
	DisplayWidth   float64 `json:"display_width" bson:"display_width"`
	DisplayHeight  float64 `json:"display_height" bson:"display_height"`
	OriginalWidth  float64 `json:"original_width" bson:"original_width"`
	OriginalHeight float64 `json:"original_height" bson:"original_height"`
	Row            int     `json:"row" bson:"row"`
	Col            int     `json:"col" bson:"col"`
	IsBackPage     bool    `json:"is_back_page,omitempty" bson:"is_back_page,omitempty"`
}

// Right returns the x coordinate of the card's right edge.
func (c Card) Right() float64 { return c.X + c.DisplayWidth }

// Bottom returns the y coordinate of the card's bottom edge.
func (c Card) Bottom() float64 { return c.Y + c.DisplayHeight }

// Area returns the card's display area.
func (c Card) Area() float64 { return c.DisplayWidth * c.DisplayHeight }

// Page holds cards in placement order.
type Page []Card

// Layout is the result of one [Pack] call. Consumers treat it as read-only.
type Layout struct {
	Pages []Page `json:"pages" bson:"pages"`
}

// NumPages returns the number of pages.
func (l Layout) NumPages() int { return len(l.Pages) }

// NumCards returns the number of cards across all pages.
func (l Layout) NumCards() int {
	n := 0
	for _, p := range l.Pages {
		n += len(p)
	}
	return n
}

// Empty reports whether the layout has no pages.
func (l Layout) Empty() bool { return len(l.Pages) == 0 }
