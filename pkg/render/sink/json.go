package sink

import (
	"encoding/json"

	"github.com/matzehuels/cardsheet/pkg/align"
	"github.com/matzehuels/cardsheet/pkg/geometry"
	"github.com/matzehuels/cardsheet/pkg/guides"
	"github.com/matzehuels/cardsheet/pkg/layout"
)

// Document is everything computed for one set of cards.
type Document struct {
	Settings   layout.Settings         `json:"settings"`
	Page       geometry.PageDimensions `json:"page"`
	Back       string                  `json:"back,omitempty"`
	Front      layout.Layout           `json:"front"`
	BackLayout *layout.Layout          `json:"back_layout,omitempty"`
	Stats      layout.Stats            `json:"stats"`
	Validation layout.ValidationResult `json:"validation"`
	Alignment  *align.Result           `json:"alignment,omitempty"`
	Guides     []guides.PageGuides     `json:"guides,omitempty"`
}

// Backs returns the back layout, or an empty one.
func (d Document) Backs() layout.Layout {
	if d.BackLayout == nil {
		return layout.Layout{}
	}
	return *d.BackLayout
}

// RenderJSON encodes d as indented JSON.
func RenderJSON(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ReadJSON decodes a document written by [RenderJSON].
func ReadJSON(data []byte) (Document, error) {
	var d Document
	err := json.Unmarshal(data, &d)
	return d, err
}
