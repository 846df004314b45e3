package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a packed front/back layout. inputHash covers the
	// card list; opts covers everything else that changes placement.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output for one layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the settings that affect card placement.
type LayoutKeyOpts struct {
	PageSize     string  `json:"page_size"`
	CustomWidth  float64 `json:"custom_width,omitempty"`
	CustomHeight float64 `json:"custom_height,omitempty"`
	Margin       float64 `json:"margin"`
	Spacing      float64 `json:"spacing"`
	Back         string  `json:"back,omitempty"`
}

// ArtifactKeyOpts are the settings that affect rendering.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Guides   bool    `json:"guides,omitempty"`
	MarkSize float64 `json:"mark_size,omitempty"`
	FoldSize float64 `json:"fold_size,omitempty"`
	Embed    bool    `json:"embed,omitempty"`
	DPI      float64 `json:"dpi,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), layoutHash, opts)
}
