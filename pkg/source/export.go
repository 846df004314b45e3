package source

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/matzehuels/cardsheet/pkg/layout"
)

// ExportedSettings is a snapshot of a session's settings, written so that a
// layout can be reproduced later.
type ExportedSettings struct {
	Timestamp    time.Time         `json:"timestamp"`
	Settings     ExportedPlacement `json:"settings"`
	ImageCount   int               `json:"image_count"`
	HasBackImage bool              `json:"has_back_image"`
}

// ExportedPlacement mirrors layout.Settings plus the duplex flag.
type ExportedPlacement struct {
	PageSize     string  `json:"page_size"`
	CustomWidth  float64 `json:"custom_width"`
	CustomHeight float64 `json:"custom_height"`
	Margin       float64 `json:"margin"`
	Spacing      float64 `json:"spacing"`
	IncludeBack  bool    `json:"include_back"`
}

// ExportSettings builds the snapshot. now is passed in so that exports are
// reproducible in tests.
func ExportSettings(images []layout.SourceImage, s layout.Settings, back string, now time.Time) ExportedSettings {
	return ExportedSettings{
		Timestamp: now.UTC(),
		Settings: ExportedPlacement{
			PageSize:     s.PageSize,
			CustomWidth:  s.CustomWidth,
			CustomHeight: s.CustomHeight,
			Margin:       s.Margin,
			Spacing:      s.Spacing,
			IncludeBack:  back != "",
		},
		ImageCount:   len(images),
		HasBackImage: back != "",
	}
}

// WriteExport writes e as indented JSON.
func WriteExport(w io.Writer, e ExportedSettings) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// ExportFilename returns card-layout-settings-<unix millis>.json.
func ExportFilename(now time.Time) string {
	return "card-layout-settings-" + strconv.FormatInt(now.UnixMilli(), 10) + ".json"
}
