package layout

import (
	"fmt"
	"math"
)

// ValidationResult lists findings about a set of images. Findings never stop
// packing; callers decide whether to continue.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidateImages checks that there is at least one image and that every
// image has a positive width and height. Images are numbered from 1 in
// messages. An image with a zero dimension gets two findings: one for the
// missing value and one for the non-positive value.
func ValidateImages(images []SourceImage) ValidationResult {
	var errs []string
	if len(images) == 0 {
		errs = append(errs, "no images loaded")
	}
	for i, img := range images {
		if missing(img.Width) || missing(img.Height) {
			errs = append(errs, fmt.Sprintf("image %d has no dimensions", i+1))
		}
		if img.Width <= 0 || img.Height <= 0 {
			errs = append(errs, fmt.Sprintf("image %d has invalid dimensions", i+1))
		}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func missing(v float64) bool { return v == 0 || math.IsNaN(v) }
