package source

import (
	"bytes"
	"encoding/base64"
	"image"
	"io"
	"net/url"
	"os"
	"strings"

	// Decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/cardsheet/pkg/errors"
)

// Pixel conversion.
const (
	MMPerInch  = 25.4
	DefaultDPI = 300.0
)

// PixelSize is an image's size in pixels as read from its header.
type PixelSize struct {
	Width  int
	Height int
	Format string
}

// PixelsToMM converts a pixel count to millimetres at dpi.
func PixelsToMM(px int, dpi float64) float64 {
	return float64(px) * MMPerInch / dpi
}

// Probe reads only the image header from r.
func Probe(r io.Reader) (PixelSize, error) {
	return probe(r, "image")
}

func probe(r io.Reader, name string) (PixelSize, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return PixelSize{}, errors.Wrap(errors.ErrCodeUnsupportedImage, err, "read header of %s", name)
	}
	return PixelSize{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// ProbeRef probes a file path or a base64 data URI. Remote URLs cannot be
// probed.
func ProbeRef(ref string) (PixelSize, error) {
	rc, err := open(ref)
	if err != nil {
		return PixelSize{}, err
	}
	defer rc.Close()
	return probe(rc, displayRef(ref))
}

func open(ref string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		data, err := decodeDataURI(ref)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return nil, errors.New(errors.ErrCodeUnsupportedImage,
			"remote image %s needs an explicit width and height", ref)
	}
	f, err := os.Open(ref)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", ref)
	}
	return f, err
}

// decodeDataURI returns the payload of a data: URI.
func decodeDataURI(ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedImage, "malformed data URI")
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsupportedImage, err, "decode data URI")
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupportedImage, err, "decode data URI")
	}
	return []byte(s), nil
}

func isURI(ref string) bool {
	return strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// displayRef shortens data URIs for messages.
func displayRef(ref string) string {
	if strings.HasPrefix(ref, "data:") && len(ref) > 32 {
		return ref[:32] + "..."
	}
	return ref
}
