package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

const rsvgBinary = "rsvg-convert"

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

// ToPDF converts one or more SVG pages into a single PDF, one page per SVG,
// in order.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, pages ...[]byte) ([]byte, error) {
	switch len(pages) {
	case 0:
		return nil, fmt.Errorf("pdf export needs at least one page")
	case 1:
		return rsvgConvert(ctx, pages[0], "pdf")
	}

	// rsvg-convert only concatenates pages given as files.
	dir, err := os.MkdirTemp("", "cardsheet-pdf-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	files := make([]string, len(pages))
	for i, svg := range pages {
		files[i] = filepath.Join(dir, fmt.Sprintf("page-%04d.svg", i+1))
		if err := os.WriteFile(files[i], svg, 0o600); err != nil {
			return nil, err
		}
	}
	return rsvgConvert(ctx, nil, "pdf", files...)
}

// ToPNG rasterizes one SVG page at dpi dots per inch.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, dpi float64) ([]byte, error) {
	d := strconv.FormatFloat(dpi, 'f', -1, 64)
	return rsvgConvert(ctx, svg, "png", "-d", d, "-p", d)
}

// rsvgConvert shells out to rsvg-convert. stdin is used when no input files
// are named in extraArgs.
func rsvgConvert(ctx context.Context, stdin []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, rsvgBinary, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
