package source

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/layout"
)

// DefaultManifest is the manifest file looked up when none is named.
const DefaultManifest = "cardsheet.toml"

// Manifest is a parsed cardsheet.toml.
type Manifest struct {
	Settings ManifestSettings `toml:"settings"`
	Cards    []CardEntry      `toml:"card"`

	// BaseDir resolves relative card and back paths. It is the directory
	// holding the manifest file.
	BaseDir string `toml:"-"`
}

// ManifestSettings is the [settings] table. Zero values mean "use the
// default".
type ManifestSettings struct {
	PageSize     string   `toml:"page_size"`
	CustomWidth  float64  `toml:"custom_width"`
	CustomHeight float64  `toml:"custom_height"`
	Margin       *float64 `toml:"margin"`
	Spacing      *float64 `toml:"spacing"`
	DPI          float64  `toml:"dpi"`
	Back         string   `toml:"back"`
	Guides       bool     `toml:"guides"`
}

// CardEntry is one [[card]] table. Width and Height are millimetres; when
// either is zero it is taken from the image. Count repeats the card.
type CardEntry struct {
	Src    string  `toml:"src"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Count  int     `toml:"count"`
}

// ReadManifest reads and parses the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	if err := errors.ValidateManifestFilename(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	m.BaseDir = filepath.Dir(path)
	return m, nil
}

// ParseManifest parses manifest content. Paths stay relative to the
// current directory.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown manifest key %q", undecoded[0].String())
	}
	for i, c := range m.Cards {
		if err := errors.ValidateImageRef(c.Src); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "card %d", i+1)
		}
		if c.Count < 0 || c.Width < 0 || c.Height < 0 {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "card %d: negative size or count", i+1)
		}
	}
	if m.Settings.Back != "" {
		if err := errors.ValidateImageRef(m.Settings.Back); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "back image")
		}
	}
	return &m, nil
}

// LayoutSettings converts the [settings] table, filling unset values from
// defaults.
func (m *Manifest) LayoutSettings(defaults layout.Settings) layout.Settings {
	s := defaults
	ms := m.Settings
	if ms.PageSize != "" {
		s.PageSize = ms.PageSize
	}
	if ms.CustomWidth > 0 {
		s.CustomWidth = ms.CustomWidth
	}
	if ms.CustomHeight > 0 {
		s.CustomHeight = ms.CustomHeight
	}
	if ms.Margin != nil {
		s.Margin = *ms.Margin
	}
	if ms.Spacing != nil {
		s.Spacing = *ms.Spacing
	}
	return s
}

// BackPath returns the back image resolved against BaseDir, or "".
func (m *Manifest) BackPath() string {
	if m.Settings.Back == "" {
		return ""
	}
	return m.resolve(m.Settings.Back)
}

func (m *Manifest) resolve(ref string) string {
	if m.BaseDir == "" || isURI(ref) || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(m.BaseDir, ref)
}

// FindManifest returns DefaultManifest inside dir if it exists.
func FindManifest(dir string) (string, bool) {
	path := filepath.Join(dir, DefaultManifest)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}
