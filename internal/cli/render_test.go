package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "pdf", []string{"pdf"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", "svg, json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseFormats(tt.input)); diff != "" {
				t.Errorf("parseFormats(%q) (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, name, want string
	}{
		{"", "decks/poker", "decks/poker"},
		{"out/sheet.pdf", "poker", "out/sheet"},
		{"out/sheet.svg", "poker", "out/sheet"},
		{"out/sheet", "poker", "out/sheet"},
		{"sheet.v2", "poker", "sheet.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.name); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.name, got, tt.want)
		}
	}
}

func TestArtifactPaths(t *testing.T) {
	tests := []struct {
		name   string
		format string
		n      int
		want   []string
	}{
		{"single", "pdf", 1, []string{"deck.pdf"}},
		{"pages", "svg", 3, []string{"deck-01.svg", "deck-02.svg", "deck-03.svg"}},
		{"many pages", "png", 100, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifactPaths("deck", tt.format, tt.n)
			if len(got) != tt.n {
				t.Fatalf("got %d paths, want %d", len(got), tt.n)
			}
			if tt.want != nil {
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("artifactPaths (-want +got):\n%s", diff)
				}
			}
			if tt.n == 100 && got[0] != "deck-001.png" {
				t.Errorf("first of 100 = %q, want deck-001.png", got[0])
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out", "deck")
	artifacts := map[string][][]byte{
		"svg":  {[]byte("<svg>1</svg>"), []byte("<svg>2</svg>")},
		"json": {[]byte("{}")},
	}

	paths, err := writeArtifacts(artifacts, []string{"json", "svg"}, base)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{base + ".json", base + "-01.svg", base + "-02.svg"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(base + "-02.svg")
	if err != nil || string(data) != "<svg>2</svg>" {
		t.Errorf("second page = %q, %v", data, err)
	}
}

func TestNeedsConverter(t *testing.T) {
	if needsConverter([]string{"svg", "json"}) {
		t.Error("svg and json need no converter")
	}
	if !needsConverter([]string{"svg", "pdf"}) {
		t.Error("pdf needs a converter")
	}
}
