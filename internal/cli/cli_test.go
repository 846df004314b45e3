package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardsheet/pkg/observability"
	"github.com/matzehuels/cardsheet/pkg/render/sink"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	sort.Strings(got)
	want := []string{"cache", "completion", "guides", "layout", "mirror", "preview", "render", "serve", "stats", "validate"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands (-want +got):\n%s", diff)
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir)
	out := filepath.Join(dir, "deck.layout.json")

	if err := runCLI(t, "layout", manifest, "-o", out); err != nil {
		t.Fatalf("layout: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := sink.ReadJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Front.NumCards() != 3 || doc.Front.NumPages() != 1 {
		t.Errorf("front = %d cards on %d pages, want 3 on 1", doc.Front.NumCards(), doc.Front.NumPages())
	}
	if doc.BackLayout == nil || doc.Alignment == nil || !doc.Alignment.IsAligned {
		t.Errorf("back = %v alignment = %+v, want aligned back", doc.BackLayout, doc.Alignment)
	}
	if doc.Page.Width != 297 || doc.Page.Height != 420 {
		t.Errorf("page = %+v, want A3", doc.Page)
	}

	// The layout file feeds the inspection commands.
	for _, cmd := range []string{"stats", "guides", "validate", "mirror"} {
		if err := runCLI(t, cmd, out); err != nil {
			t.Errorf("%s %s: %v", cmd, filepath.Base(out), err)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir)
	base := filepath.Join(dir, "out", "deck")

	if err := runCLI(t, "render", manifest, "-f", "svg,json", "-o", base, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	// One front page and one back page.
	for _, name := range []string{"deck-01.svg", "deck-02.svg", "deck.json"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	back, err := os.ReadFile(base + "-02.svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(back, []byte("back.png")) {
		t.Error("second svg page is not the back")
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir)
	if err := runCLI(t, "render", manifest, "-f", "gif"); err == nil {
		t.Error("render -f gif succeeded")
	}
}

func TestValidateCommandExport(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir)
	exportDir := t.TempDir()

	if err := runCLI(t, "validate", manifest, "--export", exportDir); err != nil {
		t.Fatalf("validate: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(exportDir, "card-layout-settings-*.json"))
	if len(matches) != 1 {
		t.Errorf("got %d exports, want 1", len(matches))
	}
}

func TestMirrorCommandNeedsBack(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir)
	if err := runCLI(t, "mirror", manifest, "--no-back"); err == nil {
		t.Error("mirror without back image succeeded")
	}
}
