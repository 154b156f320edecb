package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/marginalia/internal/document"
)

const jsonBundle = `{
	"text": "hello world",
	"highlights": [
		{"id": "h1", "start": 0, "end": 5, "tag": "a", "color": "#cc2200", "priority": 0},
		{"start": 6, "end": 11, "tag": "b"}
	]
}`

const yamlBundle = `text: hello world
highlights:
  - id: h1
    start: 0
    end: 5
    tag: a
    color: "#cc2200"
    priority: 0
  - start: 6
    end: 11
    tag: b
`

func checkBundle(t *testing.T, b *Bundle) {
	t.Helper()
	if b.Text != "hello world" {
		t.Errorf("Text = %q", b.Text)
	}
	if len(b.Highlights) != 2 {
		t.Fatalf("got %d highlights, want 2", len(b.Highlights))
	}
	first, second := b.Highlights[0], b.Highlights[1]
	if first.ID != "h1" || first.Color != "#cc2200" || first.Priority != 0 {
		t.Errorf("first highlight = %+v", first)
	}
	if second.ID == "" {
		t.Error("missing id should be generated")
	}
	if second.Priority != 1 {
		t.Errorf("missing priority should default to authoring order, got %d", second.Priority)
	}
	if second.Color == "" {
		t.Error("missing color should come from the palette")
	}
}

func TestParseJSON(t *testing.T) {
	b, err := ParseJSON([]byte(jsonBundle))
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	checkBundle(t, b)
}

func TestParseYAML(t *testing.T) {
	b, err := ParseYAML([]byte(yamlBundle))
	if err != nil {
		t.Fatalf("ParseYAML error: %v", err)
	}
	checkBundle(t, b)
}

func TestParseJSONRejectsGarbage(t *testing.T) {
	if _, err := ParseJSON([]byte("{not json")); !errors.Is(err, ErrNotJSON) {
		t.Errorf("ParseJSON = %v, want ErrNotJSON", err)
	}
}

func TestPaletteStablePerTag(t *testing.T) {
	b, err := ParseJSON([]byte(`{
		"text": "0123456789",
		"highlights": [
			{"start": 0, "end": 3, "tag": "a"},
			{"start": 3, "end": 6, "tag": "b"},
			{"start": 6, "end": 9, "tag": "a"}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	if b.Highlights[0].Color != b.Highlights[2].Color {
		t.Error("same tag should get the same palette color")
	}
	if b.Highlights[0].Color == b.Highlights[1].Color {
		t.Error("different tags should get different palette colors")
	}
}

func TestParseBlocks(t *testing.T) {
	b, err := ParseJSON([]byte(`{
		"text": "0123456789",
		"blocks": [
			{"start": 0, "end": 5, "kind": "heading", "level": 2},
			{"start": 5, "end": 10}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	if len(b.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(b.Blocks))
	}
	if b.Blocks[0].Kind != document.BlockHeading || b.Blocks[0].Level != 2 {
		t.Errorf("block 0 = %+v", b.Blocks[0])
	}
	if b.Blocks[1].Kind != document.BlockParagraph {
		t.Errorf("block 1 = %+v", b.Blocks[1])
	}
}

func TestParseBlocksRejectsUnknownKind(t *testing.T) {
	_, err := ParseJSON([]byte(`{"text": "x", "blocks": [{"start": 0, "end": 1, "kind": "sidebar"}]}`))
	if !errors.Is(err, ErrBlockKind) {
		t.Errorf("ParseJSON = %v, want ErrBlockKind", err)
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "b.json")
	if err := os.WriteFile(jsonPath, []byte(jsonBundle), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "b.yaml")
	if err := os.WriteFile(yamlPath, []byte(yamlBundle), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, yamlPath} {
		b, err := Load(path)
		if err != nil {
			t.Errorf("Load(%s) error: %v", path, err)
			continue
		}
		checkBundle(t, b)
	}
}

func TestResolveText(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := &Bundle{TextFile: "doc.txt"}
	if err := b.ResolveText(dir); err != nil {
		t.Fatalf("ResolveText error: %v", err)
	}
	if b.Text != "from file" {
		t.Errorf("Text = %q", b.Text)
	}

	if err := (&Bundle{}).ResolveText(dir); !errors.Is(err, ErrNoText) {
		t.Errorf("empty bundle: %v, want ErrNoText", err)
	}
	both := &Bundle{Text: "x", TextFile: "doc.txt"}
	if err := both.ResolveText(dir); !errors.Is(err, ErrBothTexts) {
		t.Errorf("both texts: %v, want ErrBothTexts", err)
	}
}
