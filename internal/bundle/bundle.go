// Package bundle loads annotation bundles: the text (inline or by path),
// optional explicit blocks, and the highlight set, authored as JSON or
// YAML. It fills in what hand-authored bundles usually omit: ids, priority
// order, and palette colors.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/marginalia/internal/annotation"
	"github.com/dshills/marginalia/internal/document"
)

// Errors returned by bundle loading.
var (
	ErrNotJSON   = errors.New("bundle is not valid JSON")
	ErrNoText    = errors.New("bundle has neither text nor text_file")
	ErrBothTexts = errors.New("bundle has both text and text_file")
	ErrBlockKind = errors.New("unknown block kind")
)

// palette colors highlights whose bundle entry has no explicit color,
// assigned per distinct tag in first-seen order.
var palette = []string{
	"#cc2200", "#0055cc", "#11871b", "#8821ad",
	"#b26500", "#0c8183", "#ad1457", "#4e5d00",
}

// Bundle is one export request as authored on disk.
type Bundle struct {
	// Text is the inline document text. Empty when TextFile is set.
	Text string

	// TextFile is a path to the document text, relative to the bundle.
	TextFile string

	// Format optionally names the input-format handler to use.
	Format string

	// Blocks is the explicit block list, nil when the format handler
	// should derive blocks from the text.
	Blocks []document.Block

	// Highlights is the annotation set.
	Highlights []annotation.Highlight
}

// Load reads a bundle from path. Files ending in .yaml or .yml parse as
// YAML, everything else as JSON.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ResolveText loads TextFile (relative to baseDir) into Text when the
// bundle references its document by path.
func (b *Bundle) ResolveText(baseDir string) error {
	switch {
	case b.TextFile == "" && b.Text == "":
		return ErrNoText
	case b.TextFile == "":
		return nil
	case b.Text != "":
		return ErrBothTexts
	}
	path := b.TextFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading text file %s: %w", path, err)
	}
	b.Text = string(data)
	return nil
}

// ParseJSON decodes a JSON bundle. Field access is tolerant: unknown keys
// are ignored, missing highlight ids, priorities, and colors are filled in
// by normalize.
func ParseJSON(data []byte) (*Bundle, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrNotJSON
	}
	root := gjson.ParseBytes(data)

	b := &Bundle{
		Text:     root.Get("text").String(),
		TextFile: root.Get("text_file").String(),
		Format:   root.Get("format").String(),
	}

	var blockErr error
	root.Get("blocks").ForEach(func(_, v gjson.Result) bool {
		kind, level, err := blockKind(v.Get("kind").String(), int(v.Get("level").Int()))
		if err != nil {
			blockErr = err
			return false
		}
		b.Blocks = append(b.Blocks, document.Block{
			Start: int(v.Get("start").Int()),
			End:   int(v.Get("end").Int()),
			Kind:  kind,
			Level: level,
		})
		return true
	})
	if blockErr != nil {
		return nil, blockErr
	}

	root.Get("highlights").ForEach(func(_, v gjson.Result) bool {
		h := annotation.Highlight{
			ID:    v.Get("id").String(),
			Start: int(v.Get("start").Int()),
			End:   int(v.Get("end").Int()),
			Tag:   v.Get("tag").String(),
			Color: v.Get("color").String(),
		}
		if p := v.Get("priority"); p.Exists() {
			h.Priority = int(p.Int())
		} else {
			h.Priority = -1
		}
		b.Highlights = append(b.Highlights, h)
		return true
	})

	b.normalize()
	return b, nil
}

// rawBundle is the YAML mapping of a bundle file.
type rawBundle struct {
	Text       string         `yaml:"text"`
	TextFile   string         `yaml:"text_file"`
	Format     string         `yaml:"format"`
	Blocks     []rawBlock     `yaml:"blocks"`
	Highlights []rawHighlight `yaml:"highlights"`
}

type rawBlock struct {
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
	Kind  string `yaml:"kind"`
	Level int    `yaml:"level"`
}

type rawHighlight struct {
	ID       string `yaml:"id"`
	Start    int    `yaml:"start"`
	End      int    `yaml:"end"`
	Tag      string `yaml:"tag"`
	Color    string `yaml:"color"`
	Priority *int   `yaml:"priority"`
}

// ParseYAML decodes a YAML bundle.
func ParseYAML(data []byte) (*Bundle, error) {
	var raw rawBundle
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML bundle: %w", err)
	}

	b := &Bundle{
		Text:     raw.Text,
		TextFile: raw.TextFile,
		Format:   raw.Format,
	}
	for _, rb := range raw.Blocks {
		kind, level, err := blockKind(rb.Kind, rb.Level)
		if err != nil {
			return nil, err
		}
		b.Blocks = append(b.Blocks, document.Block{Start: rb.Start, End: rb.End, Kind: kind, Level: level})
	}
	for _, rh := range raw.Highlights {
		h := annotation.Highlight{
			ID: rh.ID, Start: rh.Start, End: rh.End,
			Tag: rh.Tag, Color: rh.Color, Priority: -1,
		}
		if rh.Priority != nil {
			h.Priority = *rh.Priority
		}
		b.Highlights = append(b.Highlights, h)
	}

	b.normalize()
	return b, nil
}

// normalize fills defaults: uuids for missing ids, authoring order for
// missing priorities, palette colors per distinct tag for missing colors.
func (b *Bundle) normalize() {
	tagColor := make(map[string]string)
	nextColor := 0

	for i := range b.Highlights {
		h := &b.Highlights[i]
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		if h.Priority < 0 {
			h.Priority = i
		}
		if h.Color == "" {
			c, ok := tagColor[h.Tag]
			if !ok {
				c = palette[nextColor%len(palette)]
				nextColor++
				tagColor[h.Tag] = c
			}
			h.Color = c
		}
	}
}

// blockKind maps an authored kind name to the document model.
func blockKind(kind string, level int) (document.BlockKind, int, error) {
	switch kind {
	case "", "paragraph":
		return document.BlockParagraph, 0, nil
	case "heading":
		if level <= 0 {
			level = 1
		}
		return document.BlockHeading, level, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrBlockKind, kind)
	}
}
