package hook

import (
	"github.com/dshills/marginalia/internal/annotation"
)

// Recolor returns a copy of highlights with colors replaced by the hook's
// per-tag answers. A nil or declining hook leaves colors untouched. The
// input slice is never modified.
func Recolor(h *Hook, highlights []annotation.Highlight) ([]annotation.Highlight, error) {
	out := make([]annotation.Highlight, len(highlights))
	copy(out, highlights)
	if h == nil {
		return out, nil
	}

	cache := make(map[string]string)
	for i := range out {
		tag := out[i].Tag
		color, ok := cache[tag]
		if !ok {
			var err error
			color, err = h.TagColor(tag)
			if err != nil {
				return nil, err
			}
			cache[tag] = color
		}
		if color != "" {
			out[i].Color = color
		}
	}
	return out, nil
}
