package bundle

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/region"
)

// Report renders the resolved region partition as JSON for inspection
// tooling: one entry per region with its range, tier, stacking order, and
// continuation flags.
func Report(doc *document.Document, regions []region.Region) (string, error) {
	out := "{}"
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.Set(out, path, value)
	}

	set("unit_count", doc.Len())
	set("region_count", len(regions))
	set("regions", []any{})

	for i, r := range regions {
		tier, ordered := region.Classify(r)
		prefix := fmt.Sprintf("regions.%d.", i)
		set(prefix+"start", r.Start)
		set(prefix+"end", r.End)
		set(prefix+"block", r.Block)
		set(prefix+"tier", tier.String())
		set(prefix+"text", doc.Slice(r.Start, r.End))
		if r.ContinuesBefore {
			set(prefix+"continues_before", true)
		}
		if r.ContinuesAfter {
			set(prefix+"continues_after", true)
		}
		for j, h := range ordered {
			hp := fmt.Sprintf("%sactive.%d.", prefix, j)
			set(hp+"id", h.ID)
			set(hp+"tag", h.Tag)
			set(hp+"priority", h.Priority)
		}
	}

	if err != nil {
		return "", fmt.Errorf("building region report: %w", err)
	}
	return out, nil
}
