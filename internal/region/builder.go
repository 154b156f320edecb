package region

import (
	"sort"

	"github.com/dshills/marginalia/internal/annotation"
)

// event kinds, ordered so deactivation sorts before activation at equal
// positions. A highlight ending exactly where another begins must not be
// active over the same region for an instant.
const (
	evDeactivate = iota
	evActivate
)

// event is one interval boundary in the sweep.
type event struct {
	pos       int
	kind      int
	highlight annotation.Highlight
}

// Build partitions a document of n units into maximal constant-overlap
// regions. Highlights are assumed to have passed annotation.Validate.
//
// The returned regions are ordered, gap-free, and non-overlapping, covering
// [0, n) exactly; stretches covered by no highlight appear as regions with
// an empty active set. Each region's Active slice is ordered by priority.
// Block indices are unset (-1) until block splitting.
func Build(highlights []annotation.Highlight, n int) []Region {
	if n == 0 {
		return nil
	}

	events := make([]event, 0, 2*len(highlights))
	for _, h := range highlights {
		events = append(events, event{pos: h.Start, kind: evActivate, highlight: h})
		events = append(events, event{pos: h.End, kind: evDeactivate, highlight: h})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].pos != events[j].pos {
			return events[i].pos < events[j].pos
		}
		if events[i].kind != events[j].kind {
			return events[i].kind < events[j].kind
		}
		// Equal-position activations resolve by priority so the sweep
		// itself is deterministic, independent of input order.
		return events[i].highlight.Priority < events[j].highlight.Priority
	})

	var regions []Region
	active := make(map[string]annotation.Highlight)
	cursor := 0

	flush := func(upTo int) {
		if upTo <= cursor {
			return
		}
		regions = append(regions, Region{
			Start:  cursor,
			End:    upTo,
			Active: snapshot(active),
			Block:  -1,
		})
		cursor = upTo
	}

	for i := 0; i < len(events); {
		pos := events[i].pos
		flush(pos)
		// Apply every event at this position before the next region
		// opens; the active set only changes between positions.
		for i < len(events) && events[i].pos == pos {
			ev := events[i]
			if ev.kind == evActivate {
				active[ev.highlight.ID] = ev.highlight
			} else {
				delete(active, ev.highlight.ID)
			}
			i++
		}
	}
	flush(n)

	return regions
}

// snapshot copies the active set into a priority-ordered slice.
func snapshot(active map[string]annotation.Highlight) []annotation.Highlight {
	if len(active) == 0 {
		return nil
	}
	out := make([]annotation.Highlight, 0, len(active))
	for _, h := range active {
		out = append(out, h)
	}
	annotation.SortByPriority(out)
	return out
}
