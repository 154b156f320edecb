package region

import "github.com/dshills/marginalia/internal/annotation"

// Tier is the visual stacking class of a region, derived from the size of
// its active set and capped at TierMany.
type Tier uint8

const (
	// TierPlain is unhighlighted text.
	TierPlain Tier = iota
	// TierSingle is one distinguishable highlight.
	TierSingle
	// TierDouble is two simultaneously visible, stacked highlights.
	TierDouble
	// TierMany collapses three or more highlights into one generic
	// indicator. Individual identity is intentionally lost at this tier.
	TierMany
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierPlain:
		return "plain"
	case TierSingle:
		return "single"
	case TierDouble:
		return "double"
	case TierMany:
		return "many"
	default:
		return "unknown"
	}
}

// Classify maps a region to its tier and the priority-ordered highlights
// behind it. The full list is always returned, even at TierMany where the
// emitter keeps only the count; diagnostics and tests need the identities.
func Classify(r Region) (Tier, []annotation.Highlight) {
	n := len(r.Active)
	if n > int(TierMany) {
		n = int(TierMany)
	}
	return Tier(n), r.Active
}
