package markup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/marginalia/internal/region"
	"github.com/dshills/marginalia/internal/style"
)

// wrapperKind distinguishes the two command families.
type wrapperKind uint8

const (
	wrapFill wrapperKind = iota
	wrapRule
)

// wrapper is one concrete open-wrapper descriptor. Two wrappers are the
// same for diffing purposes exactly when all fields are equal, so the
// struct must stay comparable.
type wrapper struct {
	kind  wrapperKind
	color string

	// tag identifies a fill wrapper's annotation category.
	tag string

	// thickness and offset apply to rule wrappers only.
	thickness int
	offset    int

	// joinLeft and joinRight mark a rule that visually continues across
	// the adjacent block break.
	joinLeft  bool
	joinRight bool
}

// open renders the wrapper's opening command up to and including the body's
// opening brace.
func (w wrapper) open(sb *strings.Builder) {
	switch w.kind {
	case wrapFill:
		sb.WriteString(`\fill{`)
		sb.WriteString(w.color)
		sb.WriteString(`}{`)
	case wrapRule:
		sb.WriteString(`\rule`)
		if w.joinLeft || w.joinRight {
			sb.WriteByte('[')
			sep := ""
			if w.joinLeft {
				sb.WriteString("joinleft")
				sep = ","
			}
			if w.joinRight {
				sb.WriteString(sep)
				sb.WriteString("joinright")
			}
			sb.WriteByte(']')
		}
		sb.WriteByte('{')
		sb.WriteString(w.color)
		sb.WriteString(`}{`)
		sb.WriteString(strconv.Itoa(w.thickness))
		sb.WriteString(`}{`)
		sb.WriteString(strconv.Itoa(w.offset))
		sb.WriteString(`}{`)
	}
}

// stackFor computes the desired wrapper stack for a region, outermost
// first: one fill per distinct tag (by priority of its highest-priority
// carrier), then the tier's rule wrappers per the style table.
func stackFor(r region.Region, st style.Style) ([]wrapper, error) {
	tier, ordered := region.Classify(r)
	if tier == region.TierPlain {
		return nil, nil
	}

	var stack []wrapper

	// Fill wrappers, outer-to-inner by priority, one per distinct tag.
	seen := make(map[string]bool, len(ordered))
	for _, h := range ordered {
		if seen[h.Tag] {
			continue
		}
		seen[h.Tag] = true
		fill, err := st.FillVariant(h.Color)
		if err != nil {
			return nil, fmt.Errorf("highlight %s: %w", h.ID, err)
		}
		stack = append(stack, wrapper{kind: wrapFill, tag: h.Tag, color: fill})
	}

	joinL, joinR := r.ContinuesBefore, r.ContinuesAfter

	switch tier {
	case region.TierSingle:
		dark, err := st.DarkVariant(ordered[0].Color)
		if err != nil {
			return nil, fmt.Errorf("highlight %s: %w", ordered[0].ID, err)
		}
		stack = append(stack, wrapper{
			kind: wrapRule, color: dark,
			thickness: st.SingleThickness, offset: st.SingleOffset,
			joinLeft: joinL, joinRight: joinR,
		})

	case region.TierDouble:
		outer, err := st.DarkVariant(ordered[0].Color)
		if err != nil {
			return nil, fmt.Errorf("highlight %s: %w", ordered[0].ID, err)
		}
		inner, err := st.DarkVariant(ordered[1].Color)
		if err != nil {
			return nil, fmt.Errorf("highlight %s: %w", ordered[1].ID, err)
		}
		stack = append(stack,
			wrapper{
				kind: wrapRule, color: outer,
				thickness: st.DoubleOuterThickness, offset: st.DoubleOuterOffset,
				joinLeft: joinL, joinRight: joinR,
			},
			wrapper{
				kind: wrapRule, color: inner,
				thickness: st.DoubleInnerThickness, offset: st.DoubleInnerOffset,
				joinLeft: joinL, joinRight: joinR,
			},
		)

	case region.TierMany:
		// Individual identity is discarded here; only the count
		// mattered and it is already folded into the tier.
		stack = append(stack, wrapper{
			kind: wrapRule, color: st.ManyRuleColor(),
			thickness: st.ManyThickness, offset: st.ManyOffset,
			joinLeft: joinL, joinRight: joinR,
		})
	}

	return stack, nil
}
