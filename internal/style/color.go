package style

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// parseColor decodes an opaque color token. Tokens are hex strings with or
// without the leading '#'.
func parseColor(token string) (colorful.Color, error) {
	if token == "" {
		return colorful.Color{}, fmt.Errorf("empty color token")
	}
	if token[0] != '#' {
		token = "#" + token
	}
	c, err := colorful.Hex(token)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("color token %q: %w", token, err)
	}
	return c, nil
}

// DarkVariant derives the underline color for a highlight token: the same
// hue with luminance capped at DarkLuminance, so thin rules keep contrast.
// Returns a normalized lowercase hex token.
func (s Style) DarkVariant(token string) (string, error) {
	c, err := parseColor(token)
	if err != nil {
		return "", err
	}
	h, ch, l := c.Hcl()
	if l > s.DarkLuminance {
		l = s.DarkLuminance
	}
	return colorful.Hcl(h, ch, l).Clamped().Hex(), nil
}

// FillVariant derives the background fill color for a tag: the token
// blended toward white by FillBlend, light enough that body text stays
// legible over it. Returns a normalized lowercase hex token.
func (s Style) FillVariant(token string) (string, error) {
	c, err := parseColor(token)
	if err != nil {
		return "", err
	}
	return c.BlendLab(white, s.FillBlend).Clamped().Hex(), nil
}

// ManyRuleColor returns the normalized neutral color of the many tier.
func (s Style) ManyRuleColor() string {
	c, err := parseColor(s.ManyColor)
	if err != nil {
		// Validate rejects unparseable ManyColor; fall back to the
		// default neutral rather than panic in a pure render path.
		c, _ = parseColor(Default().ManyColor)
	}
	return c.Hex()
}
