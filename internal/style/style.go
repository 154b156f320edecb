// Package style maps stacking tiers to concrete wrapper styles.
//
// It owns the fixed tier-to-style table (rule thicknesses, vertical offsets,
// the neutral "many" color) and the color math that derives dark underline
// and light fill variants from a highlight's opaque color token. The table
// can be overridden from a TOML style pack.
package style

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Errors returned by style validation.
var (
	ErrThickness = errors.New("rule thickness must be positive")
	ErrOffset    = errors.New("rule offset must be non-negative")
	ErrBlend     = errors.New("blend factor must be in (0,1]")
	ErrColor     = errors.New("invalid color token")
)

// Style holds the tier-to-wrapper lookup table.
//
// Thicknesses and offsets are in abstract rule units; the downstream
// compiler assigns physical dimensions. The zero value is not usable; start
// from Default.
type Style struct {
	// SingleThickness is the rule thickness for a lone highlight.
	SingleThickness int `toml:"single_thickness"`

	// SingleOffset is the vertical offset of the single-tier rule.
	SingleOffset int `toml:"single_offset"`

	// DoubleInnerThickness and DoubleInnerOffset style the inner rule of
	// a two-highlight stack.
	DoubleInnerThickness int `toml:"double_inner_thickness"`
	DoubleInnerOffset    int `toml:"double_inner_offset"`

	// DoubleOuterThickness and DoubleOuterOffset style the outer rule.
	// The offsets differ so both rules stay visible.
	DoubleOuterThickness int `toml:"double_outer_thickness"`
	DoubleOuterOffset    int `toml:"double_outer_offset"`

	// ManyThickness is the rule thickness once three or more highlights
	// collapse into the generic indicator.
	ManyThickness int `toml:"many_thickness"`

	// ManyOffset is the vertical offset of the many-tier rule.
	ManyOffset int `toml:"many_offset"`

	// ManyColor is the fixed neutral color of the many-tier rule,
	// applied regardless of the individual highlight colors.
	ManyColor string `toml:"many_color"`

	// DarkLuminance caps the HCL luminance of underline colors so rules
	// stay readable on light paper.
	DarkLuminance float64 `toml:"dark_luminance"`

	// FillBlend is how far fill colors are blended toward white.
	FillBlend float64 `toml:"fill_blend"`
}

// Default returns the standard tier table:
// tier 1 a 1-unit rule, tier 2 a 1-unit inner and 2-unit outer rule at
// distinct offsets, tier 3+ a single 4-unit neutral rule.
func Default() Style {
	return Style{
		SingleThickness:      1,
		SingleOffset:         2,
		DoubleInnerThickness: 1,
		DoubleInnerOffset:    2,
		DoubleOuterThickness: 2,
		DoubleOuterOffset:    4,
		ManyThickness:        4,
		ManyOffset:           2,
		ManyColor:            "#6e6e6e",
		DarkLuminance:        0.40,
		FillBlend:            0.82,
	}
}

// Validate checks the table for values the emitter cannot render.
func (s Style) Validate() error {
	for _, th := range []int{s.SingleThickness, s.DoubleInnerThickness, s.DoubleOuterThickness, s.ManyThickness} {
		if th <= 0 {
			return fmt.Errorf("%w: got %d", ErrThickness, th)
		}
	}
	for _, off := range []int{s.SingleOffset, s.DoubleInnerOffset, s.DoubleOuterOffset, s.ManyOffset} {
		if off < 0 {
			return fmt.Errorf("%w: got %d", ErrOffset, off)
		}
	}
	if s.FillBlend <= 0 || s.FillBlend > 1 {
		return fmt.Errorf("%w: got %g", ErrBlend, s.FillBlend)
	}
	if s.DarkLuminance <= 0 || s.DarkLuminance > 1 {
		return fmt.Errorf("%w: dark_luminance %g out of (0,1]", ErrBlend, s.DarkLuminance)
	}
	if _, err := parseColor(s.ManyColor); err != nil {
		return fmt.Errorf("%w: many_color %q", ErrColor, s.ManyColor)
	}
	return nil
}

// Load reads a TOML style pack, overlaying it on the defaults.
// Fields absent from the file keep their default values.
func Load(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("reading style pack %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a TOML style pack from raw bytes.
func Parse(data []byte) (Style, error) {
	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Style{}, fmt.Errorf("parsing style pack: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Style{}, err
	}
	return s, nil
}
