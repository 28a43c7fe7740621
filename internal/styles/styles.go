// Package styles holds the fixed caption style catalog. Styles are seeded by
// a database migration and read-only at runtime; the agent never creates or
// mutates them.
package styles

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"unicode"
)

// DefaultStyleID is the catalog entry active before the user picks one.
const DefaultStyleID = "impact"

// Case transform values.
const (
	CaseUppercase  = "uppercase"
	CaseCapitalize = "capitalize"
	CaseNone       = "none"
)

// Animation kinds.
const (
	AnimationPop   = "pop"
	AnimationSlide = "slide"
	AnimationGlow  = "glow"
)

// Style is one immutable caption presentation preset.
type Style struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Font           string `json:"font"`
	Color          string `json:"color"`
	SecondaryColor string `json:"secondary_color"`
	Shadow         string `json:"shadow"`
	Case           string `json:"case"`
	Animation      string `json:"animation"`
}

// Apply transforms word according to the style's case setting.
func (s *Style) Apply(word string) string {
	switch s.Case {
	case CaseUppercase:
		return strings.ToUpper(word)
	case CaseCapitalize:
		return capitalize(word)
	default:
		return word
	}
}

func capitalize(s string) string {
	runes := []rune(s)
	prevSpace := true
	for i, r := range runes {
		if prevSpace {
			runes[i] = unicode.ToUpper(r)
		}
		prevSpace = unicode.IsSpace(r)
	}
	return string(runes)
}

// ParseColor parses a #RRGGBB hex color. Invalid input yields opaque white so
// a bad catalog row degrades visibly instead of failing a render tick.
func ParseColor(hex string) color.RGBA {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return white
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return white
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}

func validCase(c string) bool {
	return c == CaseUppercase || c == CaseCapitalize || c == CaseNone
}

func validAnimation(a string) bool {
	return a == AnimationPop || a == AnimationSlide || a == AnimationGlow
}

func validate(s *Style) error {
	if !validCase(s.Case) {
		return fmt.Errorf("style %s: unknown case %q", s.ID, s.Case)
	}
	if !validAnimation(s.Animation) {
		return fmt.Errorf("style %s: unknown animation %q", s.ID, s.Animation)
	}
	return nil
}
