// Package subtitle burns styled story text into scene images. Each call
// composes one frame: the source image with a word-wrapped, positioned
// subtitle block drawn over it.
package subtitle

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Placement controls where the subtitle block sits on the frame.
type Placement string

const (
	PlacementTop    Placement = "top"
	PlacementMiddle Placement = "middle"
	PlacementBottom Placement = "bottom"
)

// Background controls the fill drawn behind the subtitle block. Gradient
// currently renders as a flat semi-transparent fill, slightly lighter than
// solid; it is a named simplification, not a true gradient.
type Background string

const (
	BackgroundNone     Background = "none"
	BackgroundSolid    Background = "solid"
	BackgroundGradient Background = "gradient"
)

// Style is the per-job subtitle configuration.
type Style struct {
	Font       string     `json:"font"`
	Color      string     `json:"color"`
	Placement  Placement  `json:"placement"`
	Background Background `json:"background"`
}

// Validate rejects unknown placement or background variants.
func (s Style) Validate() error {
	switch s.Placement {
	case PlacementTop, PlacementMiddle, PlacementBottom:
	default:
		return fmt.Errorf("invalid placement %q", s.Placement)
	}
	switch s.Background {
	case BackgroundNone, BackgroundSolid, BackgroundGradient:
	default:
		return fmt.Errorf("invalid background %q", s.Background)
	}
	return nil
}

var namedColors = map[string]color.NRGBA{
	"white":   {255, 255, 255, 255},
	"black":   {0, 0, 0, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 255, 0, 255},
	"blue":    {0, 128, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
	"orange":  {255, 165, 0, 255},
	"gold":    {255, 215, 0, 255},
}

// ParseColor resolves a subtitle color from a name or a hex value
// ("#RRGGBB" or "0xRRGGBB"). Unknown values fall back to white so a bad
// color choice never fails a render.
func ParseColor(value string) color.NRGBA {
	v := strings.ToLower(strings.TrimSpace(value))
	if c, ok := namedColors[v]; ok {
		return c
	}

	v = strings.TrimPrefix(strings.TrimPrefix(v, "#"), "0x")
	if len(v) == 6 {
		if n, err := strconv.ParseUint(v, 16, 32); err == nil {
			return color.NRGBA{uint8(n >> 16), uint8(n >> 8), uint8(n), 255}
		}
	}

	return namedColors["white"]
}
