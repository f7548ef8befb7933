package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var rgbRegex = regexp.MustCompile(`^#([a-fA-F0-9]{2})([a-fA-F0-9]{2})([a-fA-F0-9]{2})$`)

var namedColors = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"default": color.Reset,
}

// ParseColor accepts a colour name or a #rrggbb value.
func ParseColor(name string) (*color.Color, error) {
	if m := rgbRegex.FindStringSubmatch(name); m != nil {
		r, _ := strconv.ParseUint(m[1], 16, 8)
		g, _ := strconv.ParseUint(m[2], 16, 8)
		b, _ := strconv.ParseUint(m[3], 16, 8)
		return color.RGB(int(r), int(g), int(b)), nil
	}

	if attr, ok := namedColors[strings.ToLower(name)]; ok {
		return color.New(attr), nil
	}
	return nil, fmt.Errorf("unknown color: %s", name)
}

// Palette holds the colours used for report output.
type Palette struct {
	Tagged   *color.Color
	Untagged *color.Color
	Mistake  *color.Color
	Clean    *color.Color
	Title    *color.Color
}

// NewPalette resolves colour names for tagged labels, untagged labels and
// mistakes.
func NewPalette(tagged, untagged, mistake string) (*Palette, error) {
	p := &Palette{
		Clean: color.New(color.FgHiGreen),
		Title: color.New(color.Bold, color.FgHiWhite),
	}

	var err error
	if p.Tagged, err = ParseColor(tagged); err != nil {
		return nil, err
	}
	if p.Untagged, err = ParseColor(untagged); err != nil {
		return nil, err
	}
	if p.Mistake, err = ParseColor(mistake); err != nil {
		return nil, err
	}
	return p, nil
}
