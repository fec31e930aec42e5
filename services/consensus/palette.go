package consensus

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"genotyper/api/models"
)

// Palette maps a call onto a display color. The depth gradient is
// disabled unless GradientMaxDepth > GradientMinDepth.
type Palette struct {
	SynonymousColor    string
	NonSynonymousColor string
	FrameshiftColor    string
	GradientMinDepth   float64
	GradientMaxDepth   float64
	GradientLowColor   string
}

var DefaultPalette = Palette{
	SynonymousColor:    "#0000FF",
	NonSynonymousColor: "#FF0000",
	FrameshiftColor:    "#FF9900",
	GradientLowColor:   "#DDDDDD",
}

func PaletteFromConfig(cfg *models.Config) Palette {
	if cfg == nil {
		return DefaultPalette
	}
	p := cfg.Palette
	return Palette{
		SynonymousColor:    p.SynonymousColor,
		NonSynonymousColor: p.NonSynonymousColor,
		FrameshiftColor:    p.FrameshiftColor,
		GradientMinDepth:   p.GradientMinDepth,
		GradientMaxDepth:   p.GradientMaxDepth,
		GradientLowColor:   p.GradientLowColor,
	}
}

func IsGap(residue string) bool {
	return residue == "" || residue == "-" || residue == "."
}

// ColorFor styles a called residue
func (p Palette) ColorFor(residue string, refResidue string, frameshift bool, depth float64) string {
	var base string
	switch {
	case strings.EqualFold(residue, refResidue) && !IsGap(refResidue):
		base = p.SynonymousColor
	case frameshift || IsGap(refResidue):
		base = p.FrameshiftColor
	default:
		base = p.NonSynonymousColor
	}
	return p.shade(base, depth)
}

func (p Palette) shade(base string, depth float64) string {
	if p.GradientMaxDepth <= p.GradientMinDepth {
		return base
	}

	fraction := (depth - p.GradientMinDepth) / (p.GradientMaxDepth - p.GradientMinDepth)
	fraction = math.Max(0, math.Min(1, fraction))

	blended, err := Interpolate(p.GradientLowColor, base, fraction)
	if err != nil {
		return base
	}
	return blended
}

// Interpolate linearly blends two #RRGGBB colors; fraction 0 yields from,
// 1 yields to.
func Interpolate(from string, to string, fraction float64) (string, error) {
	a, err := parseHex(from)
	if err != nil {
		return "", err
	}
	b, err := parseHex(to)
	if err != nil {
		return "", err
	}

	var out [3]int
	for i := range out {
		out[i] = int(math.Round(float64(a[i]) + (float64(b[i])-float64(a[i]))*fraction))
	}
	return fmt.Sprintf("#%02X%02X%02X", out[0], out[1], out[2]), nil
}

func parseHex(color string) ([3]int, error) {
	var rgb [3]int
	hex := strings.TrimPrefix(color, "#")
	if len(hex) != 6 {
		return rgb, fmt.Errorf("invalid color %q", color)
	}
	for i := range rgb {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return rgb, fmt.Errorf("invalid color %q", color)
		}
		rgb[i] = int(v)
	}
	return rgb, nil
}
