package core

import (
	"strings"
)

// ColorKind tags the variant held by a ColorSpec.
type ColorKind uint8

const (
	ColorUnknown ColorKind = iota
	ColorHex
	ColorHsl
)

// ColorSpec is a color parsed once at the ingestion boundary, so the draw
// path never re-parses strings per frame. Unknown is a legitimate variant:
// it resolves to opaque black by policy, it is not an error.
type ColorSpec struct {
	Kind ColorKind

	// Hex payload, valid when Kind == ColorHex.
	R, G, B uint8

	// Hsl payload, valid when Kind == ColorHsl. H in degrees, S and L in
	// percent. H keeps fractional precision; S and L are integers (the
	// parse intentionally truncates them, see ParseColorSpec).
	H    float32
	S, L int
}

// RGBA is a normalized color, channels in [0, 1].
type RGBA [4]float32

var black = RGBA{0, 0, 0, 1}

// ParseColorSpec classifies a color string into a ColorSpec.
//
// Supported forms:
//
//	#RRGGBB
//	hsl(H, S%, L%)
//
// Numeric fields parse as prefixes: hue takes a leading float ("0.5" works),
// saturation and lightness take leading integer digits only ("50.5%" reads
// as 50, "100%" as 100). Anything else yields the Unknown variant.
func ParseColorSpec(s string) ColorSpec {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "hsl(") && strings.HasSuffix(s, ")"):
		return parseHsl(s[len("hsl(") : len(s)-1])
	default:
		return ColorSpec{Kind: ColorUnknown}
	}
}

// Resolve converts the color spec to normalized RGBA. Alpha is always 1.
func (c ColorSpec) Resolve() RGBA {
	switch c.Kind {
	case ColorHex:
		return RGBA{
			float32(c.R) / 255.0,
			float32(c.G) / 255.0,
			float32(c.B) / 255.0,
			1.0,
		}
	case ColorHsl:
		r, g, b := hslToRGB(c.H/360.0, float32(c.S)/100.0, float32(c.L)/100.0)
		return RGBA{r, g, b, 1.0}
	default:
		return black
	}
}

func parseHex(s string) ColorSpec {
	if len(s) != 7 {
		return ColorSpec{Kind: ColorUnknown}
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(s[1+i*2])
		lo, ok2 := hexDigit(s[2+i*2])
		if !ok1 || !ok2 {
			return ColorSpec{Kind: ColorUnknown}
		}
		ch[i] = hi<<4 | lo
	}
	return ColorSpec{Kind: ColorHex, R: ch[0], G: ch[1], B: ch[2]}
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func parseHsl(args string) ColorSpec {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return ColorSpec{Kind: ColorUnknown}
	}
	h, ok := floatPrefix(strings.TrimSpace(parts[0]))
	if !ok {
		return ColorSpec{Kind: ColorUnknown}
	}
	s, ok := intPrefix(strings.TrimSpace(parts[1]))
	if !ok {
		return ColorSpec{Kind: ColorUnknown}
	}
	l, ok := intPrefix(strings.TrimSpace(parts[2]))
	if !ok {
		return ColorSpec{Kind: ColorUnknown}
	}
	return ColorSpec{Kind: ColorHsl, H: h, S: s, L: l}
}

// floatPrefix reads the longest leading decimal float, ignoring whatever
// trails it ("50%" reads as 50, "1.5rad" as 1.5).
func floatPrefix(s string) (float32, bool) {
	end := 0
	seenDot := false
	for end < len(s) {
		b := s[end]
		if b >= '0' && b <= '9' {
			end++
			continue
		}
		if b == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	if end == 0 || s[:end] == "." {
		return 0, false
	}
	var whole, frac float32
	scale := float32(1)
	inFrac := false
	for i := 0; i < end; i++ {
		if s[i] == '.' {
			inFrac = true
			continue
		}
		d := float32(s[i] - '0')
		if inFrac {
			scale /= 10
			frac += d * scale
		} else {
			whole = whole*10 + d
		}
	}
	return whole + frac, true
}

// intPrefix reads leading decimal digits only. A fractional part is
// truncated, not rounded: "50.9%" reads as 50.
func intPrefix(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n := 0
	for i := 0; i < end; i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}

// hslToRGB converts h, s, l in [0, 1] to RGB. Achromatic shortcut when s is
// zero, otherwise the six-segment hue helper.
func hslToRGB(h, s, l float32) (r, g, b float32) {
	if s == 0 {
		return l, l, l
	}
	var q float32
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = hueToRGB(p, q, h+1.0/3.0)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3.0)
	return r, g, b
}

func hueToRGB(p, q, t float32) float32 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
