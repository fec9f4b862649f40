package aura

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// polePair holds the rendered colors for the two ends of a bipolar axis.
type polePair struct {
	neg colorful.Color
	pos colorful.Color
}

// moodPoles maps each emotion axis to its negative/positive pole colors.
var moodPoles = map[string]polePair{
	"Joy":       {mustHex("#5C6672"), mustHex("#FFD166")},
	"Sadness":   {mustHex("#8A93A6"), mustHex("#4C6FBF")},
	"Anger":     {mustHex("#9A8C98"), mustHex("#E4572E")},
	"Fear":      {mustHex("#AAB4C4"), mustHex("#7B2D8B")},
	"Affection": {mustHex("#98A4B5"), mustHex("#F28AB2")},
	"Curiosity": {mustHex("#9AA5A1"), mustHex("#3BB4A1")},
	"Energy":    {mustHex("#6E7B8B"), mustHex("#FF8C42")},
	"Calm":      {mustHex("#7A8494"), mustHex("#79C7C0")},
}

// baseColors maps each axis to the single color used for unipolar
// persona distributions. These are the positive poles.
var baseColors = map[string]colorful.Color{
	"Joy":       mustHex("#FFD166"),
	"Sadness":   mustHex("#4C6FBF"),
	"Anger":     mustHex("#E4572E"),
	"Fear":      mustHex("#7B2D8B"),
	"Affection": mustHex("#F28AB2"),
	"Curiosity": mustHex("#3BB4A1"),
	"Energy":    mustHex("#FF8C42"),
	"Calm":      mustHex("#79C7C0"),
}

// neutral is the flat default gradient color used when no emotion qualifies.
var neutral = mustHex("#45506B")

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("aura: bad palette hex " + s)
	}
	return c
}

// moodColor blends the pole colors of an axis at t=(value+100)/200 and
// boosts saturation and brightness so near-neutral values stay legible.
func moodColor(axis string, value int) (colorful.Color, bool) {
	poles, ok := moodPoles[axis]
	if !ok {
		return colorful.Color{}, false
	}
	t := (float64(value) + 100) / 200
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	blended := poles.neg.BlendRgb(poles.pos, t)

	h, s, v := blended.Hsv()
	s = s*1.4 + 0.2
	if s > 1 {
		s = 1
	}
	v = v * 1.1
	if v < 0.3 {
		v = 0.3
	}
	if v > 1 {
		v = 1
	}
	return colorful.Hsv(h, s, v), true
}
