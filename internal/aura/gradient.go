// Package aura derives the ambient color field rendered behind a
// conversation from the live emotion vector. Derivation is pure: the same
// vector always yields the same stop sequence.
package aura

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/auralab/companion/internal/model/emotion"
)

// Stop is one color stop of the aura gradient. Locations ascend over [0,1].
type Stop struct {
	Color    colorful.Color
	Opacity  float64
	Location float64
}

// Hex returns the stop color as an RGB hex string for the view layer.
func (s Stop) Hex() string {
	return s.Color.Hex()
}

// Options tune derivation. The proportional-arc placement is fixed; only
// the inclusion threshold and the opacity formulas are configurable. The
// single- and multi-emotion branches intentionally keep distinct opacity
// formulas.
type Options struct {
	Threshold   float64
	SingleBase  float64
	SingleScale float64
	MultiBase   float64
	MultiScale  float64
}

// DefaultOptions returns the production tuning.
func DefaultOptions() Options {
	return Options{
		Threshold:   0.05,
		SingleBase:  0.6,
		SingleScale: 0.4,
		MultiBase:   0.7,
		MultiScale:  0.3,
	}
}

// Deriver converts emotion vectors into gradient stop sequences.
type Deriver struct {
	opts Options
}

// New creates a Deriver with the given options.
func New(opts Options) *Deriver {
	return &Deriver{opts: opts}
}

// weighted pairs a rendered color with its normalized intensity share.
type weighted struct {
	color     colorful.Color
	intensity float64
}

// Default returns the flat two-stop neutral gradient.
func (d *Deriver) Default() []Stop {
	return []Stop{
		{Color: neutral, Opacity: d.opts.SingleBase, Location: 0},
		{Color: neutral, Opacity: d.opts.SingleBase, Location: 1},
	}
}

// Mood derives the gradient for a bipolar mood vector. Intensity is
// |value|/100 and the rendered color interpolates between the axis poles.
func (d *Deriver) Mood(v emotion.Vector) []Stop {
	weights := make([]weighted, 0, len(emotion.Axes))
	for _, axis := range emotion.Axes {
		val, ok := v[axis]
		if !ok {
			continue
		}
		intensity := float64(val) / 100
		if intensity < 0 {
			intensity = -intensity
		}
		if intensity <= d.opts.Threshold {
			continue
		}
		c, ok := moodColor(axis, val)
		if !ok {
			continue
		}
		weights = append(weights, weighted{color: c, intensity: intensity})
	}
	return d.emit(weights)
}

// Base derives the gradient for a unipolar persona distribution. Each axis
// maps to one fixed color and intensity is value/100.
func (d *Deriver) Base(v emotion.Vector) []Stop {
	weights := make([]weighted, 0, len(emotion.Axes))
	for _, axis := range emotion.Axes {
		val, ok := v[axis]
		if !ok {
			continue
		}
		intensity := float64(val) / 100
		if intensity <= d.opts.Threshold {
			continue
		}
		c, ok := baseColors[axis]
		if !ok {
			continue
		}
		weights = append(weights, weighted{color: c, intensity: intensity})
	}
	return d.emit(weights)
}

// emit turns the filtered weights into an ordered stop sequence. Weights
// arrive in fixed axis order so the descending sort is stable across calls.
func (d *Deriver) emit(weights []weighted) []Stop {
	if len(weights) == 0 {
		return d.Default()
	}

	sort.SliceStable(weights, func(i, j int) bool {
		return weights[i].intensity > weights[j].intensity
	})

	if len(weights) == 1 {
		w := weights[0]
		op := d.opts.SingleBase + w.intensity*d.opts.SingleScale
		return []Stop{
			{Color: w.color, Opacity: op, Location: 0},
			{Color: w.color, Opacity: op, Location: 1},
		}
	}

	total := 0.0
	for _, w := range weights {
		total += w.intensity
	}

	stops := make([]Stop, 0, len(weights)+1)
	stops = append(stops, Stop{
		Color:    weights[0].color,
		Opacity:  d.multiOpacity(weights[0].intensity),
		Location: 0,
	})
	cumulative := 0.0
	for _, w := range weights {
		cumulative += w.intensity / total
		loc := cumulative
		if loc > 1 {
			loc = 1
		}
		stops = append(stops, Stop{
			Color:    w.color,
			Opacity:  d.multiOpacity(w.intensity),
			Location: loc,
		})
	}

	stops = dedupeStops(stops)
	return padStops(stops)
}

func (d *Deriver) multiOpacity(intensity float64) float64 {
	return d.opts.MultiBase + intensity*d.opts.MultiScale
}

// dedupeStops collapses consecutive stops sharing a numerically equal
// location, keeping the later color. Only locations are compared.
func dedupeStops(stops []Stop) []Stop {
	out := stops[:0]
	for _, s := range stops {
		if len(out) > 0 && out[len(out)-1].Location == s.Location {
			out[len(out)-1] = s
			continue
		}
		out = append(out, s)
	}
	return out
}

// padStops enforces the postcondition: at least two stops and a final stop
// at location 1.
func padStops(stops []Stop) []Stop {
	if len(stops) == 0 {
		return stops
	}
	last := stops[len(stops)-1]
	if last.Location < 1 || len(stops) < 2 {
		stops = append(stops, Stop{Color: last.Color, Opacity: last.Opacity, Location: 1})
	}
	return stops
}

// Sample interpolates the gradient at position t in [0,1]. Used by the
// terminal client to paint the aura bar cell by cell.
func Sample(stops []Stop, t float64) colorful.Color {
	if len(stops) == 0 {
		return neutral
	}
	if t <= stops[0].Location {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Location {
			prev, next := stops[i-1], stops[i]
			span := next.Location - prev.Location
			if span <= 0 {
				return next.Color
			}
			frac := (t - prev.Location) / span
			return prev.Color.BlendRgb(next.Color, frac)
		}
	}
	return stops[len(stops)-1].Color
}
