package aura

import (
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/auralab/companion/internal/model/emotion"
)

// Idle returns a decorative gradient of n randomly chosen palette colors at
// even spacing. It is explicitly non-deterministic and is only used for
// idle screens; emotion-driven gradients always go through Mood/Base.
func Idle(n int) []Stop {
	if n < 2 {
		n = 2
	}
	colors := make([]colorful.Color, 0, len(emotion.Axes))
	for _, axis := range emotion.Axes {
		colors = append(colors, baseColors[axis])
	}
	rand.Shuffle(len(colors), func(i, j int) {
		colors[i], colors[j] = colors[j], colors[i]
	})
	if n > len(colors) {
		n = len(colors)
	}

	stops := make([]Stop, 0, n)
	for i := 0; i < n; i++ {
		stops = append(stops, Stop{
			Color:    colors[i],
			Opacity:  0.5,
			Location: float64(i) / float64(n-1),
		})
	}
	return stops
}
