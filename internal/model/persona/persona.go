package persona

import (
	"github.com/auralab/companion/internal/model/emotion"
)

// Persona is a named, reusable companion configuration: a resting emotion
// distribution, a sensitivity dial, and free-form instructions.
type Persona struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	BaseEmotions       emotion.Vector `json:"baseEmotions"`
	Sensitivity        int            `json:"sensitivity"`
	CustomInstructions string         `json:"customInstructions,omitempty"`
}

// Clone returns a deep copy so callers can edit without touching the
// catalog document.
func (p Persona) Clone() Persona {
	out := p
	out.BaseEmotions = p.BaseEmotions.Clone()
	return out
}

// Seed provides the default personas shipped with the app. Distributions
// are authored by hand and run through Normalize so they sum to 100 by
// construction.
func Seed() []Persona {
	return []Persona{
		{
			ID:   "aurora",
			Name: "Aurora",
			BaseEmotions: emotion.Normalize(emotion.Vector{
				"Joy": 25, "Affection": 30, "Curiosity": 15, "Calm": 30,
			}),
			Sensitivity:        60,
			CustomInstructions: "Warm and attentive. Ask gentle follow-up questions and remember the small things.",
		},
		{
			ID:   "sage",
			Name: "Sage",
			BaseEmotions: emotion.Normalize(emotion.Vector{
				"Curiosity": 35, "Calm": 40, "Joy": 10, "Affection": 15,
			}),
			Sensitivity:        35,
			CustomInstructions: "Measured and thoughtful. Answer with questions as often as with statements.",
		},
		{
			ID:   "spark",
			Name: "Spark",
			BaseEmotions: emotion.Normalize(emotion.Vector{
				"Joy": 35, "Energy": 35, "Curiosity": 20, "Affection": 10,
			}),
			Sensitivity:        80,
			CustomInstructions: "Playful and quick. Keep replies short, punchy, and a little mischievous.",
		},
	}
}
