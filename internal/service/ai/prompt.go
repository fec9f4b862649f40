package ai

import (
	"fmt"
	"strings"

	"github.com/auralab/companion/internal/model/emotion"
	"github.com/auralab/companion/internal/model/persona"
)

// BuildSystemPrompt renders the persona configuration and current mood
// into the system message for the reply chain.
func BuildSystemPrompt(p persona.Persona, mood emotion.Vector) string {
	var builder strings.Builder

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "Companion"
	}
	fmt.Fprintf(&builder, "You are %s, a caring companion in an ongoing one-on-one chat.\n", name)
	builder.WriteString("Reply in a few short lines, each on its own line, the way a person sends several quick texts. Never write one long paragraph.\n")

	if base := describeDistribution(p.BaseEmotions); base != "" {
		builder.WriteString("\nYour resting temperament: ")
		builder.WriteString(base)
		builder.WriteString(".\n")
	}

	if current := describeMood(mood); current != "" {
		builder.WriteString("Your current mood: ")
		builder.WriteString(current)
		builder.WriteString(". Let it color your tone without naming it.\n")
	}

	fmt.Fprintf(&builder, "Emotional sensitivity: %d/100. Higher means you react more strongly to the user's feelings.\n", p.Sensitivity)

	if instructions := strings.TrimSpace(p.CustomInstructions); instructions != "" {
		builder.WriteString("\nAdditional instructions:\n")
		builder.WriteString(instructions)
		builder.WriteString("\n")
	}

	return builder.String()
}

// describeDistribution summarizes a unipolar distribution's dominant axes.
func describeDistribution(v emotion.Vector) string {
	parts := make([]string, 0, 3)
	for _, axis := range emotion.Axes {
		if v[axis] >= 20 {
			parts = append(parts, fmt.Sprintf("%s %d%%", strings.ToLower(axis), v[axis]))
		}
	}
	return strings.Join(parts, ", ")
}

// describeMood summarizes the strongest axes of a bipolar mood vector.
func describeMood(v emotion.Vector) string {
	parts := make([]string, 0, 3)
	for _, axis := range emotion.Axes {
		val := v[axis]
		switch {
		case val >= 40:
			parts = append(parts, "high "+strings.ToLower(axis))
		case val <= -40:
			parts = append(parts, "low "+strings.ToLower(axis))
		}
	}
	return strings.Join(parts, ", ")
}
