package chat

import (
	"fmt"
	"strings"

	"github.com/auralab/companion/internal/model/emotion"
	"github.com/auralab/companion/internal/model/persona"
	"github.com/auralab/companion/internal/service/ai"
)

// cannedReply produces a deterministic multi-line reply for development
// runs without a configured model. The opener tracks the dominant mood
// axis so client-side gradients have something to react to.
func cannedReply(p persona.Persona, mood emotion.Vector, message string) string {
	name := p.Name
	if name == "" {
		name = "Companion"
	}

	opener := "I'm here with you."
	axis, value := dominantAxis(mood)
	switch {
	case value >= 40:
		opener = fmt.Sprintf("I'm feeling a lot of %s right now.", strings.ToLower(axis))
	case value <= -40:
		opener = fmt.Sprintf("My %s is running low today.", strings.ToLower(axis))
	}

	topic := strings.TrimSpace(message)
	if r := []rune(topic); len(r) > 60 {
		topic = string(r[:60])
	}

	lines := []string{
		opener,
		fmt.Sprintf("You said: %q.", topic),
		fmt.Sprintf("Tell me more, %s is listening.", name),
	}
	return strings.Join(lines, "\n")
}

// dominantAxis picks the axis with the largest absolute value, resolving
// ties by axis order.
func dominantAxis(mood emotion.Vector) (string, int) {
	best, bestVal := "", 0
	for _, axis := range emotion.Axes {
		v := mood[axis]
		if best == "" || abs(v) > abs(bestVal) {
			best, bestVal = axis, v
		}
	}
	return best, bestVal
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// summarizeHistory folds a finished session into the running memory
// string. A real backend would ask the model to summarize; the dev stub
// keeps the last few exchanges verbatim.
func summarizeHistory(memory string, history []ai.Exchange) string {
	const keep = 3
	start := 0
	if len(history) > keep {
		start = len(history) - keep
	}

	var b strings.Builder
	if memory != "" {
		b.WriteString(memory)
		b.WriteString("\n")
	}
	for _, ex := range history[start:] {
		fmt.Fprintf(&b, "User said %q and I replied %q.\n", ex.UserText, ex.AIText)
	}
	return strings.TrimRight(b.String(), "\n")
}
