package display

import (
	"strings"
	"testing"
	"time"

	"github.com/auralab/companion/internal/aura"
	"github.com/auralab/companion/internal/conversation"
)

func TestRenderMessagesKeepsNewest(t *testing.T) {
	msgs := make([]conversation.Message, 0, 20)
	for i := 0; i < 20; i++ {
		msgs = append(msgs, conversation.Message{
			Content:    string(rune('a' + i)),
			Timestamp:  time.Now(),
			IsFromUser: i%2 == 0,
		})
	}

	lines := renderMessages(msgs, "Aurora", 5)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[4], "t") {
		t.Fatalf("expected newest message last, got %q", lines[4])
	}
}

func TestRenderMessagesLabelsSpeakers(t *testing.T) {
	msgs := []conversation.Message{
		{Content: "hi", IsFromUser: true},
		{Content: "hello", IsFromUser: false},
	}

	lines := renderMessages(msgs, "Aurora", 10)
	if !strings.Contains(lines[0], "you>") {
		t.Fatalf("expected user label, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Aurora>") {
		t.Fatalf("expected companion label, got %q", lines[1])
	}
}

func TestRenderAuraBarWidth(t *testing.T) {
	stops := aura.New(aura.DefaultOptions()).Default()

	bar := renderAuraBar(stops, 10)
	if bar == "" {
		t.Fatal("expected a rendered bar")
	}
	// One cell per column regardless of styling bytes.
	if got := strings.Count(bar, " "); got != 10 {
		t.Fatalf("expected 10 cells, got %d", got)
	}
}
