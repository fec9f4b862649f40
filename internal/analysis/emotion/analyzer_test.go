package emotion

import (
	"testing"

	model "github.com/auralab/companion/internal/model/emotion"
)

func TestMoodDeltasSadUser(t *testing.T) {
	deltas := MoodDeltas("I feel so sad and lonely today", "I'm right here with you")
	if deltas["Sadness"] <= 0 {
		t.Fatalf("expected positive Sadness delta, got %d", deltas["Sadness"])
	}
	if deltas["Joy"] >= 0 {
		t.Fatalf("expected negative Joy delta, got %d", deltas["Joy"])
	}
}

func TestMoodDeltasExcitedUser(t *testing.T) {
	deltas := MoodDeltas("This is awesome!!! I'm so excited", "That is great news!")
	if deltas["Energy"] <= 0 || deltas["Joy"] <= 0 {
		t.Fatalf("expected positive Energy and Joy, got %v", deltas)
	}
}

func TestMoodDeltasUserWeighsDouble(t *testing.T) {
	userOnly := MoodDeltas("I am happy", "")
	aiOnly := MoodDeltas("", "I am happy")
	if userOnly["Joy"] != 2*aiOnly["Joy"] {
		t.Fatalf("user weight wrong: user=%d ai=%d", userOnly["Joy"], aiOnly["Joy"])
	}
}

func TestMoodDeltasEmptyText(t *testing.T) {
	deltas := MoodDeltas("", "   ")
	if !deltas.IsZero() {
		t.Fatalf("expected zero deltas, got %v", deltas)
	}
}

func TestApplyClampsAndScales(t *testing.T) {
	current := model.Vector{"Joy": 95}
	deltas := model.Vector{"Joy": 50}

	next := Apply(current, deltas, 100)
	if next["Joy"] != 100 {
		t.Fatalf("expected clamp at 100, got %d", next["Joy"])
	}

	insensitive := Apply(current, deltas, 0)
	if insensitive["Joy"] >= 95 {
		t.Fatalf("expected decay with zero sensitivity, got %d", insensitive["Joy"])
	}
}

func TestApplyDecaysTowardNeutral(t *testing.T) {
	current := model.Vector{"Anger": -60}
	next := Apply(current, model.Vector{}, 50)
	if next["Anger"] <= -60 || next["Anger"] > 0 {
		t.Fatalf("expected decay toward zero, got %d", next["Anger"])
	}
}
