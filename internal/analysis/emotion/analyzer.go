// Package emotion infers per-axis mood deltas from conversation text. The
// dev backend uses it as its emotion simulator when no language model is
// configured; it is deliberately heuristic.
package emotion

import (
	"strings"

	model "github.com/auralab/companion/internal/model/emotion"
)

// delta is a signed nudge applied to one mood axis per keyword hit.
type delta struct {
	axis  string
	value int
}

var keywordBuckets = map[string][]delta{
	"happy":      {{"Joy", 8}, {"Energy", 4}, {"Sadness", -6}},
	"glad":       {{"Joy", 6}, {"Affection", 2}},
	"love":       {{"Affection", 10}, {"Joy", 4}},
	"thank":      {{"Affection", 5}, {"Joy", 3}},
	"great":      {{"Joy", 5}, {"Energy", 3}},
	"awesome":    {{"Joy", 7}, {"Energy", 6}},
	"excited":    {{"Energy", 10}, {"Joy", 5}, {"Calm", -5}},
	"can't wait": {{"Energy", 8}, {"Curiosity", 4}},
	"sad":        {{"Sadness", 10}, {"Joy", -6}, {"Energy", -4}},
	"lonely":     {{"Sadness", 8}, {"Affection", -4}},
	"miss you":   {{"Sadness", 5}, {"Affection", 6}},
	"cry":        {{"Sadness", 10}, {"Calm", -4}},
	"tired":      {{"Energy", -8}, {"Calm", 2}},
	"angry":      {{"Anger", 10}, {"Calm", -8}},
	"furious":    {{"Anger", 12}, {"Calm", -10}},
	"annoyed":    {{"Anger", 6}, {"Calm", -4}},
	"hate":       {{"Anger", 8}, {"Affection", -6}},
	"scared":     {{"Fear", 10}, {"Calm", -6}},
	"afraid":     {{"Fear", 8}, {"Calm", -4}},
	"worried":    {{"Fear", 6}, {"Calm", -5}},
	"nervous":    {{"Fear", 5}, {"Energy", 2}},
	"curious":    {{"Curiosity", 8}},
	"wonder":     {{"Curiosity", 6}},
	"calm":       {{"Calm", 8}, {"Anger", -4}},
	"relax":      {{"Calm", 6}, {"Fear", -3}},
	"peaceful":   {{"Calm", 8}, {"Sadness", -2}},
	"safe":       {{"Calm", 5}, {"Fear", -6}},
}

// exclamationBoost rewards energetic punctuation the way excited text reads.
var exclamationBoost = []delta{{"Energy", 3}, {"Joy", 1}}

// MoodDeltas scores the user utterance and the AI reply and returns the
// combined signed nudges per axis. The user's words weigh double: the
// simulated companion reacts to the user more than to itself.
func MoodDeltas(userUtterance, aiUtterance string) model.Vector {
	deltas := make(model.Vector, len(model.Axes))
	accumulate(deltas, userUtterance, 2)
	accumulate(deltas, aiUtterance, 1)
	return deltas
}

func accumulate(into model.Vector, text string, weight int) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return
	}

	for keyword, nudges := range keywordBuckets {
		if !strings.Contains(normalized, keyword) {
			continue
		}
		for _, d := range nudges {
			into[d.axis] += d.value * weight
		}
	}

	if exclamations := strings.Count(text, "!"); exclamations > 0 {
		if exclamations > 3 {
			exclamations = 3
		}
		for _, d := range exclamationBoost {
			into[d.axis] += d.value * exclamations * weight
		}
	}
}

// Apply folds deltas into the current mood, scaled by sensitivity in
// [0,100], after a decay step pulling every axis slightly toward zero.
// The result is clamped to the bipolar range.
func Apply(current, deltas model.Vector, sensitivity int) model.Vector {
	if sensitivity < 0 {
		sensitivity = 0
	}
	if sensitivity > 100 {
		sensitivity = 100
	}

	next := make(model.Vector, len(model.Axes))
	for _, axis := range model.Axes {
		val := current[axis]
		// Mood drifts back toward neutral between exchanges.
		val -= val / 10
		val += deltas[axis] * sensitivity / 50
		next[axis] = val
	}
	return model.ClampMood(next)
}
