// Package emotion defines the emotion vector types shared by the
// conversation engine, the aura deriver, and the persona catalog.
package emotion

// Axes is the fixed, ordered list of emotion axes. Normalization assigns
// the rounding remainder to the last axis, so this order is part of the
// persisted persona format and must not change.
var Axes = []string{
	"Joy",
	"Sadness",
	"Anger",
	"Fear",
	"Affection",
	"Curiosity",
	"Energy",
	"Calm",
}

// Vector maps emotion axis names to integer intensities. Two flavors share
// the type: bipolar "mood" vectors range -100..100 per axis, unipolar
// "base" distributions range 0..100 and sum to 100 once normalized.
type Vector map[string]int

// Clone returns an independent copy of the vector. A nil receiver yields nil.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// IsZero reports whether the vector is empty or all zero.
func (v Vector) IsZero() bool {
	for _, val := range v {
		if val != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two vectors carry the same values over Axes.
func (v Vector) Equal(other Vector) bool {
	for _, name := range Axes {
		if v[name] != other[name] {
			return false
		}
	}
	return true
}

// ClampMood clamps every axis of a bipolar mood vector into [-100, 100].
// Unknown axis names are dropped so a malformed backend snapshot cannot
// smuggle arbitrary keys into live state.
func ClampMood(raw Vector) Vector {
	if raw == nil {
		return nil
	}
	out := make(Vector, len(Axes))
	for _, name := range Axes {
		val, ok := raw[name]
		if !ok {
			continue
		}
		if val > 100 {
			val = 100
		}
		if val < -100 {
			val = -100
		}
		out[name] = val
	}
	return out
}
