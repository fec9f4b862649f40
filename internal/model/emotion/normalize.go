package emotion

// Normalize scales a unipolar distribution so its values sum to exactly 100.
//
// Every axis except the last gets floor(value/total*100); the last axis in
// Axes order absorbs whatever remains. Concentrating the rounding error on
// the final axis keeps the result bit-compatible with distributions stored
// by earlier builds. A zero or negative total cannot be normalized and
// returns the input unchanged (as a copy), which is a defined no-op.
func Normalize(raw Vector) Vector {
	total := 0
	for _, name := range Axes {
		total += raw[name]
	}
	if total <= 0 {
		return raw.Clone()
	}

	out := make(Vector, len(Axes))
	running := 0
	for i, name := range Axes {
		if i == len(Axes)-1 {
			out[name] = 100 - running
			break
		}
		val := raw[name] * 100 / total
		out[name] = val
		running += val
	}
	return out
}

// IsNormalized reports whether a unipolar distribution already sums to 100
// with every axis in [0, 100].
func IsNormalized(v Vector) bool {
	total := 0
	for _, name := range Axes {
		val := v[name]
		if val < 0 || val > 100 {
			return false
		}
		total += val
	}
	return total == 100
}
