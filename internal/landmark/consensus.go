package landmark

import "fmt"

// Consensus fuses repeated annotations of the same target into a single
// averaged point set. Position i of the result is the coordinate-wise
// mean over exactly those inputs long enough to cover it, so the output
// has the maximum input length and shorter sets simply stop contributing
// where they end. A single input set is returned unchanged (as a copy).
func Consensus(sets []PointSet) (PointSet, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("consensus: %w", ErrInvalidInput)
	}

	maxLen := 0
	for _, s := range sets {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}

	out := make(PointSet, maxLen)
	for i := range out {
		var sumX, sumY float64
		count := 0
		for _, s := range sets {
			if i < len(s) {
				sumX += s[i].X
				sumY += s[i].Y
				count++
			}
		}
		out[i] = Point{X: sumX / float64(count), Y: sumY / float64(count)}
	}
	return out, nil
}
