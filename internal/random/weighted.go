package random

import "fmt"

// WeightedInt is a discrete distribution over a fixed set of int values.
// Draws compare a single uniform float against the cumulative weight table,
// which keeps the distribution explicit and replayable instead of being
// buried in ad-hoc comparisons.
type WeightedInt struct {
	values []int
	cum    []float64
}

// NewWeightedInt builds a distribution from parallel value/weight slices.
// Weights must be positive; they are normalized internally so they do not
// have to sum to 1.
func NewWeightedInt(values []int, weights []float64) (*WeightedInt, error) {
	if len(values) == 0 || len(values) != len(weights) {
		return nil, fmt.Errorf("weighted distribution needs matching values and weights, got %d/%d", len(values), len(weights))
	}

	total := 0.0
	for _, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("weighted distribution weight must be positive, got %v", w)
		}
		total += w
	}

	d := &WeightedInt{
		values: append([]int(nil), values...),
		cum:    make([]float64, len(weights)),
	}

	running := 0.0
	for i, w := range weights {
		running += w / total
		d.cum[i] = running
	}
	// Guard against float drift on the last bucket.
	d.cum[len(d.cum)-1] = 1.0

	return d, nil
}

// MustWeightedInt is NewWeightedInt for static tables known to be valid.
func MustWeightedInt(values []int, weights []float64) *WeightedInt {
	d, err := NewWeightedInt(values, weights)
	if err != nil {
		panic(err)
	}
	return d
}

// Pick draws one value from the distribution using the provided source.
func (d *WeightedInt) Pick(r Source) int {
	f := r.Float64()
	for i, c := range d.cum {
		if f < c {
			return d.values[i]
		}
	}
	return d.values[len(d.values)-1]
}
