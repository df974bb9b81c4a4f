package predict

import "math"

// Source supplies uniform floats in [0, 1). *math/rand/v2.Rand satisfies it.
type Source interface {
	Float64() float64
}

// candidate is a working copy entry whose weight decays during selection.
type candidate struct {
	number int
	weight float64
}

func candidates(freqs []NumberFrequency) []candidate {
	out := make([]candidate, len(freqs))
	for i, f := range freqs {
		out[i] = candidate{number: f.Number, weight: float64(f.Frequency)}
	}
	return out
}

// weightedDraw walks the list subtracting weights from a draw over twice the total
// weight. When the walk runs out the first candidate is returned, so roughly half of
// all draws land on the head of the list. Callers rely on that bias.
func weightedDraw(list []candidate, src Source) int {
	total := 0.0
	for _, c := range list {
		total += c.weight
	}

	r := src.Float64() * total * 2
	for _, c := range list {
		r -= c.weight
		if r <= 0 {
			return c.number
		}
	}
	return list[0].number
}

// WeightedDraw performs one biased weighted draw over a frequency list.
// It panics on an empty list.
func WeightedDraw(freqs []NumberFrequency, src Source) int {
	return weightedDraw(candidates(freqs), src)
}

const (
	decayDistance = 2
	decayFactor   = 0.8
	minWeight     = 1
)

// decayNeighbours lowers the weight of candidates near a selected number.
func decayNeighbours(list []candidate, selected int) {
	for i := range list {
		c := &list[i]
		if c.number == selected {
			continue
		}
		d := c.number - selected
		if d < 0 {
			d = -d
		}
		if d <= decayDistance {
			c.weight = math.Max(minWeight, c.weight*decayFactor)
		}
	}
}
