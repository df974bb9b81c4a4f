// Package predict computes ball frequencies over a draw history and generates
// frequency-weighted number combinations from them.
package predict

import (
	"slices"

	"lottery-predictor/internal/lottery"
)

// NumberFrequency is how often a ball value occurred in a historical window.
type NumberFrequency struct {
	Number    int `json:"number"`
	Frequency int `json:"frequency"`
}

// Frequency counts the occurrences of each distinct value in numbers.
// The result is ordered by frequency, highest first; values with equal frequency
// keep the order in which they first appeared.
func Frequency(numbers []int) []NumberFrequency {
	index := make(map[int]int)
	freqs := make([]NumberFrequency, 0)
	for _, n := range numbers {
		if i, ok := index[n]; ok {
			freqs[i].Frequency++
			continue
		}
		index[n] = len(freqs)
		freqs = append(freqs, NumberFrequency{Number: n, Frequency: 1})
	}

	slices.SortStableFunc(freqs, func(a, b NumberFrequency) int {
		return b.Frequency - a.Frequency
	})
	return freqs
}

// MainNumbers flattens the main balls of records in record order.
func MainNumbers(records []lottery.DrawRecord) []int {
	var out []int
	for _, r := range records {
		out = append(out, r.MainBalls...)
	}
	return out
}

// SupplementNumbers flattens the supplement balls of records in record order.
func SupplementNumbers(records []lottery.DrawRecord) []int {
	var out []int
	for _, r := range records {
		out = append(out, r.SupplementBalls...)
	}
	return out
}

// Analysis is the frequency table of both ball groups over one historical window.
type Analysis struct {
	Window     int               `json:"window"`
	Main       []NumberFrequency `json:"main"`
	Supplement []NumberFrequency `json:"supplement"`
}

// Analyze builds the frequency tables for all records but the excludeRecent newest.
func Analyze(records []lottery.DrawRecord, excludeRecent int) Analysis {
	window := lottery.HistoricalWindow(records, excludeRecent)
	return Analysis{
		Window:     len(window),
		Main:       Frequency(MainNumbers(window)),
		Supplement: Frequency(SupplementNumbers(window)),
	}
}
