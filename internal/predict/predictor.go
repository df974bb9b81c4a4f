package predict

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// Combinations is the number of predictions generated per run.
const Combinations = 6

var (
	ErrNoCandidates           = errors.New("no candidate numbers in frequency table")
	ErrInsufficientCandidates = errors.New("not enough distinct candidate numbers")
	ErrNegativeFrequency      = errors.New("negative frequency in frequency table")
)

// PredictionResult is one predicted combination.
type PredictionResult struct {
	MainBalls       []int `json:"mainBalls"`
	SupplementBalls []int `json:"supplementBalls"`
}

// Predictor generates combinations from main and supplement frequency tables.
type Predictor interface {
	GeneratePredictions(mainFreq, supplementFreq []NumberFrequency) ([]PredictionResult, error)
}

// WeightedPredictor draws combinations biased towards frequent numbers, softly
// discouraging numbers clustered around ones already picked.
type WeightedPredictor struct {
	MainCount       int
	SupplementCount int
	Rand            Source
}

// NewWeightedPredictor creates a predictor seeded from the process-wide random source.
func NewWeightedPredictor(mainCount, supplementCount int) *WeightedPredictor {
	return &WeightedPredictor{
		MainCount:       mainCount,
		SupplementCount: supplementCount,
		Rand:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// GeneratePredictions returns Combinations predictions. The frequency tables
// are never modified.
func (p *WeightedPredictor) GeneratePredictions(mainFreq, supplementFreq []NumberFrequency) ([]PredictionResult, error) {
	if err := checkCandidates(mainFreq, p.MainCount); err != nil {
		return nil, fmt.Errorf("main balls: %w", err)
	}
	if err := checkCandidates(supplementFreq, p.SupplementCount); err != nil {
		return nil, fmt.Errorf("supplement balls: %w", err)
	}

	predictions := make([]PredictionResult, 0, Combinations)
	for range Combinations {
		main := p.selectDistinct(candidates(mainFreq), p.MainCount)

		var supplement []int
		if p.SupplementCount == 1 {
			supplement = []int{weightedDraw(candidates(supplementFreq), p.Rand)}
		} else {
			supplement = p.selectDistinct(candidates(supplementFreq), p.SupplementCount)
		}

		predictions = append(predictions, PredictionResult{
			MainBalls:       main,
			SupplementBalls: supplement,
		})
	}
	return predictions, nil
}

// selectDistinct draws until count distinct numbers are picked, decaying the
// neighbours of every accepted number. The result is sorted ascending.
func (p *WeightedPredictor) selectDistinct(working []candidate, count int) []int {
	selected := make([]int, 0, count)
	for len(selected) < count {
		n := weightedDraw(working, p.Rand)
		if slices.Contains(selected, n) {
			continue
		}
		selected = append(selected, n)
		decayNeighbours(working, n)
	}
	slices.Sort(selected)
	return selected
}

func checkCandidates(freqs []NumberFrequency, count int) error {
	if count <= 0 {
		return nil
	}
	if len(freqs) == 0 {
		return ErrNoCandidates
	}
	// only numbers with a positive weight can ever be drawn
	distinct := make(map[int]struct{}, len(freqs))
	for _, f := range freqs {
		if f.Frequency < 0 {
			return fmt.Errorf("%w: %d has %d", ErrNegativeFrequency, f.Number, f.Frequency)
		}
		if f.Frequency > 0 {
			distinct[f.Number] = struct{}{}
		}
	}
	if len(distinct) < count {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientCandidates, len(distinct), count)
	}
	return nil
}
