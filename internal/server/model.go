package server

import (
	"lottery-predictor/internal/lottery"
	"lottery-predictor/internal/predict"
)

// Request payload structure for updating a game's draw history
type UpdateRequest struct {
	Start string `json:"start"` // First issue number of a backfill range
	End   string `json:"end"`   // Last issue number of a backfill range
}

// Response payload structure for errors
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Response payload structure for the configured games
type GamesResponse struct {
	Success bool           `json:"success"`
	Games   []lottery.Game `json:"games"`
}

// Response payload structure for persisted draws
type DrawsResponse struct {
	Success bool                 `json:"success"`
	Game    string               `json:"game"`
	Count   int                  `json:"count"`
	Draws   []lottery.DrawRecord `json:"draws"`
}

// Response payload structure for frequency tables
type FrequencyResponse struct {
	Success  bool             `json:"success"`
	Game     string           `json:"game"`
	Analysis predict.Analysis `json:"analysis"`
}

// Response payload structure for an update run
type UpdateResponse struct {
	Success bool   `json:"success"`
	Game    string `json:"game"`
	Fetched int    `json:"fetched"`
	Total   int    `json:"total"`
	Added   int    `json:"added"`
}

// Response payload structure for a prediction run
type PredictionResponse struct {
	Success     bool                       `json:"success"`
	Game        string                     `json:"game"`
	Predictions []predict.PredictionResult `json:"predictions"`
	Main        []predict.NumberFrequency  `json:"main_frequency"`
	Supplement  []predict.NumberFrequency  `json:"supplement_frequency"`
}
