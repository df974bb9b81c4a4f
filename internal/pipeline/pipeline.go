// Package pipeline drives the per-game stages: fetch, merge, persist,
// analyze, predict and report.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"lottery-predictor/internal/chart"
	"lottery-predictor/internal/config"
	"lottery-predictor/internal/logger"
	"lottery-predictor/internal/lottery"
	"lottery-predictor/internal/metrics"
	"lottery-predictor/internal/predict"
	"lottery-predictor/internal/report"
	"lottery-predictor/internal/scraper"
	"lottery-predictor/internal/store"
)

// Fetcher downloads the current draw records of a game.
type Fetcher interface {
	Fetch(ctx context.Context, game lottery.Game, opts scraper.Options) ([]lottery.DrawRecord, error)
}

// Service runs the pipeline stages for configured games, one game at a time.
type Service struct {
	cfg     *config.Config
	fetcher Fetcher
	reports *report.Writer
	metrics *metrics.Metrics

	// NewPredictor builds the predictor of a game; tests replace it to fix the random source.
	NewPredictor func(game lottery.Game) predict.Predictor
	// Out receives the console frequency tables and predictions.
	Out io.Writer
}

// New creates a service. m may be nil.
func New(cfg *config.Config, fetcher Fetcher, m *metrics.Metrics) *Service {
	return &Service{
		cfg:     cfg,
		fetcher: fetcher,
		reports: report.NewWriter(cfg.PredictDir, cfg.Location()),
		metrics: m,
		NewPredictor: func(game lottery.Game) predict.Predictor {
			return predict.NewWeightedPredictor(game.MainCount, game.SupplementCount)
		},
		Out: os.Stdout,
	}
}

// Reports exposes the report writer so callers can adjust its clock.
func (s *Service) Reports() *report.Writer {
	return s.reports
}

// Config returns the configuration the service runs with.
func (s *Service) Config() *config.Config {
	return s.cfg
}

func (s *Service) store(game lottery.Game) *store.FileStore {
	return store.New(s.cfg.DataPath(game))
}

// UpdateResult summarises one merge.
type UpdateResult struct {
	Game     string `json:"game"`
	Fetched  int    `json:"fetched"`
	Existing int    `json:"existing"`
	Total    int    `json:"total"`
	Added    int    `json:"added"`
}

// Update fetches the latest records of game, merges them into the data file and
// rewrites it. Nothing is written when any stage fails.
func (s *Service) Update(ctx context.Context, game lottery.Game, opts scraper.Options) (*UpdateResult, error) {
	fetched, err := s.fetcher.Fetch(ctx, game, opts)
	if err != nil {
		s.metrics.Fail(game.Name, metrics.StageFetch)
		return nil, fmt.Errorf("fetch %s: %w", game.Name, err)
	}
	s.metrics.Fetched(game.Name, len(fetched))

	st := s.store(game)
	existing, err := st.LoadExisting()
	if err != nil {
		s.metrics.Fail(game.Name, metrics.StageRead)
		return nil, err
	}

	merged := lottery.Merge(existing, fetched)
	if err := st.Save(merged); err != nil {
		s.metrics.Fail(game.Name, metrics.StageWrite)
		return nil, err
	}
	s.metrics.Persisted(game.Name, len(merged))

	logger.Infof("lottery %s data has been updated successfully", game.Name)
	return &UpdateResult{
		Game:     game.Name,
		Fetched:  len(fetched),
		Existing: len(existing),
		Total:    len(merged),
		Added:    len(merged) - len(existing),
	}, nil
}

// UpdateAll updates every game in order. A failing game is logged and the rest
// still run; the returned map holds the failures by game name.
func (s *Service) UpdateAll(ctx context.Context, games []lottery.Game, opts scraper.Options) map[string]error {
	failures := make(map[string]error)
	for _, game := range games {
		if _, err := s.Update(ctx, game, opts); err != nil {
			logger.Errorf("failed to update lottery %s data: %v", game.Name, err)
			failures[game.Name] = err
		}
	}
	return failures
}

// Draws returns up to limit persisted records of game, newest first. limit <= 0 returns all.
func (s *Service) Draws(game lottery.Game, limit int) ([]lottery.DrawRecord, error) {
	records, err := s.store(game).Load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

// Analyze computes the frequency tables of game over its historical window.
func (s *Service) Analyze(game lottery.Game) (*predict.Analysis, error) {
	records, err := s.store(game).Load()
	if err != nil {
		return nil, err
	}
	analysis := predict.Analyze(records, s.cfg.ExcludeRecent)
	return &analysis, nil
}

// PredictOptions tunes a prediction run.
type PredictOptions struct {
	// Chart also writes <game>-frequency.png next to the report.
	Chart bool
}

// PredictResult is the outcome of one prediction run.
type PredictResult struct {
	Game        string                     `json:"game"`
	Analysis    predict.Analysis           `json:"analysis"`
	Predictions []predict.PredictionResult `json:"predictions"`
	ReportPath  string                     `json:"report_path"`
	ChartPath   string                     `json:"chart_path,omitempty"`
}

// Predict generates predictions for game from its persisted history and appends
// them to its report. On any failure no report is written.
func (s *Service) Predict(ctx context.Context, game lottery.Game, opts PredictOptions) (*PredictResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis, err := s.Analyze(game)
	if err != nil {
		s.metrics.Fail(game.Name, metrics.StageRead)
		return nil, err
	}

	report.WriteFrequencies(s.Out, game.Title+" main ball frequency", analysis.Main)
	report.WriteFrequencies(s.Out, game.Title+" supplement ball frequency", analysis.Supplement)

	predictions, err := s.NewPredictor(game).GeneratePredictions(analysis.Main, analysis.Supplement)
	if err != nil {
		s.metrics.Fail(game.Name, metrics.StagePredict)
		return nil, fmt.Errorf("predict %s: %w", game.Name, err)
	}

	path, err := s.reports.Append(game.ReportFile, predictions)
	if err != nil {
		s.metrics.Fail(game.Name, metrics.StageReport)
		return nil, err
	}
	s.metrics.Predicted(game.Name)

	result := &PredictResult{
		Game:        game.Name,
		Analysis:    *analysis,
		Predictions: predictions,
		ReportPath:  path,
	}

	if opts.Chart {
		chartPath, err := s.writeChart(game, analysis)
		if err != nil {
			// the report is already written; a missing chart is not fatal
			logger.Warningf("failed to write %s frequency chart: %v", game.Name, err)
		} else {
			result.ChartPath = chartPath
		}
	}

	report.WritePredictions(s.Out, game.Title, predictions)
	return result, nil
}

// PredictAll runs Predict for every game in order, logging failures and continuing.
func (s *Service) PredictAll(ctx context.Context, games []lottery.Game, opts PredictOptions) map[string]error {
	failures := make(map[string]error)
	for _, game := range games {
		if _, err := s.Predict(ctx, game, opts); err != nil {
			logger.Errorf("prediction failed for %s: %v", game.Name, err)
			failures[game.Name] = err
		}
	}
	return failures
}

// Chart renders the main ball frequency chart of game.
func (s *Service) Chart(game lottery.Game, w io.Writer) error {
	analysis, err := s.Analyze(game)
	if err != nil {
		return err
	}
	return chart.Render(w, game.Title+" main balls", analysis.Main, game.MainRange)
}

func (s *Service) writeChart(game lottery.Game, analysis *predict.Analysis) (string, error) {
	if err := os.MkdirAll(s.cfg.PredictDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.cfg.PredictDir, game.Name+"-frequency.png")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := renderChart(f, game, analysis); err != nil {
		return "", err
	}
	return path, nil
}

// renderChart encodes the main ball chart into f and closes it. A failed close
// is an error since the PNG may be truncated.
func renderChart(f io.WriteCloser, game lottery.Game, analysis *predict.Analysis) error {
	if err := chart.Render(f, game.Title+" main balls", analysis.Main, game.MainRange); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
