package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"lottery-predictor/internal/config"
	"lottery-predictor/internal/lottery"
	"lottery-predictor/internal/metrics"
	"lottery-predictor/internal/predict"
	"lottery-predictor/internal/scraper"
	"lottery-predictor/internal/store"
)

type fakeFetcher struct {
	records map[string][]lottery.DrawRecord
	errs    map[string]error
	calls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, game lottery.Game, _ scraper.Options) ([]lottery.DrawRecord, error) {
	f.calls = append(f.calls, game.Name)
	if err := f.errs[game.Name]; err != nil {
		return nil, err
	}
	return f.records[game.Name], nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:       filepath.Join(dir, "data"),
		PredictDir:    filepath.Join(dir, "data", "predict"),
		ExcludeRecent: lottery.DefaultExcludeRecent,
		Timezone:      "UTC",
		Games:         lottery.DefaultGames(),
	}
}

func newTestService(t *testing.T, f Fetcher) (*Service, *config.Config) {
	t.Helper()
	cfg := testConfig(t)
	s := New(cfg, f, metrics.New())
	s.Out = io.Discard
	s.NewPredictor = func(game lottery.Game) predict.Predictor {
		return &predict.WeightedPredictor{
			MainCount:       game.MainCount,
			SupplementCount: game.SupplementCount,
			Rand:            rand.New(rand.NewPCG(3, 4)),
		}
	}
	s.Reports().Now = func() time.Time { return time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC) }
	return s, cfg
}

// history builds n descending records of game with balls spread over its ranges.
func history(game lottery.Game, first, n int) []lottery.DrawRecord {
	records := make([]lottery.DrawRecord, 0, n)
	for i := 0; i < n; i++ {
		issue := first + n - 1 - i
		r := lottery.DrawRecord{IssueNumber: strconv.Itoa(issue), DrawDate: "2025-01-01"}
		for j := 0; j < game.MainCount; j++ {
			r.MainBalls = append(r.MainBalls, game.MainRange.Min+(issue*7+j*5)%(game.MainRange.Max-game.MainRange.Min+1))
		}
		for j := 0; j < game.SupplementCount; j++ {
			r.SupplementBalls = append(r.SupplementBalls, game.SupplementRange.Min+(issue*3+j)%(game.SupplementRange.Max-game.SupplementRange.Min+1))
		}
		records = append(records, r)
	}
	return records
}

func TestUpdateCreatesAndMerges(t *testing.T) {
	dlt := lottery.SuperLotto()
	f := &fakeFetcher{records: map[string][]lottery.DrawRecord{"dlt": history(dlt, 25001, 3)}}
	s, cfg := newTestService(t, f)

	res, err := s.Update(context.Background(), dlt, scraper.Options{})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if res.Fetched != 3 || res.Existing != 0 || res.Total != 3 || res.Added != 3 {
		t.Errorf("first Update() = %+v", res)
	}

	// The next page overlaps one issue and carries a corrected date for it.
	next := history(dlt, 25003, 2)
	next[1].DrawDate = "corrected"
	f.records["dlt"] = next

	res, err = s.Update(context.Background(), dlt, scraper.Options{})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if res.Existing != 3 || res.Total != 4 || res.Added != 1 {
		t.Errorf("second Update() = %+v", res)
	}

	saved, err := store.New(cfg.DataPath(dlt)).Load()
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, r := range saved {
		got = append(got, r.IssueNumber)
	}
	if strings.Join(got, ",") != "25004,25003,25002,25001" {
		t.Errorf("persisted issues = %v", got)
	}
	if saved[1].DrawDate != "corrected" {
		t.Errorf("issue 25003 = %+v, want fetched payload", saved[1])
	}
}

func TestUpdateAllIsolatesFailures(t *testing.T) {
	fetchErr := errors.New("connection refused")
	f := &fakeFetcher{
		records: map[string][]lottery.DrawRecord{"dlt": history(lottery.SuperLotto(), 25001, 2)},
		errs:    map[string]error{"ssq": fetchErr},
	}
	s, cfg := newTestService(t, f)

	failures := s.UpdateAll(context.Background(), cfg.Games, scraper.Options{})
	if len(failures) != 1 || !errors.Is(failures["ssq"], fetchErr) {
		t.Errorf("UpdateAll() failures = %v, want only ssq", failures)
	}
	if strings.Join(f.calls, ",") != "ssq,dlt" {
		t.Errorf("fetch order = %v, want ssq then dlt", f.calls)
	}
	if _, err := os.Stat(cfg.DataPath(lottery.DoubleColorBall())); !os.IsNotExist(err) {
		t.Errorf("ssq data file should not exist after failed fetch, stat err = %v", err)
	}
	if _, err := os.Stat(cfg.DataPath(lottery.SuperLotto())); err != nil {
		t.Errorf("dlt data file missing: %v", err)
	}
}

func TestUpdateMalformedExisting(t *testing.T) {
	dlt := lottery.SuperLotto()
	f := &fakeFetcher{records: map[string][]lottery.DrawRecord{"dlt": history(dlt, 25001, 2)}}
	s, cfg := newTestService(t, f)

	path := cfg.DataPath(dlt)
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("{not json"), 0o644)

	if _, err := s.Update(context.Background(), dlt, scraper.Options{}); err == nil {
		t.Fatal("Update() expected error for malformed data file")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Errorf("malformed file was overwritten: %q", data)
	}
}

func TestPredictAppendsReport(t *testing.T) {
	dlt := lottery.SuperLotto()
	s, cfg := newTestService(t, &fakeFetcher{})
	if err := store.New(cfg.DataPath(dlt)).Save(history(dlt, 24001, 40)); err != nil {
		t.Fatal(err)
	}

	for run := 0; run < 2; run++ {
		res, err := s.Predict(context.Background(), dlt, PredictOptions{Chart: run == 0})
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if len(res.Predictions) != predict.Combinations {
			t.Errorf("got %d predictions", len(res.Predictions))
		}
		if res.Analysis.Window != 35 {
			t.Errorf("window = %d, want 35", res.Analysis.Window)
		}
	}

	data, err := os.ReadFile(filepath.Join(cfg.PredictDir, "dlt.txt"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if n := strings.Count(content, "Prediction time: 2025/3/1 20:00:00\n"); n != 2 {
		t.Errorf("report has %d headers, want 2:\n%s", n, content)
	}
	if n := strings.Count(content, "Group "); n != 2*predict.Combinations {
		t.Errorf("report has %d group lines, want %d", n, 2*predict.Combinations)
	}
	if _, err := os.Stat(filepath.Join(cfg.PredictDir, "dlt-frequency.png")); err != nil {
		t.Errorf("chart not written: %v", err)
	}
}

func TestPredictFailuresWriteNothing(t *testing.T) {
	ssq := lottery.DoubleColorBall()

	t.Run("missing data file", func(t *testing.T) {
		s, cfg := newTestService(t, &fakeFetcher{})
		if _, err := s.Predict(context.Background(), ssq, PredictOptions{}); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Predict() error = %v, want ErrNotFound", err)
		}
		if _, err := os.Stat(filepath.Join(cfg.PredictDir, "ssq.txt")); !os.IsNotExist(err) {
			t.Errorf("report should not exist, stat err = %v", err)
		}
	})

	t.Run("window too small", func(t *testing.T) {
		s, cfg := newTestService(t, &fakeFetcher{})
		store.New(cfg.DataPath(ssq)).Save(history(ssq, 2025001, 5))

		if _, err := s.Predict(context.Background(), ssq, PredictOptions{}); !errors.Is(err, predict.ErrNoCandidates) {
			t.Errorf("Predict() error = %v, want ErrNoCandidates", err)
		}
		if _, err := os.Stat(filepath.Join(cfg.PredictDir, "ssq.txt")); !os.IsNotExist(err) {
			t.Errorf("report should not exist, stat err = %v", err)
		}
	})
}

func TestPredictAllContinues(t *testing.T) {
	dlt := lottery.SuperLotto()
	s, cfg := newTestService(t, &fakeFetcher{})
	store.New(cfg.DataPath(dlt)).Save(history(dlt, 24001, 30))

	failures := s.PredictAll(context.Background(), cfg.Games, PredictOptions{})
	if len(failures) != 1 || failures["ssq"] == nil {
		t.Errorf("PredictAll() failures = %v, want only ssq", failures)
	}
	if _, err := os.Stat(filepath.Join(cfg.PredictDir, "dlt.txt")); err != nil {
		t.Errorf("dlt report missing: %v", err)
	}
}

func TestDraws(t *testing.T) {
	dlt := lottery.SuperLotto()
	s, cfg := newTestService(t, &fakeFetcher{})
	store.New(cfg.DataPath(dlt)).Save(history(dlt, 25001, 10))

	got, err := s.Draws(dlt, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].IssueNumber != "25010" {
		t.Errorf("Draws(3) = %+v", got)
	}
	all, _ := s.Draws(dlt, 0)
	if len(all) != 10 {
		t.Errorf("Draws(0) returned %d records, want 10", len(all))
	}
}

type failingCloser struct {
	bytes.Buffer
	err error
}

func (f *failingCloser) Close() error {
	return f.err
}

func TestRenderChartReportsCloseError(t *testing.T) {
	game := lottery.SuperLotto()
	analysis := predict.Analyze(history(game, 25001, 20), lottery.DefaultExcludeRecent)

	errClose := errors.New("disk full")
	f := &failingCloser{err: errClose}
	if err := renderChart(f, game, &analysis); !errors.Is(err, errClose) {
		t.Errorf("renderChart() error = %v, want %v", err, errClose)
	}
	if f.Len() == 0 {
		t.Error("renderChart() wrote no PNG bytes before closing")
	}

	if err := renderChart(&failingCloser{}, game, &analysis); err != nil {
		t.Errorf("renderChart() error = %v, want nil", err)
	}
}
