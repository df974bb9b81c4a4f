// Package scheduler runs the update and prediction pipeline on a cron schedule.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"lottery-predictor/internal/logger"
	"lottery-predictor/internal/lottery"
	"lottery-predictor/internal/pipeline"
	"lottery-predictor/internal/scraper"
)

// Runner is the part of the pipeline a scheduled run needs.
type Runner interface {
	UpdateAll(ctx context.Context, games []lottery.Game, opts scraper.Options) map[string]error
	PredictAll(ctx context.Context, games []lottery.Game, opts pipeline.PredictOptions) map[string]error
}

// Job updates every game, then predicts for every game.
type Job struct {
	ctx     context.Context
	runner  Runner
	games   []lottery.Game
	predict bool
}

// NewJob creates a job. With predict false only the data files are refreshed.
func NewJob(ctx context.Context, runner Runner, games []lottery.Game, predict bool) *Job {
	return &Job{ctx: ctx, runner: runner, games: games, predict: predict}
}

// Run implements cron.Job.
func (j *Job) Run() {
	start := time.Now()
	logger.Info("scheduled run started")

	failures := len(j.runner.UpdateAll(j.ctx, j.games, scraper.Options{}))
	if j.predict {
		failures += len(j.runner.PredictAll(j.ctx, j.games, pipeline.PredictOptions{Chart: true}))
	}

	if failures > 0 {
		logger.Warningf("scheduled run finished in %v with %d failed stages", time.Since(start), failures)
		return
	}
	logger.Infof("scheduled run finished in %v", time.Since(start))
}

// Scheduler wraps a cron instance with second precision.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler evaluating specs in loc.
func New(loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Add registers job under spec.
func (s *Scheduler) Add(spec string, job cron.Job) (cron.EntryID, error) {
	return s.cron.AddJob(spec, job)
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Next returns the next activation of entry id.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}
