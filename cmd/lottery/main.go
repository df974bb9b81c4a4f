package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lottery-predictor/internal/config"
	"lottery-predictor/internal/logger"
	"lottery-predictor/internal/metrics"
	"lottery-predictor/internal/pipeline"
	"lottery-predictor/internal/scheduler"
	"lottery-predictor/internal/scraper"
	"lottery-predictor/internal/server"
)

const usage = `Usage: lottery [command] [flags] [games...]

Commands:
  run       update every game, then generate predictions (default)
  update    fetch and merge the latest draws
  predict   generate predictions from the stored draws
  serve     start the HTTP API
  schedule  run update and predict on the configured cron schedule

Games default to every configured game (ssq, dlt).
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.InitLogger(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	fetcher := scraper.NewFetcher(cfg.HTTPTimeout, cfg.UserAgent, cfg.SourceEncoding)
	svc := pipeline.New(cfg, fetcher, m)

	if err := dispatch(ctx, svc, m, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.Is(err, errUnknownCommand) {
			fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
			os.Exit(2)
		}
		logger.Error(err)
		os.Exit(1)
	}
}

var errUnknownCommand = errors.New("unknown command")

// splitCommand separates the command name from its flags and games. Arguments
// that start with a flag belong to the default run command.
func splitCommand(args []string) (string, []string) {
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		return args[0], args[1:]
	}
	return "run", args
}

func dispatch(ctx context.Context, svc *pipeline.Service, m *metrics.Metrics, args []string) error {
	command, rest := splitCommand(args)
	switch command {
	case "run":
		return runCommand(ctx, svc, rest)
	case "update":
		return updateCommand(ctx, svc, rest)
	case "predict":
		return predictCommand(ctx, svc, rest)
	case "serve":
		return serveCommand(ctx, svc, m, rest)
	case "schedule":
		return scheduleCommand(ctx, svc, rest)
	case "help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, command)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintf(os.Stderr, "\nFlags of %s:\n", name)
		fs.PrintDefaults()
	}
	return fs
}

// runCommand updates both games, then predicts. Per-game failures are only logged.
func runCommand(ctx context.Context, svc *pipeline.Service, args []string) error {
	fs := newFlagSet("run")
	predict := fs.Bool("predict", true, "generate predictions after updating")
	chart := fs.Bool("chart", false, "also write a frequency chart PNG per game")
	if err := fs.Parse(args); err != nil {
		return err
	}

	games, err := svc.Config().SelectGames(fs.Args())
	if err != nil {
		return err
	}

	svc.UpdateAll(ctx, games, scraper.Options{})
	if *predict {
		svc.PredictAll(ctx, games, pipeline.PredictOptions{Chart: *chart})
	}
	return nil
}

func updateCommand(ctx context.Context, svc *pipeline.Service, args []string) error {
	fs := newFlagSet("update")
	start := fs.String("start", "", "first issue number of a backfill range")
	end := fs.String("end", "", "last issue number of a backfill range")
	if err := fs.Parse(args); err != nil {
		return err
	}

	games, err := svc.Config().SelectGames(fs.Args())
	if err != nil {
		return err
	}
	svc.UpdateAll(ctx, games, scraper.Options{Start: *start, End: *end})
	return nil
}

func predictCommand(ctx context.Context, svc *pipeline.Service, args []string) error {
	fs := newFlagSet("predict")
	chart := fs.Bool("chart", false, "also write a frequency chart PNG per game")
	if err := fs.Parse(args); err != nil {
		return err
	}

	games, err := svc.Config().SelectGames(fs.Args())
	if err != nil {
		return err
	}
	svc.PredictAll(ctx, games, pipeline.PredictOptions{Chart: *chart})
	return nil
}

func serveCommand(ctx context.Context, svc *pipeline.Service, m *metrics.Metrics, args []string) error {
	fs := newFlagSet("serve")
	addr := fs.String("addr", svc.Config().ServerAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv := server.New(svc, m)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(*addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}

func scheduleCommand(ctx context.Context, svc *pipeline.Service, args []string) error {
	cfg := svc.Config()
	fs := newFlagSet("schedule")
	spec := fs.String("spec", cfg.Schedule, "cron spec with seconds")
	predict := fs.Bool("predict", true, "generate predictions after updating")
	now := fs.Bool("now", false, "run once immediately before waiting for the schedule")
	if err := fs.Parse(args); err != nil {
		return err
	}

	games, err := cfg.SelectGames(fs.Args())
	if err != nil {
		return err
	}

	job := scheduler.NewJob(ctx, svc, games, *predict)
	sched := scheduler.New(cfg.Location())
	id, err := sched.Add(*spec, job)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", *spec, err)
	}

	if *now {
		job.Run()
	}
	sched.Start()
	logger.Infof("scheduler started, next run at %v", sched.Next(id))

	<-ctx.Done()
	logger.Info("stopping scheduler...")
	sched.Stop()
	return nil
}
