package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/appforge/internal/config"
	"git.home.luguber.info/inful/appforge/internal/events"
	"git.home.luguber.info/inful/appforge/internal/metrics"
	"git.home.luguber.info/inful/appforge/internal/server/httpserver"
	"git.home.luguber.info/inful/appforge/internal/task"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct{} `cmd:"" help:"Start the webhook daemon that builds and publishes apps on request"`

	Run struct {
		Task          string `short:"t" required:"" help:"Task identifier (becomes part of the repository name)"`
		Brief         string `short:"b" required:"" help:"What the generated application should do"`
		Checks        string `help:"Acceptance criteria passed to the generator"`
		EvaluationURL string `help:"Endpoint to notify when the build completes"`
		Email         string `help:"Email forwarded in the completion notification"`
	} `cmd:"" help:"Build and publish a single application synchronously, then exit"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "serve":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runServe(cfg); err != nil {
			slog.Error("Daemon failed", "error", err)
			os.Exit(1)
		}
	case "run":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runOnce(cfg); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	pipeline := task.NewPipeline(cfg, recorder)
	queue := task.NewQueue(cfg.Queue.Size, cfg.Queue.Workers, pipeline)
	queue.SetRecorder(recorder)

	if cfg.Events.Enabled {
		emitter, err := events.NewNATSEmitter(cfg.Events)
		if err != nil {
			return fmt.Errorf("failed to connect event emitter: %w", err)
		}
		defer emitter.Close()
		queue.SetEmitter(emitter)
	}

	queue.Start(ctx)

	srv := httpserver.New(cfg, queue, httpserver.Options{
		PrometheusHandler: metrics.HTTPHandler(reg),
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}

	slog.Info("Daemon started, waiting for shutdown signal...")
	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping daemon...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP servers: %w", err)
	}
	queue.Stop(stopCtx)

	slog.Info("Daemon stopped successfully")
	return nil
}

// runOnce drives the full pipeline for a single task without the daemon. The
// result is printed to stdout as JSON.
func runOnce(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pipeline := task.NewPipeline(cfg, metrics.NoopRecorder{})
	job := &task.Job{
		ID: uuid.NewString(),
		Request: task.Request{
			Task:          CLI.Run.Task,
			Brief:         CLI.Run.Brief,
			Checks:        CLI.Run.Checks,
			EvaluationURL: CLI.Run.EvaluationURL,
			Email:         CLI.Run.Email,
		},
	}

	if err := pipeline.Run(ctx, job); err != nil {
		return err
	}

	out := struct {
		Task     string          `json:"task"`
		Title    string          `json:"title,omitempty"`
		Notified bool            `json:"notified"`
		Result   *publishSummary `json:"result,omitempty"`
	}{Task: job.Request.Task, Title: job.ReadmeTitle, Notified: job.Notified}
	if job.Result != nil {
		out.Result = &publishSummary{
			RepoURL:   job.Result.RepoURL,
			PagesURL:  job.Result.PagesURL,
			CommitSHA: job.Result.CommitSHA,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type publishSummary struct {
	RepoURL   string `json:"repo_url"`
	PagesURL  string `json:"pages_url"`
	CommitSHA string `json:"commit_sha"`
}
