package task

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/appforge/internal/config"
	"git.home.luguber.info/inful/appforge/internal/errors"
	"git.home.luguber.info/inful/appforge/internal/forge"
	"git.home.luguber.info/inful/appforge/internal/llm"
	"git.home.luguber.info/inful/appforge/internal/logfields"
	"git.home.luguber.info/inful/appforge/internal/metrics"
	"git.home.luguber.info/inful/appforge/internal/notify"
	"git.home.luguber.info/inful/appforge/internal/publish"
)

// Runner executes one task end to end. The queue depends on this seam.
type Runner interface {
	Run(ctx context.Context, job *Job) error
}

// Generator produces the two artifacts for a task.
type Generator interface {
	Generate(ctx context.Context, brief, checks string) (*llm.Artifacts, error)
}

// Publisher publishes artifacts and returns the publish result.
type Publisher interface {
	Publish(ctx context.Context, taskID string, artifacts *llm.Artifacts) (*publish.Result, error)
}

// Notifier delivers the result payload to the evaluation endpoint.
type Notifier interface {
	Notify(ctx context.Context, url string, payload notify.Payload) bool
}

// Pipeline sequences generate -> publish -> notify for one task. Collaborator
// clients are constructed per run so no state is shared between concurrent
// tasks.
type Pipeline struct {
	newGenerator   func() (Generator, error)
	newPublisher   func() (Publisher, error)
	newNotifier    func() Notifier
	recorder       metrics.Recorder
	notifyAttempts int
}

// NewPipeline wires a pipeline from configuration. Every Run constructs fresh
// short-lived clients from the captured settings.
func NewPipeline(cfg *config.Config, recorder metrics.Recorder) *Pipeline {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	llmCfg := cfg.LLM
	forgeCfg := cfg.Forge
	notifyCfg := cfg.Notify
	return &Pipeline{
		newGenerator: func() (Generator, error) {
			client, err := llm.NewClient(llmCfg.BaseURL, llmCfg.APIKey, llmCfg.Model, llmCfg.Timeout)
			if err != nil {
				return nil, err
			}
			return llm.NewGenerator(client), nil
		},
		newPublisher: func() (Publisher, error) {
			client, err := forge.NewClient(forgeCfg)
			if err != nil {
				return nil, err
			}
			return publish.NewPublisher(client, forgeCfg.RepoPrefix), nil
		},
		newNotifier: func() Notifier {
			return notify.New(notifyCfg.MaxAttempts, notifyCfg.Timeout, notifyCfg.InitialDelay,
				notify.WithRecorder(recorder))
		},
		recorder:       recorder,
		notifyAttempts: notifyCfg.MaxAttempts,
	}
}

// Run executes the pipeline for one job. Stage transitions are strict:
// publishing requires both artifacts, notifying requires a publish result, and
// notification is skipped entirely when the request has no evaluation URL.
// A notification that exhausts its retries does not fail the task.
func (p *Pipeline) Run(ctx context.Context, job *Job) error {
	req := &job.Request
	log := slog.With(logfields.TaskID(req.Task), logfields.JobID(job.ID))
	log.Info("Starting task")

	// GENERATING
	job.Stage = StageGenerating
	gen, err := p.newGenerator()
	if err != nil {
		p.recorder.IncStageResult(string(StageGenerating), metrics.ResultFailed)
		return err
	}
	stageStart := time.Now()
	artifacts, err := gen.Generate(ctx, req.Brief, req.ChecksText())
	p.recorder.ObserveStageDuration(string(StageGenerating), time.Since(stageStart))
	if err != nil {
		p.recorder.IncStageResult(string(StageGenerating), metrics.ResultFailed)
		return err
	}
	p.recorder.IncStageResult(string(StageGenerating), metrics.ResultSuccess)
	job.ReadmeTitle = llm.ReadmeTitle(artifacts.Readme)

	// PUBLISHING
	job.Stage = StagePublishing
	pub, err := p.newPublisher()
	if err != nil {
		p.recorder.IncStageResult(string(StagePublishing), metrics.ResultFailed)
		return err
	}
	stageStart = time.Now()
	result, err := pub.Publish(ctx, req.Task, artifacts)
	p.recorder.ObserveStageDuration(string(StagePublishing), time.Since(stageStart))
	if err != nil {
		p.recorder.IncStageResult(string(StagePublishing), metrics.ResultFailed)
		return err
	}
	p.recorder.IncStageResult(string(StagePublishing), metrics.ResultSuccess)
	job.Result = result

	// NOTIFYING (skipped without an evaluation URL)
	if req.EvaluationURL == "" {
		log.Info("No evaluation URL provided, skipping notification")
		p.recorder.IncStageResult(string(StageNotifying), metrics.ResultSkipped)
		return nil
	}
	job.Stage = StageNotifying
	payload := notify.Payload{
		Email:     req.Email,
		Task:      req.Task,
		Round:     req.Round,
		Nonce:     req.Nonce,
		RepoURL:   result.RepoURL,
		CommitSHA: result.CommitSHA,
		PagesURL:  result.PagesURL,
	}
	stageStart = time.Now()
	job.Notified = p.newNotifier().Notify(ctx, req.EvaluationURL, payload)
	p.recorder.ObserveStageDuration(string(StageNotifying), time.Since(stageStart))
	if job.Notified {
		p.recorder.IncStageResult(string(StageNotifying), metrics.ResultSuccess)
	} else {
		p.recorder.IncStageResult(string(StageNotifying), metrics.ResultFailed)
		log.Warn("Evaluator notification exhausted retries",
			logfields.Error(errors.NotificationFailed(req.EvaluationURL, p.notifyAttempts)))
	}
	return nil
}
