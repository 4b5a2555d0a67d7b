package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	stageDuration  *prom.HistogramVec
	taskDuration   prom.Histogram
	stageResults   *prom.CounterVec
	taskOutcome    *prom.CounterVec
	notifyAttempts *prom.CounterVec
	queueDepth     prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "appforge",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.taskDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "appforge",
			Name:      "task_duration_seconds",
			Help:      "Total task pipeline duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "appforge",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.taskOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "appforge",
			Name:      "task_outcomes_total",
			Help:      "Task outcomes by final status",
		}, []string{"outcome"})
		pr.notifyAttempts = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "appforge",
			Name:      "notify_attempts_total",
			Help:      "Notification delivery attempts by result",
		}, []string{"result"})
		pr.queueDepth = prom.NewGauge(prom.GaugeOpts{
			Namespace: "appforge",
			Name:      "queue_depth",
			Help:      "Number of tasks currently waiting in the queue",
		})
		reg.MustRegister(pr.stageDuration, pr.taskDuration, pr.stageResults, pr.taskOutcome, pr.notifyAttempts, pr.queueDepth)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveTaskDuration(d time.Duration) {
	if p == nil || p.taskDuration == nil {
		return
	}
	p.taskDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncTaskOutcome(outcome string) {
	if p == nil || p.taskOutcome == nil {
		return
	}
	p.taskOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncNotifyAttempt(success bool) {
	if p == nil || p.notifyAttempts == nil {
		return
	}
	label := "failure"
	if success {
		label = "success"
	}
	p.notifyAttempts.WithLabelValues(label).Inc()
}

func (p *PrometheusRecorder) SetQueueDepth(n int) {
	if p == nil || p.queueDepth == nil {
		return
	}
	p.queueDepth.Set(float64(n))
}
