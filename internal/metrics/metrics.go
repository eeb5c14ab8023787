// Package metrics records the results of backport runs as prometheus
// metrics and pushes them to a Pushgateway.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/backport"
	"github.com/simplesurance/backporter/internal/logfields"
)

const loggerName = "metrics"

const metricNamespace = "backporter"

const (
	skippedCommitsMetricName = "skipped_commits"
	pullRequestsMetricName   = "pull_requests"
	runDurationMetricName    = "last_run_duration_seconds"
	runTimestampMetricName   = "last_run_timestamp_seconds"
	runSuccessMetricName     = "last_run_success"
)

const (
	repositoryLabel   = "repository"
	targetBranchLabel = "target_branch"
	reasonLabel       = "reason"
	outcomeLabel      = "outcome"
)

const pushTimeout = 30 * time.Second

// Collector holds the metrics of a single backport run.
// The metrics are registered in a private registry, only they are pushed to
// the Pushgateway.
type Collector struct {
	registry       *prometheus.Registry
	logger         *zap.Logger
	skippedCommits *prometheus.GaugeVec
	pullRequests   *prometheus.GaugeVec
	runDuration    prometheus.Gauge
	runTimestamp   prometheus.Gauge
	runSuccess     prometheus.Gauge
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		logger:   zap.L().Named(loggerName),
		skippedCommits: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      skippedCommitsMetricName,
				Help:      "count of commits of the last run that were not backported, by reason",
			},
			[]string{repositoryLabel, targetBranchLabel, reasonLabel},
		),
		pullRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      pullRequestsMetricName,
				Help:      "count of pull requests processed in the last run, by outcome",
			},
			[]string{repositoryLabel, targetBranchLabel, outcomeLabel},
		),
		runDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      runDurationMetricName,
				Help:      "duration of the last run",
			},
		),
		runTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      runTimestampMetricName,
				Help:      "unix timestamp when the last run finished",
			},
		),
		runSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      runSuccessMetricName,
				Help:      "1 if the last run was successful, otherwise 0",
			},
		),
	}
}

// Registry returns the registry containing the metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe records the result of a run.
// result can be nil when the run failed before the target branch was known.
func (c *Collector) Observe(repository string, result *backport.RunResult, runErr error) {
	c.runTimestamp.SetToCurrentTime()

	if runErr != nil {
		c.runSuccess.Set(0)
	} else {
		c.runSuccess.Set(1)
	}

	if result == nil {
		return
	}

	c.runDuration.Set(result.Duration().Seconds())

	for reason, cnt := range result.Skipped {
		c.skippedCommits.WithLabelValues(repository, result.TargetBranch, string(reason)).Set(float64(cnt))
	}

	for outcome, cnt := range result.Outcomes {
		c.pullRequests.WithLabelValues(repository, result.TargetBranch, string(outcome)).Set(float64(cnt))
	}
}

// Push sends all metrics to the Pushgateway at url.
// Metrics previously pushed with the same job name are replaced.
func (c *Collector) Push(ctx context.Context, url, job string) error {
	ctx, cancelFn := context.WithTimeout(ctx, pushTimeout)
	defer cancelFn()

	err := push.New(url, job).
		Client(&http.Client{Timeout: pushTimeout}).
		Gatherer(c.registry).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("pushing metrics to %s failed: %w", url, err)
	}

	c.logger.Debug(
		"pushed metrics",
		logfields.Event("metrics_pushed"),
		zap.String("pushgateway_url", url),
		zap.String("job", job),
	)

	return nil
}
