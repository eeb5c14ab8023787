package backport

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/logfields"
)

// RunResult summarizes a backport run.
type RunResult struct {
	TargetBranch string
	StartTime    time.Time
	EndTime      time.Time
	// Skipped counts the commits that did not qualify, per reason.
	Skipped map[SkipReason]int
	// Outcomes counts the processed pull requests, per outcome.
	Outcomes map[Outcome]int
	// Published contains the numbers of the original pull requests for
	// that a backport pull request was created.
	Published []int
	// Failed contains the numbers of the original pull requests that were
	// labeled as failed.
	Failed []int
}

func newRunResult() *RunResult {
	return &RunResult{
		StartTime: time.Now(),
		Skipped:   map[SkipReason]int{},
		Outcomes:  map[Outcome]int{},
	}
}

func (r *RunResult) recordSkip(reason SkipReason) {
	r.Skipped[reason]++
}

func (r *RunResult) recordOutcome(pr *PullRequestInfo, outcome Outcome) {
	r.Outcomes[outcome]++

	switch outcome {
	case OutcomePublished:
		r.Published = append(r.Published, pr.PullRequest.Number)
	case OutcomeConflict, OutcomeRefusedMultiCommit:
		r.Failed = append(r.Failed, pr.PullRequest.Number)
	}
}

// Duration returns how long the run took.
func (r *RunResult) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}

	return r.EndTime.Sub(r.StartTime)
}

// LogFields returns the summary of the run as log fields.
func (r *RunResult) LogFields() []zap.Field {
	fields := []zap.Field{
		logfields.TargetBranch(r.TargetBranch),
		zap.Duration("duration", r.Duration()),
		zap.Ints("published_pull_requests", r.Published),
		zap.Ints("failed_pull_requests", r.Failed),
	}

	reasons := make([]string, 0, len(r.Skipped))
	for reason := range r.Skipped {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)

	for _, reason := range reasons {
		fields = append(fields, zap.Int("skipped."+reason, r.Skipped[SkipReason(reason)]))
	}

	outcomes := make([]string, 0, len(r.Outcomes))
	for o := range r.Outcomes {
		outcomes = append(outcomes, string(o))
	}
	sort.Strings(outcomes)

	for _, o := range outcomes {
		fields = append(fields, zap.Int("outcome."+o, r.Outcomes[Outcome(o)]))
	}

	return fields
}
