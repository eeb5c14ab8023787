package backport

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/git"
	"github.com/simplesurance/backporter/internal/githubclt"
	"github.com/simplesurance/backporter/internal/logfields"
)

// Outcome is the final state of a backport attempt for a pull request.
type Outcome string

const (
	// OutcomeSkippedExisting means that the backport branch already
	// exists, the pull request was handled by a previous run.
	OutcomeSkippedExisting Outcome = "skipped_existing"
	// OutcomeRefusedMultiCommit means that the pull request resulted in
	// multiple commits in the main branch.
	OutcomeRefusedMultiCommit Outcome = "refused_multi_commit"
	// OutcomeConflict means that cherry-picking the commit failed.
	OutcomeConflict Outcome = "conflict"
	// OutcomePublished means that a backport pull request was created.
	OutcomePublished Outcome = "published"
)

type executor struct {
	cfg          *Config
	clt          GithubClient
	git          Git
	targetBranch string
	logger       *zap.Logger
}

func newExecutor(cfg *Config, clt GithubClient, g Git, targetBranch string) *executor {
	return &executor{
		cfg:          cfg,
		clt:          clt,
		git:          g,
		targetBranch: targetBranch,
		logger: zap.L().Named(loggerName).With(
			logfields.TargetBranch(targetBranch),
		),
	}
}

// Backport backports a single pull request.
// Expected failures, like cherry-pick conflicts, are reported as Outcome,
// an error is only returned when the operation failed unexpectedly.
func (e *executor) Backport(ctx context.Context, pr *PullRequestInfo) (Outcome, error) {
	branch := BranchName(e.targetBranch, pr.PullRequest.Number)
	logger := e.logger.With(append(pr.logFields(), logfields.Branch(branch))...)

	exists, err := e.git.RemoteBranchExists(ctx, e.cfg.TargetRemote, branch)
	if err != nil {
		return "", fmt.Errorf("checking if backport branch %q exists failed: %w", branch, err)
	}

	if exists {
		logger.Info(
			"backport branch already exists, skipping pull request",
			logfields.Event("backport_branch_exists"),
		)
		return OutcomeSkippedExisting, nil
	}

	if len(pr.Commits) > 1 {
		logger.Info(
			"pull request resulted in multiple commits, refusing to backport it",
			logfields.Event("backport_refused_multiple_commits"),
			zap.Strings("git.commits", pr.Commits),
		)

		if err := e.markFailed(ctx, pr); err != nil {
			return "", err
		}

		return OutcomeRefusedMultiCommit, nil
	}

	err = e.withDetachedCheckout(ctx, e.cfg.TargetRemote+"/"+e.targetBranch, func() error {
		if err := e.git.CherryPick(ctx, pr.Commits...); err != nil {
			return err
		}

		if err := e.git.PushHead(ctx, e.cfg.TargetRemote, branch); err != nil {
			return fmt.Errorf("pushing backport branch failed: %w", err)
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, git.ErrCherryPickFailed) {
			return "", err
		}

		logger.Info(
			"cherry-picking failed, pull request must be backported manually",
			logfields.Event("backport_cherry_pick_conflict"),
			zap.Error(err),
		)

		if err := e.markFailed(ctx, pr); err != nil {
			return "", err
		}

		return OutcomeConflict, nil
	}

	logger.Info("backport branch pushed", logfields.Event("backport_branch_pushed"))

	if err := e.publish(ctx, pr, branch, logger); err != nil {
		return "", err
	}

	return OutcomePublished, nil
}

// withDetachedCheckout checks out ref as detached HEAD and runs fn.
// An unfinished cherry-pick is aborted on every return path, the working
// copy is clean when the next pull request is processed.
func (e *executor) withDetachedCheckout(ctx context.Context, ref string, fn func() error) (err error) {
	if err := e.git.CheckoutDetached(ctx, ref); err != nil {
		return fmt.Errorf("checking out %s failed: %w", ref, err)
	}

	defer func() {
		if releaseErr := e.releaseCheckout(context.WithoutCancel(ctx)); releaseErr != nil {
			err = errors.Join(err, releaseErr)
		}
	}()

	return fn()
}

func (e *executor) releaseCheckout(ctx context.Context) error {
	inProgress, err := e.git.CherryPickInProgress(ctx)
	if err != nil {
		return fmt.Errorf("checking for an in-progress cherry-pick failed: %w", err)
	}

	if !inProgress {
		return nil
	}

	if err := e.git.AbortCherryPick(ctx); err != nil {
		return fmt.Errorf("aborting cherry-pick failed: %w", err)
	}

	e.logger.Debug("aborted in-progress cherry-pick", logfields.Event("git_cherry_pick_aborted"))

	return nil
}

// markFailed adds the failed label to the original pull request, future
// runs skip it.
func (e *executor) markFailed(ctx context.Context, pr *PullRequestInfo) error {
	repo := e.cfg.SourceRepository

	if err := e.clt.AddLabel(ctx, repo.Owner, repo.Name, pr.PullRequest.Number, e.cfg.Labels.Failed); err != nil {
		return fmt.Errorf("adding label %q to pull request #%d failed: %w", e.cfg.Labels.Failed, pr.PullRequest.Number, err)
	}

	e.logger.Info(
		"pull request labeled as failed backport",
		append(pr.logFields(),
			logfields.Event("backport_failed_label_added"),
			logfields.Label(e.cfg.Labels.Failed),
		)...,
	)

	return nil
}

func (e *executor) publish(ctx context.Context, pr *PullRequestInfo, branch string, logger *zap.Logger) error {
	repo := e.cfg.TargetRepository

	nr, err := e.clt.CreatePullRequest(ctx, repo.Owner, repo.Name, &githubclt.NewPullRequest{
		Title: BackportTitle(e.targetBranch, pr),
		Body:  BackportDescription(pr),
		Head:  branch,
		Base:  e.targetBranch,
	})
	if err != nil {
		return fmt.Errorf("creating backport pull request failed: %w", err)
	}

	logger = logger.With(zap.Int("github.backport_pull_request", nr))

	if err := e.clt.AddLabel(ctx, repo.Owner, repo.Name, nr, e.cfg.Labels.Backport); err != nil {
		return fmt.Errorf("adding label %q to backport pull request #%d failed: %w", e.cfg.Labels.Backport, nr, err)
	}

	if pr.PullRequest.Author != "" {
		if err := e.clt.AddAssignees(ctx, repo.Owner, repo.Name, nr, pr.PullRequest.Author); err != nil {
			return fmt.Errorf("assigning backport pull request #%d to %q failed: %w", nr, pr.PullRequest.Author, err)
		}
	} else {
		logger.Warn(
			"original pull request has no author, backport pull request is not assigned",
			logfields.Event("backport_pull_request_not_assigned"),
		)
	}

	if err := e.clt.EnableAutoMerge(ctx, repo.Owner, repo.Name, nr); err != nil {
		return fmt.Errorf("enabling auto-merge for backport pull request #%d failed: %w", nr, err)
	}

	logger.Info("created backport pull request", logfields.Event("backport_pull_request_created"))

	return nil
}
