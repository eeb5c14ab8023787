package backport

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/git"
	"github.com/simplesurance/backporter/internal/githubclt"
	"github.com/simplesurance/backporter/internal/logfields"
	"github.com/simplesurance/backporter/internal/orderedmap"
)

// SkipReason describes why a commit is not backported.
type SkipReason string

const (
	SkipAlreadyInBranch SkipReason = "already_in_branch"
	SkipNoPullRequest   SkipReason = "no_pull_request"
	SkipNoSingleIssue   SkipReason = "no_single_issue"
	SkipStopperLabel    SkipReason = "stopper_label"
	SkipStopperFile     SkipReason = "stopper_file"
	SkipIssueNotBug     SkipReason = "issue_not_bug"
	SkipIssueNoBackport SkipReason = "issue_no_backport"
	SkipFilterQuery     SkipReason = "filter_query_mismatch"
	notSkipped          SkipReason = ""
)

// Candidate is a commit that qualifies for backporting.
type Candidate struct {
	Commit      *git.Commit
	PullRequest *githubclt.PullRequest
	Issue       *githubclt.Issue
}

// PullRequestInfo is a pull request that is backported together with the
// commits in the main branch that resulted from it.
type PullRequestInfo struct {
	PullRequest *githubclt.PullRequest
	// IssueNumber is the number of the issue that is closed by the pull
	// request.
	IssueNumber int
	// Commits are the hashes of the commits in chronological order.
	Commits []string
}

func (p *PullRequestInfo) logFields() []zap.Field {
	return []zap.Field{
		logfields.PullRequest(p.PullRequest.Number),
		logfields.Issue(p.IssueNumber),
		zap.String("github.pull_request_title", p.PullRequest.Title),
	}
}

// Policy decides which commits of the main branch are backported.
type Policy struct {
	repo         Repository
	labels       Labels
	stopperFiles map[string]struct{}
	branchTitles map[string]struct{}
	clt          GithubClient
	filter       *FilterQuery
	logger       *zap.Logger
}

func newPolicy(cfg *Config, clt GithubClient, filter *FilterQuery, branchTitles map[string]struct{}) *Policy {
	stopperFiles := make(map[string]struct{}, len(cfg.StopperFiles))
	for _, f := range cfg.StopperFiles {
		stopperFiles[f] = struct{}{}
	}

	return &Policy{
		repo:         cfg.SourceRepository,
		labels:       cfg.Labels,
		stopperFiles: stopperFiles,
		branchTitles: branchTitles,
		clt:          clt,
		filter:       filter,
		logger:       zap.L().Named(loggerName).With(cfg.SourceRepository.logFields()...),
	}
}

func containsAny(labels []string, search ...string) (string, bool) {
	for _, l := range labels {
		for _, s := range search {
			if l == s {
				return l, true
			}
		}
	}

	return "", false
}

// Evaluate runs the commit through the chain of backport rules.
// If the commit qualifies, a Candidate is returned, otherwise the reason why
// it was skipped.
// The GitHub API is only queried for the information that is needed to
// decide about the next rule.
func (p *Policy) Evaluate(ctx context.Context, commit *git.Commit) (*Candidate, SkipReason, error) {
	logger := p.logger.With(logfields.Commit(commit.Hash), logfields.CommitTitle(commit.Title))

	if _, exist := p.branchTitles[commit.Title]; exist {
		logger.Debug("commit is already in the target branch", logfields.Event("commit_already_in_branch"))
		return nil, SkipAlreadyInBranch, nil
	}

	prs, err := p.clt.PullRequestsForCommit(ctx, p.repo.Owner, p.repo.Name, commit.Hash)
	if err != nil {
		return nil, notSkipped, fmt.Errorf("retrieving pull requests for commit %s failed: %w", commit.Hash, err)
	}

	if len(prs) == 0 {
		logger.Debug("commit does not belong to a pull request", logfields.Event("commit_without_pull_request"))
		return nil, SkipNoPullRequest, nil
	}

	pr := prs[0]
	logger = logger.With(logfields.PullRequest(pr.Number))

	issueNr, err := p.clt.ReferencedIssue(ctx, p.repo.Owner, p.repo.Name, pr.Number)
	if err != nil {
		return nil, notSkipped, fmt.Errorf("retrieving issue closed by pull request #%d failed: %w", pr.Number, err)
	}

	if issueNr == 0 {
		logger.Debug(
			"pull request does not close exactly one issue",
			logfields.Event("pull_request_no_single_issue"),
		)
		return nil, SkipNoSingleIssue, nil
	}

	logger = logger.With(logfields.Issue(issueNr))

	if label, found := containsAny(pr.Labels, p.labels.NoBackport, p.labels.Failed); found {
		logger.Debug(
			"pull request has a label that prevents backporting",
			logfields.Event("pull_request_has_stopper_label"),
			logfields.Label(label),
		)
		return nil, SkipStopperLabel, nil
	}

	if len(p.stopperFiles) > 0 {
		files, err := p.clt.PullRequestFiles(ctx, p.repo.Owner, p.repo.Name, pr.Number)
		if err != nil {
			return nil, notSkipped, fmt.Errorf("retrieving files of pull request #%d failed: %w", pr.Number, err)
		}

		for _, f := range files {
			if _, exist := p.stopperFiles[f]; exist {
				logger.Debug(
					"pull request modifies a file that prevents backporting",
					logfields.Event("pull_request_modifies_stopper_file"),
					zap.String("file", f),
				)
				return nil, SkipStopperFile, nil
			}
		}
	}

	issue, err := p.clt.Issue(ctx, p.repo.Owner, p.repo.Name, issueNr)
	if err != nil {
		return nil, notSkipped, fmt.Errorf("retrieving issue #%d failed: %w", issueNr, err)
	}

	if _, found := containsAny(issue.Labels, p.labels.Bug); !found {
		logger.Debug(
			"issue is not labeled as bug",
			logfields.Event("issue_not_bug"),
			logfields.Label(p.labels.Bug),
		)
		return nil, SkipIssueNotBug, nil
	}

	if _, found := containsAny(issue.Labels, p.labels.NoBackport); found {
		logger.Debug(
			"issue has a label that prevents backporting",
			logfields.Event("issue_has_stopper_label"),
			logfields.Label(p.labels.NoBackport),
		)
		return nil, SkipIssueNoBackport, nil
	}

	candidate := Candidate{
		Commit:      commit,
		PullRequest: pr,
		Issue:       issue,
	}

	if p.filter != nil {
		match, err := p.filter.Match(ctx, &candidate)
		if err != nil {
			return nil, notSkipped, fmt.Errorf("evaluating filter query for commit %s failed: %w", commit.Hash, err)
		}

		if !match {
			logger.Debug("filter query does not match", logfields.Event("filter_query_mismatch"))
			return nil, SkipFilterQuery, nil
		}
	}

	logger.Info(
		"commit will be considered for backporting",
		logfields.Event("commit_qualified"),
		zap.String("github.pull_request_title", pr.Title),
		zap.String("github.issue_title", issue.Title),
	)

	return &candidate, notSkipped, nil
}

// Collect evaluates the commits and groups the qualifying ones by their pull
// request.
// commits must be ordered newest first, the commits of the returned pull
// requests are in chronological order.
func (p *Policy) Collect(ctx context.Context, commits []*git.Commit, result *RunResult) (*orderedmap.Map[int, *PullRequestInfo], error) {
	prs := orderedmap.New[int, *PullRequestInfo]()

	for _, commit := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate, reason, err := p.Evaluate(ctx, commit)
		if err != nil {
			return nil, err
		}

		if candidate == nil {
			result.recordSkip(reason)
			continue
		}

		info, _ := prs.EnqueueIfNotExist(candidate.PullRequest.Number, &PullRequestInfo{
			PullRequest: candidate.PullRequest,
			IssueNumber: candidate.Issue.Number,
		})

		info.Commits = append([]string{commit.Hash}, info.Commits...)
	}

	return prs, nil
}
