package backport

import (
	"context"

	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/githubclt"
	"github.com/simplesurance/backporter/internal/logfields"
)

// Retryer runs fn repeatedly while it fails with a retryable error.
type Retryer interface {
	Run(ctx context.Context, fn func(context.Context) error, logF []zap.Field) error
}

// RetryingGithubClient wraps a GithubClient and retries operations that fail
// with a retryable error.
// CreatePullRequest is not retried, a request that timed out on the client
// side might still have created the pull request.
type RetryingGithubClient struct {
	clt     GithubClient
	retryer Retryer
}

func NewRetryingGithubClient(clt GithubClient, retryer Retryer) *RetryingGithubClient {
	return &RetryingGithubClient{
		clt:     clt,
		retryer: retryer,
	}
}

func operation(name string) zap.Field {
	return zap.String("github.operation", name)
}

func repoFields(owner, repo string, number int) []zap.Field {
	return []zap.Field{
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.PullRequest(number),
	}
}

func (c *RetryingGithubClient) PullRequestsForCommit(ctx context.Context, owner, repo, sha string) ([]*githubclt.PullRequest, error) {
	var result []*githubclt.PullRequest

	err := c.retryer.Run(ctx, func(ctx context.Context) error {
		var err error
		result, err = c.clt.PullRequestsForCommit(ctx, owner, repo, sha)
		return err
	}, []zap.Field{
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.Commit(sha),
		operation("pull_requests_for_commit"),
	})

	return result, err
}

func (c *RetryingGithubClient) ReferencedIssue(ctx context.Context, owner, repo string, prNumber int) (int, error) {
	var result int

	err := c.retryer.Run(ctx, func(ctx context.Context) error {
		var err error
		result, err = c.clt.ReferencedIssue(ctx, owner, repo, prNumber)
		return err
	}, append(repoFields(owner, repo, prNumber), operation("referenced_issue")))

	return result, err
}

func (c *RetryingGithubClient) PullRequestFiles(ctx context.Context, owner, repo string, prNumber int) ([]string, error) {
	var result []string

	err := c.retryer.Run(ctx, func(ctx context.Context) error {
		var err error
		result, err = c.clt.PullRequestFiles(ctx, owner, repo, prNumber)
		return err
	}, append(repoFields(owner, repo, prNumber), operation("pull_request_files")))

	return result, err
}

func (c *RetryingGithubClient) Issue(ctx context.Context, owner, repo string, number int) (*githubclt.Issue, error) {
	var result *githubclt.Issue

	err := c.retryer.Run(ctx, func(ctx context.Context) error {
		var err error
		result, err = c.clt.Issue(ctx, owner, repo, number)
		return err
	}, []zap.Field{
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.Issue(number),
		operation("issue"),
	})

	return result, err
}

func (c *RetryingGithubClient) AddLabel(ctx context.Context, owner, repo string, pullRequestOrIssueNumber int, label string) error {
	return c.retryer.Run(ctx, func(ctx context.Context) error {
		return c.clt.AddLabel(ctx, owner, repo, pullRequestOrIssueNumber, label)
	}, append(repoFields(owner, repo, pullRequestOrIssueNumber),
		logfields.Label(label),
		operation("add_label"),
	))
}

func (c *RetryingGithubClient) AddAssignees(ctx context.Context, owner, repo string, pullRequestOrIssueNumber int, logins ...string) error {
	return c.retryer.Run(ctx, func(ctx context.Context) error {
		return c.clt.AddAssignees(ctx, owner, repo, pullRequestOrIssueNumber, logins...)
	}, append(repoFields(owner, repo, pullRequestOrIssueNumber),
		zap.Strings("github.assignees", logins),
		operation("add_assignees"),
	))
}

func (c *RetryingGithubClient) CreatePullRequest(ctx context.Context, owner, repo string, pr *githubclt.NewPullRequest) (int, error) {
	return c.clt.CreatePullRequest(ctx, owner, repo, pr)
}

func (c *RetryingGithubClient) EnableAutoMerge(ctx context.Context, owner, repo string, prNumber int) error {
	return c.retryer.Run(ctx, func(ctx context.Context) error {
		return c.clt.EnableAutoMerge(ctx, owner, repo, prNumber)
	}, append(repoFields(owner, repo, prNumber), operation("enable_auto_merge")))
}
