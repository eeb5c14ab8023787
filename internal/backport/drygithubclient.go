package backport

import (
	"context"

	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/githubclt"
	"github.com/simplesurance/backporter/internal/logfields"
)

// DryGithubClient is a github-client that does not do any changes on github.
// All operations that could cause a change are simulated and always succeed.
// All other operations are forwarded to a wrapped GithubClient.
type DryGithubClient struct {
	clt    GithubClient
	logger *zap.Logger
	// nextPRNumber is returned by CreatePullRequest, it is decremented
	// on each call, simulated pull requests have negative numbers.
	nextPRNumber int
}

func NewDryGithubClient(clt GithubClient, logger *zap.Logger) *DryGithubClient {
	return &DryGithubClient{
		clt:          clt,
		logger:       logger.Named("dry_github_client"),
		nextPRNumber: -1,
	}
}

func (c *DryGithubClient) PullRequestsForCommit(ctx context.Context, owner, repo, sha string) ([]*githubclt.PullRequest, error) {
	return c.clt.PullRequestsForCommit(ctx, owner, repo, sha)
}

func (c *DryGithubClient) ReferencedIssue(ctx context.Context, owner, repo string, prNumber int) (int, error) {
	return c.clt.ReferencedIssue(ctx, owner, repo, prNumber)
}

func (c *DryGithubClient) PullRequestFiles(ctx context.Context, owner, repo string, prNumber int) ([]string, error) {
	return c.clt.PullRequestFiles(ctx, owner, repo, prNumber)
}

func (c *DryGithubClient) Issue(ctx context.Context, owner, repo string, number int) (*githubclt.Issue, error) {
	return c.clt.Issue(ctx, owner, repo, number)
}

func (c *DryGithubClient) AddLabel(_ context.Context, owner, repo string, pullRequestOrIssueNumber int, label string) error {
	c.logger.Info(
		"simulated adding label, no label added on github",
		logfields.Event("dry_run_label_added"),
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.PullRequest(pullRequestOrIssueNumber),
		logfields.Label(label),
	)

	return nil
}

func (c *DryGithubClient) AddAssignees(_ context.Context, owner, repo string, pullRequestOrIssueNumber int, logins ...string) error {
	c.logger.Info(
		"simulated assigning users, no assignees added on github",
		logfields.Event("dry_run_assignees_added"),
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.PullRequest(pullRequestOrIssueNumber),
		zap.Strings("github.assignees", logins),
	)

	return nil
}

func (c *DryGithubClient) CreatePullRequest(_ context.Context, owner, repo string, pr *githubclt.NewPullRequest) (int, error) {
	nr := c.nextPRNumber
	c.nextPRNumber--

	c.logger.Info(
		"simulated creating pull request, no pull request created on github",
		logfields.Event("dry_run_pull_request_created"),
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.Branch(pr.Head),
		logfields.TargetBranch(pr.Base),
		zap.String("github.pull_request_title", pr.Title),
		zap.String("github.pull_request_body", pr.Body),
		logfields.PullRequest(nr),
	)

	return nr, nil
}

func (c *DryGithubClient) EnableAutoMerge(_ context.Context, owner, repo string, prNumber int) error {
	c.logger.Info(
		"simulated enabling auto-merge",
		logfields.Event("dry_run_auto_merge_enabled"),
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.PullRequest(prNumber),
	)

	return nil
}
