package githubclt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v43/github"
)

// PullRequest contains the fields of a GitHub pull request that are relevant
// for backporting.
type PullRequest struct {
	Number int
	Title  string
	Body   string
	// Author is the login of the user that opened the pull request.
	Author string
	Labels []string
}

// Issue contains the fields of a GitHub issue that are relevant for
// backporting.
type Issue struct {
	Number int
	Title  string
	Labels []string
}

// NewPullRequest describes a pull request that is created.
type NewPullRequest struct {
	Title string
	Body  string
	// Head is the name of the branch containing the changes.
	Head string
	// Base is the name of the branch the changes are merged into.
	Base string
}

func labelNames(labels []*github.Label) []string {
	result := make([]string, 0, len(labels))
	for _, l := range labels {
		result = append(result, l.GetName())
	}

	return result
}

func toPullRequest(pr *github.PullRequest) *PullRequest {
	return &PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		Author: pr.GetUser().GetLogin(),
		Labels: labelNames(pr.Labels),
	}
}

// PullRequestsForCommit returns the pull requests that are associated with
// the commit.
// For a commit on the main branch, it is the pull request that merged it.
func (clt *Client) PullRequestsForCommit(ctx context.Context, owner, repo, sha string) ([]*PullRequest, error) {
	prs, _, err := clt.restClt.PullRequests.ListPullRequestsWithCommit(ctx, owner, repo, sha, &github.PullRequestListOptions{
		State: "all",
	})
	if err != nil {
		return nil, clt.wrapRetryableErrors(err)
	}

	result := make([]*PullRequest, 0, len(prs))
	for _, pr := range prs {
		result = append(result, toPullRequest(pr))
	}

	return result, nil
}

// PullRequestFiles returns the paths of all files that are changed by the
// pull request.
func (clt *Client) PullRequestFiles(ctx context.Context, owner, repo string, prNumber int) ([]string, error) {
	var result []string

	opts := github.ListOptions{PerPage: 100, Page: 1}
	for {
		files, resp, err := clt.restClt.PullRequests.ListFiles(ctx, owner, repo, prNumber, &opts)
		if err != nil {
			return nil, clt.wrapRetryableErrors(err)
		}

		for _, f := range files {
			result = append(result, f.GetFilename())
		}

		if resp.NextPage == 0 || len(files) == 0 {
			return result, nil
		}

		opts.Page = resp.NextPage
	}
}

// Issue returns the issue with the given number.
func (clt *Client) Issue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	issue, _, err := clt.restClt.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, clt.wrapRetryableErrors(err)
	}

	return &Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Labels: labelNames(issue.Labels),
	}, nil
}

// AddLabel adds a label to Pull-Request or Issue.
func (clt *Client) AddLabel(ctx context.Context, owner, repo string, pullRequestOrIssueNumber int, label string) error {
	if label == "" {
		// by default github removes all labels when none is provided,
		// we do not need this functionality, as safe guard fail if
		// because of a bug an empty label value is passed:
		return errors.New("provided label is empty")
	}
	_, _, err := clt.restClt.Issues.AddLabelsToIssue(ctx, owner, repo, pullRequestOrIssueNumber, []string{label})
	return clt.wrapRetryableErrors(err)
}

// AddAssignees assigns the users to a Pull-Request or Issue.
func (clt *Client) AddAssignees(ctx context.Context, owner, repo string, pullRequestOrIssueNumber int, logins ...string) error {
	_, _, err := clt.restClt.Issues.AddAssignees(ctx, owner, repo, pullRequestOrIssueNumber, logins)
	return clt.wrapRetryableErrors(err)
}

// CreatePullRequest creates a pull request and returns its number.
func (clt *Client) CreatePullRequest(ctx context.Context, owner, repo string, pr *NewPullRequest) (int, error) {
	created, _, err := clt.restClt.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.String(pr.Title),
		Body:  github.String(pr.Body),
		Head:  github.String(pr.Head),
		Base:  github.String(pr.Base),
	})
	if err != nil {
		return 0, clt.wrapRetryableErrors(err)
	}

	if created.GetNumber() <= 0 {
		return 0, fmt.Errorf("github returned pull request with invalid number: %d", created.GetNumber())
	}

	return created.GetNumber(), nil
}
