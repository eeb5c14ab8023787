package githubclt

import (
	"context"
	"errors"
	"fmt"

	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/logfields"
)

// QueryError is returned when a GraphQL request failed.
// The GitHub GraphQL API responds with 200 OK for requests that failed
// logically and reports them in the "errors" field of the response body.
// Both, non-200 responses and responses with errors, result in a QueryError.
type QueryError struct {
	// Op is a short name of the operation that failed.
	Op string
	// HTTPStatus is the status code of the response, it is 0 if the
	// request succeeded on the HTTP level.
	HTTPStatus int
	Err        error
}

func (e *QueryError) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("graphql %s failed with http status %d: %s", e.Op, e.HTTPStatus, e.Err)
	}

	return fmt.Sprintf("graphql %s failed: %s", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func (clt *Client) query(ctx context.Context, op string, q any, vars map[string]any) error {
	if err := clt.graphQLClt.Query(ctx, q, vars); err != nil {
		return clt.wrapGraphQLError(op, err)
	}

	return nil
}

func (clt *Client) mutate(ctx context.Context, op string, m any, input githubv4.Input) error {
	if err := clt.graphQLClt.Mutate(ctx, m, input, nil); err != nil {
		return clt.wrapGraphQLError(op, err)
	}

	return nil
}

// ReferencedIssue returns the number of the issue that is closed by the pull
// request.
// If the pull request does not close any issue or closes more than 1 issue,
// 0 is returned.
func (clt *Client) ReferencedIssue(ctx context.Context, owner, repo string, prNumber int) (int, error) {
	var q struct {
		Repository struct {
			PullRequest struct {
				ClosingIssuesReferences struct {
					TotalCount int
					Nodes      []struct {
						Number int
					}
				} `graphql:"closingIssuesReferences(first: 2)"`
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	vars := map[string]any{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(prNumber),
	}

	if err := clt.query(ctx, "closing issues references", &q, vars); err != nil {
		return 0, err
	}

	refs := q.Repository.PullRequest.ClosingIssuesReferences
	if refs.TotalCount != 1 || len(refs.Nodes) != 1 {
		return 0, nil
	}

	return refs.Nodes[0].Number, nil
}

func (clt *Client) pullRequestNodeID(ctx context.Context, owner, repo string, prNumber int) (githubv4.ID, error) {
	var q struct {
		Repository struct {
			PullRequest struct {
				ID githubv4.ID
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	vars := map[string]any{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(prNumber),
	}

	if err := clt.query(ctx, "pull request id", &q, vars); err != nil {
		return nil, err
	}

	if q.Repository.PullRequest.ID == nil || q.Repository.PullRequest.ID == "" {
		return nil, errors.New("github returned an empty pull request id")
	}

	return q.Repository.PullRequest.ID, nil
}

// EnableAutoMerge enables auto-merge with the rebase merge method for the
// pull request.
func (clt *Client) EnableAutoMerge(ctx context.Context, owner, repo string, prNumber int) error {
	// the mutation requires the node id of the pull request, which differs
	// from its number
	id, err := clt.pullRequestNodeID(ctx, owner, repo, prNumber)
	if err != nil {
		return fmt.Errorf("resolving pull request node id failed: %w", err)
	}

	var m struct {
		EnablePullRequestAutoMerge struct {
			ClientMutationID string
		} `graphql:"enablePullRequestAutoMerge(input: $input)"`
	}

	mergeMethod := githubv4.PullRequestMergeMethodRebase
	input := githubv4.EnablePullRequestAutoMergeInput{
		PullRequestID: id,
		MergeMethod:   &mergeMethod,
	}

	if err := clt.mutate(ctx, "enable auto-merge", &m, input); err != nil {
		return err
	}

	clt.logger.Debug(
		"auto-merge enabled",
		logfields.Event("github_auto_merge_enabled"),
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.PullRequest(prNumber),
		zap.Any("github.pull_request_id", id),
	)

	return nil
}
