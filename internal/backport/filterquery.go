package backport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// FilterQuery is a jq expression that is evaluated on the JSON
// representation of a backport candidate.
// The query must return exactly one boolean value.
//
// The evaluated document has the form:
//
//	{
//	  "commit": {"hash": "...", "title": "..."},
//	  "pull_request": {"number": 1, "title": "...", "body": "...", "author": "...", "labels": ["..."]},
//	  "issue": {"number": 1, "title": "...", "labels": ["..."]}
//	}
type FilterQuery struct {
	query *gojq.Query
}

func NewFilterQuery(jqQuery string) (*FilterQuery, error) {
	query, err := gojq.Parse(jqQuery)
	if err != nil {
		return nil, err
	}

	return &FilterQuery{query: query}, nil
}

func (q *FilterQuery) String() string {
	return q.query.String()
}

type filterDocument struct {
	Commit struct {
		Hash  string `json:"hash"`
		Title string `json:"title"`
	} `json:"commit"`
	PullRequest struct {
		Number int      `json:"number"`
		Title  string   `json:"title"`
		Body   string   `json:"body"`
		Author string   `json:"author"`
		Labels []string `json:"labels"`
	} `json:"pull_request"`
	Issue struct {
		Number int      `json:"number"`
		Title  string   `json:"title"`
		Labels []string `json:"labels"`
	} `json:"issue"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

// toJQInput converts the candidate to the generic map representation that
// gojq operates on.
func toJQInput(c *Candidate) (any, error) {
	var doc filterDocument

	doc.Commit.Hash = c.Commit.Hash
	doc.Commit.Title = c.Commit.Title
	doc.PullRequest.Number = c.PullRequest.Number
	doc.PullRequest.Title = c.PullRequest.Title
	doc.PullRequest.Body = c.PullRequest.Body
	doc.PullRequest.Author = c.PullRequest.Author
	doc.PullRequest.Labels = nonNil(c.PullRequest.Labels)
	doc.Issue.Number = c.Issue.Number
	doc.Issue.Title = c.Issue.Title
	doc.Issue.Labels = nonNil(c.Issue.Labels)

	buf, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling candidate to json failed: %w", err)
	}

	var result any
	if err := json.Unmarshal(buf, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling json failed: %w", err)
	}

	return result, nil
}

func goJQIterToSlice(iter gojq.Iter) ([]any, []error) {
	var result []any
	var errs []error

	for {
		res, ok := iter.Next()
		if !ok {
			return result, errs
		}

		if err, isErr := res.(error); isErr {
			errs = append(errs, err)
			continue
		}

		result = append(result, res)
	}
}

func errString(errs []error) string {
	var result strings.Builder

	for i, err := range errs {
		if i > 0 {
			result.WriteString("; ")
		}

		fmt.Fprintf(&result, "error %d: %s", i, err)
	}

	return result.String()
}

// Match returns true if the query evaluates to true for the candidate.
func (q *FilterQuery) Match(ctx context.Context, c *Candidate) (bool, error) {
	in, err := toJQInput(c)
	if err != nil {
		return false, err
	}

	result, errs := goJQIterToSlice(q.query.RunWithContext(ctx, in))
	if len(errs) != 0 {
		return false, fmt.Errorf("json query returned errors, query: %q, errors: %s", q.query.String(), errString(errs))
	}

	if len(result) != 1 {
		return false, fmt.Errorf("json query returned %d results, expected 1, query: %q", len(result), q.query.String())
	}

	val, ok := result[0].(bool)
	if !ok {
		return false, fmt.Errorf(
			"json query returned non-bool result: %+v (%T), query: %q",
			result[0], result[0], q.query.String(),
		)
	}

	return val, nil
}
