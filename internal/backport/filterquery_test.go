package backport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/backporter/internal/git"
	"github.com/simplesurance/backporter/internal/githubclt"
)

func testCandidate() *Candidate {
	return &Candidate{
		Commit: &git.Commit{Hash: "abc1234", Title: "Fix crash on empty input"},
		PullRequest: &githubclt.PullRequest{
			Number: 50,
			Title:  "Fix crash on empty input",
			Author: "alice",
			Labels: []string{"tsl"},
		},
		Issue: &githubclt.Issue{Number: 40, Labels: []string{"bug", "segfault"}},
	}
}

func TestFilterQueryMatch(t *testing.T) {
	tcs := map[string]bool{
		`.pull_request.author == "alice"`:      true,
		`.pull_request.author == "bob"`:        false,
		`.issue.labels | any(. == "segfault")`: true,
		`.commit.title | startswith("Fix")`:    true,
		`.issue.number > 100`:                  false,
		`(.pull_request.labels | length) == 0`: false,
	}

	for query, expected := range tcs {
		t.Run(query, func(t *testing.T) {
			fq, err := NewFilterQuery(query)
			require.NoError(t, err)

			match, err := fq.Match(context.Background(), testCandidate())
			require.NoError(t, err)
			assert.Equal(t, expected, match)
		})
	}
}

func TestFilterQueryMatchNilLabels(t *testing.T) {
	fq, err := NewFilterQuery(`(.issue.labels | length) == 0`)
	require.NoError(t, err)

	c := testCandidate()
	c.Issue.Labels = nil

	match, err := fq.Match(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestFilterQueryErrors(t *testing.T) {
	tcs := []string{
		`.pull_request.number`,
		`.issue.labels[]`,
		`empty`,
		`error("failed")`,
	}

	for _, query := range tcs {
		t.Run(query, func(t *testing.T) {
			fq, err := NewFilterQuery(query)
			require.NoError(t, err)

			_, err = fq.Match(context.Background(), testCandidate())
			assert.Error(t, err)
		})
	}
}

func TestNewFilterQueryInvalid(t *testing.T) {
	_, err := NewFilterQuery(`.pull_request | ==`)
	assert.Error(t, err)
}
