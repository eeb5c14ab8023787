package backport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplesurance/backporter/internal/githubclt"
)

func TestNeutralizeClosingKeywords(t *testing.T) {
	tcs := []struct {
		in       string
		expected string
	}{
		{in: "Fixes #12", expected: "`Fixes` #12"},
		{in: "closes #7", expected: "`closes` #7"},
		{in: "Resolved #3", expected: "`Resolved` #3"},
		{in: "fix #1", expected: "`fix` #1"},
		{in: "FIXED  #100", expected: "`FIXED`  #100"},
		{in: "close #2, resolve #3", expected: "`close` #2, `resolve` #3"},
		{in: "This fixes #5.\nAlso closes #6", expected: "This `fixes` #5.\nAlso `closes` #6"},
		{in: "Fixes the crash", expected: "Fixes the crash"},
		{in: "See #12", expected: "See #12"},
		{in: "prefixes #4", expected: "prefixes #4"},
		{in: "", expected: ""},
	}

	for _, tc := range tcs {
		t.Run(tc.in, func(t *testing.T) {
			result := NeutralizeClosingKeywords(tc.in)
			assert.Equal(t, tc.expected, result)
			assert.Equal(t, result, NeutralizeClosingKeywords(result), "not idempotent")
		})
	}
}

func TestBackportTitle(t *testing.T) {
	pr := PullRequestInfo{
		PullRequest: &githubclt.PullRequest{Number: 50, Title: "Fix crash on empty input"},
		IssueNumber: 40,
	}

	assert.Equal(t, "Backport to 2.3.x: #50: Fix crash on empty input", BackportTitle("2.3.x", &pr))
}

func TestBackportDescription(t *testing.T) {
	pr := PullRequestInfo{
		PullRequest: &githubclt.PullRequest{
			Number: 50,
			Title:  "Fix crash on empty input",
			Body:   "The parser crashed on empty input.\n\nFixes #40",
		},
		IssueNumber: 40,
	}

	desc := BackportDescription(&pr)

	assert.True(t, strings.HasPrefix(desc, "This is an automated backport of #50: Fix crash on empty input.\nThe original issue is #40.\n"))
	assert.Contains(t, desc, "This PR will be merged automatically after all the relevant CI checks pass.")
	assert.Contains(t, desc, "## Original description\n### Fix crash on empty input\n")
	assert.True(t, strings.HasSuffix(desc, "The parser crashed on empty input.\n\n`Fixes` #40"))
	assert.NotContains(t, desc, "\nFixes #40")
}
