package backport

import (
	"fmt"
	"regexp"
	"strings"
)

var closingKeywordRe = regexp.MustCompile(`(?i)\b(fix(?:es|ed)?|close[sd]?|resolve[sd]?)(\s+#[0-9]+)`)

// NeutralizeClosingKeywords wraps GitHub issue closing keywords that
// reference an issue, like "Fixes #123", in code markup.
// GitHub does not interpret them anymore, the backport pull request then does
// not close the original issue a second time.
// Applying it multiple times has the same result as applying it once.
func NeutralizeClosingKeywords(text string) string {
	return closingKeywordRe.ReplaceAllString(text, "`$1`$2")
}

// BackportTitle returns the title of the backport pull request.
func BackportTitle(targetBranch string, original *PullRequestInfo) string {
	return fmt.Sprintf(
		"Backport to %s: #%d: %s",
		targetBranch, original.PullRequest.Number, original.PullRequest.Title,
	)
}

// BackportDescription returns the body of the backport pull request.
func BackportDescription(original *PullRequestInfo) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "This is an automated backport of #%d: %s.\n",
		original.PullRequest.Number, original.PullRequest.Title,
	)
	fmt.Fprintf(&sb, "The original issue is #%d.\n", original.IssueNumber)
	sb.WriteString("\n")
	sb.WriteString("This PR will be merged automatically after all the relevant CI checks pass. " +
		"If this fix should not be backported, or will be backported manually, " +
		"just close this PR. You can use the backport branch to add your " +
		"changes, it won't be modified automatically anymore.\n",
	)
	sb.WriteString("\n")
	sb.WriteString("## Original description\n")
	fmt.Fprintf(&sb, "### %s\n", original.PullRequest.Title)
	sb.WriteString(NeutralizeClosingKeywords(original.PullRequest.Body))

	return sb.String()
}
