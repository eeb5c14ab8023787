package backport

import (
	"context"
	"fmt"
	"strings"

	"github.com/simplesurance/backporter/internal/git"
	"github.com/simplesurance/backporter/internal/githubclt"
)

// fakeGit simulates a working copy with remote tracking branches.
type fakeGit struct {
	files         map[string]string
	mainCommits   []*git.Commit
	branchCommits []*git.Commit
	conflicting   map[string]struct{}

	remoteBranches       map[string]struct{}
	fetched              []string
	head                 string
	cherryPickInProgress bool
	picked               []string
	aborts               int
	pushed               []string
	pushErr              error
}

func newFakeGit(mainCommits, branchCommits []*git.Commit) *fakeGit {
	return &fakeGit{
		files: map[string]string{
			"origin/main:version.config": "version = 2.4.0-dev\nupdate_from_version = 2.3.1\ndowngrade_to_version = 2.3.1\n",
		},
		mainCommits:    mainCommits,
		branchCommits:  branchCommits,
		conflicting:    map[string]struct{}{},
		remoteBranches: map[string]struct{}{},
	}
}

func (g *fakeGit) Fetch(_ context.Context, remote string) error {
	g.fetched = append(g.fetched, remote)
	return nil
}

func (g *fakeGit) ShowFile(_ context.Context, ref, path string) (string, error) {
	content, exists := g.files[ref+":"+path]
	if !exists {
		return "", &git.CommandError{Args: []string{"show", ref + ":" + path}, ExitCode: 128}
	}

	return content, nil
}

func (g *fakeGit) UniqueCommits(_ context.Context, ref, _ string, limit int) ([]*git.Commit, error) {
	commits := g.branchCommits
	if strings.HasSuffix(ref, "/main") {
		commits = g.mainCommits
	}

	if len(commits) > limit {
		commits = commits[:limit]
	}

	return commits, nil
}

func (g *fakeGit) RemoteBranchExists(_ context.Context, remote, branch string) (bool, error) {
	_, exists := g.remoteBranches[remote+"/"+branch]
	return exists, nil
}

func (g *fakeGit) CheckoutDetached(_ context.Context, ref string) error {
	if g.cherryPickInProgress {
		return &git.CommandError{Args: []string{"checkout", ref}, ExitCode: 1, Stderr: "cherry-pick in progress"}
	}

	g.head = ref
	return nil
}

func (g *fakeGit) CherryPick(_ context.Context, commits ...string) error {
	for _, c := range commits {
		if _, exists := g.conflicting[c]; exists {
			g.cherryPickInProgress = true
			return fmt.Errorf("%w: git exit code: 1", git.ErrCherryPickFailed)
		}
	}

	g.picked = append(g.picked, commits...)
	return nil
}

func (g *fakeGit) CherryPickInProgress(context.Context) (bool, error) {
	return g.cherryPickInProgress, nil
}

func (g *fakeGit) AbortCherryPick(context.Context) error {
	g.aborts++
	g.cherryPickInProgress = false
	return nil
}

func (g *fakeGit) PushHead(_ context.Context, remote, branch string) error {
	if g.pushErr != nil {
		return g.pushErr
	}

	g.remoteBranches[remote+"/"+branch] = struct{}{}
	g.pushed = append(g.pushed, branch)
	return nil
}

type createdPullRequest struct {
	Repository string
	Number     int
	PR         *githubclt.NewPullRequest
}

// fakeGithub simulates the GitHub API of the source and target repository.
type fakeGithub struct {
	prsByCommit  map[string][]*githubclt.PullRequest
	closingIssue map[int]int
	files        map[int][]string
	issues       map[int]*githubclt.Issue

	labelsAdded map[string][]string
	assignees   map[string][]string
	created     []*createdPullRequest
	autoMerge   []string
	nextNumber  int
}

func newFakeGithub() *fakeGithub {
	return &fakeGithub{
		prsByCommit:  map[string][]*githubclt.PullRequest{},
		closingIssue: map[int]int{},
		files:        map[int][]string{},
		issues:       map[int]*githubclt.Issue{},
		labelsAdded:  map[string][]string{},
		assignees:    map[string][]string{},
		nextNumber:   1000,
	}
}

func issueKey(owner, repo string, number int) string {
	return fmt.Sprintf("%s/%s#%d", owner, repo, number)
}

func (c *fakeGithub) PullRequestsForCommit(_ context.Context, _, _, sha string) ([]*githubclt.PullRequest, error) {
	return c.prsByCommit[sha], nil
}

func (c *fakeGithub) ReferencedIssue(_ context.Context, _, _ string, prNumber int) (int, error) {
	return c.closingIssue[prNumber], nil
}

func (c *fakeGithub) PullRequestFiles(_ context.Context, _, _ string, prNumber int) ([]string, error) {
	return c.files[prNumber], nil
}

func (c *fakeGithub) Issue(_ context.Context, _, _ string, number int) (*githubclt.Issue, error) {
	issue, exists := c.issues[number]
	if !exists {
		return nil, fmt.Errorf("issue %d not found", number)
	}

	return issue, nil
}

func (c *fakeGithub) AddLabel(_ context.Context, owner, repo string, number int, label string) error {
	key := issueKey(owner, repo, number)
	c.labelsAdded[key] = append(c.labelsAdded[key], label)

	// labels of existing pull requests are visible in following runs
	seen := map[*githubclt.PullRequest]struct{}{}
	for _, prs := range c.prsByCommit {
		for _, pr := range prs {
			if _, exists := seen[pr]; exists || pr.Number != number {
				continue
			}

			seen[pr] = struct{}{}
			pr.Labels = append(pr.Labels, label)
		}
	}

	return nil
}

func (c *fakeGithub) AddAssignees(_ context.Context, owner, repo string, number int, logins ...string) error {
	key := issueKey(owner, repo, number)
	c.assignees[key] = append(c.assignees[key], logins...)
	return nil
}

func (c *fakeGithub) CreatePullRequest(_ context.Context, owner, repo string, pr *githubclt.NewPullRequest) (int, error) {
	nr := c.nextNumber
	c.nextNumber++

	c.created = append(c.created, &createdPullRequest{
		Repository: owner + "/" + repo,
		Number:     nr,
		PR:         pr,
	})

	return nr, nil
}

func (c *fakeGithub) EnableAutoMerge(_ context.Context, owner, repo string, prNumber int) error {
	c.autoMerge = append(c.autoMerge, issueKey(owner, repo, prNumber))
	return nil
}
