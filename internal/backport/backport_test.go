package backport

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/backporter/internal/backport/mocks"
	"github.com/simplesurance/backporter/internal/git"
	"github.com/simplesurance/backporter/internal/githubclt"
)

const (
	repoOwner = "timescale"
	repoName  = "timescaledb"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() *Config {
	repo := Repository{Owner: repoOwner, Name: repoName}

	return &Config{
		SourceRepository:  repo,
		SourceRemote:      "origin",
		TargetRepository:  repo,
		TargetRemote:      "origin",
		MainBranch:        "main",
		VersionConfigFile: "version.config",
		VersionKey:        "update_from_version",
		CommitLogLimit:    DefaultCommitLogLimit,
		StopperFiles:      DefaultStopperFiles,
		Labels:            DefaultLabels(),
	}
}

// bugFixFixture returns fakes with a single commit in main from PR #50 that
// closes the bug issue #40.
func bugFixFixture() (*fakeGithub, *fakeGit) {
	clt := newFakeGithub()
	clt.prsByCommit["abc1234"] = []*githubclt.PullRequest{{
		Number: 50,
		Title:  "Fix crash on empty input",
		Body:   "Fixes #40",
		Author: "alice",
	}}
	clt.closingIssue[50] = 40
	clt.files[50] = []string{"src/input.c"}
	clt.issues[40] = &githubclt.Issue{
		Number: 40,
		Title:  "Crash on empty input",
		Labels: []string{"bug"},
	}

	g := newFakeGit(
		[]*git.Commit{{Hash: "abc1234", Title: "Fix crash on empty input"}},
		[]*git.Commit{{Hash: "fff0001", Title: "Release 2.3.1"}},
	)

	return clt, g
}

func mustNew(t *testing.T, cfg *Config, clt GithubClient, g Git) *Backporter {
	t.Helper()

	b, err := New(cfg, clt, g)
	require.NoError(t, err)

	return b
}

func TestRunPublishesBugFix(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	clt, g := bugFixFixture()
	b := mustNew(t, testConfig(), clt, g)

	result, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2.3.x", result.TargetBranch)
	assert.Equal(t, []int{50}, result.Published)
	assert.Equal(t, 1, result.Outcomes[OutcomePublished])

	assert.Equal(t, []string{"origin"}, g.fetched)
	assert.Equal(t, "origin/2.3.x", g.head)
	assert.Equal(t, []string{"abc1234"}, g.picked)
	assert.Equal(t, []string{"backport/2.3.x/50"}, g.pushed)
	assert.Zero(t, g.aborts)

	require.Len(t, clt.created, 1)
	created := clt.created[0]
	assert.Equal(t, "timescale/timescaledb", created.Repository)
	assert.Equal(t, "Backport to 2.3.x: #50: Fix crash on empty input", created.PR.Title)
	assert.Equal(t, "backport/2.3.x/50", created.PR.Head)
	assert.Equal(t, "2.3.x", created.PR.Base)
	assert.Contains(t, created.PR.Body, "This is an automated backport of #50: Fix crash on empty input.")
	assert.Contains(t, created.PR.Body, "The original issue is #40.")
	assert.Contains(t, created.PR.Body, "`Fixes` #40")

	backportKey := issueKey(repoOwner, repoName, created.Number)
	assert.Equal(t, []string{"pr-backport"}, clt.labelsAdded[backportKey])
	assert.Equal(t, []string{"alice"}, clt.assignees[backportKey])
	assert.Equal(t, []string{backportKey}, clt.autoMerge)

	assert.Empty(t, clt.labelsAdded[issueKey(repoOwner, repoName, 50)])
}

func TestRunIssueWithoutBugLabelIsNotBackported(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	clt, g := bugFixFixture()
	clt.issues[40].Labels = []string{"enhancement"}

	b := mustNew(t, testConfig(), clt, g)

	result, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped[SkipIssueNotBug])
	assert.Empty(t, result.Outcomes)
	assert.Empty(t, clt.created)
	assert.Empty(t, clt.labelsAdded)
	assert.Empty(t, g.pushed)
	assert.Empty(t, g.picked)
}

func TestRunIsIdempotent(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	clt, g := bugFixFixture()
	b := mustNew(t, testConfig(), clt, g)

	_, err := b.Run(context.Background())
	require.NoError(t, err)

	result, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Outcomes[OutcomeSkippedExisting])
	assert.Empty(t, result.Published)
	assert.Len(t, clt.created, 1)
	assert.Equal(t, []string{"backport/2.3.x/50"}, g.pushed)
	assert.Empty(t, clt.labelsAdded[issueKey(repoOwner, repoName, 50)])
}

func TestRunRefusesMultiCommitPullRequests(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	clt, g := bugFixFixture()
	clt.prsByCommit["abc1235"] = clt.prsByCommit["abc1234"]
	g.mainCommits = []*git.Commit{
		{Hash: "abc1235", Title: "Add test for empty input"},
		{Hash: "abc1234", Title: "Fix crash on empty input"},
	}

	b := mustNew(t, testConfig(), clt, g)

	result, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Outcomes[OutcomeRefusedMultiCommit])
	assert.Equal(t, []int{50}, result.Failed)
	assert.Empty(t, g.picked)
	assert.Empty(t, g.pushed)
	assert.Empty(t, clt.created)
	assert.Equal(t,
		[]string{"pr-auto-backport-failed"},
		clt.labelsAdded[issueKey(repoOwner, repoName, 50)],
	)

	// the failed label prevents further attempts
	result, err = b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Skipped[SkipStopperLabel])
	assert.Empty(t, result.Outcomes)
}

func TestRunConflictLabelsPullRequestAndContinues(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	clt, g := bugFixFixture()
	clt.prsByCommit["bcd2345"] = []*githubclt.PullRequest{{
		Number: 51,
		Title:  "Fix wrong result with NULL values",
		Author: "bob",
	}}
	clt.closingIssue[51] = 41
	clt.issues[41] = &githubclt.Issue{Number: 41, Labels: []string{"bug"}}

	// newest first, the conflicting commit of PR #51 is processed first
	g.mainCommits = append([]*git.Commit{{Hash: "bcd2345", Title: "Fix wrong result with NULL values"}}, g.mainCommits...)
	g.conflicting["bcd2345"] = struct{}{}

	b := mustNew(t, testConfig(), clt, g)

	result, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Outcomes[OutcomeConflict])
	assert.Equal(t, 1, result.Outcomes[OutcomePublished])
	assert.Equal(t, []int{51}, result.Failed)
	assert.Equal(t, []int{50}, result.Published)

	assert.Equal(t, 1, g.aborts)
	assert.False(t, g.cherryPickInProgress)
	assert.Equal(t, []string{"backport/2.3.x/50"}, g.pushed)
	assert.Equal(t,
		[]string{"pr-auto-backport-failed"},
		clt.labelsAdded[issueKey(repoOwner, repoName, 51)],
	)
}

func TestRunPushFailureReleasesCheckout(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	pushErr := errors.New("remote rejected")

	mockctrl := gomock.NewController(t)
	clt := mocks.NewMockGithubClient(mockctrl)
	g := mocks.NewMockGit(mockctrl)

	exec := newExecutor(testConfig(), clt, g, "2.3.x")
	pr := PullRequestInfo{
		PullRequest: &githubclt.PullRequest{Number: 50, Title: "Fix crash on empty input"},
		IssueNumber: 40,
		Commits:     []string{"abc1234"},
	}

	gomock.InOrder(
		g.EXPECT().RemoteBranchExists(gomock.Any(), "origin", "backport/2.3.x/50").Return(false, nil),
		g.EXPECT().CheckoutDetached(gomock.Any(), "origin/2.3.x").Return(nil),
		g.EXPECT().CherryPick(gomock.Any(), "abc1234").Return(nil),
		g.EXPECT().PushHead(gomock.Any(), "origin", "backport/2.3.x/50").Return(pushErr),
		g.EXPECT().CherryPickInProgress(gomock.Any()).Return(false, nil),
	)

	_, err := exec.Backport(context.Background(), &pr)
	require.ErrorIs(t, err, pushErr)
}

func TestBackportAbortsCherryPickWhenContextIsCancelled(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	mockctrl := gomock.NewController(t)
	clt := mocks.NewMockGithubClient(mockctrl)
	g := mocks.NewMockGit(mockctrl)

	exec := newExecutor(testConfig(), clt, g, "2.3.x")
	pr := PullRequestInfo{
		PullRequest: &githubclt.PullRequest{Number: 50},
		IssueNumber: 40,
		Commits:     []string{"abc1234"},
	}

	ctx, cancelFn := context.WithCancel(context.Background())

	gomock.InOrder(
		g.EXPECT().RemoteBranchExists(gomock.Any(), "origin", "backport/2.3.x/50").Return(false, nil),
		g.EXPECT().CheckoutDetached(gomock.Any(), "origin/2.3.x").Return(nil),
		g.EXPECT().CherryPick(gomock.Any(), "abc1234").DoAndReturn(func(context.Context, ...string) error {
			cancelFn()
			return context.Canceled
		}),
		g.EXPECT().CherryPickInProgress(gomock.Any()).DoAndReturn(func(ctx context.Context) (bool, error) {
			assert.NoError(t, ctx.Err())
			return true, nil
		}),
		g.EXPECT().AbortCherryPick(gomock.Any()).Return(nil),
	)

	_, err := exec.Backport(ctx, &pr)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunForkCreatesPullRequestInTargetRepository(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	clt, g := bugFixFixture()

	cfg := testConfig()
	cfg.TargetRepository = Repository{Owner: "alice", Name: "timescaledb"}
	cfg.TargetRemote = "fork"

	b := mustNew(t, cfg, clt, g)

	_, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"origin", "fork"}, g.fetched)
	assert.Equal(t, "fork/2.3.x", g.head)
	require.Len(t, clt.created, 1)
	assert.Equal(t, "alice/timescaledb", clt.created[0].Repository)
	assert.Contains(t, g.remoteBranches, "fork/backport/2.3.x/50")
}

func TestRunDryRunDoesNotChangeAnything(t *testing.T) {
	logger := zaptest.NewLogger(t).Named(t.Name())
	t.Cleanup(zap.ReplaceGlobals(logger))

	clt, g := bugFixFixture()
	b := mustNew(t, testConfig(), NewDryGithubClient(clt, logger), NewDryGit(g, logger))

	result, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{50}, result.Published)
	assert.Equal(t, []string{"abc1234"}, g.picked)
	assert.Empty(t, g.pushed)
	assert.Empty(t, clt.created)
	assert.Empty(t, clt.labelsAdded)
	assert.Empty(t, clt.assignees)
	assert.Empty(t, clt.autoMerge)
}

func TestRunFailsOnInvalidVersionConfig(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	clt, g := bugFixFixture()
	g.files["origin/main:version.config"] = "version = 2.4.0-dev\n"

	b := mustNew(t, testConfig(), clt, g)

	_, err := b.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, g.picked)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	tcs := map[string]func(*Config){
		"no target remote":     func(c *Config) { c.TargetRemote = "" },
		"no source repository": func(c *Config) { c.SourceRepository = Repository{} },
		"empty label":          func(c *Config) { c.Labels.Failed = "" },
		"zero log limit":       func(c *Config) { c.CommitLogLimit = 0 },
		"invalid filter query": func(c *Config) { c.FilterQuery = ".pull_request | ==" },
	}

	for name, modify := range tcs {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			modify(cfg)

			_, err := New(cfg, newFakeGithub(), newFakeGit(nil, nil))
			assert.Error(t, err)
		})
	}
}

func TestParseRepository(t *testing.T) {
	repo, err := ParseRepository("timescale/timescaledb")
	require.NoError(t, err)
	assert.Equal(t, Repository{Owner: "timescale", Name: "timescaledb"}, repo)
	assert.Equal(t, "timescale/timescaledb", repo.String())

	for _, invalid := range []string{"", "timescale", "/timescaledb", "timescale/", "a/b/c"} {
		_, err := ParseRepository(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestBranchName(t *testing.T) {
	assert.Equal(t, "backport/2.3.x/50", BranchName("2.3.x", 50))
}
