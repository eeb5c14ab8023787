package backport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/git"
	"github.com/simplesurance/backporter/internal/githubclt"
	"github.com/simplesurance/backporter/internal/logfields"
	"github.com/simplesurance/backporter/internal/versionconfig"
)

//go:generate mockgen -destination mocks/mocks.go -package mocks . GithubClient,Git

const loggerName = "backporter"

// DefaultCommitLogLimit is the maximum number of commits that are compared
// between the main and the release branch.
const DefaultCommitLogLimit = 1000

// GithubClient is the subset of the GitHub API that is needed for
// backporting.
type GithubClient interface {
	PullRequestsForCommit(ctx context.Context, owner, repo, sha string) ([]*githubclt.PullRequest, error)
	ReferencedIssue(ctx context.Context, owner, repo string, prNumber int) (int, error)
	PullRequestFiles(ctx context.Context, owner, repo string, prNumber int) ([]string, error)
	Issue(ctx context.Context, owner, repo string, number int) (*githubclt.Issue, error)
	AddLabel(ctx context.Context, owner, repo string, pullRequestOrIssueNumber int, label string) error
	AddAssignees(ctx context.Context, owner, repo string, pullRequestOrIssueNumber int, logins ...string) error
	CreatePullRequest(ctx context.Context, owner, repo string, pr *githubclt.NewPullRequest) (int, error)
	EnableAutoMerge(ctx context.Context, owner, repo string, prNumber int) error
}

// Git are the operations on the local working copy that are needed for
// backporting.
type Git interface {
	Fetch(ctx context.Context, remote string) error
	ShowFile(ctx context.Context, ref, path string) (string, error)
	UniqueCommits(ctx context.Context, ref, excludeRef string, limit int) ([]*git.Commit, error)
	RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error)
	CheckoutDetached(ctx context.Context, ref string) error
	CherryPick(ctx context.Context, commits ...string) error
	CherryPickInProgress(ctx context.Context) (bool, error)
	AbortCherryPick(ctx context.Context) error
	PushHead(ctx context.Context, remote, branch string) error
}

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses a repository in the "owner/name" format.
func ParseRepository(s string) (Repository, error) {
	owner, name, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("invalid repository %q, expected owner/name", s)
	}

	return Repository{Owner: owner, Name: name}, nil
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

func (r Repository) logFields() []zap.Field {
	return []zap.Field{
		logfields.RepositoryOwner(r.Owner),
		logfields.Repository(r.Name),
	}
}

// Labels are the names of the GitHub labels that control backporting.
type Labels struct {
	// Bug marks issues whose fixes are backported.
	Bug string
	// NoBackport prevents backporting when set on an issue or pull request.
	NoBackport string
	// Failed is added to pull requests that could not be backported
	// automatically. It prevents further attempts.
	Failed string
	// Backport is added to the created backport pull requests.
	Backport string
}

func DefaultLabels() Labels {
	return Labels{
		Bug:        "bug",
		NoBackport: "no-backport",
		Failed:     "pr-auto-backport-failed",
		Backport:   "pr-backport",
	}
}

// DefaultStopperFiles are files that, when changed by a pull request, need
// manual reconciliation in the release branch.
var DefaultStopperFiles = []string{
	"sql/updates/latest-dev.sql",
	"sql/updates/reverse-dev.sql",
}

// Config configures a Backporter.
type Config struct {
	// SourceRepository is the repository that is searched for bug fixes.
	SourceRepository Repository
	// SourceRemote is the name of the git remote of SourceRepository.
	SourceRemote string
	// TargetRepository is the repository in that the backport pull
	// requests are created. It differs from SourceRepository when
	// backporting to a fork.
	TargetRepository Repository
	// TargetRemote is the name of the git remote of TargetRepository.
	TargetRemote string

	MainBranch string
	// VersionConfigFile is the path of the version configuration file in
	// the main branch.
	VersionConfigFile string
	// VersionKey is the key in the version configuration file that
	// contains the previous release version.
	VersionKey string

	CommitLogLimit int
	StopperFiles   []string
	Labels         Labels
	// FilterQuery is an optional jq expression, commits for which it does
	// not evaluate to true are not backported.
	FilterQuery string
}

func (c *Config) validate() error {
	if c.SourceRepository.Owner == "" || c.SourceRepository.Name == "" {
		return errors.New("source repository is not set")
	}

	if c.TargetRepository.Owner == "" || c.TargetRepository.Name == "" {
		return errors.New("target repository is not set")
	}

	if c.SourceRemote == "" {
		return errors.New("source remote is not set")
	}

	if c.TargetRemote == "" {
		return errors.New("target remote is not set")
	}

	if c.MainBranch == "" {
		return errors.New("main branch is not set")
	}

	if c.VersionConfigFile == "" {
		return errors.New("version config file is not set")
	}

	if c.VersionKey == "" {
		return errors.New("version key is not set")
	}

	if c.CommitLogLimit <= 0 {
		return fmt.Errorf("commit log limit is %d, must be >0", c.CommitLogLimit)
	}

	if c.Labels.Bug == "" || c.Labels.NoBackport == "" || c.Labels.Failed == "" || c.Labels.Backport == "" {
		return errors.New("all label names must be set")
	}

	return nil
}

// Backporter finds bug fixes in the main branch that are missing in the
// previous release branch and creates backport pull requests for them.
type Backporter struct {
	cfg    Config
	clt    GithubClient
	git    Git
	filter *FilterQuery
	logger *zap.Logger
}

func New(cfg *Config, clt GithubClient, g Git) (*Backporter, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	b := Backporter{
		cfg:    *cfg,
		clt:    clt,
		git:    g,
		logger: zap.L().Named(loggerName),
	}

	if cfg.FilterQuery != "" {
		fq, err := NewFilterQuery(cfg.FilterQuery)
		if err != nil {
			return nil, fmt.Errorf("parsing filter query failed: %w", err)
		}

		b.filter = fq
	}

	return &b, nil
}

// BranchName returns the name of the branch that contains the backport of
// the pull request to the target branch.
func BranchName(targetBranch string, prNumber int) string {
	return fmt.Sprintf("backport/%s/%d", targetBranch, prNumber)
}

// TargetBranch reads the version configuration file from the main branch of
// the source remote and returns the release branch of the previous version.
func (b *Backporter) TargetBranch(ctx context.Context) (string, error) {
	ref := b.cfg.SourceRemote + "/" + b.cfg.MainBranch

	content, err := b.git.ShowFile(ctx, ref, b.cfg.VersionConfigFile)
	if err != nil {
		return "", fmt.Errorf("reading %s from %s failed: %w", b.cfg.VersionConfigFile, ref, err)
	}

	vc, err := versionconfig.Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing %s failed: %w", b.cfg.VersionConfigFile, err)
	}

	return vc.ReleaseBranch(b.cfg.VersionKey)
}

func titleSet(commits []*git.Commit) map[string]struct{} {
	result := make(map[string]struct{}, len(commits))
	for _, c := range commits {
		result[c.Title] = struct{}{}
	}

	return result
}

// Run executes one backport pass.
// Errors that only affect a single pull request, like cherry-pick
// conflicts, are recorded in the returned RunResult. All other errors abort
// the run.
func (b *Backporter) Run(ctx context.Context) (*RunResult, error) {
	result := newRunResult()

	b.logger.Info(
		"looking for bug fixes to backport",
		logfields.Event("backport_run_started"),
		zap.Stringer("source_repository", b.cfg.SourceRepository),
		logfields.Remote(b.cfg.SourceRemote),
		zap.Stringer("target_repository", b.cfg.TargetRepository),
		zap.String("git.target_remote", b.cfg.TargetRemote),
	)

	if err := b.git.Fetch(ctx, b.cfg.SourceRemote); err != nil {
		return nil, fmt.Errorf("fetching remote %q failed: %w", b.cfg.SourceRemote, err)
	}

	if b.cfg.TargetRemote != b.cfg.SourceRemote {
		if err := b.git.Fetch(ctx, b.cfg.TargetRemote); err != nil {
			return nil, fmt.Errorf("fetching remote %q failed: %w", b.cfg.TargetRemote, err)
		}
	}

	targetBranch, err := b.TargetBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("determining target branch failed: %w", err)
	}
	result.TargetBranch = targetBranch

	logger := b.logger.With(logfields.TargetBranch(targetBranch))
	logger.Info("backport target branch determined", logfields.Event("target_branch_determined"))

	mainRef := b.cfg.SourceRemote + "/" + b.cfg.MainBranch
	targetRef := b.cfg.SourceRemote + "/" + targetBranch

	mainCommits, err := b.git.UniqueCommits(ctx, mainRef, targetRef, b.cfg.CommitLogLimit)
	if err != nil {
		return nil, fmt.Errorf("listing commits of %s missing in %s failed: %w", mainRef, targetRef, err)
	}

	branchCommits, err := b.git.UniqueCommits(ctx, targetRef, mainRef, b.cfg.CommitLogLimit)
	if err != nil {
		return nil, fmt.Errorf("listing commits of %s missing in %s failed: %w", targetRef, mainRef, err)
	}

	logger.Debug(
		"computed commit differences",
		logfields.Event("commit_differences_computed"),
		zap.Int("main_unique_commits", len(mainCommits)),
		zap.Int("target_unique_commits", len(branchCommits)),
	)

	policy := newPolicy(&b.cfg, b.clt, b.filter, titleSet(branchCommits))

	prs, err := policy.Collect(ctx, mainCommits, result)
	if err != nil {
		return nil, err
	}

	exec := newExecutor(&b.cfg, b.clt, b.git, targetBranch)

	for _, pr := range prs.AsSlice() {
		outcome, err := exec.Backport(ctx, pr)
		if err != nil {
			return result, fmt.Errorf("backporting pull request #%d failed: %w", pr.PullRequest.Number, err)
		}

		result.recordOutcome(pr, outcome)
	}

	result.EndTime = time.Now()

	logger.Info(
		"backport run finished",
		append(result.LogFields(), logfields.Event("backport_run_finished"))...,
	)

	return result, nil
}
