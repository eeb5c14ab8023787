// Package git runs operations on a local git working copy by executing the
// git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/logfields"
	"github.com/simplesurance/backporter/internal/stringutils"
)

const loggerName = "git"

// ErrCherryPickFailed is returned when git cherry-pick exits with an error,
// typically because of a merge conflict.
var ErrCherryPickFailed = errors.New("cherry-pick failed")

// CommandError is returned when a git command terminates with a non-zero
// exit code.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: exit code %d", strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr == "" {
		return msg
	}

	if !strings.Contains(e.Stderr, "\n") {
		return msg + ": " + e.Stderr
	}

	return msg + ", stderr:\n" + stringutils.IndentString(e.Stderr, "  ")
}

// Commit is a commit in the git history.
type Commit struct {
	Hash string
	// Title is the first line of the commit message.
	Title string
}

// Git executes git commands in a working directory.
type Git struct {
	dir    string
	env    []string
	logger *zap.Logger
}

type Option func(*Git)

// WithCommitter sets the committer name and email for all git invocations.
func WithCommitter(name, email string) Option {
	return func(g *Git) {
		g.env = append(g.env,
			"GIT_COMMITTER_NAME="+name,
			"GIT_COMMITTER_EMAIL="+email,
		)
	}
}

// New returns a Git that runs commands in the directory dir.
func New(dir string, opts ...Option) *Git {
	g := Git{
		dir:    dir,
		logger: zap.L().Named(loggerName),
	}

	for _, o := range opts {
		o(&g)
	}

	return &g
}

func (g *Git) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir
	if len(g.env) > 0 {
		cmd.Env = append(os.Environ(), g.env...)
	}

	return cmd
}

// tryRun runs git and returns its exit code.
// An error is only returned if the command could not be executed.
func (g *Git) tryRun(ctx context.Context, args ...string) (int, error) {
	var stderr bytes.Buffer

	cmd := g.command(ctx, args)
	cmd.Stderr = &stderr

	g.logger.Debug("running git command", logfields.Event("git_command_running"), zap.Strings("args", args))

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		g.logger.Debug(
			"git command failed",
			logfields.Event("git_command_failed"),
			zap.Strings("args", args),
			zap.Int("exit_code", exitErr.ExitCode()),
			zap.String("stderr", strings.TrimSpace(stderr.String())),
		)

		return exitErr.ExitCode(), nil
	}

	return -1, fmt.Errorf("executing git %s failed: %w", strings.Join(args, " "), err)
}

// run runs git and fails if it exits with a non-zero code.
func (g *Git) run(ctx context.Context, args ...string) error {
	_, err := g.output(ctx, args...)
	return err
}

// output runs git and returns its stdout.
func (g *Git) output(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := g.command(ctx, args)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	g.logger.Debug("running git command", logfields.Event("git_command_running"), zap.Strings("args", args))

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return "", &CommandError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}

		return "", fmt.Errorf("executing git %s failed: %w", strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}

// Fetch fetches all branches of the remote.
func (g *Git) Fetch(ctx context.Context, remote string) error {
	return g.run(ctx, "fetch", "--quiet", remote)
}

// ShowFile returns the content of the file at path in the tree of ref.
func (g *Git) ShowFile(ctx context.Context, ref, path string) (string, error) {
	return g.output(ctx, "show", ref+":"+path)
}

// UniqueCommits returns the commits that are reachable from ref but not from
// excludeRef, newest first.
// At most limit commits are returned.
func (g *Git) UniqueCommits(ctx context.Context, ref, excludeRef string, limit int) ([]*Commit, error) {
	out, err := g.output(
		ctx,
		"log",
		"-"+strconv.Itoa(limit),
		"--pretty=format:%H%x09%s",
		excludeRef+".."+ref,
		"--",
	)
	if err != nil {
		return nil, err
	}

	return parseLog(out)
}

func parseLog(out string) ([]*Commit, error) {
	var result []*Commit

	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}

		hash, title, found := strings.Cut(line, "\t")
		if !found || hash == "" {
			return nil, fmt.Errorf("unexpected git log line: %q", line)
		}

		result = append(result, &Commit{Hash: hash, Title: title})
	}

	return result, nil
}

// CheckoutDetached checks out ref as detached HEAD.
func (g *Git) CheckoutDetached(ctx context.Context, ref string) error {
	return g.run(ctx, "checkout", "--quiet", "--detach", ref)
}

// CherryPick applies the commits on top of HEAD.
// For merge commits the first parent is used as mainline, the original
// commit hash is recorded in the commit message.
// If cherry-picking fails, an error wrapping ErrCherryPickFailed is returned
// and the cherry-pick operation is left in progress.
func (g *Git) CherryPick(ctx context.Context, commits ...string) error {
	if len(commits) == 0 {
		return errors.New("no commits to cherry-pick")
	}

	args := append([]string{"cherry-pick", "--quiet", "-m", "1", "-x"}, commits...)

	exitCode, err := g.tryRun(ctx, args...)
	if err != nil {
		return err
	}

	if exitCode != 0 {
		return fmt.Errorf("%w: git exit code: %d", ErrCherryPickFailed, exitCode)
	}

	return nil
}

// AbortCherryPick aborts an in-progress cherry-pick and restores the
// previous HEAD.
func (g *Git) AbortCherryPick(ctx context.Context) error {
	return g.run(ctx, "cherry-pick", "--abort")
}

// CherryPickInProgress returns true if a cherry-pick operation is in
// progress.
func (g *Git) CherryPickInProgress(ctx context.Context) (bool, error) {
	exitCode, err := g.tryRun(ctx, "rev-parse", "--quiet", "--verify", "CHERRY_PICK_HEAD")
	if err != nil {
		return false, err
	}

	return exitCode == 0, nil
}

// PushHead pushes the current HEAD to the branch on remote.
func (g *Git) PushHead(ctx context.Context, remote, branch string) error {
	return g.run(ctx, "push", "--quiet", remote, "@:refs/heads/"+branch)
}

// RemoteBranchExists returns true if the remote tracking branch
// <remote>/<branch> exists.
func (g *Git) RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error) {
	exitCode, err := g.tryRun(ctx, "rev-parse", "--quiet", "--verify", "refs/remotes/"+remote+"/"+branch)
	if err != nil {
		return false, err
	}

	return exitCode == 0, nil
}
