package backport

import (
	"context"

	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/logfields"
)

// DryGit forwards all operations to a wrapped Git, except pushing which is
// only simulated.
// Cherry-picks are still executed in the local working copy, conflicts are
// detected in dry-run mode.
type DryGit struct {
	Git
	logger *zap.Logger
}

func NewDryGit(g Git, logger *zap.Logger) *DryGit {
	return &DryGit{
		Git:    g,
		logger: logger.Named("dry_git"),
	}
}

func (g *DryGit) PushHead(_ context.Context, remote, branch string) error {
	g.logger.Info(
		"simulated pushing HEAD, nothing pushed",
		logfields.Event("dry_run_git_push"),
		logfields.Remote(remote),
		logfields.Branch(branch),
	)

	return nil
}
