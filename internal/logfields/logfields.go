package logfields

import "go.uber.org/zap"

func Event(val string) zap.Field {
	return zap.String("event", val)
}

func RunID(val string) zap.Field {
	return zap.String("run_id", val)
}

func PullRequest(val int) zap.Field {
	return zap.Int("github.pull_request", val)
}

func Issue(val int) zap.Field {
	return zap.Int("github.issue", val)
}

func Repository(val string) zap.Field {
	return zap.String("git.repository", val)
}

func RepositoryOwner(val string) zap.Field {
	return zap.String("github.repository_owner", val)
}

func Remote(val string) zap.Field {
	return zap.String("git.remote", val)
}

func Branch(val string) zap.Field {
	return zap.String("git.branch", val)
}

func TargetBranch(val string) zap.Field {
	return zap.String("git.target_branch", val)
}

func Commit(val string) zap.Field {
	return zap.String("git.commit", val)
}

func CommitTitle(val string) zap.Field {
	return zap.String("git.commit_title", val)
}

func Label(val string) zap.Field {
	return zap.String("github.label", val)
}
