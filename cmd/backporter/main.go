package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simplesurance/backporter/internal/backport"
	"github.com/simplesurance/backporter/internal/cfg"
	"github.com/simplesurance/backporter/internal/git"
	"github.com/simplesurance/backporter/internal/githubclt"
	"github.com/simplesurance/backporter/internal/logfields"
	"github.com/simplesurance/backporter/internal/metrics"
	"github.com/simplesurance/backporter/internal/retryer"
)

const appName = "backporter"

var logger *zap.Logger

// Version is set via a ldflag on compilation
var Version = "unknown"

func exitOnErr(msg string, err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "ERROR:", msg+", error:", err.Error())
	os.Exit(1)
}

func panicHandler() {
	if r := recover(); r != nil {
		logger.Info(
			"panic caught , terminating gracefully",
			zap.String("panic", fmt.Sprintf("%v", r)),
			zap.StackSkip("stacktrace", 1),
		)

		ctx, cancelFn := context.WithTimeout(context.Background(), time.Minute)
		defer cancelFn()

		goodbye.Exit(ctx, 1)
	}
}

type arguments struct {
	Verbose     *bool
	DryRun      *bool
	ConfigFile  *string
	EnvFiles    *[]string
	RepoDir     *string
	ShowVersion *bool
}

var args arguments

func mustParseCommandlineParams() {
	args = arguments{
		Verbose: pflag.BoolP(
			"verbose",
			"v",
			false,
			"enable verbose logging",
		),
		DryRun: pflag.Bool(
			"dry-run",
			false,
			"do not push branches and do not change anything on GitHub, cherry-picks are still done locally",
		),
		ConfigFile: pflag.StringP(
			"cfg-file",
			"c",
			"",
			"path to an optional backporter configuration file",
		),
		EnvFiles: pflag.StringSlice(
			"env-file",
			nil,
			"path to a file defining environment variables, can be specified multiple times",
		),
		RepoDir: pflag.StringP(
			"repo-dir",
			"C",
			".",
			"path to the git working copy",
		),
		ShowVersion: pflag.Bool(
			"version",
			false,
			"print the version and exit",
		),
	}

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]\nBackport bug fixes from the main branch to the previous release branch.\n", appName)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()
}

func mustParseCfg() *cfg.Config {
	// we use exitOnErr in this function instead of logger.Fatal() because
	// the logger is not initialized yet

	config := &cfg.Config{}

	if *args.ConfigFile != "" {
		var err error
		config, err = cfg.LoadFile(*args.ConfigFile)
		exitOnErr(fmt.Sprintf("could not load configuration file: %s", *args.ConfigFile), err)
	}

	environ, err := cfg.Environ(*args.EnvFiles...)
	exitOnErr("could not read environment", err)

	err = config.ApplyEnv(environ)
	exitOnErr("could not parse environment variables", err)

	if *args.DryRun {
		config.DryRun = true
	}

	config.SetDefaults()

	return config
}

func initLogFmtLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zapEncoderConfig(config)

	logger := zap.New(zapcore.NewCore(
		zaplogfmt.NewEncoder(cfg),
		os.Stdout,
		logLevel),
	)

	return logger
}

func zapEncoderConfig(config *cfg.Config) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()

	cfg.LevelKey = "loglevel"
	cfg.TimeKey = config.LogTimeKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	return cfg
}

func mustInitZapFormatLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.EncoderConfig = zapEncoderConfig(config)
	cfg.OutputPaths = []string{"stdout"}
	cfg.Encoding = config.LogFormat
	cfg.Level = zap.NewAtomicLevelAt(logLevel)

	logger, err := cfg.Build()
	exitOnErr("could not initialize logger", err)

	return logger
}

func mustInitLogger(config *cfg.Config, runID string) {
	var logLevel zapcore.Level
	if *args.Verbose {
		logLevel = zapcore.DebugLevel
	} else {
		if err := (&logLevel).Set(config.LogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "can not set log level to %q: %s \n", config.LogLevel, err)
			os.Exit(2)
		}
	}

	switch config.LogFormat {
	case "logfmt":
		logger = initLogFmtLogger(config, logLevel)
	case "console", "json":
		logger = mustInitZapFormatLogger(config, logLevel)
	default:
		fmt.Fprintf(os.Stderr, "unsupported log-format argument: %q\n", config.LogFormat)
		os.Exit(2)
	}

	logger = logger.Named("main").With(logfields.RunID(runID))
	zap.ReplaceGlobals(logger)

	goodbye.Register(func(context.Context, os.Signal) {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "flushing logs failed: %s\n", err)
		}
	})
}

func hide(in string) string {
	if in == "" {
		return in
	}

	return "**hidden**"
}

func logConfig(config *cfg.Config, bpCfg *backport.Config) {
	logger.Info(
		"loaded configuration",
		logfields.Event("cfg_loaded"),
		zap.String("cfg_file", *args.ConfigFile),
		zap.Strings("env_files", *args.EnvFiles),
		zap.String("repo_dir", *args.RepoDir),
		zap.String("github_api_token", hide(config.GithubAPIToken)),
		zap.Bool("manual_mode", config.ManualMode()),
		zap.Stringer("source_repository", bpCfg.SourceRepository),
		zap.String("source_remote", bpCfg.SourceRemote),
		zap.Stringer("target_repository", bpCfg.TargetRepository),
		zap.String("target_remote", bpCfg.TargetRemote),
		zap.String("main_branch", bpCfg.MainBranch),
		zap.String("version_config_file", bpCfg.VersionConfigFile),
		zap.String("version_key", bpCfg.VersionKey),
		zap.Int("commit_log_limit", bpCfg.CommitLogLimit),
		zap.Strings("stopper_files", bpCfg.StopperFiles),
		zap.Any("labels", bpCfg.Labels),
		zap.String("filter_query", bpCfg.FilterQuery),
		zap.Duration("github_retry_timeout", config.GithubRetryTimeout),
		zap.String("metrics_pushgateway_url", config.MetricsPushgatewayURL),
		zap.String("log_format", config.LogFormat),
		zap.String("log_time_key", config.LogTimeKey),
		zap.String("log_level", config.LogLevel),
		zap.Bool("dry_run", config.DryRun),
	)
}

func mustResolveCfg(config *cfg.Config) *backport.Config {
	bpCfg, err := config.Resolve()
	if errors.Is(err, cfg.ErrTargetNotSpecified) {
		fmt.Fprintf(os.Stderr, "%s.\n", err)
		os.Exit(1)
	}
	exitOnErr("invalid configuration", err)

	return bpCfg
}

func pushMetrics(config *cfg.Config, repository string, result *backport.RunResult, runErr error) {
	if config.MetricsPushgatewayURL == "" {
		return
	}

	collector := metrics.New()
	collector.Observe(repository, result, runErr)

	if err := collector.Push(context.Background(), config.MetricsPushgatewayURL, config.MetricsJob); err != nil {
		logger.Warn(
			"pushing metrics failed",
			logfields.Event("metrics_push_failed"),
			zap.Error(err),
		)
	}
}

func main() {
	defer panicHandler()

	defer goodbye.Exit(context.Background(), 1)
	goodbye.Notify(context.Background())

	mustParseCommandlineParams()

	if *args.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		os.Exit(0) // nolint:gocritic // defer functions won't run
	}

	config := mustParseCfg()

	mustInitLogger(config, uuid.NewString())

	bpCfg := mustResolveCfg(config)
	logConfig(config, bpCfg)

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	goodbye.Register(func(_ context.Context, sig os.Signal) {
		if sig != nil {
			logger.Info(fmt.Sprintf("terminating, received signal %s", sig.String()))
		}
		cancelFn()
	})

	rt := retryer.New(config.GithubRetryTimeout)
	githubClient := githubclt.New(config.GithubAPIToken)

	var user *githubclt.User
	err := rt.Run(ctx, func(ctx context.Context) error {
		var err error
		user, err = githubClient.AuthenticatedUser(ctx)
		return err
	}, []zap.Field{zap.String("github.operation", "authenticated_user")})
	exitOnErr("could not retrieve the user of the github api token", err)

	logger.Info(
		"committing as github token user",
		logfields.Event("git_committer_configured"),
		zap.String("git.committer_name", user.Name),
		zap.String("git.committer_email", user.NoReplyEmail()),
	)

	var gitClt backport.Git = git.New(*args.RepoDir, git.WithCommitter(user.Name, user.NoReplyEmail()))
	var clt backport.GithubClient = githubClient

	if config.GithubRetryTimeout > 0 {
		clt = backport.NewRetryingGithubClient(clt, rt)
	}

	if config.DryRun {
		logger.Info("dry run enabled, nothing will be changed", logfields.Event("dry_run_enabled"))
		clt = backport.NewDryGithubClient(clt, logger)
		gitClt = backport.NewDryGit(gitClt, logger)
	}

	backporter, err := backport.New(bpCfg, clt, gitClt)
	exitOnErr("could not initialize backporter", err)

	result, runErr := backporter.Run(ctx)
	pushMetrics(config, bpCfg.SourceRepository.String(), result, runErr)

	if runErr != nil {
		logger.Error(
			"backport run failed",
			logfields.Event("backport_run_failed"),
			zap.Error(runErr),
		)
		goodbye.Exit(context.Background(), 1)
	}

	goodbye.Exit(context.Background(), 0)
}
