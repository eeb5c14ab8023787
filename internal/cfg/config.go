// Package cfg loads the configuration of the backporter.
//
// Values are read from an optional TOML file and then overwritten by
// environment variables. Unset values are replaced by defaults.
package cfg

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"

	"github.com/simplesurance/backporter/internal/backport"
	"github.com/simplesurance/backporter/internal/versionconfig"
)

// DefaultManualSourceRepository is the repository that is searched for bug
// fixes when the backporter is not run by a GitHub action.
const DefaultManualSourceRepository = "timescale/timescaledb"

// ErrTargetNotSpecified is returned by Resolve when the backporter is run
// manually and the target repository or remote is missing.
var ErrTargetNotSpecified = errors.New(
	"please specify the target repositories for debugging, using the " +
		"environment variables BACKPORT_TARGET_REPO (e.g. `timescale/timescaledb`) " +
		"and BACKPORT_TARGET_REMOTE (e.g. `origin`)",
)

type Config struct {
	GithubAPIToken string `toml:"github_api_token" env:"GITHUB_TOKEN"`

	// SourceRepository is set by GitHub actions, if it is empty the
	// backporter runs in manual mode.
	SourceRepository   string        `toml:"source_repository" env:"GITHUB_REPOSITORY"`
	SourceRemote       string        `toml:"source_remote" env:"BACKPORT_SOURCE_REMOTE"`
	TargetRepository   string        `toml:"target_repository" env:"BACKPORT_TARGET_REPO"`
	TargetRemote       string        `toml:"target_remote" env:"BACKPORT_TARGET_REMOTE"`
	MainBranch         string        `toml:"main_branch" env:"BACKPORT_MAIN_BRANCH"`
	VersionConfigFile  string        `toml:"version_config_file" env:"BACKPORT_VERSION_CONFIG_FILE"`
	VersionKey         string        `toml:"version_key" env:"BACKPORT_VERSION_KEY"`
	CommitLogLimit     int           `toml:"commit_log_limit" env:"BACKPORT_COMMIT_LOG_LIMIT"`
	StopperFiles       []string      `toml:"stopper_files" env:"BACKPORT_STOPPER_FILES" envSeparator:","`
	Labels             Labels        `toml:"labels" envPrefix:"BACKPORT_LABEL_"`
	FilterQuery        string        `toml:"filter_query" env:"BACKPORT_FILTER_QUERY"`
	GithubRetryTimeout time.Duration `toml:"github_retry_timeout" env:"BACKPORT_GITHUB_RETRY_TIMEOUT"`

	MetricsPushgatewayURL string `toml:"metrics_pushgateway_url" env:"BACKPORT_METRICS_PUSHGATEWAY_URL"`
	MetricsJob            string `toml:"metrics_job" env:"BACKPORT_METRICS_JOB"`

	LogFormat  string `toml:"log_format" env:"BACKPORT_LOG_FORMAT"`
	LogTimeKey string `toml:"log_time_key" env:"BACKPORT_LOG_TIME_KEY"`
	LogLevel   string `toml:"log_level" env:"BACKPORT_LOG_LEVEL"`

	DryRun bool `toml:"dry_run" env:"BACKPORT_DRY_RUN"`
}

type Labels struct {
	Bug        string `toml:"bug" env:"BUG"`
	NoBackport string `toml:"no_backport" env:"NO_BACKPORT"`
	Failed     string `toml:"failed" env:"FAILED"`
	Backport   string `toml:"backport" env:"BACKPORT"`
}

// Load reads a TOML configuration.
func Load(reader io.Reader) (*Config, error) {
	var result Config

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// LoadFile reads the TOML configuration file at path.
func LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Load(file)
}

// Environ returns the environment variables of the process merged with
// the variables defined in envFiles.
// Variables of the process take precedence.
func Environ(envFiles ...string) (map[string]string, error) {
	result := map[string]string{}

	if len(envFiles) > 0 {
		fileVars, err := godotenv.Read(envFiles...)
		if err != nil {
			return nil, fmt.Errorf("reading env files failed: %w", err)
		}

		maps.Copy(result, fileVars)
	}

	maps.Copy(result, env.ToMap(os.Environ()))

	return result, nil
}

// ApplyEnv overwrites fields with the values of the environment variables in
// environ.
// Variables that are unset or empty do not change the configuration.
func (c *Config) ApplyEnv(environ map[string]string) error {
	return env.ParseWithOptions(c, env.Options{Environment: environ})
}

// SetDefaults sets all unset fields, except the repositories and remotes
// that are derived by Resolve, to their default values.
func (c *Config) SetDefaults() {
	if c.SourceRemote == "" {
		c.SourceRemote = "origin"
	}

	if c.MainBranch == "" {
		c.MainBranch = "main"
	}

	if c.VersionConfigFile == "" {
		c.VersionConfigFile = "version.config"
	}

	if c.VersionKey == "" {
		c.VersionKey = versionconfig.DefaultPreviousVersionKey
	}

	if c.CommitLogLimit == 0 {
		c.CommitLogLimit = backport.DefaultCommitLogLimit
	}

	if c.StopperFiles == nil {
		c.StopperFiles = backport.DefaultStopperFiles
	}

	defLabels := backport.DefaultLabels()
	if c.Labels.Bug == "" {
		c.Labels.Bug = defLabels.Bug
	}
	if c.Labels.NoBackport == "" {
		c.Labels.NoBackport = defLabels.NoBackport
	}
	if c.Labels.Failed == "" {
		c.Labels.Failed = defLabels.Failed
	}
	if c.Labels.Backport == "" {
		c.Labels.Backport = defLabels.Backport
	}

	if c.MetricsJob == "" {
		c.MetricsJob = "backporter"
	}

	if c.LogFormat == "" {
		c.LogFormat = "logfmt"
	}

	if c.LogTimeKey == "" {
		c.LogTimeKey = "time"
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ManualMode returns true if no source repository is configured, this is
// the case when the backporter is not run by a GitHub action.
func (c *Config) ManualMode() bool {
	return c.SourceRepository == ""
}

// Resolve validates the configuration and returns the configuration of the
// backporter.
//
// In automated mode, the source repository is set and the target repository
// and remote default to the source ones.
// In manual mode, the source repository is DefaultManualSourceRepository and
// the target repository and remote must be specified, otherwise
// ErrTargetNotSpecified is returned.
func (c *Config) Resolve() (*backport.Config, error) {
	if c.GithubAPIToken == "" {
		return nil, errors.New("github api token is not set")
	}

	sourceRepo := c.SourceRepository
	targetRepo := c.TargetRepository
	targetRemote := c.TargetRemote

	if c.ManualMode() {
		sourceRepo = DefaultManualSourceRepository
		if targetRepo == "" || targetRemote == "" {
			return nil, ErrTargetNotSpecified
		}
	} else {
		if targetRepo == "" {
			targetRepo = sourceRepo
		}

		if targetRemote == "" {
			targetRemote = c.SourceRemote
		}
	}

	source, err := backport.ParseRepository(sourceRepo)
	if err != nil {
		return nil, fmt.Errorf("source repository: %w", err)
	}

	target, err := backport.ParseRepository(targetRepo)
	if err != nil {
		return nil, fmt.Errorf("target repository: %w", err)
	}

	if c.GithubRetryTimeout < 0 {
		return nil, fmt.Errorf("github_retry_timeout is %s, must be >=0", c.GithubRetryTimeout)
	}

	return &backport.Config{
		SourceRepository:  source,
		SourceRemote:      c.SourceRemote,
		TargetRepository:  target,
		TargetRemote:      targetRemote,
		MainBranch:        c.MainBranch,
		VersionConfigFile: c.VersionConfigFile,
		VersionKey:        c.VersionKey,
		CommitLogLimit:    c.CommitLogLimit,
		StopperFiles:      c.StopperFiles,
		Labels: backport.Labels{
			Bug:        c.Labels.Bug,
			NoBackport: c.Labels.NoBackport,
			Failed:     c.Labels.Failed,
			Backport:   c.Labels.Backport,
		},
		FilterQuery: c.FilterQuery,
	}, nil
}
