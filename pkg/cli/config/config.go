package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/riskhub/pkg/domain/model/config"
	"github.com/secmon-lab/riskhub/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	Vote        VoteConfig      `toml:"vote"`
	RateLimit   RateLimitConfig `toml:"rate_limit"`
	Departments []Department    `toml:"department"`
}

// VoteConfig tunes the optimistic concurrency retry of votes
type VoteConfig struct {
	MaxAttempts int    `toml:"max_attempts"`
	Backoff     string `toml:"backoff"`
}

// RateLimitConfig limits request rates per user
type RateLimitConfig struct {
	VotesPerMinute *int `toml:"votes_per_minute"`
}

// Department represents a department a risk can be scoped to
type Department struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the Department is valid
func (d *Department) Validate() error {
	if d.ID == "" {
		return goerr.Wrap(ErrInvalidConfig, "department ID is required", goerr.V(DepartmentIDKey, d.ID))
	}
	if d.Name == "" {
		return goerr.Wrap(ErrMissingName, "department name is required", goerr.V(DepartmentIDKey, d.ID))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.Vote.MaxAttempts < 0 {
		return goerr.Wrap(ErrInvalidConfig, "vote.max_attempts must not be negative",
			goerr.V("max_attempts", a.Vote.MaxAttempts))
	}
	if _, err := a.backoff(); err != nil {
		return err
	}
	if a.RateLimit.VotesPerMinute != nil && *a.RateLimit.VotesPerMinute < 0 {
		return goerr.Wrap(ErrInvalidConfig, "rate_limit.votes_per_minute must not be negative")
	}

	departmentIDs := make(map[string]bool)
	for i, dep := range a.Departments {
		if err := dep.Validate(); err != nil {
			return goerr.Wrap(err, "invalid department", goerr.V(DepartmentIndexKey, i))
		}
		if departmentIDs[dep.ID] {
			return goerr.Wrap(ErrDuplicateDepartment, "department defined twice", goerr.V(DepartmentIDKey, dep.ID))
		}
		departmentIDs[dep.ID] = true
	}

	return nil
}

func (a *AppConfig) backoff() (time.Duration, error) {
	if a.Vote.Backoff == "" {
		return usecase.DefaultVoteBackoff, nil
	}
	d, err := time.ParseDuration(a.Vote.Backoff)
	if err != nil {
		return 0, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "invalid vote.backoff", goerr.V("backoff", a.Vote.Backoff))
	}
	if d < 0 {
		return 0, goerr.Wrap(ErrInvalidConfig, "vote.backoff must not be negative", goerr.V("backoff", a.Vote.Backoff))
	}
	return d, nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// ToDomainRiskConfig converts AppConfig to domain RiskConfig
func (a *AppConfig) ToDomainRiskConfig() *domainConfig.RiskConfig {
	departments := make([]domainConfig.Department, len(a.Departments))
	for i, dep := range a.Departments {
		departments[i] = domainConfig.Department{
			ID:   dep.ID,
			Name: dep.Name,
		}
	}
	return &domainConfig.RiskConfig{Departments: departments}
}

// VoteOptions converts the vote settings into use case options
func (a *AppConfig) VoteOptions() []usecase.VoteOption {
	var opts []usecase.VoteOption
	if a.Vote.MaxAttempts > 0 {
		opts = append(opts, usecase.WithMaxAttempts(a.Vote.MaxAttempts))
	}
	if d, err := a.backoff(); err == nil {
		opts = append(opts, usecase.WithBackoff(d))
	}
	return opts
}

// VotesPerMinute returns the configured vote rate limit, or fallback when it is not set
func (a *AppConfig) VotesPerMinute(fallback int) int {
	if a.RateLimit.VotesPerMinute == nil {
		return fallback
	}
	return *a.RateLimit.VotesPerMinute
}

func (a AppConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("vote.max_attempts", a.Vote.MaxAttempts),
		slog.String("vote.backoff", a.Vote.Backoff),
		slog.Int("departments", len(a.Departments)),
	)
}

// App holds the CLI flag pointing to the app config file
type App struct {
	path string
}

// Flags returns CLI flags for the app config file
func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML application config (departments, vote retry, rate limit)",
			Sources:     cli.EnvVars("RISKHUB_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the config file. Without a path an empty config with defaults is
// returned.
func (x *App) Configure() (*AppConfig, error) {
	if x.path == "" {
		return &AppConfig{}, nil
	}
	return LoadAppConfiguration(x.path)
}
