package config_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/cli/config"
)

func TestConfigErrors_SentinelIdentification(t *testing.T) {
	sentinels := []error{
		config.ErrConfigNotFound,
		config.ErrInvalidConfig,
		config.ErrDuplicateDepartment,
		config.ErrMissingName,
	}

	for i, sentinel := range sentinels {
		wrapped := goerr.Wrap(sentinel, "wrapped", goerr.V(config.ConfigPathKey, "/etc/riskhub.toml"))
		gt.Bool(t, errors.Is(wrapped, sentinel)).True()

		for j, other := range sentinels {
			if i != j {
				gt.Bool(t, errors.Is(wrapped, other)).False()
			}
		}
	}
}

func TestConfigErrors_ContextExtraction(t *testing.T) {
	cfg := &config.AppConfig{
		Departments: []config.Department{
			{ID: "finance", Name: "Finance"},
			{ID: "finance", Name: "Accounting"},
		},
	}

	err := cfg.Validate()
	gt.Error(t, err).Is(config.ErrDuplicateDepartment)

	var ge *goerr.Error
	gt.Bool(t, errors.As(err, &ge)).True()
	gt.Value(t, ge.Values()[config.DepartmentIDKey]).Equal("finance")
}
