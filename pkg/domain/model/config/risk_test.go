package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/domain/model/config"
)

func TestRiskConfigHasDepartment(t *testing.T) {
	cfg := &config.RiskConfig{
		Departments: []config.Department{
			{ID: "security", Name: "Security"},
			{ID: "finance", Name: "Finance"},
		},
	}

	gt.Bool(t, cfg.HasDepartment("security")).True()
	gt.Bool(t, cfg.HasDepartment("")).True()
	gt.Bool(t, cfg.HasDepartment("Security")).False()
	gt.Bool(t, cfg.HasDepartment("legal")).False()

	t.Run("nil config accepts anything", func(t *testing.T) {
		var empty *config.RiskConfig
		gt.Bool(t, empty.HasDepartment("legal")).True()
	})
}
