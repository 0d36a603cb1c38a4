package config

// Department is an organizational unit a risk can be scoped to
type Department struct {
	ID   string
	Name string
}

// RiskConfig holds organization settings loaded from the app config file
type RiskConfig struct {
	Departments []Department
}

// HasDepartment reports whether id is a configured department. An empty id (visible to
// every department) and an unconfigured list are always accepted.
func (c *RiskConfig) HasDepartment(id string) bool {
	if c == nil || len(c.Departments) == 0 || id == "" {
		return true
	}
	for _, d := range c.Departments {
		if d.ID == id {
			return true
		}
	}
	return false
}
