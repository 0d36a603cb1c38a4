package types

import "fmt"

// RiskStatus represents the disposition of a risk
type RiskStatus string

const (
	RiskStatusOpen       RiskStatus = "OPEN"
	RiskStatusMitigating RiskStatus = "MITIGATING"
	RiskStatusAccepted   RiskStatus = "ACCEPTED"
	RiskStatusClosed     RiskStatus = "CLOSED"
)

// AllRiskStatuses returns all valid risk statuses
func AllRiskStatuses() []RiskStatus {
	return []RiskStatus{
		RiskStatusOpen,
		RiskStatusMitigating,
		RiskStatusAccepted,
		RiskStatusClosed,
	}
}

// IsValid checks if the risk status is valid
func (s RiskStatus) IsValid() bool {
	switch s {
	case RiskStatusOpen,
		RiskStatusMitigating,
		RiskStatusAccepted,
		RiskStatusClosed:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as RiskStatusOpen.
func (s RiskStatus) Normalize() RiskStatus {
	if s == "" {
		return RiskStatusOpen
	}
	return s
}

func (s RiskStatus) String() string {
	return string(s)
}

// ParseRiskStatus parses a string into a RiskStatus
func ParseRiskStatus(s string) (RiskStatus, error) {
	status := RiskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid risk status: %s", s)
	}
	return status, nil
}
