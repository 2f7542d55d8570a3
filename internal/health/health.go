// Package health provides agent health monitoring and status reporting.
package health

import "context"

// SystemStatus represents the overall health state of the agent or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// ComponentHealth contains health details for one agent component.
type ComponentHealth struct {
	Name   string       `json:"name"`
	Status SystemStatus `json:"status"`
	Detail string       `json:"detail,omitempty"`
}

// Report contains the full agent health report.
type Report struct {
	SystemStatus SystemStatus               `json:"system_status"`
	Components   map[string]ComponentHealth `json:"components"`
}

// Check inspects one component.
type Check func(ctx context.Context) ComponentHealth

// Monitor aggregates component checks into a report.
type Monitor struct {
	checks []Check
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// Register adds a component check.
func (m *Monitor) Register(check Check) {
	m.checks = append(m.checks, check)
}

// CheckHealth runs all checks. Aggregate status is worst case wins.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	report := Report{
		SystemStatus: StatusHealthy,
		Components:   make(map[string]ComponentHealth),
	}

	for _, check := range m.checks {
		ch := check(ctx)
		report.Components[ch.Name] = ch

		if ch.Status == StatusCritical {
			report.SystemStatus = StatusCritical
		}
		if ch.Status == StatusDegraded && report.SystemStatus == StatusHealthy {
			report.SystemStatus = StatusDegraded
		}
	}

	return report
}
