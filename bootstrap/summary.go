package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/poolfetch/component"
	"github.com/kbukum/poolfetch/logger"
)

// Summary tracks what the App knows about its own startup.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a summary for the named service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records how long Start took.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Report is a rendered snapshot of components and their health.
type Report struct {
	Service         string
	Version         string
	StartupDuration time.Duration
	Overall         component.HealthStatus
	Components      []ReportLine
}

// ReportLine is one component in a Report.
type ReportLine struct {
	Name    string
	Type    string
	Details string
	Status  component.HealthStatus
	Message string
}

// Build joins descriptions with health results by component name.
func (s *Summary) Build(descs []component.Description, healths []component.Health) Report {
	byName := make(map[string]component.Health, len(healths))
	for _, h := range healths {
		byName[h.Name] = h
	}

	r := Report{
		Service:         s.serviceName,
		Version:         s.version,
		StartupDuration: s.startupDuration,
		Overall:         component.Overall(healths),
	}
	seen := make(map[string]bool, len(descs))
	for _, d := range descs {
		h := byName[d.Name]
		seen[d.Name] = true
		r.Components = append(r.Components, ReportLine{
			Name:    d.Name,
			Type:    d.Type,
			Details: d.Details,
			Status:  h.Status,
			Message: h.Message,
		})
	}
	for _, h := range healths {
		if !seen[h.Name] {
			r.Components = append(r.Components, ReportLine{Name: h.Name, Status: h.Status, Message: h.Message})
		}
	}
	return r
}

// String renders the report as an indented block.
func (r Report) String() string {
	var b strings.Builder
	version := r.Version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(&b, "%s %s started in %s (%s)\n", r.Service, version, r.StartupDuration.Round(time.Millisecond), r.Overall)
	for i, c := range r.Components {
		branch := "├─"
		if i == len(r.Components)-1 {
			branch = "└─"
		}
		fmt.Fprintf(&b, "  %s %-16s %-10s", branch, c.Name, c.Status)
		if c.Details != "" {
			fmt.Fprintf(&b, " %s", c.Details)
		}
		if c.Message != "" && c.Message != string(c.Status) {
			fmt.Fprintf(&b, " [%s]", c.Message)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Log writes the report as structured log entries.
func (r Report) Log(l *logger.Logger) {
	l.Info("Application ready", logger.Fields(
		"service", r.Service,
		"version", r.Version,
		"startup_ms", r.StartupDuration.Milliseconds(),
		"status", string(r.Overall),
	))
	for _, c := range r.Components {
		l.Debug("Component", logger.Fields(
			"name", c.Name,
			"type", c.Type,
			"details", c.Details,
			"status", string(c.Status),
		))
	}
}
