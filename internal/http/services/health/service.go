// Package health aggregates readiness checks of the service dependencies.
package health

import (
	"context"
	"time"
)

// Checker is a single dependency probe.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckFunc adapts a func to Checker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Ping(ctx context.Context) error { return f(ctx) }

// ComponentStatus is the result of one probe.
type ComponentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report aggregates all probes.
type Report struct {
	Status     string            `json:"status"`
	Components []ComponentStatus `json:"components"`
}

// Service runs readiness probes with a bounded timeout each.
type Service struct {
	checkers map[string]Checker
	order    []string
	timeout  time.Duration
}

// New creates the health Service. Register order is report order.
func New(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{checkers: make(map[string]Checker), timeout: timeout}
}

// Register adds a named probe.
func (s *Service) Register(name string, c Checker) {
	if _, dup := s.checkers[name]; !dup {
		s.order = append(s.order, name)
	}
	s.checkers[name] = c
}

// Check runs every probe. Overall status is "ok" only if all pass.
func (s *Service) Check(ctx context.Context) Report {
	report := Report{Status: "ok"}
	for _, name := range s.order {
		cs := ComponentStatus{Name: name, Status: "ok"}

		probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
		if err := s.checkers[name].Ping(probeCtx); err != nil {
			cs.Status = "fail"
			cs.Error = err.Error()
			report.Status = "fail"
		}
		cancel()

		report.Components = append(report.Components, cs)
	}
	return report
}
