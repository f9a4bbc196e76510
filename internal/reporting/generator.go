package reporting

import (
	"context"
	"time"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// DecisionLister is satisfied by pkg/database/queries.DecisionRepository.
type DecisionLister interface {
	ListInRange(ctx context.Context, start, end time.Time) ([]*models.ScalingDecision, error)
}

// EventLister is satisfied by pkg/database/queries.EventRepository.
type EventLister interface {
	ListInRange(ctx context.Context, start, end time.Time) ([]*models.ScalingEvent, error)
}

// ServiceSummary aggregates one service's activity within a report window.
type ServiceSummary struct {
	ServiceID        string `json:"service_id"`
	DecisionsMade    int    `json:"decisions_made"`
	ScaleUps         int    `json:"scale_ups"`
	ScaleDowns       int    `json:"scale_downs"`
	ExecutionsOK     int    `json:"executions_ok"`
	ExecutionsFailed int    `json:"executions_failed"`
}

// Report is the report summary shape returned by reports/generate.
type Report struct {
	WindowStart time.Time                 `json:"window_start"`
	WindowEnd   time.Time                 `json:"window_end"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Services    map[string]*ServiceSummary `json:"services"`
}

// Generator builds Report summaries from the write-through decision and
// event tables — the one place outside the core that reads them back.
type Generator struct {
	decisions DecisionLister
	events    EventLister
}

// NewGenerator builds a Generator over the decision and event repositories.
func NewGenerator(decisions DecisionLister, events EventLister) *Generator {
	return &Generator{decisions: decisions, events: events}
}

// Generate builds a Report summarizing all service activity in [start, end).
func (g *Generator) Generate(ctx context.Context, start, end time.Time) (*Report, error) {
	report := &Report{
		WindowStart: start,
		WindowEnd:   end,
		GeneratedAt: time.Now(),
		Services:    make(map[string]*ServiceSummary),
	}

	decisions, err := g.decisions.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, d := range decisions {
		s := report.serviceSummary(d.ServiceID)
		s.DecisionsMade++
		switch d.Action {
		case models.ActionUp:
			s.ScaleUps++
		case models.ActionDown:
			s.ScaleDowns++
		}
	}

	events, err := g.events.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		s := report.serviceSummary(e.ServiceID)
		if e.Success {
			s.ExecutionsOK++
		} else {
			s.ExecutionsFailed++
		}
	}

	return report, nil
}

func (r *Report) serviceSummary(serviceID string) *ServiceSummary {
	s, ok := r.Services[serviceID]
	if !ok {
		s = &ServiceSummary{ServiceID: serviceID}
		r.Services[serviceID] = s
	}
	return s
}
