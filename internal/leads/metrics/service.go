// Package metrics computes agent and team performance rollups from the
// current lead book. Metrics are derived on demand, never stored.
package metrics

import (
	"context"
	"sort"
	"time"

	"estate_crm_backend/internal/leads/domain"
	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/internal/leads/transport"

	"github.com/google/uuid"
)

// Repository is the data access interface needed by the metrics service.
type Repository interface {
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]repository.Lead, error)
	ListAssigned(ctx context.Context) ([]repository.Lead, error)
}

// Service computes performance metrics.
type Service struct {
	repo  Repository
	nowFn func() time.Time
}

func New(repo Repository) *Service {
	return &Service{repo: repo, nowFn: time.Now}
}

// AgentPerformance returns the metrics for a single agent's book. An agent
// with no leads gets the zero rollup, not an error.
func (s *Service) AgentPerformance(ctx context.Context, agentID uuid.UUID) (transport.AgentMetricsResponse, error) {
	leads, err := s.repo.ListByAgent(ctx, agentID)
	if err != nil {
		return transport.AgentMetricsResponse{}, err
	}
	return toAgentResponse(agentID, rollup(leads, s.nowFn())), nil
}

// TeamPerformance returns per-agent rollups across every assigned lead,
// ordered by agent id for stable output. Unassigned leads are excluded.
func (s *Service) TeamPerformance(ctx context.Context) (transport.TeamMetricsResponse, error) {
	leads, err := s.repo.ListAssigned(ctx)
	if err != nil {
		return transport.TeamMetricsResponse{}, err
	}

	byAgent := make(map[uuid.UUID][]repository.Lead)
	for _, lead := range leads {
		if lead.AssignedAgentID == nil {
			continue
		}
		byAgent[*lead.AssignedAgentID] = append(byAgent[*lead.AssignedAgentID], lead)
	}

	agentIDs := make([]uuid.UUID, 0, len(byAgent))
	for id := range byAgent {
		agentIDs = append(agentIDs, id)
	}
	sort.Slice(agentIDs, func(i, j int) bool {
		return agentIDs[i].String() < agentIDs[j].String()
	})

	now := s.nowFn()
	agents := make([]transport.AgentMetricsResponse, len(agentIDs))
	for i, id := range agentIDs {
		agents[i] = toAgentResponse(id, rollup(byAgent[id], now))
	}
	return transport.TeamMetricsResponse{Agents: agents}, nil
}

func rollup(leads []repository.Lead, now time.Time) domain.PerformanceMetrics {
	input := make([]domain.MetricsLead, len(leads))
	for i, lead := range leads {
		input[i] = domain.MetricsLead{
			Stage:        lead.Stage,
			CreatedAt:    lead.CreatedAt,
			LastActivity: lead.LastActivityAt,
		}
	}
	return domain.CalculatePerformanceMetrics(input, now)
}

func toAgentResponse(agentID uuid.UUID, m domain.PerformanceMetrics) transport.AgentMetricsResponse {
	return transport.AgentMetricsResponse{
		AgentID:         agentID,
		TotalLeads:      m.TotalLeads,
		ActiveLeads:     m.ActiveLeads,
		ConversionRate:  m.ConversionRate,
		AvgResponseTime: m.AvgResponse,
		StaleLeadRate:   m.StaleLeadRate,
	}
}
