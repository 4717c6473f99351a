package management

import (
	"estate_crm_backend/internal/leads/domain"
	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/internal/leads/transport"
)

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:                lead.ID,
		BuyerName:         lead.BuyerName,
		Phone:             lead.Phone,
		Email:             lead.Email,
		Status:            lead.Status,
		Stage:             lead.Stage,
		StageProgress:     domain.StageProgress(lead.Stage),
		ProjectName:       lead.ProjectName,
		Budget:            lead.Budget,
		Requirements:      lead.Requirements,
		Score:             lead.Score,
		ResponseRate:      lead.ResponseRate,
		BudgetMatch:       lead.BudgetMatch,
		RequirementsMatch: lead.RequirementsMatch,
		AssignedAgentID:   lead.AssignedAgentID,
		NextFollowUp:      lead.NextFollowUp,
		NextFollowUpLabel: lead.NextFollowUpLabel,
		LastActivityAt:    lead.LastActivityAt,
		CreatedAt:         lead.CreatedAt,
		UpdatedAt:         lead.UpdatedAt,
	}
}
