package transport

import (
	"time"

	"github.com/google/uuid"
)

// Enum values
type LeadStatus string

const (
	LeadStatusHot  LeadStatus = "Hot"
	LeadStatusWarm LeadStatus = "Warm"
	LeadStatusCold LeadStatus = "Cold"
)

// Request DTOs
type CreateLeadRequest struct {
	BuyerName         string     `json:"buyerName" validate:"required,min=1,max=100"`
	Phone             string     `json:"phone" validate:"required,min=5,max=20"`
	Email             string     `json:"email,omitempty" validate:"omitempty,email"`
	Status            LeadStatus `json:"status" validate:"required,oneof=Hot Warm Cold"`
	ProjectName       string     `json:"projectName,omitempty" validate:"max=200"`
	Budget            string     `json:"budget,omitempty" validate:"max=100"`
	Requirements      string     `json:"requirements,omitempty" validate:"max=500"`
	ResponseRate      float64    `json:"responseRate" validate:"min=0,max=1"`
	BudgetMatch       bool       `json:"budgetMatch"`
	RequirementsMatch bool       `json:"requirementsMatch"`
	AssignedAgentID   *uuid.UUID `json:"assignedAgentId,omitempty"`
}

type UpdateLeadRequest struct {
	BuyerName         *string     `json:"buyerName,omitempty" validate:"omitempty,min=1,max=100"`
	Phone             *string     `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Email             *string     `json:"email,omitempty" validate:"omitempty,email"`
	Status            *LeadStatus `json:"status,omitempty" validate:"omitempty,oneof=Hot Warm Cold"`
	ProjectName       *string     `json:"projectName,omitempty" validate:"omitempty,max=200"`
	Budget            *string     `json:"budget,omitempty" validate:"omitempty,max=100"`
	Requirements      *string     `json:"requirements,omitempty" validate:"omitempty,max=500"`
	ResponseRate      *float64    `json:"responseRate,omitempty" validate:"omitempty,min=0,max=1"`
	BudgetMatch       *bool       `json:"budgetMatch,omitempty"`
	RequirementsMatch *bool       `json:"requirementsMatch,omitempty"`
	AssignedAgentID   *uuid.UUID  `json:"assignedAgentId,omitempty"`
}

type ChangeStageRequest struct {
	Stage string `json:"stage" validate:"required,min=1,max=50"`
}

type CreateReminderRequest struct {
	Type        string `json:"type" validate:"required,oneof=call site_visit follow_up negotiation other"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"max=500"`
	DueDate     string `json:"dueDate" validate:"required,max=40"`
	DueTime     string `json:"dueTime,omitempty" validate:"max=20"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
}

type CreateLeadNoteRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

type ListLeadsRequest struct {
	Status   *LeadStatus `form:"status" validate:"omitempty,oneof=Hot Warm Cold"`
	Stage    *string     `form:"stage" validate:"omitempty,max=50"`
	AgentID  *uuid.UUID  `form:"agentId"`
	Search   string      `form:"search" validate:"max=100"`
	Page     int         `form:"page" validate:"min=0"`
	PageSize int         `form:"pageSize" validate:"min=0,max=100"`
}

// Response DTOs
type ReminderResponse struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"leadId"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     string     `json:"dueDate"`
	DueTime     string     `json:"dueTime,omitempty"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	Priority    string     `json:"priority"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type LeadResponse struct {
	ID                uuid.UUID  `json:"id"`
	BuyerName         string     `json:"buyerName"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email,omitempty"`
	Status            string     `json:"status"`
	Stage             string     `json:"stage"`
	StageProgress     float64    `json:"stageProgress"`
	ProjectName       string     `json:"projectName,omitempty"`
	Budget            string     `json:"budget,omitempty"`
	Requirements      string     `json:"requirements,omitempty"`
	Score             int        `json:"score"`
	ResponseRate      float64    `json:"responseRate"`
	BudgetMatch       bool       `json:"budgetMatch"`
	RequirementsMatch bool       `json:"requirementsMatch"`
	AssignedAgentID   *uuid.UUID `json:"assignedAgentId,omitempty"`
	NextFollowUp      *time.Time `json:"nextFollowUp,omitempty"`
	NextFollowUpLabel string     `json:"nextFollowUpLabel,omitempty"`
	LastActivityAt    time.Time  `json:"lastActivityAt"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type IssueResponse struct {
	Type            string `json:"type"`
	Severity        string `json:"severity"`
	Message         string `json:"message"`
	SuggestedAction string `json:"suggestedAction"`
}

type LeadIssuesResponse struct {
	LeadID uuid.UUID       `json:"leadId"`
	Score  int             `json:"score"`
	Stale  bool            `json:"stale"`
	Issues []IssueResponse `json:"issues"`
}

type NextStageResponse struct {
	NextStage         string   `json:"nextStage"`
	RequiredActions   []string `json:"requiredActions"`
	EstimatedDuration string   `json:"estimatedDuration"`
}

type RemindersResponse struct {
	Items []ReminderResponse `json:"items"`
}

type LeadNoteResponse struct {
	ID          uuid.UUID `json:"id"`
	LeadID      uuid.UUID `json:"leadId"`
	AuthorID    uuid.UUID `json:"authorId"`
	AuthorEmail string    `json:"authorEmail"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

type LeadNotesResponse struct {
	Items []LeadNoteResponse `json:"items"`
}

type AgentMetricsResponse struct {
	AgentID         uuid.UUID `json:"agentId"`
	TotalLeads      int       `json:"totalLeads"`
	ActiveLeads     int       `json:"activeLeads"`
	ConversionRate  float64   `json:"conversionRate"`
	AvgResponseTime float64   `json:"avgResponseTime"`
	StaleLeadRate   float64   `json:"staleLeadRate"`
}

type TeamMetricsResponse struct {
	Agents []AgentMetricsResponse `json:"agents"`
}
