// Package repository provides PostgreSQL persistence for the leads bounded
// context.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Lead is the persisted lead row.
type Lead struct {
	ID                uuid.UUID
	BuyerName         string
	Phone             string
	Email             string
	Status            string
	Stage             string
	ProjectName       string
	Budget            string
	Requirements      string
	Score             int
	ResponseRate      float64
	BudgetMatch       bool
	RequirementsMatch bool
	AssignedAgentID   *uuid.UUID
	NextFollowUp      *time.Time
	NextFollowUpLabel string
	LastActivityAt    time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const leadColumns = `id, buyer_name, phone, email, status, stage, project_name, budget, requirements,
		score, response_rate, budget_match, requirements_match, assigned_agent_id,
		next_follow_up, next_follow_up_label, last_activity_at, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID,
		&lead.BuyerName,
		&lead.Phone,
		&lead.Email,
		&lead.Status,
		&lead.Stage,
		&lead.ProjectName,
		&lead.Budget,
		&lead.Requirements,
		&lead.Score,
		&lead.ResponseRate,
		&lead.BudgetMatch,
		&lead.RequirementsMatch,
		&lead.AssignedAgentID,
		&lead.NextFollowUp,
		&lead.NextFollowUpLabel,
		&lead.LastActivityAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type CreateLeadParams struct {
	BuyerName         string
	Phone             string
	Email             string
	Status            string
	Stage             string
	ProjectName       string
	Budget            string
	Requirements      string
	Score             int
	ResponseRate      float64
	BudgetMatch       bool
	RequirementsMatch bool
	AssignedAgentID   *uuid.UUID
	LastActivityAt    time.Time
}

func (r *Repository) CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error) {
	query := `
		INSERT INTO leads (buyer_name, phone, email, status, stage, project_name, budget, requirements,
			score, response_rate, budget_match, requirements_match, assigned_agent_id, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + leadColumns

	return scanLead(r.pool.QueryRow(ctx, query,
		params.BuyerName,
		params.Phone,
		params.Email,
		params.Status,
		params.Stage,
		params.ProjectName,
		params.Budget,
		params.Requirements,
		params.Score,
		params.ResponseRate,
		params.BudgetMatch,
		params.RequirementsMatch,
		params.AssignedAgentID,
		params.LastActivityAt,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return scanLead(r.pool.QueryRow(ctx, query, id))
}

type ListLeadsParams struct {
	AgentID *uuid.UUID
	Status  *string
	Stage   *string
	Search  string
	Limit   int
	Offset  int
}

func (r *Repository) ListLeads(ctx context.Context, params ListLeadsParams) ([]Lead, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}

	if params.AgentID != nil {
		args = append(args, *params.AgentID)
		conditions = append(conditions, fmt.Sprintf("assigned_agent_id = $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.Stage != nil {
		args = append(args, *params.Stage)
		conditions = append(conditions, fmt.Sprintf("stage = $%d", len(args)))
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+search+"%")
		idx := len(args)
		conditions = append(conditions, fmt.Sprintf("(buyer_name ILIKE $%d OR project_name ILIKE $%d OR phone ILIKE $%d)", idx, idx, idx))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf("SELECT %s FROM leads WHERE %s ORDER BY last_activity_at DESC LIMIT $%d OFFSET $%d",
		leadColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

// ListByAgent returns every lead assigned to the agent, for metric rollups.
func (r *Repository) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]Lead, error) {
	return r.listWhere(ctx, "assigned_agent_id = $1", agentID)
}

// ListActive returns leads in non-terminal stages, for the inactivity sweep.
func (r *Repository) ListActive(ctx context.Context) ([]Lead, error) {
	return r.listWhere(ctx, "stage NOT IN ($1, $2)", "Booked / Closed", "Lost / Dropped")
}

// ListAssigned returns every lead with an assigned agent, for team rollups.
func (r *Repository) ListAssigned(ctx context.Context) ([]Lead, error) {
	return r.listWhere(ctx, "assigned_agent_id IS NOT NULL")
}

func (r *Repository) listWhere(ctx context.Context, where string, args ...interface{}) ([]Lead, error) {
	query := "SELECT " + leadColumns + " FROM leads WHERE " + where + " ORDER BY created_at"
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

type UpdateLeadParams struct {
	ID                uuid.UUID
	BuyerName         *string
	Phone             *string
	Email             *string
	Status            *string
	ProjectName       *string
	Budget            *string
	Requirements      *string
	ResponseRate      *float64
	BudgetMatch       *bool
	RequirementsMatch *bool
	AssignedAgentID   *uuid.UUID
	Score             *int
}

func (r *Repository) UpdateLead(ctx context.Context, params UpdateLeadParams) (Lead, error) {
	query := `
		UPDATE leads SET
			buyer_name = COALESCE($2, buyer_name),
			phone = COALESCE($3, phone),
			email = COALESCE($4, email),
			status = COALESCE($5, status),
			project_name = COALESCE($6, project_name),
			budget = COALESCE($7, budget),
			requirements = COALESCE($8, requirements),
			response_rate = COALESCE($9, response_rate),
			budget_match = COALESCE($10, budget_match),
			requirements_match = COALESCE($11, requirements_match),
			assigned_agent_id = COALESCE($12, assigned_agent_id),
			score = COALESCE($13, score),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leadColumns

	return scanLead(r.pool.QueryRow(ctx, query,
		params.ID,
		params.BuyerName,
		params.Phone,
		params.Email,
		params.Status,
		params.ProjectName,
		params.Budget,
		params.Requirements,
		params.ResponseRate,
		params.BudgetMatch,
		params.RequirementsMatch,
		params.AssignedAgentID,
		params.Score,
	))
}

type UpdateStageParams struct {
	ID                uuid.UUID
	Stage             string
	Score             int
	NextFollowUp      *time.Time
	NextFollowUpLabel string
	LastActivityAt    time.Time
}

// UpdateStage persists the result of a stage transition. The follow-up fields
// are written as-is; callers pass the previous values when automation did not
// produce new ones.
func (r *Repository) UpdateStage(ctx context.Context, params UpdateStageParams) (Lead, error) {
	query := `
		UPDATE leads SET
			stage = $2,
			score = $3,
			next_follow_up = $4,
			next_follow_up_label = $5,
			last_activity_at = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leadColumns

	return scanLead(r.pool.QueryRow(ctx, query,
		params.ID,
		params.Stage,
		params.Score,
		params.NextFollowUp,
		params.NextFollowUpLabel,
		params.LastActivityAt,
	))
}

// TouchActivity records an interaction on the lead.
func (r *Repository) TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE leads SET last_activity_at = $2, updated_at = NOW() WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
