package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Reminder is the persisted reminder row. Rows are append-only: the only
// mutation is flipping is_completed, and no delete path exists so the
// follow-up history stays auditable.
type Reminder struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	Type        string
	Title       string
	Description string
	DueDate     string
	DueTime     string
	DueAt       *time.Time
	Priority    string
	IsCompleted bool
	CreatedAt   time.Time
}

const reminderColumns = `id, lead_id, type, title, description, due_date, due_time, due_at, priority, is_completed, created_at`

type CreateReminderParams struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	Type        string
	Title       string
	Description string
	DueDate     string
	DueTime     string
	DueAt       *time.Time
	Priority    string
	CreatedAt   time.Time
}

func (r *Repository) CreateReminder(ctx context.Context, params CreateReminderParams) (Reminder, error) {
	query := `
		INSERT INTO lead_reminders (id, lead_id, type, title, description, due_date, due_time, due_at, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + reminderColumns

	return scanReminder(r.pool.QueryRow(ctx, query,
		params.ID,
		params.LeadID,
		params.Type,
		params.Title,
		params.Description,
		params.DueDate,
		params.DueTime,
		params.DueAt,
		params.Priority,
		params.CreatedAt,
	))
}

func (r *Repository) GetReminder(ctx context.Context, id uuid.UUID) (Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM lead_reminders WHERE id = $1`
	return scanReminder(r.pool.QueryRow(ctx, query, id))
}

func (r *Repository) ListReminders(ctx context.Context, leadID uuid.UUID) ([]Reminder, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+reminderColumns+` FROM lead_reminders WHERE lead_id = $1 ORDER BY created_at`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := make([]Reminder, 0)
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

// CompleteReminder flips is_completed. It is idempotent.
func (r *Repository) CompleteReminder(ctx context.Context, id uuid.UUID) (Reminder, error) {
	query := `UPDATE lead_reminders SET is_completed = TRUE WHERE id = $1 RETURNING ` + reminderColumns
	return scanReminder(r.pool.QueryRow(ctx, query, id))
}

func scanReminder(row pgx.Row) (Reminder, error) {
	var reminder Reminder
	err := row.Scan(
		&reminder.ID,
		&reminder.LeadID,
		&reminder.Type,
		&reminder.Title,
		&reminder.Description,
		&reminder.DueDate,
		&reminder.DueTime,
		&reminder.DueAt,
		&reminder.Priority,
		&reminder.IsCompleted,
		&reminder.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reminder{}, ErrNotFound
	}
	return reminder, err
}
