package inapp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	LeadID    *uuid.UUID `json:"leadId,omitempty"`
	Category  string     `json:"category"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
}

type CreateParams struct {
	UserID   uuid.UUID
	Title    string
	Content  string
	LeadID   *uuid.UUID
	Category string
}

const notificationColumns = "id, user_id, title, content, lead_id, category, is_read, created_at"

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	query := `
		INSERT INTO in_app_notifications (user_id, title, content, lead_id, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + notificationColumns

	return scanNotification(r.pool.QueryRow(ctx, query, p.UserID, p.Title, p.Content, p.LeadID, p.Category))
}

// ListByUser returns the user's most recent notifications, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error) {
	if limit < 1 {
		limit = 50
	}

	query := "SELECT " + notificationColumns + ` FROM in_app_notifications
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Notification, 0)
	for rows.Next() {
		item, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM in_app_notifications WHERE user_id = $1 AND is_read = FALSE",
		userID).Scan(&count)
	return count, err
}

// MarkRead is scoped to the owner so users cannot touch each other's rows.
func (r *Repository) MarkRead(ctx context.Context, id, userID uuid.UUID) (Notification, error) {
	query := `
		UPDATE in_app_notifications SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING ` + notificationColumns

	return scanNotification(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE in_app_notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE",
		userID)
	return err
}

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.LeadID, &n.Category, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Notification{}, ErrNotFound
	}
	return n, err
}
