package inapp

import (
	"context"
	"errors"
	"strings"

	"estate_crm_backend/platform/apperr"
	"estate_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo *Repository
	log  *logger.Logger
}

func NewService(repo *Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

type SendParams struct {
	UserID   uuid.UUID
	Title    string
	Content  string
	LeadID   *uuid.UUID
	Category string // "info", "warning", "alert"
}

// Send persists an in-app notification for the user.
func (s *Service) Send(ctx context.Context, p SendParams) error {
	if p.UserID == uuid.Nil {
		return apperr.Validation("userId is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return apperr.Validation("title is required")
	}
	if p.Category == "" {
		p.Category = "info"
	}

	_, err := s.repo.Create(ctx, CreateParams{
		UserID:   p.UserID,
		Title:    p.Title,
		Content:  p.Content,
		LeadID:   p.LeadID,
		Category: p.Category,
	})
	return err
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) (Notification, error) {
	n, err := s.repo.MarkRead(ctx, id, userID)
	if errors.Is(err, ErrNotFound) {
		return Notification{}, apperr.NotFound("notification not found")
	}
	return n, err
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
