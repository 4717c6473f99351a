// Package notes manages the append-only note log attached to a lead.
package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/internal/leads/transport"
	"estate_crm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository is the data access interface needed by the notes service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	CreateLeadNote(ctx context.Context, params repository.CreateLeadNoteParams) (repository.LeadNote, error)
	ListLeadNotes(ctx context.Context, leadID uuid.UUID) ([]repository.LeadNote, error)
	TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Service handles lead notes.
type Service struct {
	repo  Repository
	nowFn func() time.Time
}

func New(repo Repository) *Service {
	return &Service{repo: repo, nowFn: time.Now}
}

// Create appends a note to the lead and counts it as agent activity.
func (s *Service) Create(ctx context.Context, leadID, authorID uuid.UUID, req transport.CreateLeadNoteRequest) (transport.LeadNoteResponse, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return transport.LeadNoteResponse{}, apperr.Validation("note body cannot be empty")
	}

	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadNoteResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadNoteResponse{}, err
	}

	note, err := s.repo.CreateLeadNote(ctx, repository.CreateLeadNoteParams{
		LeadID:   leadID,
		AuthorID: authorID,
		Body:     body,
	})
	if err != nil {
		return transport.LeadNoteResponse{}, err
	}

	if err := s.repo.TouchActivity(ctx, leadID, s.nowFn()); err != nil {
		return transport.LeadNoteResponse{}, err
	}

	return toNoteResponse(note), nil
}

// List returns all notes for a lead, newest first.
func (s *Service) List(ctx context.Context, leadID uuid.UUID) (transport.LeadNotesResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadNotesResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadNotesResponse{}, err
	}

	notes, err := s.repo.ListLeadNotes(ctx, leadID)
	if err != nil {
		return transport.LeadNotesResponse{}, err
	}

	items := make([]transport.LeadNoteResponse, len(notes))
	for i, note := range notes {
		items[i] = toNoteResponse(note)
	}
	return transport.LeadNotesResponse{Items: items}, nil
}

func toNoteResponse(note repository.LeadNote) transport.LeadNoteResponse {
	return transport.LeadNoteResponse{
		ID:          note.ID,
		LeadID:      note.LeadID,
		AuthorID:    note.AuthorID,
		AuthorEmail: note.AuthorEmail,
		Body:        note.Body,
		CreatedAt:   note.CreatedAt,
	}
}
