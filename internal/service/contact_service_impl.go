package service

import (
	"context"
	"fmt"

	"github.com/firehawk/backend/internal/model"
	"github.com/firehawk/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.ContactRepository
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo}
}

func (s *contactServiceImpl) Submit(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error) {
	if err := validateStruct(sub); err != nil {
		return nil, err
	}
	msg, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return msg, nil
}

// List rejects unknown status filters; an empty status lists everything.
func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, &ValidationError{Violations: []FieldViolation{{
			Field:   "status",
			Message: "Status must be one of new, replied",
		}}}
	}
	messages, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	if messages == nil {
		messages = []*model.ContactMessage{}
	}
	return messages, nil
}

func (s *contactServiceImpl) Get(ctx context.Context, id string) (*model.ContactMessage, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Reply validates before touching the repository, so an empty reply to an
// unknown id is a validation error rather than not-found.
func (s *contactServiceImpl) Reply(ctx context.Context, id string, reply model.ContactReply) (*model.ContactMessage, error) {
	if err := validateStruct(reply); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, repository.ErrNotFound
	}
	return s.repo.Reply(ctx, id, reply.Reply)
}
