package service

import (
	"context"

	"github.com/firehawk/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates and stores a new contact message. Invalid input returns
	// a *ValidationError and never reaches the repository.
	Submit(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error)

	// List returns contact messages newest first according to the given options.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)

	// Get returns a single message or repository.ErrNotFound.
	Get(ctx context.Context, id string) (*model.ContactMessage, error)

	// Reply validates the reply text and records it on the message.
	Reply(ctx context.Context, id string, reply model.ContactReply) (*model.ContactMessage, error)
}
