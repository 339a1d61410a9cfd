package repository

import (
	"context"

	"github.com/firehawk/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository defines the persistence interface for contact messages.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	DB

	// Create stores a new message with a fresh ID, status "new" and
	// CreatedAt set to the current time, and returns the stored record.
	Create(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error)

	// List returns messages newest first. An empty store yields an empty slice.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)

	// GetByID returns ErrNotFound when no message has the given id.
	GetByID(ctx context.Context, id string) (*model.ContactMessage, error)

	// Reply marks the message replied and records text and time. It returns
	// ErrNotFound without mutating anything when the id is unknown.
	Reply(ctx context.Context, id, text string) (*model.ContactMessage, error)

	Count(ctx context.Context) (int, error)
}
