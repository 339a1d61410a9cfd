package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/firehawk/backend/internal/model"
	"github.com/google/uuid"
)

// MemoryContactRepository is the in-process implementation of ContactRepository.
// Records live only as long as the process; nothing is persisted.
type MemoryContactRepository struct {
	mu      sync.RWMutex
	records map[string]*memoryRecord
	seq     uint64
	now     func() time.Time
	newID   func() string
}

// memoryRecord pairs a message with its insertion sequence, used to break
// CreatedAt ties when listing.
type memoryRecord struct {
	msg *model.ContactMessage
	seq uint64
}

// MemoryOption customises a MemoryContactRepository.
type MemoryOption func(*MemoryContactRepository)

// WithClock overrides the time source used for CreatedAt and RepliedAt.
func WithClock(now func() time.Time) MemoryOption {
	return func(r *MemoryContactRepository) { r.now = now }
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(newID func() string) MemoryOption {
	return func(r *MemoryContactRepository) { r.newID = newID }
}

// NewMemoryContactRepository creates an empty in-memory store.
func NewMemoryContactRepository(opts ...MemoryOption) *MemoryContactRepository {
	r := &MemoryContactRepository{
		records: make(map[string]*memoryRecord),
		now:     utcNow,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ensure MemoryContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*MemoryContactRepository)(nil)

// Ping always succeeds; the store has no external dependency.
func (r *MemoryContactRepository) Ping(_ context.Context) error {
	return nil
}

func (r *MemoryContactRepository) Create(_ context.Context, sub model.ContactSubmission) (*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	// uuid collisions are not expected, but ids must stay unique
	for r.records[id] != nil {
		id = r.newID()
	}

	msg := &model.ContactMessage{
		ID:        id,
		Name:      sub.Name,
		Email:     sub.Email,
		Subject:   sub.Subject,
		Message:   sub.Message,
		Status:    model.ContactStatusNew,
		CreatedAt: r.now(),
	}
	r.seq++
	r.records[id] = &memoryRecord{msg: msg, seq: r.seq}
	return msg.Clone(), nil
}

// List returns a snapshot of the stored messages ordered by CreatedAt
// descending, most recently inserted first on ties.
func (r *MemoryContactRepository) List(_ context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	r.mu.RLock()
	snapshot := make([]*memoryRecord, 0, len(r.records))
	for _, rec := range r.records {
		if opts.Status != "" && rec.msg.Status != opts.Status {
			continue
		}
		snapshot = append(snapshot, &memoryRecord{msg: rec.msg.Clone(), seq: rec.seq})
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		a, b := snapshot[i], snapshot[j]
		if !a.msg.CreatedAt.Equal(b.msg.CreatedAt) {
			return a.msg.CreatedAt.After(b.msg.CreatedAt)
		}
		return a.seq > b.seq
	})

	messages := make([]*model.ContactMessage, 0, len(snapshot))
	for i, rec := range snapshot {
		if i < opts.Offset {
			continue
		}
		if opts.Limit > 0 && len(messages) >= opts.Limit {
			break
		}
		messages = append(messages, rec.msg)
	}
	return messages, nil
}

func (r *MemoryContactRepository) GetByID(_ context.Context, id string) (*model.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.msg.Clone(), nil
}

// Reply overwrites any earlier reply on the message.
func (r *MemoryContactRepository) Reply(_ context.Context, id, text string) (*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	updated := rec.msg.Clone()
	at := r.now()
	updated.Status = model.ContactStatusReplied
	updated.Reply = &text
	updated.RepliedAt = &at
	rec.msg = updated
	return updated.Clone(), nil
}

func (r *MemoryContactRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}
