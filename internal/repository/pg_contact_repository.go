package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/firehawk/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the subset of *pgxpool.Pool used by the repository, so tests
// can substitute a pgxmock pool.
type pgxQuerier interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool  pgxQuerier
	now   func() time.Time
	newID func() string
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool pgxQuerier) *PgContactRepository {
	return &PgContactRepository{
		pool:  pool,
		now:   utcNow,
		newID: uuid.NewString,
	}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

const contactColumns = `id, name, email, subject, message, status, reply, created_at, replied_at`

func (r *PgContactRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Create inserts a new contact_messages row. ID and CreatedAt are assigned
// here rather than by the database so both stores behave the same.
func (r *PgContactRepository) Create(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error) {
	msg := &model.ContactMessage{
		ID:        r.newID(),
		Name:      sub.Name,
		Email:     sub.Email,
		Subject:   sub.Subject,
		Message:   sub.Message,
		Status:    model.ContactStatusNew,
		CreatedAt: r.now(),
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO contact_messages (id, name, email, subject, message, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message, string(msg.Status), msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert contact message: %w", err)
	}
	return msg, nil
}

// List returns contact messages filtered by status and paginated by limit/offset.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	var args []any
	query := `SELECT ` + contactColumns + ` FROM contact_messages`

	if opts.Status != "" {
		args = append(args, string(opts.Status))
		query += ` WHERE status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC, seq DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	messages := []*model.ContactMessage{}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PgContactRepository) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contact_messages WHERE id = $1`, id)
	return scanContactRow(row)
}

// Reply overwrites any earlier reply on the message.
func (r *PgContactRepository) Reply(ctx context.Context, id, text string) (*model.ContactMessage, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE contact_messages SET status = $2, reply = $3, replied_at = $4
		 WHERE id = $1
		 RETURNING `+contactColumns,
		id, string(model.ContactStatusReplied), text, r.now(),
	)
	return scanContactRow(row)
}

func (r *PgContactRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return n, nil
}

func scanContactRow(row pgx.Row) (*model.ContactMessage, error) {
	m, err := scanContact(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func scanContact(row pgx.Row) (*model.ContactMessage, error) {
	var (
		m      model.ContactMessage
		status string
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message,
		&status, &m.Reply, &m.CreatedAt, &m.RepliedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan contact message: %w", err)
	}
	m.Status = model.ContactStatus(strings.TrimSpace(status))
	return &m, nil
}
