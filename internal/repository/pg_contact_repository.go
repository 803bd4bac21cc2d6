package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/writingportfolio/backend/internal/model"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

const contactColumns = `id, name, email, service, message, status, created_at, updated_at`

// Insert adds a contacts row. ID and CreatedAt come from the caller, not the database.
func (r *PgContactRepository) Insert(ctx context.Context, c *model.Contact) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO contacts (`+contactColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Email, c.Service, c.Message, string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *PgContactRepository) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	c, err := scanContact(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*model.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *PgContactRepository) UpdateStatus(ctx context.Context, id string, status model.ContactStatus, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contacts SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgContactRepository) Count(ctx context.Context, filter model.ContactFilter) (int64, error) {
	where, args := contactWhere(filter)
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+where, args...).Scan(&n)
	return n, err
}

// contactWhere builds a WHERE clause (with leading space) and its arguments.
func contactWhere(f model.ContactFilter) (string, []any) {
	var conditions []string
	var args []any

	if f.Status != "" {
		args = append(args, string(f.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if !f.CreatedSince.IsZero() {
		args = append(args, f.CreatedSince)
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanContact(row pgx.Row) (*model.Contact, error) {
	var c model.Contact
	var status string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Service, &c.Message, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = model.ContactStatus(status)
	c.CreatedAt = c.CreatedAt.UTC()
	if c.UpdatedAt != nil {
		t := c.UpdatedAt.UTC()
		c.UpdatedAt = &t
	}
	return &c, nil
}
