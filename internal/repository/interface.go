package repository

import (
	"context"
	"time"

	"github.com/writingportfolio/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository defines the persistence interface for contact submissions.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	// Insert stores a new submission. The caller assigns ID and CreatedAt.
	Insert(ctx context.Context, c *model.Contact) error

	// FindByID returns ErrNotFound when no submission has the given id.
	FindByID(ctx context.Context, id string) (*model.Contact, error)

	// List returns submissions ordered by created_at descending,
	// skipping opts.Skip and returning at most opts.Limit.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error)

	// UpdateStatus sets status and updated_at; ErrNotFound when nothing matched.
	UpdateStatus(ctx context.Context, id string, status model.ContactStatus, updatedAt time.Time) error

	// Count returns the number of submissions matching filter.
	Count(ctx context.Context, filter model.ContactFilter) (int64, error)
}
