package service

import (
	"context"

	"github.com/writingportfolio/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit stores a new contact. ID, CreatedAt and Status are assigned by
	// the implementation; any values set by the caller are overwritten.
	Submit(ctx context.Context, c *model.Contact) error

	// Get returns the contact with the given id or repository.ErrNotFound.
	Get(ctx context.Context, id string) (*model.Contact, error)

	// List returns one page of contacts, newest first, and the overall total.
	List(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error)

	// UpdateStatus changes the status of a contact and stamps UpdatedAt.
	UpdateStatus(ctx context.Context, id string, status model.ContactStatus) error

	// Stats counts contacts overall, per status and within the recent window.
	Stats(ctx context.Context) (*model.ContactStats, error)
}
