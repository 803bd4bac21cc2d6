package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/writingportfolio/backend/internal/model"
	"github.com/writingportfolio/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo         repository.ContactRepository
	recentWindow time.Duration

	now   func() time.Time
	newID func() string
}

// NewContactService creates a ContactService backed by the given repository.
// recentWindow is the rolling window counted as recent_contacts by Stats.
func NewContactService(repo repository.ContactRepository, recentWindow time.Duration) ContactService {
	return &contactServiceImpl{
		repo:         repo,
		recentWindow: recentWindow,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        func() string { return uuid.NewString() },
	}
}

// Submit assigns a fresh id, the creation time and status "new", then persists.
func (s *contactServiceImpl) Submit(ctx context.Context, c *model.Contact) error {
	c.ID = s.newID()
	c.CreatedAt = s.now()
	c.Status = model.StatusNew
	c.UpdatedAt = nil
	return s.repo.Insert(ctx, c)
}

func (s *contactServiceImpl) Get(ctx context.Context, id string) (*model.Contact, error) {
	return s.repo.FindByID(ctx, id)
}

// List fetches the page and then the unpaginated total. The two reads are
// not atomic; a concurrent insert may make total disagree with the page.
func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
	contacts, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	total, err := s.repo.Count(ctx, model.ContactFilter{})
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	if contacts == nil {
		contacts = []*model.Contact{}
	}
	return &model.ContactPage{
		Contacts: contacts,
		Total:    total,
		Skip:     opts.Skip,
		Limit:    opts.Limit,
	}, nil
}

func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w %q", model.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, status, s.now())
}

// Stats runs one count per figure; nothing is cached between calls.
func (s *contactServiceImpl) Stats(ctx context.Context) (*model.ContactStats, error) {
	stats := &model.ContactStats{}
	counts := []struct {
		name   string
		dst    *int64
		filter model.ContactFilter
	}{
		{"total", &stats.Total, model.ContactFilter{}},
		{"new", &stats.New, model.ContactFilter{Status: model.StatusNew}},
		{"in_progress", &stats.InProgress, model.ContactFilter{Status: model.StatusInProgress}},
		{"completed", &stats.Completed, model.ContactFilter{Status: model.StatusCompleted}},
		{"recent", &stats.Recent, model.ContactFilter{CreatedSince: s.now().Add(-s.recentWindow)}},
	}
	for _, c := range counts {
		n, err := s.repo.Count(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("count %s contacts: %w", c.name, err)
		}
		*c.dst = n
	}
	return stats, nil
}
