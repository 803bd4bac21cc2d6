package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidStatus is returned when a status string is not one of ContactStatuses.
var ErrInvalidStatus = errors.New("invalid status")

// ContactStatus is the lifecycle tag of a contact submission.
type ContactStatus string

const (
	StatusNew        ContactStatus = "new"
	StatusInProgress ContactStatus = "in_progress"
	StatusCompleted  ContactStatus = "completed"
	StatusArchived   ContactStatus = "archived"
)

// ContactStatuses lists every accepted status in display order.
var ContactStatuses = []ContactStatus{StatusNew, StatusInProgress, StatusCompleted, StatusArchived}

// Valid reports whether s is one of ContactStatuses.
func (s ContactStatus) Valid() bool {
	for _, v := range ContactStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseContactStatus converts a raw string into a ContactStatus.
// Matching is exact: "New" or " new" are rejected.
func ParseContactStatus(raw string) (ContactStatus, error) {
	s := ContactStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// StatusList renders ContactStatuses as "new, in_progress, ...".
func StatusList() string {
	names := make([]string, len(ContactStatuses))
	for i, s := range ContactStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Contact represents a message submitted via the contact form.
type Contact struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Service   string        `json:"service"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

// ContactListOptions carries pagination parameters for listing contacts.
// Results are always ordered by CreatedAt descending.
type ContactListOptions struct {
	Skip  int
	Limit int
}

// ContactFilter narrows a count. Zero fields match everything.
type ContactFilter struct {
	Status       ContactStatus
	CreatedSince time.Time
}

// ContactPage is one page of a listing plus the unpaginated total.
type ContactPage struct {
	Contacts []*Contact
	Total    int64
	Skip     int
	Limit    int
}

// ContactStats holds the counts reported by GET /api/stats.
type ContactStats struct {
	Total      int64
	New        int64
	InProgress int64
	Completed  int64
	Recent     int64
}
