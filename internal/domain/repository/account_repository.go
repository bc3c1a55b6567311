// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"roster/internal/domain/entity"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer will depend on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByEmail retrieves a single account by its email address (the primary key).
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create persists a new account entity to the storage.
	Create(ctx context.Context, account *entity.Account) error

	// List retrieves every account. Ordering is whatever the store returns.
	List(ctx context.Context) ([]*entity.Account, error)

	// ToggleActiveByEmails flips IsActive for every account whose email is in
	// emails and returns the number of rows actually matched. Emails with no
	// matching row are skipped without error.
	ToggleActiveByEmails(ctx context.Context, emails []string) (int64, error)

	// DeleteByEmails physically deletes every account whose email is in emails
	// and returns the number of rows actually deleted.
	DeleteByEmails(ctx context.Context, emails []string) (int64, error)
}
