package user

import "context"

// Repository is the data-access contract for users.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	// EnsureSeedAuthor inserts the default author account if no user with
	// its email exists yet. Development convenience, idempotent.
	EnsureSeedAuthor(ctx context.Context, username, email, passwordHash string) error
}
