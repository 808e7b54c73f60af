package store

import (
	"context"
	"errors"

	"github.com/authkeep/authkeep/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for durable user records. Concrete
// drivers (sqlite today) implement this. Token state lives elsewhere: refresh
// tokens and the revocation blacklist are Redis-backed and deliberately not
// part of this interface.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetByID returns a user by id.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByUsername is the lookup used during login, refresh, and the
	// authentication gate's identity load.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// Create inserts a new user (id provided by the app via ULID). A username
	// collision returns ErrAlreadyExists.
	Create(ctx context.Context, u domain.User) error

	// UpdateRole sets the user's role and bumps updated_at.
	UpdateRole(ctx context.Context, userID string, role domain.Role) error
}
