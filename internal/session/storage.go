package session

import (
	"context"

	"github.com/google/uuid"
)

// Storage defines the session storage API
type Storage interface {
	// GetByRawToken retrieves a session by its raw (prior hashing) token.
	// Unknown and expired sessions both result in nil.
	GetByRawToken(ctx context.Context, rawToken string) (*Session, error)

	// Create creates a new session and returns it together with its raw token
	Create(ctx context.Context, username string, expires int64) (*Session, string, error)

	// TerminateByRawToken terminates the session identified by the given raw token
	TerminateByRawToken(ctx context.Context, rawToken string) error

	// TerminateByID terminates a session by its ID
	TerminateByID(ctx context.Context, id uuid.UUID) error

	// TerminateByUsername terminates all sessions of a specific operator
	TerminateByUsername(ctx context.Context, username string) error

	// TerminateExpired terminates all sessions that are expired
	TerminateExpired(ctx context.Context) (int, error)
}
