package session

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a logged in operator of the dashboard.
// The raw token only ever lives in the operator's cookie; the storage knows its hash only.
type Session struct {
	ID        uuid.UUID
	TokenHash string
	Username  string
	Expires   int64
}

// IsExpired reports whether the session is expired at the given point in time
func (ses *Session) IsExpired(now time.Time) bool {
	return ses.Expires <= now.Unix()
}
