package inmem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/skybi/zoom-dashboard/internal/random"
	"github.com/skybi/zoom-dashboard/internal/session"
)

const (
	tableSessions = "sessions"
	tokenLength   = 64
)

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableSessions: {
			Name: tableSessions,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "TokenHash"},
				},
				"sessionID": {
					Name:         "sessionID",
					Unique:       true,
					AllowMissing: false,
					Indexer:      sessionIDIndexer{},
				},
				"username": {
					Name:         "username",
					Unique:       false,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "Username"},
				},
			},
		},
	},
}

// sessionIDIndexer indexes sessions by the raw bytes of their UUID
type sessionIDIndexer struct{}

func (sessionIDIndexer) FromObject(obj interface{}) (bool, []byte, error) {
	ses, ok := obj.(*session.Session)
	if !ok {
		return false, nil, fmt.Errorf("unexpected object of type %T", obj)
	}
	id := ses.ID
	return true, id[:], nil
}

func (sessionIDIndexer) FromArgs(args ...interface{}) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one argument, got %d", len(args))
	}
	id, ok := args[0].(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("expected argument of type uuid.UUID, got %T", args[0])
	}
	return id[:], nil
}

// Driver represents the in-memory session storage driver built using hashicorp/go-memdb
type Driver struct {
	db  *memdb.MemDB
	now func() time.Time
}

var _ session.Storage = (*Driver)(nil)

// New creates a new empty in-memory session storage driver
func New() (*Driver, error) {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, err
	}
	return &Driver{db: db, now: time.Now}, nil
}

// GetByRawToken retrieves a session by its raw (prior hashing) token
func (driver *Driver) GetByRawToken(_ context.Context, rawToken string) (*session.Session, error) {
	if rawToken == "" {
		return nil, nil
	}

	txn := driver.db.Txn(false)
	obj, err := txn.First(tableSessions, "id", hashToken(rawToken))
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}

	ses := *obj.(*session.Session)
	if ses.IsExpired(driver.now()) {
		return nil, nil
	}
	return &ses, nil
}

// Create creates a new session
func (driver *Driver) Create(_ context.Context, username string, expires int64) (*session.Session, string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, "", err
	}
	rawToken := random.String(tokenLength, random.CharsetTokens)

	ses := &session.Session{
		ID:        id,
		TokenHash: hashToken(rawToken),
		Username:  username,
		Expires:   expires,
	}

	txn := driver.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableSessions, ses); err != nil {
		return nil, "", err
	}
	txn.Commit()

	created := *ses
	return &created, rawToken, nil
}

// TerminateByRawToken terminates the session identified by the given raw token
func (driver *Driver) TerminateByRawToken(_ context.Context, rawToken string) error {
	return driver.deleteAll("id", hashToken(rawToken))
}

// TerminateByID terminates a session by its ID
func (driver *Driver) TerminateByID(_ context.Context, id uuid.UUID) error {
	return driver.deleteAll("sessionID", id)
}

// TerminateByUsername terminates all sessions of a specific operator
func (driver *Driver) TerminateByUsername(_ context.Context, username string) error {
	return driver.deleteAll("username", username)
}

// TerminateExpired terminates all sessions that are expired
func (driver *Driver) TerminateExpired(_ context.Context) (int, error) {
	txn := driver.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get(tableSessions, "id")
	if err != nil {
		return 0, err
	}

	now := driver.now()
	var expired []*session.Session
	for obj := it.Next(); obj != nil; obj = it.Next() {
		ses := obj.(*session.Session)
		if ses.IsExpired(now) {
			expired = append(expired, ses)
		}
	}

	for _, ses := range expired {
		if err := txn.Delete(tableSessions, ses); err != nil {
			return 0, err
		}
	}

	txn.Commit()
	return len(expired), nil
}

func (driver *Driver) deleteAll(index string, args ...interface{}) error {
	txn := driver.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(tableSessions, index, args...); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
