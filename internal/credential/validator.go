package credential

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyUsername       = errors.New("credential entries need a username")
	ErrMissingPassword     = errors.New("credential entries need either a password or a password_hash")
	ErrDuplicateUsername   = errors.New("duplicate username in credential list")
	ErrInvalidPasswordHash = errors.New("password_hash is no valid bcrypt hash")
)

// Validator checks operator credentials submitted through the login form
type Validator interface {
	// Validate reports whether the username and password pair is valid.
	// It never reveals which of both was wrong.
	Validate(username, password string) bool
}

// Admin validates against a single username and password pair, usually taken from the environment
type Admin struct {
	username string
	password string
}

var _ Validator = (*Admin)(nil)

// NewAdmin creates a new validator accepting exactly the given pair
func NewAdmin(username, password string) *Admin {
	return &Admin{username: username, password: password}
}

// Validate reports whether the username and password pair matches the admin pair
func (admin *Admin) Validate(username, password string) bool {
	if admin.username == "" || admin.password == "" {
		return false
	}
	userOK := constantTimeEquals(username, admin.username)
	passOK := constantTimeEquals(password, admin.password)
	return userOK && passOK
}

// Entry represents a single record of a credential file
type Entry struct {
	Username     string `json:"username"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"password_hash,omitempty"`
}

type file struct {
	Users []Entry `json:"users"`
}

// List validates against a fixed list of credential entries.
// The list is copied on creation and never changes afterwards.
type List struct {
	entries map[string]Entry
}

var _ Validator = (*List)(nil)

// NewList creates a new validator out of the given entries
func NewList(entries []Entry) (*List, error) {
	byName := make(map[string]Entry, len(entries))
	for i, entry := range entries {
		if strings.TrimSpace(entry.Username) == "" {
			return nil, fmt.Errorf("entry no. %d: %w", i, ErrEmptyUsername)
		}
		if entry.Password == "" && entry.PasswordHash == "" {
			return nil, fmt.Errorf("entry '%s': %w", entry.Username, ErrMissingPassword)
		}
		if entry.PasswordHash != "" {
			if _, err := bcrypt.Cost([]byte(entry.PasswordHash)); err != nil {
				return nil, fmt.Errorf("entry '%s': %w", entry.Username, ErrInvalidPasswordHash)
			}
		}
		if _, ok := byName[entry.Username]; ok {
			return nil, fmt.Errorf("entry '%s': %w", entry.Username, ErrDuplicateUsername)
		}
		byName[entry.Username] = entry
	}
	return &List{entries: byName}, nil
}

// LoadFile reads a JSON credential file of the form {"users":[{"username":"...","password":"..."}]}
func LoadFile(path string) (*List, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the credential file: %w", err)
	}
	parsed := new(file)
	if err := json.Unmarshal(raw, parsed); err != nil {
		return nil, fmt.Errorf("could not parse the credential file: %w", err)
	}
	return NewList(parsed.Users)
}

// Size returns the amount of known usernames
func (list *List) Size() int {
	return len(list.entries)
}

// Validate reports whether an entry with exactly the given username and password exists
func (list *List) Validate(username, password string) bool {
	entry, ok := list.entries[username]
	if !ok {
		return false
	}
	if entry.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(password)) == nil
	}
	return constantTimeEquals(password, entry.Password)
}

func constantTimeEquals(given, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}
