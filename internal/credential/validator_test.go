package credential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdmin(t *testing.T) {
	admin := NewAdmin("admin", "hunter2")

	assert.True(t, admin.Validate("admin", "hunter2"))
	assert.False(t, admin.Validate("admin", "wrong"))
	assert.False(t, admin.Validate("someone", "hunter2"))
	assert.False(t, admin.Validate("", ""))
	assert.False(t, admin.Validate("Admin", "hunter2"))

	t.Run("an unset pair accepts nobody", func(t *testing.T) {
		empty := NewAdmin("", "")
		assert.False(t, empty.Validate("", ""))
	})
}

func TestList(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	list, err := NewList([]Entry{
		{Username: "alice", Password: "wonderland"},
		{Username: "bob", PasswordHash: string(hash)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Size())

	assert.True(t, list.Validate("alice", "wonderland"))
	assert.False(t, list.Validate("alice", "Wonderland"))
	assert.False(t, list.Validate("alice", ""))
	assert.True(t, list.Validate("bob", "s3cret"))
	assert.False(t, list.Validate("bob", string(hash)))
	assert.False(t, list.Validate("carol", "wonderland"))

	t.Run("rejects invalid entries", func(t *testing.T) {
		_, err := NewList([]Entry{{Username: " ", Password: "x"}})
		assert.ErrorIs(t, err, ErrEmptyUsername)

		_, err = NewList([]Entry{{Username: "dave"}})
		assert.ErrorIs(t, err, ErrMissingPassword)

		_, err = NewList([]Entry{{Username: "dave", Password: "a"}, {Username: "dave", Password: "b"}})
		assert.ErrorIs(t, err, ErrDuplicateUsername)

		_, err = NewList([]Entry{{Username: "dave", PasswordHash: "plain"}})
		assert.ErrorIs(t, err, ErrInvalidPasswordHash)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("loads the users array", func(t *testing.T) {
		path := filepath.Join(dir, "users.json")
		content := `{"users":[{"username":"alice","password":"wonderland"},{"username":"bob","password":"builder"}]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		list, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 2, list.Size())
		assert.True(t, list.Validate("bob", "builder"))
		assert.False(t, list.Validate("bob", "wonderland"))
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "missing.json"))
		assert.Error(t, err)
	})

	t.Run("fails on malformed JSON", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"users":`), 0o600))

		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("accepts an empty list", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

		list, err := LoadFile(path)
		require.NoError(t, err)
		assert.Zero(t, list.Size())
		assert.False(t, list.Validate("", ""))
	})
}
