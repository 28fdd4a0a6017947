package verification

import (
	"testing"
	"time"

	"github.com/staffdesk/identity/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()

	token := &VerificationToken{
		Token:     "tok-1",
		Email:     "alice@x.com",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Put(token))

	t.Run("get returns a copy", func(t *testing.T) {
		got, ok, err := store.Get("tok-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "alice@x.com", got.Email)

		got.Email = "mutated@x.com"
		again, _, _ := store.Get("tok-1")
		assert.Equal(t, "alice@x.com", again.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		_, ok, err := store.Get("absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete by email removes all tokens for the address", func(t *testing.T) {
		require.NoError(t, store.Put(&VerificationToken{Token: "tok-2", Email: "alice@x.com", ExpiresAt: time.Now().Add(time.Hour)}))
		require.NoError(t, store.Put(&VerificationToken{Token: "tok-3", Email: "bob@x.com", ExpiresAt: time.Now().Add(time.Hour)}))

		removed, err := store.DeleteByEmail("alice@x.com")
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		_, ok, _ := store.Get("tok-1")
		assert.False(t, ok)
		_, ok, _ = store.Get("tok-3")
		assert.True(t, ok)
	})
}

func TestMemoryPendingStore(t *testing.T) {
	store := NewMemoryPendingStore()

	require.NoError(t, store.Put(&PendingRegistration{Email: "alice@x.com", FirstName: "Alice"}))

	t.Run("put overwrites the entry for an email", func(t *testing.T) {
		require.NoError(t, store.Put(&PendingRegistration{Email: "alice@x.com", FirstName: "Alicia"}))

		got, ok, err := store.Get("alice@x.com")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Alicia", got.FirstName)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete("alice@x.com"))
		require.NoError(t, store.Delete("alice@x.com"))

		_, ok, err := store.Get("alice@x.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestGormStores(t *testing.T) {
	db := testutils.SetupTestDB(t, &VerificationToken{}, &PendingRegistration{})

	tokens := NewGormTokenStore(db)
	pending := NewGormPendingStore(db)

	t.Run("token round trip", func(t *testing.T) {
		token := &VerificationToken{
			Token:     "tok-db",
			Email:     "alice@x.com",
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, tokens.Put(token))

		got, ok, err := tokens.Get("tok-db")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "alice@x.com", got.Email)

		_, ok, err = tokens.Get("missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete by email", func(t *testing.T) {
		require.NoError(t, tokens.Put(&VerificationToken{Token: "tok-db-2", Email: "alice@x.com", ExpiresAt: time.Now().Add(time.Hour)}))

		removed, err := tokens.DeleteByEmail("alice@x.com")
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		_, ok, _ := tokens.Get("tok-db")
		assert.False(t, ok)
	})

	t.Run("pending registration round trip", func(t *testing.T) {
		require.NoError(t, pending.Put(&PendingRegistration{
			Email:        "bob@x.com",
			FirstName:    "Bob",
			LastName:     "Mill",
			PasswordHash: "hash",
			Token:        "tok-x",
		}))

		got, ok, err := pending.Get("bob@x.com")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Bob", got.FirstName)

		// Overwrite keeps one entry per email.
		require.NoError(t, pending.Put(&PendingRegistration{Email: "bob@x.com", FirstName: "Robert", LastName: "Mill", PasswordHash: "hash2", Token: "tok-y"}))
		got, _, _ = pending.Get("bob@x.com")
		assert.Equal(t, "Robert", got.FirstName)

		require.NoError(t, pending.Delete("bob@x.com"))
		_, ok, err = pending.Get("bob@x.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
