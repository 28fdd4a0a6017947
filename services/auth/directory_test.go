package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/staffdesk/identity/services/verification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testDirectory(t *testing.T, sharedPassword string) *Directory {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(sharedPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return &Directory{
		SharedPasswordHash: string(hash),
		Identities: []DirectoryEntry{
			{ID: 1, Email: "john@company.com", FirstName: "John", LastName: "Doe", Role: verification.RoleEmployee},
			{ID: 2, Email: "ada@company.com", FirstName: "Ada", LastName: "King", Role: verification.RoleAdmin},
		},
	}
}

func TestLoadDirectory(t *testing.T) {
	t.Run("parses a directory file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "directory.yaml")
		content := `shared_password_hash: "$2a$04$abcdefghijklmnopqrstuv"
identities:
  - id: 1
    email: john@company.com
    first_name: John
    last_name: Doe
    role: employee
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		dir, err := LoadDirectory(path)
		require.NoError(t, err)
		require.Len(t, dir.Identities, 1)
		assert.Equal(t, "john@company.com", dir.Identities[0].Email)
		assert.Equal(t, verification.RoleEmployee, dir.Identities[0].Role)
	})

	t.Run("fails for missing file", func(t *testing.T) {
		_, err := LoadDirectory(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("fails for malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("identities: {nope"), 0o600))

		_, err := LoadDirectory(path)
		assert.Error(t, err)
	})
}

func TestDirectory_Authenticate(t *testing.T) {
	dir := testDirectory(t, "employee123")

	t.Run("accepts exact email and shared password", func(t *testing.T) {
		identity, err := dir.Authenticate("john@company.com", "employee123")
		require.NoError(t, err)
		assert.Equal(t, uint(1), identity.ID)
		assert.Equal(t, verification.RoleEmployee, identity.Role)
		assert.True(t, identity.EmailVerified)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		_, err := dir.Authenticate("john@company.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects unknown email", func(t *testing.T) {
		_, err := dir.Authenticate("nobody@company.com", "employee123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty directory rejects everyone", func(t *testing.T) {
		_, err := EmptyDirectory().Authenticate("john@company.com", "employee123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
