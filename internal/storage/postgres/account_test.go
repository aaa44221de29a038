package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHashPassword_ProducesVerifiableHash(t *testing.T) {
	hash, err := HashPassword("swordfish1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "swordfish1", hash, "the plaintext must never be stored")

	assert.True(t, CheckPassword("swordfish1", hash))
	assert.False(t, CheckPassword("sWordfish1", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RolePlayer, true},
		{RoleEditor, true},
		{RoleAdmin, true},
		{"", false},
		{"Player", false},
		{"gamemaster", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidRole(tt.role), "role %q", tt.role)
	}
}

// Property: every hash round-trips through CheckPassword. bcrypt caps input
// at 72 bytes, so the generator stays well under.
func TestPropertyHashRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		password := rapid.StringMatching(`[a-zA-Z0-9!@#$%^&*]{1,64}`).Draw(t, "password")
		hash, err := HashPassword(password)
		require.NoError(t, err)
		assert.True(t, CheckPassword(password, hash))
	})
}

// Property: a different password never verifies against the hash.
func TestPropertyMismatchedPasswordFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		correct := rapid.StringMatching(`[a-zA-Z0-9]{6,30}`).Draw(t, "correct")
		wrong := rapid.StringMatching(`[a-zA-Z0-9]{6,30}`).Draw(t, "wrong")
		if correct == wrong {
			return
		}

		hash, err := HashPassword(correct)
		require.NoError(t, err)
		assert.False(t, CheckPassword(wrong, hash))
	})
}

// Property: hashing salts, so even identical passwords get distinct hashes.
func TestPropertySaltedHashesDiffer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		password := rapid.StringMatching(`[a-zA-Z]{6,20}`).Draw(t, "password")
		h1, err := HashPassword(password)
		require.NoError(t, err)
		h2, err := HashPassword(password)
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})
}

// Property: ValidRole accepts exactly the three defined roles.
func TestPropertyValidRoleIsExact(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		role := rapid.StringMatching(`[a-z]{1,20}`).Draw(t, "role")
		want := role == RolePlayer || role == RoleEditor || role == RoleAdmin
		assert.Equal(t, want, ValidRole(role), "role %q", role)
	})
}
