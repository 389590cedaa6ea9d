package service

import (
	"strings"
	"testing"

	"github.com/knotara/storefront/internal/models"
	"github.com/knotara/storefront/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	users := newTestUserService(t)

	created, err := users.Register(RegisterInput{
		Name:     "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ada@example.com", created.Email, "email is normalized")
	assert.Equal(t, models.RoleCustomer, created.Role)

	user, token, err := users.Authenticate("ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)
	assert.NotNil(t, user.LastLoginAt, "login is stamped")
}

func TestRegisterValidation(t *testing.T) {
	users := newTestUserService(t)

	_, err := users.Register(RegisterInput{Name: "X", Email: "not-an-email", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = users.Register(RegisterInput{Name: "X", Email: "x@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newTestUserService(t)

	_, err := users.Register(RegisterInput{Name: "A", Email: "dup@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = users.Register(RegisterInput{Name: "B", Email: "DUP@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestPasswordNeverStoredPlaintext(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(testAuthConfig(), store, nil)

	created, err := users.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	row, err := store.Engine().Get("SELECT password_hash FROM users WHERE id = ?", created.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	hash := row.String("password_hash")
	assert.NotContains(t, hash, "secret123")
	assert.True(t, strings.HasPrefix(hash, "$2"), "bcrypt hash expected")
}

func TestAuthenticateRejectsUniformly(t *testing.T) {
	users := newTestUserService(t)

	_, err := users.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = users.Authenticate("a@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = users.Authenticate("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	users := newTestUserService(t)

	created, err := users.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, token, err := users.Authenticate("a@example.com", "secret123")
	require.NoError(t, err)

	claims, err := users.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestParseTokenRejectsForgedSignature(t *testing.T) {
	users := newTestUserService(t)

	_, err := users.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, token, err := users.Authenticate("a@example.com", "secret123")
	require.NoError(t, err)

	other := NewUserService(testAuthConfig(), newTestStore(t), nil)
	other.cfg.JWTSecret = "different-secret"
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestAuthenticateCachesProfile(t *testing.T) {
	slot := storage.NewMemStore()
	profile := storage.NewProfileCache(slot, "")
	users := NewUserService(testAuthConfig(), newTestStore(t), profile)

	created, err := users.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = users.Authenticate("a@example.com", "secret123")
	require.NoError(t, err)

	cached := profile.Load()
	require.NotNil(t, cached)
	assert.Equal(t, created.ID, cached.ID)

	users.Logout()
	assert.Nil(t, profile.Load())
}

func TestUserLookupAndUpdate(t *testing.T) {
	users := newTestUserService(t)

	created, err := users.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.NotNil(t, users.ByID(created.ID))
	assert.NotNil(t, users.ByEmail("a@example.com"))
	assert.Nil(t, users.ByID("ghost"))

	newName := "Renamed"
	updated, err := users.Update(created.ID, UpdateUserInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	_, err = users.Update("ghost", UpdateUserInput{Name: &newName})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRejectsTakenEmail(t *testing.T) {
	users := newTestUserService(t)

	_, err := users.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	second, err := users.Register(RegisterInput{Name: "B", Email: "b@example.com", Password: "secret123"})
	require.NoError(t, err)

	taken := "a@example.com"
	_, err = users.Update(second.ID, UpdateUserInput{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestDeleteUser(t *testing.T) {
	users := newTestUserService(t)

	created, err := users.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	deleted, err := users.Delete(created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = users.Delete(created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.Empty(t, users.All())
}
