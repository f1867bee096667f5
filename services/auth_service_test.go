package services

import (
	"context"
	"testing"

	"github.com/Dosada05/tournament-hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"username too short", RegisterInput{Username: "ab", Email: "a@example.com", Password: "secret1"}, ErrUsernameTooShort},
		{"invalid email", RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"}, ErrInvalidEmail},
		{"password too short", RegisterInput{Username: "alice", Email: "a@example.com", Password: "12345"}, ErrPasswordTooShort},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, defaultAvatarURL, user.AvatarURL)

	// Хэш в хранилище не совпадает с паролем в открытом виде.
	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "alice2",
			Email:    "ALICE@example.com",
			Password: "secret1",
		})
		assert.ErrorIs(t, err, ErrUserEmailConflict)
	})

	t.Run("login with valid credentials", func(t *testing.T) {
		got, err := svc.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Empty(t, got.PasswordHash)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "wrong-password"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("login with unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetUserByID(t *testing.T) {
	repo := newFakeUserRepo()
	repo.mustAdd(models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	svc := NewAuthService(repo)

	user, err := svc.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.GetUserByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
