package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tictacroom/internal/api/models"
	"tictacroom/internal/api/repository"
	"tictacroom/internal/db"
)

func newTestService(t *testing.T) UserService {
	t.Helper()

	pool, err := db.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return NewUserService(repository.NewUserRepository(pool), "test-secret", time.Hour)
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	err := svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	token, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestUserService_RegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "secret123"}))

	err := svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "other456"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserService_LoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "secret123"}))

	_, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_VerifyRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Verify("not-a-token")
	assert.Error(t, err)
}

func TestUserService_VerifyRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	require.NoError(t, svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "secret123"}))
	token, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	otherSvc := NewUserService(nil, "different-secret", time.Hour)

	_, err = otherSvc.Verify(token)
	assert.Error(t, err)
}

func TestUserService_GuestLogin(t *testing.T) {
	svc := newTestService(t)

	username, token, err := svc.GuestLogin(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(username, "guest-"))

	verified, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, username, verified)
}

func TestUserService_ListUsernames(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, svc.Register(ctx, &models.RegisterRequest{Username: name, Password: "secret123"}))
	}

	usernames, err := svc.ListUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, usernames)
}
