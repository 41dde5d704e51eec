package services

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories/memory"
	"github.com/ArowuTest/bridgetunes-event-wheel/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	store := memory.NewStore()
	tokens := jwt.NewTokenService("secret", "event-wheel", time.Hour)
	svc := NewAuthService(store.AdminUsers(), tokens)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, "Staff@Example.com", "correct-horse", "Front Desk")
	require.NoError(t, err)
	assert.Equal(t, "staff@example.com", admin.Email)
	assert.NotEqual(t, "correct-horse", admin.Password)

	_, err = svc.CreateAdmin(ctx, "staff@example.com", "correct-horse", "Again")
	assert.ErrorIs(t, err, ErrAdminExists)

	_, err = svc.CreateAdmin(ctx, "short@example.com", "short", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	token, user, err := svc.Login(ctx, &models.LoginRequest{Email: "staff@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, claims.Role)
	assert.Equal(t, admin.ID.Hex(), claims.Subject)

	_, _, err = svc.Login(ctx, &models.LoginRequest{Email: "staff@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
