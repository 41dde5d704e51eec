package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories"
	"github.com/ArowuTest/bridgetunes-event-wheel/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type authService struct {
	adminRepo repositories.AdminUserRepository
	tokens    *jwt.TokenService
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(adminRepo repositories.AdminUserRepository, tokens *jwt.TokenService) AuthService {
	return &authService{
		adminRepo: adminRepo,
		tokens:    tokens,
	}
}

// Login verifies a staff member's password and issues a staff token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.AdminUser, error) {
	adminUser, err := s.adminRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		slog.Error("Login: Failed to load admin user", "error", err)
		return "", nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adminUser.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(adminUser.ID.Hex(), adminUser.DisplayName, "", adminUser.Role)
	if err != nil {
		return "", nil, err
	}
	return token, adminUser, nil
}

// CreateAdmin hashes password and stores a staff account
func (s *authService) CreateAdmin(ctx context.Context, email, password, displayName string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, fmt.Errorf("%w: email and a password of at least 8 characters are required", ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	adminUser := &models.AdminUser{
		Email:       email,
		Password:    string(hashedPassword),
		DisplayName: displayName,
		Role:        models.RoleStaff,
	}
	if err := s.adminRepo.Create(ctx, adminUser); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return adminUser, nil
}
