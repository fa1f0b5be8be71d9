// Package service orchestrates repositories and the domain rule engine behind
// the HTTP handlers.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/pkg/auth"
	"github.com/taskhive/taskhive/pkg/email"
)

// AuthService handles registration, login, and account self-management.
type AuthService struct {
	users           repository.UserRepository
	tokenManager    *auth.TokenManager
	passwordManager *auth.PasswordManager
	email           email.Service
	logger          *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokenManager *auth.TokenManager, emailService email.Service, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:           users,
		tokenManager:    tokenManager,
		passwordManager: auth.NewPasswordManager(),
		email:           emailService,
		logger:          logger,
	}
}

// Credentials is an issued token pair.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account and issues a token pair. The welcome
// email is best-effort.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *Credentials, error) {
	if err := auth.ValidateName(in.Name); err != nil {
		return nil, nil, domain.Validationf("invalid name: %v", err)
	}
	if err := auth.ValidateEmail(in.Email); err != nil {
		return nil, nil, domain.Validationf("invalid email: %v", err)
	}

	hashedPassword, err := s.passwordManager.HashPassword(in.Password)
	if err != nil {
		return nil, nil, domain.Validationf("invalid password: %v", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hashedPassword,
		Role:         models.UserRoleUser,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, domain.Conflictf("email is already registered")
		}
		return nil, nil, domain.Internal("create user", err)
	}

	creds, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.email.SendWelcomeEmail(ctx, user); err != nil {
		s.logger.Warn("failed to send welcome email",
			zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}

	return user, creds, nil
}

// Login authenticates by email and password and issues a token pair.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (*models.User, *Credentials, error) {
	if emailAddr == "" || password == "" {
		return nil, nil, domain.Validationf("email and password are required")
	}

	clientInfo := middleware.ClientInfoFromContext(ctx)
	loginID := strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := s.users.GetByEmail(ctx, loginID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("login failed",
				zap.String("email", loginID),
				zap.String("reason", "user not found"),
				zap.String("ip", clientInfo.IPAddress))
			return nil, nil, domain.Authorizationf("invalid credentials")
		}
		return nil, nil, domain.Internal("find user", err)
	}

	if !user.IsActive {
		return nil, nil, domain.Authorizationf("account is deactivated")
	}

	if err := s.passwordManager.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed",
			zap.String("email", loginID),
			zap.String("reason", "invalid password"),
			zap.String("ip", clientInfo.IPAddress))
		return nil, nil, domain.Authorizationf("invalid credentials")
	}

	now := time.Now()
	user.LastLogin = &now

	creds, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", user.ID.Hex()),
		zap.String("ip", clientInfo.IPAddress),
		zap.String("user_agent", clientInfo.UserAgent))

	return user, creds, nil
}

// Refresh rotates the token pair using a valid refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Credentials, error) {
	if refreshToken == "" {
		return nil, domain.Validationf("refresh token is required")
	}

	claims, err := s.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.Authorizationf("invalid refresh token")
	}

	user, err := s.userFromClaims(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if user.RefreshToken != refreshToken {
		return nil, domain.Authorizationf("invalid refresh token")
	}
	if user.RefreshTokenExpiresAt != nil && user.RefreshTokenExpiresAt.Before(time.Now()) {
		return nil, domain.Authorizationf("refresh token expired")
	}
	if !user.IsActive {
		return nil, domain.Authorizationf("account is deactivated")
	}

	return s.issueTokens(ctx, user)
}

// Logout invalidates the stored refresh token. Always succeeds from the
// caller's point of view.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	user, err := s.userFromClaims(ctx, claims.UserID)
	if err != nil {
		return nil
	}

	user.RefreshToken = ""
	user.RefreshTokenExpiresAt = nil
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("failed to clear refresh token",
			zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}
	return nil
}

// GetMe returns the authenticated user.
func (s *AuthService) GetMe(ctx context.Context) (*models.User, error) {
	return s.currentUser(ctx)
}

// UpdateProfileInput carries profile changes; nil fields stay untouched.
type UpdateProfileInput struct {
	Name *string `json:"name"`
}

// UpdateProfile updates the authenticated user's profile.
func (s *AuthService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := auth.ValidateName(*in.Name); err != nil {
			return nil, domain.Validationf("invalid name: %v", err)
		}
		user.Name = strings.TrimSpace(*in.Name)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, domain.Internal("update user", err)
	}
	return user, nil
}

// ChangePassword verifies the current password and stores the new one. The
// stored refresh token is invalidated; other sessions must log in again.
func (s *AuthService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.Validationf("current and new passwords are required")
	}

	user, err := s.currentUser(ctx)
	if err != nil {
		return err
	}

	if err := s.passwordManager.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return domain.Validationf("incorrect current password")
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return domain.Validationf("invalid password: %v", err)
	}

	user.PasswordHash = hashedPassword
	user.RefreshToken = ""
	user.RefreshTokenExpiresAt = nil
	if err := s.users.Update(ctx, user); err != nil {
		return domain.Internal("update password", err)
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID.Hex()))

	if err := s.email.SendPasswordChangedNotification(ctx, user); err != nil {
		s.logger.Warn("failed to send password change notification",
			zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}

	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*Credentials, error) {
	accessToken, refreshToken, expiresIn, err := s.tokenManager.GenerateTokenPair(
		user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, domain.Internal("generate tokens", err)
	}

	expiry := time.Now().Add(7 * 24 * time.Hour)
	user.RefreshToken = refreshToken
	user.RefreshTokenExpiresAt = &expiry
	if err := s.users.Update(ctx, user); err != nil {
		return nil, domain.Internal("save refresh token", err)
	}

	return &Credentials{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

func (s *AuthService) currentUser(ctx context.Context) (*models.User, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("user not found")
		}
		return nil, domain.Internal("get user", err)
	}
	return user, nil
}

func (s *AuthService) userFromClaims(ctx context.Context, rawID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, domain.Authorizationf("invalid user ID in token")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Authorizationf("invalid refresh token")
		}
		return nil, domain.Internal("get user", err)
	}
	return user, nil
}
