package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthService coordinates login and logout.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
	now      func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	Tokens      *auth.TokenManager
	Logger      *zap.Logger
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token   string
	Session domain.Session
	User    *domain.User
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    deps.UserRepo,
		sessions: deps.SessionRepo,
		tokenMgr: deps.Tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// Login verifies credentials of an active user and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		s.logger.Error("stored password hash unreadable", zap.String("user_id", user.ID), zap.Error(err))
	}
	if !ok {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, session, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return &LoginResult{Token: token, Session: session, User: user}, nil
}

// Logout revokes the session's token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, session domain.Session) error {
	if s.sessions == nil || session.TokenID == "" {
		return nil
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if err := s.sessions.Revoke(ctx, session.TokenID, ttl); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Me returns the current user's record. Deactivated users are treated as logged out.
func (s *AuthService) Me(ctx context.Context, session domain.Session) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.NewUnauthorized("user no longer exists")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("user is inactive")
	}
	return user, nil
}
