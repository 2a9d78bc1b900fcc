package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const sessionKey = "auth_session"

// AuthMiddleware validates bearer tokens and stores the caller's session.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions repository.SessionRepository
	logger   *zap.Logger
}

// NewAuthMiddleware constructs middleware. sessions may be nil, in which case
// logout revocation is not enforced.
func NewAuthMiddleware(tokens *TokenManager, sessions repository.SessionRepository, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, sessions: sessions, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := BearerToken(c)
	if err != nil {
		return err
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.sessions != nil {
		revoked, err := m.sessions.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			// A Redis outage should not lock every attendant out.
			m.logger.Warn("session revocation lookup failed", zap.String("token_id", claims.ID), zap.Error(err))
		} else if revoked {
			return apperrors.NewUnauthorized("session ended")
		}
	}

	c.Locals(sessionKey, claims.Session())
	return c.Next()
}

// BearerToken extracts the raw token from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (domain.Session, bool) {
	session, ok := c.Locals(sessionKey).(domain.Session)
	return session, ok
}

// WithSession stores a session on the request. Used by tests and trusted adapters.
func WithSession(c *fiber.Ctx, session domain.Session) {
	c.Locals(sessionKey, session)
}
