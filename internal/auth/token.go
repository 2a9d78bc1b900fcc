package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TokenManager handles issuing and validating session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute, now: time.Now}
}

// Claims carries the session snapshot taken at login.
type Claims struct {
	Username     string `json:"username"`
	Attendant    string `json:"atendente"`
	Level1Access bool   `json:"level1_access"`
	Level2Access bool   `json:"level2_access"`
	Level3Access bool   `json:"level3_access"`
	jwt.RegisteredClaims
}

// Session converts verified claims into the value passed to services.
func (c *Claims) Session() domain.Session {
	session := domain.Session{
		TokenID:      c.ID,
		UserID:       c.Subject,
		Username:     c.Username,
		Attendant:    c.Attendant,
		Level1Access: c.Level1Access,
		Level2Access: c.Level2Access,
		Level3Access: c.Level3Access,
	}
	if c.ExpiresAt != nil {
		session.ExpiresAt = c.ExpiresAt.Time
	}
	return session
}

// GenerateToken signs a token for the user and returns the session it encodes.
func (tm *TokenManager) GenerateToken(user *domain.User) (string, domain.Session, error) {
	issuedAt := tm.now()
	claims := &Claims{
		Username:     user.Username,
		Attendant:    user.Attendant,
		Level1Access: user.Level1Access,
		Level2Access: user.Level2Access,
		Level3Access: user.Level3Access,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", domain.Session{}, err
	}
	return tokenString, claims.Session(), nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
