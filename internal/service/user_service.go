package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UserService manages staff accounts from the admin panel.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// UserInput is the create/update form. Password is optional on update.
type UserInput struct {
	Attendant       string `json:"atendente" validate:"required,max=120"`
	Phone           string `json:"telefone" validate:"omitempty,max=32"`
	Username        string `json:"username" validate:"required,min=3,max=64"`
	Password        string `json:"password" validate:"omitempty,min=6"`
	Level1Access    bool   `json:"level1_access"`
	Level2Access    bool   `json:"level2_access"`
	Level3Access    bool   `json:"level3_access"`
	Active          *bool  `json:"is_active"`
	WhatsAppEnabled *bool  `json:"whatsapp_enabled"`
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// ListUsers returns every account, newest first.
func (s *UserService) ListUsers(ctx context.Context, session domain.Session) ([]domain.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// CreateUser adds an account. Active and WhatsApp opt-in default to true.
func (s *UserService) CreateUser(ctx context.Context, session domain.Session, input UserInput) (*domain.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, apperrors.NewValidationError("invalid input", map[string]any{"password": "is required"})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Attendant:       input.Attendant,
		Phone:           input.Phone,
		Username:        input.Username,
		PasswordHash:    hash,
		Level1Access:    input.Level1Access,
		Level2Access:    input.Level2Access,
		Level3Access:    input.Level3Access,
		Active:          boolOr(input.Active, true),
		WhatsAppEnabled: boolOr(input.WhatsAppEnabled, true),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser replaces an account's fields. An empty password keeps the current one.
func (s *UserService) UpdateUser(ctx context.Context, session domain.Session, id string, input UserInput) (*domain.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Attendant = input.Attendant
	user.Phone = input.Phone
	user.Username = input.Username
	user.Level1Access = input.Level1Access
	user.Level2Access = input.Level2Access
	user.Level3Access = input.Level3Access
	user.Active = boolOr(input.Active, user.Active)
	user.WhatsAppEnabled = boolOr(input.WhatsAppEnabled, user.WhatsAppEnabled)
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, session domain.Session, id string) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if id == session.UserID {
		return apperrors.NewConflict("cannot delete your own account", nil)
	}
	return s.users.Delete(ctx, id)
}

// ToggleActive flips the active flag and returns the updated account.
func (s *UserService) ToggleActive(ctx context.Context, session domain.Session, id string) (*domain.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if id == session.UserID {
		return nil, apperrors.NewConflict("cannot deactivate your own account", nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetActive(ctx, id, !user.Active); err != nil {
		return nil, err
	}
	user.Active = !user.Active
	return user, nil
}

func (in UserInput) trimmed() UserInput {
	in.Attendant = strings.TrimSpace(in.Attendant)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Username = strings.TrimSpace(in.Username)
	return in
}

func requireAdmin(session domain.Session) error {
	if !session.HasAccess(domain.AccessLevelAnalytics) {
		return apperrors.NewForbidden("admin access required")
	}
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
