package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/board"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func sessionFrom(c *fiber.Ctx) (domain.Session, error) {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return domain.Session{}, apperrors.NewUnauthorized("authentication required")
	}
	return session, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

// ticketIDParam reads the :id segment. Ticket ids are UUIDs, so anything else
// cannot name a ticket and is reported as NotFound without touching the store.
func ticketIDParam(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return id, nil
}

// pathParam returns a percent-decoded route segment. The app keeps raw paths,
// so names with spaces or accents arrive encoded.
func pathParam(c *fiber.Ctx, key string) (string, error) {
	raw := c.Params(key)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperrors.NewValidationError("malformed path segment", map[string]any{key: "is not valid percent-encoding"})
	}
	return strings.TrimSpace(decoded), nil
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func ticketResponse(t *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                    t.ID,
		ShortID:               t.ShortID(),
		Description:           t.Description,
		Priority:              t.Priority,
		Status:                t.Status,
		ClientEmail:           t.ClientEmail,
		BrokerLink:            t.BrokerLink,
		Attendant:             t.Attendant,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
		ResolvedAt:            t.ResolvedAt,
		ResolutionObservation: t.ResolutionObservation,
		Draggable:             board.Draggable(*t),
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	out := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketResponse(&tickets[i]))
	}
	return out
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Attendant:       u.Attendant,
		Phone:           u.Phone,
		Username:        u.Username,
		Level1Access:    u.Level1Access,
		Level2Access:    u.Level2Access,
		Level3Access:    u.Level3Access,
		Active:          u.Active,
		WhatsAppEnabled: u.WhatsAppEnabled,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
