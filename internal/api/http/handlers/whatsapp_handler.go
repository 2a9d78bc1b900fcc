package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// WhatsAppHandler sends a resolution notice on demand.
type WhatsAppHandler struct {
	notifications *service.NotificationService
}

// NewWhatsAppHandler constructs handler.
func NewWhatsAppHandler(notifications *service.NotificationService) *WhatsAppHandler {
	return &WhatsAppHandler{notifications: notifications}
}

// Send POST /api/whatsapp/send. A rejected delivery is reported as ok=false, not an error.
func (h *WhatsAppHandler) Send(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req service.ManualNoticeInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ok, err := h.notifications.SendManual(c.UserContext(), session, req)
	if err != nil {
		return err
	}
	return c.JSON(dto.SendWhatsAppResponse{OK: ok})
}
