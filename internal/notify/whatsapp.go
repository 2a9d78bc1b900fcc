package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

const defaultCountryCode = "55"

var errNotConfigured = errors.New("whatsapp api configuration is missing")

// ResolutionNotice is what an attendant receives when one of their tickets is closed.
type ResolutionNotice struct {
	Phone         string
	TicketID      string
	ClientEmail   string
	AttendantName string
	Resolution    string
}

// Sender delivers resolution notices. Implementations never return an error:
// delivery is best effort and the boolean only feeds logs and the manual send route.
type Sender interface {
	SendResolutionNotification(ctx context.Context, notice ResolutionNotice) bool
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// WhatsAppClient talks to an Evolution-style messaging API.
type WhatsAppClient struct {
	cfg      config.WhatsAppConfig
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewWhatsAppClient builds a client. loc controls the timestamp printed in messages.
func NewWhatsAppClient(cfg config.WhatsAppConfig, loc *time.Location, logger *zap.Logger) *WhatsAppClient {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppClient{cfg: cfg, location: loc, now: time.Now, logger: logger}
}

// SendResolutionNotification formats and sends the notice, reporting whether the API accepted it.
func (c *WhatsAppClient) SendResolutionNotification(ctx context.Context, notice ResolutionNotice) bool {
	text := FormatResolutionMessage(notice, c.now().In(c.location))
	if err := c.sendText(ctx, notice.Phone, text); err != nil {
		c.logger.Warn("whatsapp notification failed",
			zap.String("ticket_id", notice.TicketID),
			zap.String("attendant", notice.AttendantName),
			zap.Error(err))
		return false
	}
	c.logger.Info("whatsapp notification sent",
		zap.String("ticket_id", notice.TicketID),
		zap.String("attendant", notice.AttendantName))
	return true
}

func (c *WhatsAppClient) sendText(ctx context.Context, phone, text string) error {
	if !c.cfg.Configured() {
		return errNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/message/sendText/%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Instance)
	agent := fiber.Post(url).
		Set("apikey", c.cfg.APIKey).
		Timeout(c.cfg.Timeout()).
		JSON(sendTextRequest{Number: FormatPhoneNumber(phone), Text: text})

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("whatsapp api responded %d: %s", status, truncate(string(body), 200))
	}
	return nil
}

// FormatPhoneNumber normalizes a phone number to the digits-only international form
// the messaging API expects, assuming Brazil when no country code is present.
func FormatPhoneNumber(phone string) string {
	formatted := strings.NewReplacer(" ", "", "\t", "", "-", "", "(", "", ")", "", ".", "", "+", "").Replace(phone)
	if !strings.HasPrefix(formatted, defaultCountryCode) {
		formatted = defaultCountryCode + formatted
	}
	return formatted
}

// FormatResolutionMessage renders the fixed pt-BR resolution template.
func FormatResolutionMessage(notice ResolutionNotice, sentAt time.Time) string {
	shortID := notice.TicketID
	if len(shortID) > 8 {
		shortID = shortID[len(shortID)-8:]
	}

	clientLine := ""
	if notice.ClientEmail != "" {
		clientLine = fmt.Sprintf("📧 *Cliente:* %s\n", notice.ClientEmail)
	}

	var b strings.Builder
	b.WriteString("🎉 *Sistema de Suporte*\n\n")
	fmt.Fprintf(&b, "Chamado *#%s* foi encerrado com sucesso!\n\n", shortID)
	b.WriteString(clientLine)
	fmt.Fprintf(&b, "👤 *Atendente:* %s\n", notice.AttendantName)
	fmt.Fprintf(&b, "✅ *Solução:* %s\n", notice.Resolution)
	fmt.Fprintf(&b, "📅 *Data:* %s\n\n", sentAt.Format("02/01/2006 15:04"))
	b.WriteString("Obrigado pelo seu trabalho! 🚀\n\n")
	b.WriteString("---\n")
	b.WriteString("*Mensagem automática do Sistema de Suporte*")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
