package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/board"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// BoardHandler serves the kanban board.
type BoardHandler struct {
	board *service.BoardService
}

// NewBoardHandler constructs handler.
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{board: boardService}
}

// Board GET /board.
func (h *BoardHandler) Board(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	view, err := h.board.Board(c.UserContext(), session)
	if err != nil {
		return err
	}

	resp := dto.BoardResponse{Total: view.Columns.Len()}
	for _, col := range view.Columns.Ordered() {
		resp.Columns = append(resp.Columns, dto.BoardColumn{
			Status:  col.Status,
			Title:   col.Title,
			Count:   view.Counts[col.Status],
			Tickets: ticketResponses(col.Tickets),
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Drop POST /board/tickets/:id/drop. A drop onto the resolved column answers
// 202 and waits for the resolve call.
func (h *BoardHandler) Drop(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	id, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	var req dto.DropRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.board.Drop(c.UserContext(), session, id, req.Target)
	if err != nil {
		return err
	}

	out := dto.DropResponse{
		Action:            res.Action.Kind,
		Target:            res.Action.Target,
		Reason:            res.Action.Reason,
		NotificationPhone: res.NotificationPhone,
	}
	if res.Ticket != nil {
		t := ticketResponse(res.Ticket)
		out.Ticket = &t
	}
	status := http.StatusOK
	if res.Action.Kind == board.ActionRequireResolutionObservation {
		status = http.StatusAccepted
	}
	return c.Status(status).JSON(fiber.Map{"data": out})
}

// Resolve POST /board/tickets/:id/resolve.
func (h *BoardHandler) Resolve(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	id, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	var req dto.ResolveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.board.ConfirmResolution(c.UserContext(), session, id, req.Observation, req.SendNotification)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Contact GET /board/attendants/:name/contact.
func (h *BoardHandler) Contact(c *fiber.Ctx) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return err
	}
	phone, err := h.board.NotificationTarget(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ContactResponse{Attendant: name, Phone: phone, CanNotify: phone != ""}})
}
