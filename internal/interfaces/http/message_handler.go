package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/efactura-api/internal/application/dto"
	"github.com/jhoicas/efactura-api/internal/application/invoicing"
	"github.com/jhoicas/efactura-api/internal/infrastructure/anaf"
)

// MessageHandler serves the SPV message listing (protected).
type MessageHandler struct {
	invoices *invoicing.Service
}

// NewMessageHandler builds the handler.
func NewMessageHandler(invoices *invoicing.Service) *MessageHandler {
	return &MessageHandler{invoices: invoices}
}

// List returns messages of the last N days.
// GET /api/messages?cif=...&days=30&filter=E
func (h *MessageHandler) List(c *fiber.Ctx) error {
	cif := c.Query("cif")
	if cif == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cif required"})
	}
	days := c.QueryInt("days", 30)
	filter := anaf.MessageFilter(c.Query("filter"))

	msgs, err := h.invoices.Messages(c.Context(), cif, days, filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageListResponse{Messages: dto.FromMessages(msgs)})
}

// ListPaginated returns one page of messages between two instants
// (RFC 3339 or yyyy-mm-dd).
// GET /api/messages/paginated?cif=...&start=...&end=...&page=1&filter=E
func (h *MessageHandler) ListPaginated(c *fiber.Ctx) error {
	cif := c.Query("cif")
	if cif == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cif required"})
	}
	start, err := parseInstant(c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start must be RFC 3339 or yyyy-mm-dd"})
	}
	end, err := parseInstant(c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end must be RFC 3339 or yyyy-mm-dd"})
	}
	page := int64(c.QueryInt("page", 1))
	filter := anaf.MessageFilter(c.Query("filter"))

	result, err := h.invoices.MessagesPage(c.Context(), cif, start, end, page, filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessagePageResponse{
		Messages:       dto.FromMessages(result.Messages),
		TotalRecords:   result.TotalRecords,
		TotalPages:     result.TotalPages,
		RecordsPerPage: result.RecordsPerPage,
		CurrentPage:    result.CurrentPage,
	})
}

func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
