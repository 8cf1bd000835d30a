package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/efactura-api/internal/application/dto"
	"github.com/jhoicas/efactura-api/internal/application/invoicing"
)

// CompanyHandler serves the VAT registry lookup (protected).
type CompanyHandler struct {
	invoices *invoicing.Service
}

// NewCompanyHandler builds the handler.
func NewCompanyHandler(invoices *invoicing.Service) *CompanyHandler {
	return &CompanyHandler{invoices: invoices}
}

// GetByCUI looks up a taxpayer in the public VAT registry.
// GET /api/companies/:cui
func (h *CompanyHandler) GetByCUI(c *fiber.Ctx) error {
	cui := c.Params("cui")
	if cui == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cui required"})
	}
	company, err := h.invoices.Company(c.Context(), cui)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCompany(company))
}
