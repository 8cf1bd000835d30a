package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/efactura-api/internal/application/dto"
	"github.com/jhoicas/efactura-api/internal/application/invoicing"
	"github.com/jhoicas/efactura-api/internal/domain"
	"github.com/jhoicas/efactura-api/internal/domain/efactura"
	"github.com/jhoicas/efactura-api/internal/infrastructure/anaf"
)

// InvoiceHandler serves the invoice lifecycle endpoints (protected).
type InvoiceHandler struct {
	invoices *invoicing.Service
	pdf      *invoicing.PDFService
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(invoices *invoicing.Service, pdf *invoicing.PDFService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, pdf: pdf}
}

// GenerateXML renders the CIUS-RO XML without contacting ANAF.
// POST /api/invoices/xml
func (h *InvoiceHandler) GenerateXML(c *fiber.Ctx) error {
	in, err := parseInvoiceBody(c)
	if err != nil {
		return writeError(c, err)
	}
	xmlOut, err := h.invoices.GenerateXML(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.XMLResponse{XML: xmlOut})
}

// Send renders and uploads the invoice. ?include_xml=true echoes the
// rendered document in the response.
// POST /api/invoices/send
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	in, err := parseInvoiceBody(c)
	if err != nil {
		return writeError(c, err)
	}
	opts := &anaf.UploadOptions{
		External:    c.QueryBool("external"),
		SelfInvoice: c.QueryBool("self_invoice"),
		B2C:         c.QueryBool("b2c"),
	}
	result, err := h.invoices.Send(c.Context(), in, opts)
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.SendResponse{UploadIndex: result.UploadIndex}
	if c.QueryBool("include_xml") {
		resp.XML = result.XML
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Status reports the processing state of an upload.
// GET /api/invoices/status/:index
func (h *InvoiceHandler) Status(c *fiber.Ctx) error {
	index := c.Params("index")
	if index == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index required"})
	}
	status, err := h.invoices.Status(c.Context(), index)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StatusResponse{
		State:      string(status.State),
		Done:       status.State.Done(),
		DownloadID: status.DownloadID,
		Errors:     status.Errors,
	})
}

// Download streams the result archive of a finished upload.
// GET /api/invoices/download/:id
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	data, err := h.invoices.DownloadResult(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="efactura_`+id+`.zip"`)
	return c.Send(data)
}

// Validate submits the rendered XML to ANAF's validation endpoint. An
// invalid document is a 200 with valid:false.
// POST /api/invoices/validate
func (h *InvoiceHandler) Validate(c *fiber.Ctx) error {
	in, err := parseInvoiceBody(c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := h.invoices.ValidateRemote(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ValidationResponse{
		Valid:    result.Valid,
		Messages: result.Messages,
		TraceID:  result.TraceID,
	})
}

// LocalPDF renders the unofficial PDF representation locally.
// POST /api/invoices/pdf
func (h *InvoiceHandler) LocalPDF(c *fiber.Ctx) error {
	in, err := parseInvoiceBody(c)
	if err != nil {
		return writeError(c, err)
	}
	data, filename, err := h.pdf.RenderInvoicePDF(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// OfficialPDF renders the invoice through ANAF's transformare endpoint.
// ?no_validation=true skips the business rules.
// POST /api/invoices/pdf/anaf
func (h *InvoiceHandler) OfficialPDF(c *fiber.Ctx) error {
	in, err := parseInvoiceBody(c)
	if err != nil {
		return writeError(c, err)
	}
	data, err := h.invoices.OfficialPDF(c.Context(), in, c.QueryBool("no_validation"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(data)
}

// errInvalidBody marks a request body that could not be decoded at all.
var errInvalidBody = errors.New("invalid request body")

// parseInvoiceBody decodes and converts the invoice request. Failures flow
// back through writeError so the dto's field message survives.
func parseInvoiceBody(c *fiber.Ctx) (*efactura.InvoiceInput, error) {
	var req dto.InvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errInvalidBody
	}
	return req.ToDomain()
}

// writeError maps domain and boundary errors to HTTP status codes.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errInvalidBody):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	case errors.Is(err, efactura.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, invoicing.ErrRejected):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "REJECTED", Message: err.Error()})
	case errors.Is(err, anaf.ErrNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, anaf.ErrAuthentication):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "ANAF_AUTH", Message: err.Error()})
	case errors.Is(err, anaf.ErrAPI):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "ANAF_API", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
