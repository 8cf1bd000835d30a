package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/efactura-api/internal/application/auth"
	"github.com/jhoicas/efactura-api/internal/application/invoicing"
	"github.com/jhoicas/efactura-api/pkg/logger"
)

// RouterDeps are the router's dependencies.
type RouterDeps struct {
	Invoices  *invoicing.Service
	PDF       *invoicing.PDFService
	AuthUC    *auth.AuthUseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestID())
	if deps.Log != nil {
		api.Use(RequestLogger(deps.Log))
	}

	// Auth (public)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/token", authHandler.Token)

	// Protected routes (require Bearer token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.PDF)
	invoices := protected.Group("/invoices")
	invoices.Post("/xml", invoiceHandler.GenerateXML)
	invoices.Post("/send", invoiceHandler.Send)
	invoices.Post("/validate", invoiceHandler.Validate)
	invoices.Post("/pdf", invoiceHandler.LocalPDF)
	invoices.Post("/pdf/anaf", invoiceHandler.OfficialPDF)
	invoices.Get("/status/:index", invoiceHandler.Status)
	invoices.Get("/download/:id", invoiceHandler.Download)

	messageHandler := NewMessageHandler(deps.Invoices)
	messages := protected.Group("/messages")
	messages.Get("/", messageHandler.List)
	messages.Get("/paginated", messageHandler.ListPaginated)

	companyHandler := NewCompanyHandler(deps.Invoices)
	protected.Get("/companies/:cui", companyHandler.GetByCUI)
}

// RequestID tags every request with an X-Request-ID, preserving one supplied
// by the caller.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals("request_id", id)
		return c.Next()
	}
}

// RequestLogger emits one access-log line per request. Must run after
// RequestID.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		log.Info().
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	v, _ := c.Locals("request_id").(string)
	return v
}
