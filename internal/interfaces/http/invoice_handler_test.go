package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efactura-api/internal/application/dto"
	"github.com/jhoicas/efactura-api/internal/application/invoicing"
	apphttp "github.com/jhoicas/efactura-api/internal/interfaces/http"
	"github.com/jhoicas/efactura-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Test helpers
// ──────────────────────────────────────────────────────────────────────────────

// buildInvoiceApp wires only the local XML endpoint; it never talks to ANAF.
func buildInvoiceApp() *fiber.App {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	h := apphttp.NewInvoiceHandler(invoicing.NewService(nil, log, 0), nil)

	app := fiber.New()
	app.Post("/api/invoices/xml", h.GenerateXML)
	return app
}

func postXML(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/xml", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

const validInvoiceBody = `{
	"invoice_number": "FCT-1",
	"issue_date": "2026-03-15",
	"supplier": {
		"registration_name": "Furnizor SRL",
		"company_id": "12345678",
		"vat_number": "RO12345678",
		"address": {"street": "Str. Exemplu 1", "city": "Bucuresti", "postal_zone": "010101"}
	},
	"customer": {
		"registration_name": "Client SA",
		"company_id": "87654321",
		"address": {"street": "Bd. Unirii 10", "city": "Cluj-Napoca", "postal_zone": "400001"}
	},
	"lines": [
		{"description": "Servicii", "quantity": 1, "unit_price": 100, "tax_percent": 19}
	]
}`

// ──────────────────────────────────────────────────────────────────────────────
// Body parsing
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateXML_ValidBody(t *testing.T) {
	app := buildInvoiceApp()
	resp := postXML(t, app, validInvoiceBody)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.XMLResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.XML, "<cbc:ID>FCT-1</cbc:ID>")
}

func TestGenerateXML_MalformedBodyReturnsInvalidBody(t *testing.T) {
	app := buildInvoiceApp()
	resp := postXML(t, app, `{"invoice_number":`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "INVALID_BODY", body.Code)
}

func TestGenerateXML_BadDateKeepsFieldMessage(t *testing.T) {
	app := buildInvoiceApp()
	resp := postXML(t, app, strings.Replace(validInvoiceBody, "2026-03-15", "15.03.2026", 1))
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "issue_date must be yyyy-mm-dd")
}

func TestGenerateXML_MissingPartyNamesField(t *testing.T) {
	app := buildInvoiceApp()
	resp := postXML(t, app, strings.Replace(validInvoiceBody, `"supplier"`, `"supplier_ignored"`, 1))
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "supplier is required")
}
