package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-api/internal/domain"
	"github.com/jhoicas/efactura-api/internal/domain/efactura"
)

// AddressRequest is the JSON shape of a postal address.
type AddressRequest struct {
	Street      string `json:"street"`
	City        string `json:"city"`
	PostalZone  string `json:"postal_zone"`
	County      string `json:"county,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// PartyRequest is the JSON shape of the supplier or customer.
type PartyRequest struct {
	RegistrationName string         `json:"registration_name"`
	CompanyID        string         `json:"company_id"`
	VatNumber        string         `json:"vat_number,omitempty"`
	Address          AddressRequest `json:"address"`
}

// LineRequest is one invoice line. Decimal fields accept JSON numbers or
// numeric strings.
type LineRequest struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCode    string          `json:"unit_code,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
}

// InvoiceRequest is the caller-supplied invoice. Dates use yyyy-mm-dd.
type InvoiceRequest struct {
	InvoiceNumber      string        `json:"invoice_number"`
	IssueDate          string        `json:"issue_date"`
	DueDate            string        `json:"due_date,omitempty"`
	Currency           string        `json:"currency,omitempty"`
	Supplier           *PartyRequest `json:"supplier"`
	Customer           *PartyRequest `json:"customer"`
	Lines              []LineRequest `json:"lines"`
	PaymentIBAN        string        `json:"payment_iban,omitempty"`
	IsSupplierVatPayer *bool         `json:"is_supplier_vat_payer,omitempty"`
}

const dateLayout = "2006-01-02"

// ToDomain converts the request into the domain input. Only the date syntax
// is checked here; field validation belongs to the domain.
func (r InvoiceRequest) ToDomain() (*efactura.InvoiceInput, error) {
	issueDate, err := parseDate(r.IssueDate, "issue_date", true)
	if err != nil {
		return nil, err
	}

	in := &efactura.InvoiceInput{
		InvoiceNumber:      r.InvoiceNumber,
		IssueDate:          issueDate,
		Currency:           r.Currency,
		Supplier:           partyToDomain(r.Supplier),
		Customer:           partyToDomain(r.Customer),
		PaymentIBAN:        r.PaymentIBAN,
		IsSupplierVatPayer: r.IsSupplierVatPayer,
	}
	if r.DueDate != "" {
		due, err := parseDate(r.DueDate, "due_date", false)
		if err != nil {
			return nil, err
		}
		in.DueDate = &due
	}
	if r.Lines != nil {
		in.Lines = make([]efactura.InvoiceLine, len(r.Lines))
		for i, l := range r.Lines {
			in.Lines[i] = efactura.InvoiceLine{
				ID:          l.ID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitCode:    l.UnitCode,
				UnitPrice:   l.UnitPrice,
				TaxPercent:  l.TaxPercent,
			}
		}
	}
	return in, nil
}

func partyToDomain(p *PartyRequest) *efactura.Party {
	if p == nil {
		return nil
	}
	return &efactura.Party{
		RegistrationName: p.RegistrationName,
		CompanyID:        p.CompanyID,
		VatNumber:        p.VatNumber,
		Address: efactura.Address{
			Street:      p.Address.Street,
			City:        p.Address.City,
			PostalZone:  p.Address.PostalZone,
			County:      p.Address.County,
			CountryCode: p.Address.CountryCode,
		},
	}
}

func parseDate(s, field string, required bool) (time.Time, error) {
	if s == "" {
		if required {
			return time.Time{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
		}
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be yyyy-mm-dd", domain.ErrInvalidInput, field)
	}
	return t, nil
}

// XMLResponse returns the rendered document.
type XMLResponse struct {
	XML string `json:"xml"`
}

// SendResponse returns the upload handle.
type SendResponse struct {
	UploadIndex string `json:"upload_index"`
	XML         string `json:"xml,omitempty"`
}

// StatusResponse is the processing state of one upload.
type StatusResponse struct {
	State      string   `json:"state"`
	Done       bool     `json:"done"`
	DownloadID string   `json:"download_id,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// ValidationResponse is the outcome of a remote validation.
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages,omitempty"`
	TraceID  string   `json:"trace_id,omitempty"`
}
