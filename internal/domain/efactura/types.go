// Package efactura holds the invoice domain model and the computation rules
// (validation, line amounts, VAT grouping) behind the RO e-Factura UBL
// document. Everything here is pure: one input in, computed values out, no
// state kept between calls.
package efactura

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-api/pkg/ciusro"
)

// Address is a postal address of one party. Street, City and PostalZone are
// mandatory; County is optional and CountryCode falls back to "RO".
type Address struct {
	Street      string
	City        string
	PostalZone  string
	County      string
	CountryCode string
}

// Party is the supplier or the customer of the invoice.
type Party struct {
	RegistrationName string
	CompanyID        string // fiscal identifier (CUI / registration number)
	VatNumber        string // optional, e.g. RO12345678
	Address          Address
}

// InvoiceLine is one caller-supplied invoice line. Quantity must be positive,
// UnitPrice non-negative; TaxPercent defaults to zero (zero-rated line).
type InvoiceLine struct {
	ID          string // optional; defaults to the 1-based position
	Description string
	Quantity    decimal.Decimal
	UnitCode    string // UN/ECE Rec 20; defaults to ciusro.DefaultUnitCode
	UnitPrice   decimal.Decimal
	TaxPercent  decimal.Decimal // 0..100
}

// InvoiceInput is the caller-supplied invoice. It is treated as immutable for
// the duration of one build call.
type InvoiceInput struct {
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       *time.Time // defaults to IssueDate
	Currency      string     // defaults to RON
	Supplier      *Party
	Customer      *Party
	Lines         []InvoiceLine // may be empty (zero-total invoice)
	PaymentIBAN   string        // optional; emits cac:PaymentMeans when set

	// IsSupplierVatPayer drives the tax category of every line. When nil it
	// defaults to "supplier has a VAT number". That conflates registration
	// with payer status, but it is the upstream-compatible rule.
	IsSupplierVatPayer *bool
}

// WithDefaults resolves every optional field once, up front, and returns a
// fully populated copy. Tree assembly and PDF rendering work only on the
// resolved value, so the coalescing rules live in exactly one place.
func (in InvoiceInput) WithDefaults() InvoiceInput {
	out := in

	if out.Currency == "" {
		out.Currency = ciusro.DefaultCurrency
	}
	if out.DueDate == nil {
		due := out.IssueDate
		out.DueDate = &due
	}
	if out.IsSupplierVatPayer == nil {
		vatPayer := out.Supplier != nil && out.Supplier.VatNumber != ""
		out.IsSupplierVatPayer = &vatPayer
	}
	if out.Supplier != nil {
		s := *out.Supplier
		s.Address = s.Address.withDefaults()
		out.Supplier = &s
	}
	if out.Customer != nil {
		c := *out.Customer
		c.Address = c.Address.withDefaults()
		out.Customer = &c
	}

	lines := make([]InvoiceLine, len(in.Lines))
	copy(lines, in.Lines)
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = strconv.Itoa(i + 1)
		}
		if lines[i].UnitCode == "" {
			lines[i].UnitCode = ciusro.DefaultUnitCode
		}
	}
	out.Lines = lines

	return out
}

func (a Address) withDefaults() Address {
	if a.CountryCode == "" {
		a.CountryCode = ciusro.DefaultCountryCode
	}
	return a
}
