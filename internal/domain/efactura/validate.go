package efactura

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Validate checks structural completeness of the raw input before any
// computation. It fails fast: the returned error wraps ErrValidation and
// names the first violated field (or the 1-based line index), in a fixed
// order so callers get deterministic messages.
func Validate(in *InvoiceInput) error {
	if in == nil {
		return fmt.Errorf("%w: invoice data is required", ErrValidation)
	}
	if in.InvoiceNumber == "" {
		return fmt.Errorf("%w: invoiceNumber is required", ErrValidation)
	}
	if in.IssueDate.IsZero() {
		return fmt.Errorf("%w: issueDate is required", ErrValidation)
	}
	if err := validateParty(in.Supplier, "supplier"); err != nil {
		return err
	}
	if err := validateParty(in.Customer, "customer"); err != nil {
		return err
	}
	// The line list must be present; an empty list is a valid zero-total
	// invoice, a nil one is a caller mistake.
	if in.Lines == nil {
		return fmt.Errorf("%w: lines is required (use an empty list for a zero-total invoice)", ErrValidation)
	}
	for i, line := range in.Lines {
		if err := validateLine(line, i+1); err != nil {
			return err
		}
	}
	return nil
}

func validateParty(p *Party, field string) error {
	if p == nil {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if p.RegistrationName == "" {
		return fmt.Errorf("%w: %s.registrationName is required", ErrValidation, field)
	}
	if p.CompanyID == "" {
		return fmt.Errorf("%w: %s.companyId is required", ErrValidation, field)
	}
	if p.Address.Street == "" {
		return fmt.Errorf("%w: %s.address.street is required", ErrValidation, field)
	}
	if p.Address.City == "" {
		return fmt.Errorf("%w: %s.address.city is required", ErrValidation, field)
	}
	if p.Address.PostalZone == "" {
		return fmt.Errorf("%w: %s.address.postalZone is required", ErrValidation, field)
	}
	return nil
}

func validateLine(line InvoiceLine, index int) error {
	if line.Description == "" {
		return fmt.Errorf("%w: line %d: description is required", ErrValidation, index)
	}
	if !line.Quantity.IsPositive() {
		return fmt.Errorf("%w: line %d: quantity must be a positive number", ErrValidation, index)
	}
	if line.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: line %d: unitPrice must be a non-negative number", ErrValidation, index)
	}
	if line.TaxPercent.IsNegative() || line.TaxPercent.GreaterThan(oneHundred) {
		return fmt.Errorf("%w: line %d: taxPercent must be between 0 and 100", ErrValidation, index)
	}
	return nil
}
