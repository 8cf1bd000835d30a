package dto

import "github.com/jhoicas/efactura-api/internal/infrastructure/anaf"

// CompanyResponse is the public VAT registry record of one taxpayer.
type CompanyResponse struct {
	CUI                string `json:"cui"`
	Name               string `json:"name"`
	Address            string `json:"address,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	VatPayer           bool   `json:"vat_payer"`
	VatPayerSince      string `json:"vat_payer_since,omitempty"`
}

// FromCompany maps the registry record to the API shape.
func FromCompany(c *anaf.Company) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{
		CUI:                c.CUI,
		Name:               c.Name,
		Address:            c.Address,
		RegistrationNumber: c.RegistrationNumber,
		VatPayer:           c.VatPayer,
		VatPayerSince:      c.VatPayerSince,
	}
}
