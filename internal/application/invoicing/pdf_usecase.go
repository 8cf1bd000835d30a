package invoicing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/efactura-api/internal/domain/efactura"
)

// PDFService renders the local (unofficial) graphic representation of an
// invoice. Unlike OfficialPDF it needs no network round trip, so it also
// works for drafts that would not pass the business rules yet.
type PDFService struct {
	generator InvoicePDFGenerator
}

// NewPDFService builds the use case.
func NewPDFService(generator InvoicePDFGenerator) *PDFService {
	return &PDFService{generator: generator}
}

// RenderInvoicePDF validates the input and generates the PDF. Returns the
// bytes together with a download filename derived from the invoice number.
func (s *PDFService) RenderInvoicePDF(ctx context.Context, in *efactura.InvoiceInput) (pdfBytes []byte, filename string, err error) {
	if err := efactura.Validate(in); err != nil {
		return nil, "", err
	}
	resolved := in.WithDefaults()

	pdfBytes, err = s.generator.GenerateInvoicePDF(ctx, &resolved)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generation failed: %w", err)
	}

	return pdfBytes, "factura_" + sanitizeFilename(resolved.InvoiceNumber) + ".pdf", nil
}

// sanitizeFilename keeps the invoice number readable while stripping
// path-hostile characters.
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, s)
}
