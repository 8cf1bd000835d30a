package invoicing

import (
	"context"

	"github.com/jhoicas/efactura-api/internal/domain/efactura"
	"github.com/jhoicas/efactura-api/internal/infrastructure/anaf"
)

// Gateway is the slice of the ANAF client the use cases depend on. The
// concrete client satisfies it; tests substitute a fake.
type Gateway interface {
	Upload(ctx context.Context, xmlBody []byte, cif string, opts *anaf.UploadOptions) (*anaf.UploadResponse, error)
	GetMessageStatus(ctx context.Context, uploadIndex string) (*anaf.StatusResponse, error)
	Download(ctx context.Context, downloadID string) ([]byte, error)
	ValidateXML(ctx context.Context, xmlBody []byte, standard anaf.ValidateStandard) (*anaf.ValidationResult, error)
	XMLToPDF(ctx context.Context, xmlBody []byte, standard anaf.ValidateStandard, noValidation bool) ([]byte, error)
	ListMessages(ctx context.Context, cif string, days int, filter anaf.MessageFilter) ([]anaf.Message, error)
	ListMessagesPaginated(ctx context.Context, cif string, startMillis, endMillis int64, page int64, filter anaf.MessageFilter) (*anaf.MessagePage, error)
	LookupCompany(ctx context.Context, cui string) (*anaf.Company, error)
}

// InvoicePDFGenerator renders the local (unofficial) PDF representation of
// an invoice.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, in *efactura.InvoiceInput) ([]byte, error)
}
