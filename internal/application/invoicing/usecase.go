// Package invoicing orchestrates the e-Factura lifecycle:
//
//	input → XML UBL 2.1 → upload → poll stareMesaj → download result zip
//
// The use cases are thin on purpose: the arithmetic lives in the efactura
// domain package, the wire details in the anaf client. What belongs here is
// sequencing, logging and the polling loop.
package invoicing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/efactura-api/internal/domain/efactura"
	"github.com/jhoicas/efactura-api/internal/infrastructure/anaf"
	"github.com/jhoicas/efactura-api/internal/infrastructure/ubl"
	"github.com/jhoicas/efactura-api/pkg/logger"
)

// ErrRejected marks an upload that ANAF refused at the gate (ExecutionStatus
// != 0). The wrapped message carries the reported reasons.
var ErrRejected = errors.New("invoicing: upload rejected")

const defaultPollInterval = 5 * time.Second

// Service is the invoice orchestrator.
type Service struct {
	gateway      Gateway
	log          *logger.Logger
	pollInterval time.Duration
}

// NewService builds the orchestrator. pollInterval <= 0 takes the default.
func NewService(gateway Gateway, log *logger.Logger, pollInterval time.Duration) *Service {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Service{
		gateway:      gateway,
		log:          log,
		pollInterval: pollInterval,
	}
}

// GenerateXML validates the input and renders the CIUS-RO invoice XML.
func (s *Service) GenerateXML(in *efactura.InvoiceInput) (string, error) {
	return ubl.GenerateInvoiceXML(in)
}

// SendResult is the outcome of a Send call.
type SendResult struct {
	XML         string
	UploadIndex string
}

// Send renders the invoice and uploads it under the supplier's CIF. The
// returned upload index is the handle for Status/WaitForProcessing.
func (s *Service) Send(ctx context.Context, in *efactura.InvoiceInput, opts *anaf.UploadOptions) (*SendResult, error) {
	xmlOut, err := ubl.GenerateInvoiceXML(in)
	if err != nil {
		return nil, err
	}

	cif := supplierCIF(in)
	if cif == "" {
		return nil, fmt.Errorf("%w: supplier has no fiscal identification code", efactura.ErrValidation)
	}

	resp, err := s.gateway.Upload(ctx, []byte(xmlOut), cif, opts)
	if err != nil {
		return nil, err
	}
	if !resp.Accepted() {
		s.log.Warn().
			Str("invoice", in.InvoiceNumber).
			Strs("errors", resp.Errors).
			Msg("upload rejected")
		return nil, fmt.Errorf("%w: %s", ErrRejected, strings.Join(resp.Errors, "; "))
	}

	s.log.Info().
		Str("invoice", in.InvoiceNumber).
		Str("upload_index", resp.UploadIndex).
		Msg("invoice uploaded")

	return &SendResult{XML: xmlOut, UploadIndex: resp.UploadIndex}, nil
}

// Status asks for the processing state of an earlier upload.
func (s *Service) Status(ctx context.Context, uploadIndex string) (*anaf.StatusResponse, error) {
	return s.gateway.GetMessageStatus(ctx, uploadIndex)
}

// WaitForProcessing polls stareMesaj until the upload reaches a terminal
// state or the context expires. The caller bounds the wait through ctx.
func (s *Service) WaitForProcessing(ctx context.Context, uploadIndex string) (*anaf.StatusResponse, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		status, err := s.gateway.GetMessageStatus(ctx, uploadIndex)
		if err != nil {
			return nil, err
		}
		if status.State.Done() {
			s.log.Info().
				Str("upload_index", uploadIndex).
				Str("state", string(status.State)).
				Msg("processing finished")
			return status, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: waiting for upload %s: %v", anaf.ErrAPI, uploadIndex, ctx.Err())
		case <-ticker.C:
		}
	}
}

// DownloadResult fetches the result archive for a finished upload.
func (s *Service) DownloadResult(ctx context.Context, downloadID string) ([]byte, error) {
	return s.gateway.Download(ctx, downloadID)
}

// ValidateRemote submits the rendered XML to the public validation endpoint.
func (s *Service) ValidateRemote(ctx context.Context, in *efactura.InvoiceInput) (*anaf.ValidationResult, error) {
	xmlOut, err := ubl.GenerateInvoiceXML(in)
	if err != nil {
		return nil, err
	}
	return s.gateway.ValidateXML(ctx, []byte(xmlOut), anaf.ValidateInvoice)
}

// OfficialPDF renders the invoice through ANAF's transformare endpoint.
func (s *Service) OfficialPDF(ctx context.Context, in *efactura.InvoiceInput, noValidation bool) ([]byte, error) {
	xmlOut, err := ubl.GenerateInvoiceXML(in)
	if err != nil {
		return nil, err
	}
	return s.gateway.XMLToPDF(ctx, []byte(xmlOut), anaf.ValidateInvoice, noValidation)
}

// Messages lists SPV messages for a CIF over the last `days` days.
func (s *Service) Messages(ctx context.Context, cif string, days int, filter anaf.MessageFilter) ([]anaf.Message, error) {
	return s.gateway.ListMessages(ctx, cif, days, filter)
}

// MessagesPage lists one page of SPV messages between two instants.
func (s *Service) MessagesPage(ctx context.Context, cif string, start, end time.Time, page int64, filter anaf.MessageFilter) (*anaf.MessagePage, error) {
	return s.gateway.ListMessagesPaginated(ctx, cif, start.UnixMilli(), end.UnixMilli(), page, filter)
}

// Company looks up a taxpayer in the public VAT registry.
func (s *Service) Company(ctx context.Context, cui string) (*anaf.Company, error) {
	return s.gateway.LookupCompany(ctx, cui)
}

// supplierCIF extracts the digits-only fiscal code used as the upload cif
// parameter. The VAT number wins when present; CompanyID is the fallback for
// non VAT payers.
func supplierCIF(in *efactura.InvoiceInput) string {
	if in == nil || in.Supplier == nil {
		return ""
	}
	id := in.Supplier.VatNumber
	if id == "" {
		id = in.Supplier.CompanyID
	}
	id = strings.TrimSpace(strings.ToUpper(id))
	id = strings.TrimPrefix(id, "RO")
	return strings.TrimSpace(id)
}
