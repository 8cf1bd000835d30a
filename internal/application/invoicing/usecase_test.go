package invoicing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efactura-api/internal/domain/efactura"
	"github.com/jhoicas/efactura-api/internal/infrastructure/anaf"
	"github.com/jhoicas/efactura-api/pkg/logger"
)

// fakeGateway records calls and plays back scripted answers.
type fakeGateway struct {
	uploadCIF      string
	uploadBody     []byte
	uploadResp     *anaf.UploadResponse
	uploadErr      error
	statusCalls    int
	statusResps    []*anaf.StatusResponse
	downloadedID   string
	downloadResult []byte
}

func (f *fakeGateway) Upload(_ context.Context, xmlBody []byte, cif string, _ *anaf.UploadOptions) (*anaf.UploadResponse, error) {
	f.uploadBody = xmlBody
	f.uploadCIF = cif
	return f.uploadResp, f.uploadErr
}

func (f *fakeGateway) GetMessageStatus(_ context.Context, _ string) (*anaf.StatusResponse, error) {
	resp := f.statusResps[f.statusCalls]
	if f.statusCalls < len(f.statusResps)-1 {
		f.statusCalls++
	}
	return resp, nil
}

func (f *fakeGateway) Download(_ context.Context, downloadID string) ([]byte, error) {
	f.downloadedID = downloadID
	return f.downloadResult, nil
}

func (f *fakeGateway) ValidateXML(_ context.Context, _ []byte, _ anaf.ValidateStandard) (*anaf.ValidationResult, error) {
	return &anaf.ValidationResult{Valid: true}, nil
}

func (f *fakeGateway) XMLToPDF(_ context.Context, _ []byte, _ anaf.ValidateStandard, _ bool) ([]byte, error) {
	return []byte("%PDF"), nil
}

func (f *fakeGateway) ListMessages(_ context.Context, _ string, _ int, _ anaf.MessageFilter) ([]anaf.Message, error) {
	return nil, nil
}

func (f *fakeGateway) ListMessagesPaginated(_ context.Context, _ string, _, _ int64, _ int64, _ anaf.MessageFilter) (*anaf.MessagePage, error) {
	return &anaf.MessagePage{}, nil
}

func (f *fakeGateway) LookupCompany(_ context.Context, _ string) (*anaf.Company, error) {
	return nil, anaf.ErrNotFound
}

func testInput() *efactura.InvoiceInput {
	return &efactura.InvoiceInput{
		InvoiceNumber: "FAC-2026-001",
		IssueDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Supplier: &efactura.Party{
			RegistrationName: "Furnizor SRL",
			CompanyID:        "12345678",
			VatNumber:        "RO12345678",
			Address: efactura.Address{
				Street: "Str. Exemplu 1", City: "Bucuresti", PostalZone: "010101",
			},
		},
		Customer: &efactura.Party{
			RegistrationName: "Client SA",
			CompanyID:        "87654321",
			Address: efactura.Address{
				Street: "Bd. Unirii 10", City: "Cluj-Napoca", PostalZone: "400001",
			},
		},
		Lines: []efactura.InvoiceLine{{
			Description: "Servicii consultanta",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(100),
			TaxPercent:  decimal.NewFromInt(19),
		}},
	}
}

func newTestService(gw Gateway, poll time.Duration) *Service {
	return NewService(gw, logger.New(logger.Config{Level: "error"}), poll)
}

func TestSend_UploadsUnderSupplierCIF(t *testing.T) {
	gw := &fakeGateway{uploadResp: &anaf.UploadResponse{UploadIndex: "3828"}}
	svc := newTestService(gw, time.Millisecond)

	result, err := svc.Send(context.Background(), testInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, "3828", result.UploadIndex)
	assert.Equal(t, "12345678", gw.uploadCIF, "RO prefix stripped")
	assert.Contains(t, result.XML, "<cbc:ID>FAC-2026-001</cbc:ID>")
	assert.Equal(t, []byte(result.XML), gw.uploadBody)
}

func TestSend_RejectionIsError(t *testing.T) {
	gw := &fakeGateway{uploadResp: &anaf.UploadResponse{
		ExecutionStatus: 1,
		Errors:          []string{"CIF invalid"},
	}}
	svc := newTestService(gw, time.Millisecond)

	_, err := svc.Send(context.Background(), testInput(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.ErrorContains(t, err, "CIF invalid")
}

func TestSend_InvalidInputNeverReachesGateway(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, time.Millisecond)

	in := testInput()
	in.InvoiceNumber = ""
	_, err := svc.Send(context.Background(), in, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, efactura.ErrValidation))
	assert.Nil(t, gw.uploadBody)
}

func TestWaitForProcessing_PollsUntilTerminal(t *testing.T) {
	gw := &fakeGateway{statusResps: []*anaf.StatusResponse{
		{State: anaf.StateProcessing},
		{State: anaf.StateProcessing},
		{State: anaf.StateOK, DownloadID: "1234"},
	}}
	svc := newTestService(gw, time.Millisecond)

	status, err := svc.WaitForProcessing(context.Background(), "3828")
	require.NoError(t, err)
	assert.Equal(t, anaf.StateOK, status.State)
	assert.Equal(t, "1234", status.DownloadID)
	assert.Equal(t, 2, gw.statusCalls)
}

func TestWaitForProcessing_ContextCancellation(t *testing.T) {
	gw := &fakeGateway{statusResps: []*anaf.StatusResponse{
		{State: anaf.StateProcessing},
	}}
	svc := newTestService(gw, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.WaitForProcessing(ctx, "3828")
	require.Error(t, err)
	assert.ErrorContains(t, err, "3828")
}

func TestDownloadResult(t *testing.T) {
	gw := &fakeGateway{downloadResult: []byte{0x50, 0x4b}}
	svc := newTestService(gw, time.Millisecond)

	data, err := svc.DownloadResult(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x50, 0x4b}, data)
	assert.Equal(t, "1234", gw.downloadedID)
}

func TestSupplierCIF(t *testing.T) {
	tests := []struct {
		name string
		in   *efactura.InvoiceInput
		want string
	}{
		{"nil input", nil, ""},
		{"vat number wins", testInput(), "12345678"},
		{"lowercase prefix", func() *efactura.InvoiceInput {
			in := testInput()
			in.Supplier.VatNumber = "ro99887766"
			return in
		}(), "99887766"},
		{"falls back to company id", func() *efactura.InvoiceInput {
			in := testInput()
			in.Supplier.VatNumber = ""
			return in
		}(), "12345678"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, supplierCIF(tc.in))
		})
	}
}
