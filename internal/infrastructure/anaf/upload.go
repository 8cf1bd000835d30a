package anaf

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// UploadStandard identifies the document standard declared at upload.
type UploadStandard string

const (
	StandardUBL  UploadStandard = "UBL"  // UBL 2.1 invoice (the builder's output)
	StandardCN   UploadStandard = "CN"   // UBL credit note
	StandardCII  UploadStandard = "CII"  // UN/CEFACT cross-industry invoice
	StandardRASP UploadStandard = "RASP" // RASP envelope
)

// UploadOptions tunes one upload call. The zero value uploads a B2B UBL
// invoice.
type UploadOptions struct {
	Standard    UploadStandard
	External    bool // buyer is not registered in Romania (extern=DA)
	SelfInvoice bool // self-billing on behalf of the supplier (autofactura=DA)
	B2C         bool // consumer invoice, separate upload endpoint
}

// UploadResponse is the parsed answer of the upload endpoint. ExecutionStatus
// 0 means the document was accepted for processing; the upload index is then
// the handle for the status and download calls.
type UploadResponse struct {
	UploadIndex     string
	ExecutionStatus int
	ResponseDate    string
	Errors          []string
}

// Accepted reports whether ANAF took the document in for processing.
func (r *UploadResponse) Accepted() bool {
	return r.ExecutionStatus == 0 && len(r.Errors) == 0
}

type uploadHeader struct {
	XMLName         struct{}      `xml:"header"`
	ExecutionStatus int           `xml:"ExecutionStatus,attr"`
	UploadIndex     string        `xml:"index_incarcare,attr"`
	ResponseDate    string        `xml:"dateResponse,attr"`
	Errors          []headerError `xml:"Errors"`
}

type headerError struct {
	Message string `xml:"errorMessage,attr"`
}

// Upload submits one invoice XML for the given fiscal identification code.
// A non-nil response with Errors set is an ANAF rejection, not a transport
// failure; the caller decides how to surface it.
func (c *Client) Upload(ctx context.Context, xmlBody []byte, cif string, opts *UploadOptions) (*UploadResponse, error) {
	if len(xmlBody) == 0 {
		return nil, fmt.Errorf("%w: empty document body", ErrAPI)
	}
	if cif == "" {
		return nil, fmt.Errorf("%w: cif is required", ErrAPI)
	}
	if opts == nil {
		opts = &UploadOptions{}
	}
	standard := opts.Standard
	if standard == "" {
		standard = StandardUBL
	}

	path := "/upload"
	if opts.B2C {
		path = "/uploadb2c"
	}
	query := url.Values{}
	query.Set("standard", string(standard))
	query.Set("cif", cif)
	if opts.External {
		query.Set("extern", "DA")
	}
	if opts.SelfInvoice {
		query.Set("autofactura", "DA")
	}

	endpoint := c.baseURL + path + "?" + query.Encode()
	data, _, err := c.do(ctx, http.MethodPost, endpoint, "text/plain", xmlBody, true)
	if err != nil {
		return nil, err
	}

	var header uploadHeader
	if err := decodeXML(data, &header); err != nil {
		return nil, fmt.Errorf("%w: parse upload response: %v (%s)", ErrAPI, err, excerpt(data))
	}

	resp := &UploadResponse{
		UploadIndex:     header.UploadIndex,
		ExecutionStatus: header.ExecutionStatus,
		ResponseDate:    header.ResponseDate,
	}
	for _, e := range header.Errors {
		resp.Errors = append(resp.Errors, e.Message)
	}
	return resp, nil
}
