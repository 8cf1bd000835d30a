package anaf

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ProcessingState is the state reported by stareMesaj for one upload.
type ProcessingState string

const (
	// StateOK: processing finished, the signed response is downloadable.
	StateOK ProcessingState = "ok"
	// StateFailed: processing finished with validation errors; the error
	// report is downloadable under the same download id.
	StateFailed ProcessingState = "nok"
	// StateProcessing: still in the queue, ask again later.
	StateProcessing ProcessingState = "in prelucrare"
	// StateInvalidXML: the uploaded bytes were not parseable at all.
	StateInvalidXML ProcessingState = "XML cu erori nepreluat de sistem"
)

// Done reports whether processing reached a terminal state.
func (s ProcessingState) Done() bool {
	return s != StateProcessing && s != ""
}

// StatusResponse is the parsed answer of the stareMesaj endpoint.
type StatusResponse struct {
	State      ProcessingState
	DownloadID string
	Errors     []string
}

type statusHeader struct {
	XMLName    struct{}      `xml:"header"`
	State      string        `xml:"stare,attr"`
	DownloadID string        `xml:"id_descarcare,attr"`
	Errors     []headerError `xml:"Errors"`
}

// GetMessageStatus asks for the processing state of a previous upload,
// identified by its upload index.
func (c *Client) GetMessageStatus(ctx context.Context, uploadIndex string) (*StatusResponse, error) {
	if uploadIndex == "" {
		return nil, fmt.Errorf("%w: uploadIndex is required", ErrAPI)
	}

	endpoint := c.baseURL + "/stareMesaj?id_incarcare=" + url.QueryEscape(uploadIndex)
	data, _, err := c.do(ctx, http.MethodGet, endpoint, "", nil, true)
	if err != nil {
		return nil, err
	}

	var header statusHeader
	if err := decodeXML(data, &header); err != nil {
		return nil, fmt.Errorf("%w: parse status response: %v (%s)", ErrAPI, err, excerpt(data))
	}

	resp := &StatusResponse{
		State:      ProcessingState(header.State),
		DownloadID: header.DownloadID,
	}
	for _, e := range header.Errors {
		resp.Errors = append(resp.Errors, e.Message)
	}
	return resp, nil
}
