package anaf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MessageFilter restricts the message listing to one message kind.
type MessageFilter string

const (
	FilterNone     MessageFilter = ""
	FilterErrors   MessageFilter = "E" // processing errors
	FilterSent     MessageFilter = "T" // invoices sent by the queried CIF
	FilterReceived MessageFilter = "P" // invoices received by the queried CIF
	FilterMessages MessageFilter = "R" // buyer/seller messages (RASP)
)

// Message is one entry in the SPV message list for a CIF.
type Message struct {
	ID           string `json:"id"`
	CreationDate string `json:"data_creare"` // yyyyMMddHHmm
	CIF          string `json:"cif"`
	UploadIndex  string `json:"id_solicitare"`
	Details      string `json:"detalii"`
	Type         string `json:"tip"`
}

// MessagePage is one page of the paginated listing.
type MessagePage struct {
	Messages       []Message
	Serial         string
	Title          string
	TotalRecords   int64
	TotalPages     int64
	RecordsPerPage int64
	CurrentPage    int64
	RecordsInPage  int64
}

type listMessagesResponse struct {
	Messages []Message `json:"mesaje"`
	Serial   string    `json:"serial"`
	CUI      string    `json:"cui"`
	Title    string    `json:"titlu"`
	Error    string    `json:"eroare"`

	// Pagination fields, only present on listaMesajePaginatieFactura.
	TotalRecords   int64 `json:"numar_total_inregistrari"`
	TotalPages     int64 `json:"numar_total_pagini"`
	RecordsPerPage int64 `json:"numar_inregistrari_pe_pagina"`
	CurrentPage    int64 `json:"index_pagina_curenta"`
	RecordsInPage  int64 `json:"numar_inregistrari"`
}

// ListMessages returns the messages of the last `days` days (1..60) for the
// given CIF. An empty list is not an error: ANAF reports "no messages" as an
// application error string, which is folded into an empty result here.
func (c *Client) ListMessages(ctx context.Context, cif string, days int, filter MessageFilter) ([]Message, error) {
	if cif == "" {
		return nil, fmt.Errorf("%w: cif is required", ErrAPI)
	}
	if days < 1 || days > 60 {
		return nil, fmt.Errorf("%w: days must be between 1 and 60", ErrAPI)
	}

	query := url.Values{}
	query.Set("zile", strconv.Itoa(days))
	query.Set("cif", cif)
	if filter != FilterNone {
		query.Set("filtru", string(filter))
	}

	resp, err := c.fetchMessages(ctx, c.baseURL+"/listaMesajeFactura?"+query.Encode())
	if err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// ListMessagesPaginated returns one page of messages between two Unix
// timestamps in milliseconds. Pages are 1-based.
func (c *Client) ListMessagesPaginated(ctx context.Context, cif string, startMillis, endMillis int64, page int64, filter MessageFilter) (*MessagePage, error) {
	if cif == "" {
		return nil, fmt.Errorf("%w: cif is required", ErrAPI)
	}
	if startMillis <= 0 || endMillis <= startMillis {
		return nil, fmt.Errorf("%w: invalid time interval", ErrAPI)
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", ErrAPI)
	}

	query := url.Values{}
	query.Set("startTime", strconv.FormatInt(startMillis, 10))
	query.Set("endTime", strconv.FormatInt(endMillis, 10))
	query.Set("cif", cif)
	query.Set("pagina", strconv.FormatInt(page, 10))
	if filter != FilterNone {
		query.Set("filtru", string(filter))
	}

	resp, err := c.fetchMessages(ctx, c.baseURL+"/listaMesajePaginatieFactura?"+query.Encode())
	if err != nil {
		return nil, err
	}
	return &MessagePage{
		Messages:       resp.Messages,
		Serial:         resp.Serial,
		Title:          resp.Title,
		TotalRecords:   resp.TotalRecords,
		TotalPages:     resp.TotalPages,
		RecordsPerPage: resp.RecordsPerPage,
		CurrentPage:    resp.CurrentPage,
		RecordsInPage:  resp.RecordsInPage,
	}, nil
}

func (c *Client) fetchMessages(ctx context.Context, endpoint string) (*listMessagesResponse, error) {
	data, _, err := c.do(ctx, http.MethodGet, endpoint, "", nil, true)
	if err != nil {
		return nil, err
	}

	var resp listMessagesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: parse message list: %v (%s)", ErrAPI, err, excerpt(data))
	}
	if resp.Error != "" {
		// "Nu exista mesaje in ultimele N zile" is an empty result, not a
		// failure.
		if strings.Contains(strings.ToLower(resp.Error), "nu exista mesaje") {
			return &listMessagesResponse{}, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrAPI, resp.Error)
	}
	return &resp, nil
}
