package anaf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type downloadError struct {
	Error string `json:"eroare"`
	Title string `json:"titlu"`
}

// Download fetches the processing result for a download id: a zip archive
// with the original invoice plus the ministry's signature (state ok), or the
// error report (state nok). A JSON body instead of the archive signals an
// application-level failure.
func (c *Client) Download(ctx context.Context, downloadID string) ([]byte, error) {
	if downloadID == "" {
		return nil, fmt.Errorf("%w: downloadID is required", ErrAPI)
	}

	endpoint := c.baseURL + "/descarcare?id=" + url.QueryEscape(downloadID)
	data, contentType, err := c.do(ctx, http.MethodGet, endpoint, "", nil, true)
	if err != nil {
		return nil, err
	}

	if strings.Contains(contentType, "application/json") {
		var derr downloadError
		if json.Unmarshal(data, &derr) == nil && derr.Error != "" {
			if strings.Contains(strings.ToLower(derr.Error), "nu exista") {
				return nil, fmt.Errorf("%w: download id %s: %s", ErrNotFound, downloadID, derr.Error)
			}
			return nil, fmt.Errorf("%w: download id %s: %s", ErrAPI, downloadID, derr.Error)
		}
		return nil, fmt.Errorf("%w: unexpected json response: %s", ErrAPI, excerpt(data))
	}

	return data, nil
}
