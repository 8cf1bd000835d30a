package anaf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// XMLToPDF converts an invoice or credit note XML to the official PDF
// representation via the public transformare endpoint. With noValidation the
// document is rendered even when it breaks the business rules (useful for
// drafts). A JSON body instead of the PDF signals failure.
func (c *Client) XMLToPDF(ctx context.Context, xmlBody []byte, standard ValidateStandard, noValidation bool) ([]byte, error) {
	if len(xmlBody) == 0 {
		return nil, fmt.Errorf("%w: empty document body", ErrAPI)
	}
	if standard == "" {
		standard = ValidateInvoice
	}

	endpoint := c.publicBaseURL + "/transformare/" + string(standard)
	if noValidation {
		endpoint += "/DA"
	}

	data, contentType, err := c.do(ctx, http.MethodPost, endpoint, "text/plain", xmlBody, false)
	if err != nil {
		return nil, err
	}

	if strings.Contains(contentType, "application/json") {
		var resp validateResponse
		if json.Unmarshal(data, &resp) == nil && len(resp.Messages) > 0 {
			findings := make([]string, 0, len(resp.Messages))
			for _, m := range resp.Messages {
				findings = append(findings, m.Message)
			}
			return nil, fmt.Errorf("%w: pdf conversion rejected: %s", ErrAPI, strings.Join(findings, "; "))
		}
		return nil, fmt.Errorf("%w: pdf conversion rejected: %s", ErrAPI, excerpt(data))
	}

	return data, nil
}
