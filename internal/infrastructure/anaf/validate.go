package anaf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ValidateStandard selects the validation rule set of the validare endpoint.
type ValidateStandard string

const (
	ValidateInvoice    ValidateStandard = "FACT1" // invoice (UBL, CIUS-RO)
	ValidateCreditNote ValidateStandard = "FCN"   // credit note
)

// ValidationResult is the outcome of a remote schema+rules validation.
type ValidationResult struct {
	Valid    bool
	Messages []string
	TraceID  string
}

type validateResponse struct {
	State   string `json:"stare"`
	TraceID string `json:"trace_id"`
	// the key is capitalized upstream
	Messages []struct {
		Message string `json:"message"`
	} `json:"Messages"`
}

// ValidateXML submits a document to the public validation endpoint and
// returns the rule findings. An invalid document is a normal result, not an
// error; only transport/protocol failures return one.
func (c *Client) ValidateXML(ctx context.Context, xmlBody []byte, standard ValidateStandard) (*ValidationResult, error) {
	if len(xmlBody) == 0 {
		return nil, fmt.Errorf("%w: empty document body", ErrAPI)
	}
	if standard == "" {
		standard = ValidateInvoice
	}

	endpoint := c.publicBaseURL + "/validare/" + string(standard)
	data, _, err := c.do(ctx, http.MethodPost, endpoint, "text/plain", xmlBody, false)
	if err != nil {
		return nil, err
	}

	var resp validateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: parse validation response: %v (%s)", ErrAPI, err, excerpt(data))
	}

	result := &ValidationResult{
		Valid:   resp.State == "ok",
		TraceID: resp.TraceID,
	}
	for _, m := range resp.Messages {
		result.Messages = append(result.Messages, m.Message)
	}
	return result, nil
}
