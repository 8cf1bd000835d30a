// Package anaf is the REST client for the ANAF e-Factura services: document
// upload, processing status, download, message listing, remote validation,
// PDF conversion and the public VAT-registry lookup.
package anaf

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Environment selects the e-Factura endpoint set.
type Environment string

const (
	// EnvironmentTest targets the ANAF test (sandbox) environment.
	EnvironmentTest Environment = "test"
	// EnvironmentProd targets production.
	EnvironmentProd Environment = "prod"
)

const (
	baseURLProd   = "https://api.anaf.ro/prod/FCTEL/rest"
	baseURLTest   = "https://api.anaf.ro/test/FCTEL/rest"
	publicBaseURL = "https://webservicesp.anaf.ro/prod/FCTEL/rest"
	registryURL   = "https://webservicesp.anaf.ro/PlatitorTvaRest/api/v9/ws/tva"

	// Downloads are zip archives with the invoice and its signature.
	maxResponseBytes = 50 << 20

	defaultTimeout  = 60 * time.Second
	defaultCacheTTL = 24 * time.Hour
)

// Config configures the client. TokenSource is required for the
// authenticated operations (upload, status, download, messages); the public
// validation/transform/registry endpoints work without it.
type Config struct {
	Environment Environment
	TokenSource oauth2.TokenSource

	// Optional overrides; zero values take the ANAF defaults.
	HTTPClient      *http.Client
	BaseURL         string
	PublicBaseURL   string
	RegistryURL     string
	CompanyCacheTTL time.Duration
}

// Client talks to the ANAF e-Factura REST services. Safe for concurrent use.
type Client struct {
	httpClient    *http.Client
	tokenSource   oauth2.TokenSource
	baseURL       string
	publicBaseURL string
	registryURL   string
	companies     *companyCache
}

// NewClient builds the client. The HTTP timeout is generous: ANAF can take
// several seconds to answer, and downloads can be large.
func NewClient(cfg Config) (*Client, error) {
	var base string
	switch cfg.Environment {
	case EnvironmentProd:
		base = baseURLProd
	case EnvironmentTest, "":
		base = baseURLTest
	default:
		return nil, fmt.Errorf("anaf: unknown environment %q (use %q or %q)",
			cfg.Environment, EnvironmentTest, EnvironmentProd)
	}
	if cfg.BaseURL != "" {
		base = cfg.BaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	public := cfg.PublicBaseURL
	if public == "" {
		public = publicBaseURL
	}
	registry := cfg.RegistryURL
	if registry == "" {
		registry = registryURL
	}
	ttl := cfg.CompanyCacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Client{
		httpClient:    httpClient,
		tokenSource:   cfg.TokenSource,
		baseURL:       base,
		publicBaseURL: public,
		registryURL:   registry,
		companies:     newCompanyCache(ttl),
	}, nil
}

// do performs one request and maps the HTTP status to the boundary error
// kinds. It returns the (size-limited) body and the response content type.
func (c *Client) do(ctx context.Context, method, url, contentType string, body []byte, authenticated bool) ([]byte, string, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, "", fmt.Errorf("%w: build request: %v", ErrAPI, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if authenticated {
		if c.tokenSource == nil {
			return nil, "", fmt.Errorf("%w: no token source configured", ErrAuthentication)
		}
		token, err := c.tokenSource.Token()
		if err != nil {
			return nil, "", fmt.Errorf("%w: obtain access token: %v", ErrAuthentication, err)
		}
		token.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrAPI, ctx.Err())
		}
		return nil, "", fmt.Errorf("%w: %v", ErrAPI, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read response: %v", ErrAPI, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, "", fmt.Errorf("%w: status %d: %s", ErrAuthentication, resp.StatusCode, excerpt(data))
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, "", fmt.Errorf("%w: status %d: %s", ErrAPI, resp.StatusCode, excerpt(data))
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// decodeXML unmarshals an ANAF XML response. Legacy endpoints occasionally
// answer in ISO-8859-2 or Windows-1250, so the decoder honors the charset
// declared in the prolog instead of assuming UTF-8.
func decodeXML(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	return dec.Decode(v)
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return input, nil
	case "iso-8859-2":
		return transform.NewReader(input, charmap.ISO8859_2.NewDecoder()), nil
	case "windows-1250":
		return transform.NewReader(input, charmap.Windows1250.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("anaf: unsupported response charset %q", charset)
	}
}

// excerpt keeps error messages readable when the body is an HTML error page.
func excerpt(data []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(data))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
