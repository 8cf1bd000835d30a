package anaf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Company is the registry record of one Romanian taxpayer, as answered by
// the public VAT-registry service.
type Company struct {
	CUI                string
	Name               string
	Address            string
	RegistrationNumber string
	VatPayer           bool
	VatPayerSince      string
}

type registryRequest struct {
	CUI  int64  `json:"cui"`
	Date string `json:"data"`
}

type registryResponse struct {
	Code    int    `json:"cod"`
	Message string `json:"message"`
	Found   []struct {
		General struct {
			CUI                int64  `json:"cui"`
			Name               string `json:"denumire"`
			Address            string `json:"adresa"`
			RegistrationNumber string `json:"nrRegCom"`
		} `json:"date_generale"`
		VatRegistration struct {
			VatPayer bool `json:"scpTVA"`
			Periods  []struct {
				Since string `json:"data_inceput_ScpTVA"`
			} `json:"perioade_TVA"`
		} `json:"inregistrare_scop_Tva"`
	} `json:"found"`
	NotFound []int64 `json:"notFound"`
}

// LookupCompany fetches the registry record for a CUI ("RO" prefix and
// whitespace tolerated). Results are cached in memory for the configured TTL
// because registry data changes rarely and the endpoint is rate limited.
func (c *Client) LookupCompany(ctx context.Context, cui string) (*Company, error) {
	normalized, err := normalizeCUI(cui)
	if err != nil {
		return nil, err
	}

	if cached, ok := c.companies.get(normalized); ok {
		return cached, nil
	}

	payload, err := json.Marshal([]registryRequest{{
		CUI:  normalized,
		Date: time.Now().Format("2006-01-02"),
	}})
	if err != nil {
		return nil, fmt.Errorf("%w: encode registry request: %v", ErrAPI, err)
	}

	data, _, err := c.do(ctx, http.MethodPost, c.registryURL, "application/json", payload, false)
	if err != nil {
		return nil, err
	}

	var resp registryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: parse registry response: %v (%s)", ErrAPI, err, excerpt(data))
	}
	if len(resp.Found) == 0 {
		return nil, fmt.Errorf("%w: company %d not registered", ErrNotFound, normalized)
	}

	entry := resp.Found[0]
	company := &Company{
		CUI:                strconv.FormatInt(entry.General.CUI, 10),
		Name:               entry.General.Name,
		Address:            entry.General.Address,
		RegistrationNumber: entry.General.RegistrationNumber,
		VatPayer:           entry.VatRegistration.VatPayer,
	}
	if n := len(entry.VatRegistration.Periods); n > 0 {
		company.VatPayerSince = entry.VatRegistration.Periods[n-1].Since
	}

	c.companies.put(normalized, company)
	return company, nil
}

func normalizeCUI(cui string) (int64, error) {
	s := strings.TrimSpace(strings.ToUpper(cui))
	s = strings.TrimPrefix(s, "RO")
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: invalid cui %q", ErrAPI, cui)
	}
	return n, nil
}

// ── in-memory TTL cache ──────────────────────────────────────────────────────

type companyCacheEntry struct {
	company   *Company
	expiresAt time.Time
}

// companyCache is a plain map with per-entry expiry. Expired entries are
// dropped lazily on read; there is no eviction beyond the TTL.
type companyCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[int64]companyCacheEntry
}

func newCompanyCache(ttl time.Duration) *companyCache {
	return &companyCache{
		ttl:     ttl,
		entries: make(map[int64]companyCacheEntry),
	}
}

func (c *companyCache) get(cui int64) (*Company, bool) {
	c.mu.RLock()
	entry, ok := c.entries[cui]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.company, true
}

func (c *companyCache) put(cui int64, company *Company) {
	c.mu.Lock()
	c.entries[cui] = companyCacheEntry{
		company:   company,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}
