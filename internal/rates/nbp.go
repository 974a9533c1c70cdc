package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kantor-pay/kantor_pay/internal/money"
)

const (
	// DefaultNBPBaseURL is the public National Bank of Poland API.
	DefaultNBPBaseURL = "https://api.nbp.pl/api"

	// DefaultFetchTimeout bounds a single outbound rate fetch.
	DefaultFetchTimeout = 10 * time.Second

	tablePath = "/exchangerates/tables/C"
)

// NBPClient fetches the currency table C (ask/bid rates) from the NBP API.
type NBPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNBPClient builds a client for the given API base URL. A non-positive
// timeout falls back to DefaultFetchTimeout.
func NewNBPClient(baseURL string, timeout time.Duration) *NBPClient {
	if baseURL == "" {
		baseURL = DefaultNBPBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &NBPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// nbpTable mirrors the NBP response envelope: a single-element array whose
// first entry holds the rate list. Ask values are decoded as json.Number so
// no binary floating point enters the pipeline.
type nbpTable struct {
	EffectiveDate string `json:"effectiveDate"`
	Rates         []struct {
		Code string      `json:"code"`
		Ask  json.Number `json:"ask"`
	} `json:"rates"`
}

// Fetch retrieves the current rate table. Any transport, status or parse
// failure surfaces as ErrUnavailable.
func (c *NBPClient) Fetch(ctx context.Context) (Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tablePath+"?format=json", nil)
	if err != nil {
		return Table{}, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Table{}, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var envelope []nbpTable
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Table{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if len(envelope) == 0 || len(envelope[0].Rates) == 0 {
		return Table{}, fmt.Errorf("%w: empty rate table", ErrUnavailable)
	}

	// Each ask value goes through the money rounding rule before it is
	// cached, so every valuation downstream works from normalized rates.
	parsed := make(map[string]money.Money, len(envelope[0].Rates))
	for _, entry := range envelope[0].Rates {
		rate, err := money.Parse(entry.Ask.String())
		if err != nil || !rate.IsPositive() {
			return Table{}, fmt.Errorf("%w: unusable rate for %s", ErrUnavailable, entry.Code)
		}
		parsed[entry.Code] = rate
	}

	return Table{Rates: parsed, FetchedAt: time.Now().UTC()}, nil
}
