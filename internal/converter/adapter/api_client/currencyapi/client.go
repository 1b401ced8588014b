package currencyapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/aeolus87/currency-converter/internal/entities"
)

// Client talks to the currencyapi.com v3 endpoints.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type currencyPayload struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	SymbolNative string `json:"symbol_native"`
}

type currenciesResponse struct {
	Data map[string]currencyPayload `json:"data"`
}

type ratePayload struct {
	Code  string  `json:"code"`
	Value float64 `json:"value"`
}

type latestResponse struct {
	Meta struct {
		LastUpdatedAt string `json:"last_updated_at"`
	} `json:"meta"`
	Data map[string]ratePayload `json:"data"`
}

// Currencies fetches the full list of supported currencies, sorted by code.
func (c *Client) Currencies(ctx context.Context) ([]entities.Currency, error) {
	u, err := c.endpoint("/v3/currencies", nil)
	if err != nil {
		return nil, err
	}

	var resp currenciesResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	currencies := make([]entities.Currency, 0, len(resp.Data))
	for code, p := range resp.Data {
		if p.Code == "" {
			p.Code = code
		}
		currencies = append(currencies, entities.Currency{
			Code:         p.Code,
			Name:         p.Name,
			Symbol:       p.Symbol,
			SymbolNative: p.SymbolNative,
		})
	}
	sort.Slice(currencies, func(i, j int) bool {
		return currencies[i].Code < currencies[j].Code
	})

	return currencies, nil
}

// Latest fetches exchange rates relative to the given base currency and the
// upstream last-updated timestamp.
func (c *Client) Latest(ctx context.Context, base string) (entities.Rates, time.Time, error) {
	u, err := c.endpoint("/v3/latest", url.Values{"base_currency": {base}})
	if err != nil {
		return nil, time.Time{}, err
	}

	var resp latestResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, time.Time{}, err
	}

	rates := make(entities.Rates, len(resp.Data))
	for code, p := range resp.Data {
		rates[code] = p.Value
	}

	var updated time.Time
	if resp.Meta.LastUpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339, resp.Meta.LastUpdatedAt); err == nil {
			updated = t
		}
	}

	return rates, updated, nil
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url error: %w", err)
	}
	u.Path = path

	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request error: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("api_client get error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body error: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("json unmarshal error: %w", err)
	}

	return nil
}
