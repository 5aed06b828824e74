// Package ibge is a minimal client for the IBGE localidades API, the public
// directory of Brazilian states (UFs) and their municipalities. The API is
// unauthenticated and read-only; callers treat failures as empty lists.
package ibge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	// BaseURL is the IBGE localidades API base URL.
	BaseURL = "https://servicodados.ibge.gov.br/api/v1/localidades"
)

// Region is a top-level administrative division (UF), identified by its
// two-letter code.
type Region struct {
	Code string `json:"sigla"`
}

// SubRegion is a municipality of one region.
type SubRegion struct {
	Name string `json:"nome"`
}

// Client is an HTTP client for the IBGE localidades API. The region list is
// cached in memory after the first successful fetch; sub-region lists are
// always fetched fresh.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu      sync.Mutex
	regions []Region
}

// NewClient constructs a new IBGE client with sane defaults.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

// Regions returns the list of UFs. The first successful response is reused
// for the lifetime of the client.
func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	c.mu.Lock()
	if c.regions != nil {
		cached := c.regions
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var regions []Region
	if err := c.get(ctx, "/estados", &regions); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.regions = regions
	c.mu.Unlock()
	return regions, nil
}

// SubRegions returns the municipalities of the given UF. Results are never
// cached: the caller re-requests whenever the selected region changes.
func (c *Client) SubRegions(ctx context.Context, uf string) ([]SubRegion, error) {
	if uf == "" {
		return nil, fmt.Errorf("empty region code")
	}

	var subRegions []SubRegion
	if err := c.get(ctx, "/estados/"+uf+"/municipios", &subRegions); err != nil {
		return nil, err
	}
	return subRegions, nil
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ibge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("ibge returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ibge response: %w", err)
	}
	return nil
}
