// Package rates fetches the public currency exchange rate list.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ratewatch/ratewatch/internal/common"
	"github.com/ratewatch/ratewatch/internal/model"
)

// DefaultEndpoint is the public PrivatBank exchange rate feed.
const DefaultEndpoint = "https://api.privatbank.ua/p24api/pubinfo?exchange&coursid=5"

// Client fetches the unauthenticated public rate list. Every failure mode
// (transport, status, decode) collapses into common.ErrRateFetch; the feed
// is best-effort and callers only need to know it produced nothing.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a rate client for the given endpoint; an empty
// endpoint uses the default public feed.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch performs one GET of the rate list.
func (c *Client) Fetch(ctx context.Context) ([]model.RawRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRateFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRateFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", common.ErrRateFetch, resp.StatusCode)
	}

	var rawRates []model.RawRate
	if err := json.NewDecoder(resp.Body).Decode(&rawRates); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRateFetch, err)
	}

	slog.Debug("Fetched public rates", "count", len(rawRates))
	return rawRates, nil
}
