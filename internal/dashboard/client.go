package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ratewatch/ratewatch/internal/common"
	"github.com/ratewatch/ratewatch/internal/credstore"
	"github.com/ratewatch/ratewatch/internal/model"
	"github.com/ratewatch/ratewatch/internal/service"
)

// Client fetches the dashboard total with bearer authentication. A 401 on
// the first attempt triggers exactly one token refresh and one retried
// request; a server that keeps rejecting surfaces ErrUnauthorized instead
// of looping.
type Client struct {
	creds      service.CredentialStore
	auth       service.AuthService
	cache      service.Storage
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a dashboard client. The cache may be nil, in which
// case successful fetches are not persisted.
func NewClient(baseURL string, creds service.CredentialStore, auth service.AuthService, cache service.Storage) *Client {
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		auth:    auth,
		cache:   cache,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// TotalAmount fetches the dashboard total for an optional period. Nil
// year/month default server-side to the current period. On success the
// result is upserted into the snapshot cache before it is returned.
func (c *Client) TotalAmount(ctx context.Context, year, month *int) (model.DashboardTotal, error) {
	accessToken, ok := c.creds.Get(credstore.KeyAccessToken)
	if !ok {
		// No session at all; don't touch the network.
		return model.DashboardTotal{}, common.ErrUnauthorized
	}

	requestURL, err := c.totalAmountURL(year, month)
	if err != nil {
		return model.DashboardTotal{}, fmt.Errorf("%w: %v", common.ErrUnknown, err)
	}

	requestID := uuid.NewString()
	logger := slog.With("request_id", requestID)

	resp, err := c.get(ctx, requestURL, accessToken)
	if err != nil {
		return model.DashboardTotal{}, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return c.decodeAndCache(ctx, resp)

	case http.StatusUnauthorized:
		_ = resp.Body.Close()
		logger.Debug("Access token rejected, attempting refresh")

		// The retry must not be issued before the refresh resolves, and
		// it happens exactly once.
		if err := c.auth.Refresh(ctx); err != nil {
			return model.DashboardTotal{}, err
		}

		newToken, ok := c.creds.Get(credstore.KeyAccessToken)
		if !ok {
			return model.DashboardTotal{}, common.ErrUnauthorized
		}

		retryResp, err := c.get(ctx, requestURL, newToken)
		if err != nil {
			return model.DashboardTotal{}, fmt.Errorf("%w: %v", common.ErrNetwork, err)
		}
		if retryResp.StatusCode != http.StatusOK {
			_ = retryResp.Body.Close()
			// A freshly refreshed token was still rejected; the session
			// is beyond repair from this side.
			c.creds.Clear()
			logger.Debug("Retried request rejected, session cleared", "status", retryResp.StatusCode)
			return model.DashboardTotal{}, common.ErrUnauthorized
		}
		return c.decodeAndCache(ctx, retryResp)

	default:
		status := resp.StatusCode
		_ = resp.Body.Close()
		return model.DashboardTotal{}, fmt.Errorf("%w: status %d", common.ErrInvalidResponse, status)
	}
}

func (c *Client) totalAmountURL(year, month *int) (string, error) {
	u, err := url.Parse(c.baseURL + "/api/dashboard/total-amount")
	if err != nil {
		return "", err
	}

	q := u.Query()
	if year != nil {
		q.Set("year", strconv.Itoa(*year))
	}
	if month != nil {
		q.Set("month", strconv.Itoa(*month))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c *Client) get(ctx context.Context, requestURL, accessToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return c.httpClient.Do(req)
}

// decodeAndCache consumes a 200 response: decode the total, persist it
// into the snapshot cache, hand it back. A cache write failure is logged
// and does not fail the fetch; the fresh value still reaches the caller.
func (c *Client) decodeAndCache(ctx context.Context, resp *http.Response) (model.DashboardTotal, error) {
	defer func() { _ = resp.Body.Close() }()

	var total model.DashboardTotal
	if err := json.NewDecoder(resp.Body).Decode(&total); err != nil {
		return model.DashboardTotal{}, fmt.Errorf("%w: %v", common.ErrDecoding, err)
	}

	if c.cache != nil {
		if err := c.cache.UpsertDashboard(ctx, total.Amount, total.Year, total.Month); err != nil {
			slog.Warn("Failed to cache dashboard total", "error", err)
		}
	}

	return total, nil
}
