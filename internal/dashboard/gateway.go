// Package dashboard implements the authenticated dashboard API: the
// credential lifecycle and the total-amount fetch with transparent
// refresh-and-retry.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ratewatch/ratewatch/internal/common"
	"github.com/ratewatch/ratewatch/internal/credstore"
	"github.com/ratewatch/ratewatch/internal/model"
	"github.com/ratewatch/ratewatch/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         model.User `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Gateway drives login, token refresh, and logout against the remote auth
// API, persisting the resulting session into the credential store.
type Gateway struct {
	creds      service.CredentialStore
	httpClient *http.Client
	baseURL    string
}

// NewGateway creates an auth gateway for the given API base URL.
func NewGateway(baseURL string, creds service.CredentialStore) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Login exchanges credentials for a token pair. On success the tokens and
// the user identity are persisted before the user is returned.
func (g *Gateway) Login(ctx context.Context, email, password string) (model.User, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", common.ErrUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", common.ErrUnknown, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return model.User{}, common.ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return model.User{}, fmt.Errorf("%w: status %d", common.ErrInvalidResponse, resp.StatusCode)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", common.ErrDecoding, err)
	}

	g.creds.SaveCredentials(model.Credentials{
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
		UserID:       auth.User.ID,
		UserEmail:    auth.User.Email,
	})

	slog.Info("Logged in", "user_id", auth.User.ID)
	return auth.User, nil
}

// Refresh exchanges the stored refresh token for a new token pair. Without
// a stored refresh token it fails immediately, with no network call. A 401
// from the server means the session is unrecoverable: all credentials are
// cleared (forced logout) before the error is returned.
func (g *Gateway) Refresh(ctx context.Context) error {
	refreshToken, ok := g.creds.Get(credstore.KeyRefreshToken)
	if !ok {
		return common.ErrUnauthorized
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/api/auth/refresh-token", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnknown, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// The refresh token itself is invalid; the session cannot be
		// repaired from this side.
		g.creds.Clear()
		slog.Info("Refresh token rejected, session cleared")
		return common.ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", common.ErrInvalidResponse, resp.StatusCode)
	}

	var refreshed refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&refreshed); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDecoding, err)
	}

	g.creds.SaveCredentials(model.Credentials{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: refreshed.RefreshToken,
	})

	slog.Debug("Refreshed session tokens")
	return nil
}

// Logout clears the stored session. No network call is involved and it
// always succeeds.
func (g *Gateway) Logout() {
	g.creds.Clear()
	slog.Info("Logged out")
}
