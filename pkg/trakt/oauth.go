package trakt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors for the device authorization flow.
var (
	ErrAuthPending   = errors.New("authorization pending")
	ErrDeviceExpired = errors.New("device code expired")
	ErrAccessDenied  = errors.New("access denied by user")
)

// NewDeviceCode starts the device authorization flow.
func (c *Client) NewDeviceCode(ctx context.Context) (*DeviceCode, error) {
	body := map[string]string{"client_id": c.clientID}

	resp, err := c.doRequest(ctx, http.MethodPost, "/oauth/device/code", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device code request failed: %s", resp.Status)
	}

	var code DeviceCode
	if err := json.NewDecoder(resp.Body).Decode(&code); err != nil {
		return nil, fmt.Errorf("decode device code response: %w", err)
	}
	if code.DeviceCode == "" {
		return nil, errors.New("device code response missing code")
	}
	if code.Interval <= 0 {
		code.Interval = 5
	}
	return &code, nil
}

// pollDeviceToken makes a single token request for a device code.
func (c *Client) pollDeviceToken(ctx context.Context, deviceCode string) (*Token, error) {
	body := map[string]string{
		"code":          deviceCode,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/oauth/device/token", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var token Token
		if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
			return nil, fmt.Errorf("decode token response: %w", err)
		}
		return &token, nil
	case http.StatusBadRequest:
		return nil, ErrAuthPending
	case http.StatusGone:
		return nil, ErrDeviceExpired
	case http.StatusTeapot: // Trakt signals user denial with 418
		return nil, ErrAccessDenied
	case http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: parseRetryAfter(resp)}
	default:
		return nil, fmt.Errorf("device token request failed: %s", resp.Status)
	}
}

// WaitForDeviceToken polls the token endpoint at the interval the server
// requested until the operator approves, denies, or the code expires.
func (c *Client) WaitForDeviceToken(ctx context.Context, code *DeviceCode) (*Token, error) {
	interval := time.Duration(code.Interval) * time.Second
	deadline := time.Now().Add(time.Duration(code.ExpiresIn) * time.Second)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		if time.Now().After(deadline) {
			return nil, ErrDeviceExpired
		}

		token, err := c.pollDeviceToken(ctx, code.DeviceCode)
		switch {
		case err == nil:
			c.SetAccessToken(token.AccessToken)
			return token, nil
		case errors.Is(err, ErrAuthPending):
			continue
		case errors.Is(err, ErrRateLimited):
			// Server asked us to slow down; stretch the interval
			interval += time.Second
			continue
		default:
			return nil, err
		}
	}
}

// RefreshToken exchanges a refresh token for a new token pair.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	body := map[string]string{
		"refresh_token": refreshToken,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"redirect_uri":  "urn:ietf:wg:oauth:2.0:oob",
		"grant_type":    "refresh_token",
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/oauth/token", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		var errResp tokenErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("refresh token: %s: %s", errResp.Error, errResp.ErrorDescription)
		}
		return nil, fmt.Errorf("refresh token failed: %s", resp.Status)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}

	c.SetAccessToken(token.AccessToken)

	if c.log != nil {
		c.log.Debug("refreshed access token")
	}

	return &token, nil
}

// ExpiresAt returns the moment this token stops being valid.
func (t *Token) ExpiresAt() time.Time {
	return time.Unix(t.CreatedAt, 0).Add(time.Duration(t.ExpiresIn) * time.Second)
}
