// Package authclient talks to the /auth endpoints directly, outside the
// retrying transport, so a failing refresh can never trigger another one.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"clinic-admin/internal/model"
	"clinic-admin/pkg/apierror"
)

const (
	LoginPath   = "/auth/login"
	RefreshPath = "/auth/refresh-token"
	LogoutPath  = "/auth/logout"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New expects an http.Client whose cookie jar is shared with the API
// client; the refresh credential travels only as an HTTP-only cookie.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) Login(ctx context.Context, email string, password string) (model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.post(ctx, LoginPath, model.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return model.AuthResponse{}, err
	}
	return out, validate(out)
}

func (c *Client) Refresh(ctx context.Context) (model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.post(ctx, RefreshPath, struct{}{}, &out); err != nil {
		return model.AuthResponse{}, err
	}
	return out, validate(out)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, LogoutPath, struct{}{}, nil)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %w", model.ErrNetworkFailure, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := apierror.FromResponse(resp)
		if resp.StatusCode == http.StatusUnauthorized {
			apiErr.Err = model.ErrUnauthorized
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var envelope model.RawResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("decode %s response: empty data", path)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

var errIncompleteSession = errors.New("auth response is missing the access token or user")

func validate(resp model.AuthResponse) error {
	if strings.TrimSpace(resp.AccessToken) == "" || resp.User == nil {
		return errIncompleteSession
	}
	return nil
}
