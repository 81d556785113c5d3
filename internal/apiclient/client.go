package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"clinic-admin/internal/model"
	"clinic-admin/pkg/apierror"
)

// Client is the JSON layer over an http.Client whose transport is a
// *Transport. It decodes the {success, data, error, meta} envelope.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (*model.Meta, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Do sends one request and decodes the envelope's data into out (skipped
// when out is nil). Non-2xx responses become *apierror.APIError; a 401
// that survived the transport's recovery wraps model.ErrSessionExpired.
// Transport failures wrap model.ErrNetworkFailure.
func (c *Client) Do(ctx context.Context, method string, path string, query url.Values, payload any, out any) (*model.Meta, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %w", model.ErrNetworkFailure, method, path, unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := apierror.FromResponse(resp)
		apiErr.Err = classify(resp.StatusCode)
		return nil, apiErr
	}

	var envelope model.RawResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s data: %w", path, err)
		}
	}
	return envelope.Meta, nil
}

func classify(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return model.ErrSessionExpired
	case http.StatusForbidden:
		return model.ErrForbidden
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return model.ErrInvalidInput
	default:
		return nil
	}
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
