package client

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

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/telemetry"
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch e.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == common.ErrUnauthorized
	case http.StatusNotFound:
		return target == common.ErrNotFound
	default:
		return target == common.ErrUnavailable
	}
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client rooted at baseURL. An empty baseURL is
// allowed; every call then fails with common.ErrNotConfigured.
func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    telemetry.HTTPClient(hc),
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	if c.baseURL == "" {
		return common.ErrNotConfigured
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", common.ErrUnavailable, err)
	}
	return nil
}

// mapError keeps cancellation visible to callers and turns every other
// transport failure into common.ErrUnavailable.
func (c *HTTPClient) mapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, patch models.ProfilePatch) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile", token, patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/delete-account", token, nil, nil)
}

func (c *HTTPClient) SearchInternships(ctx context.Context, token, keyword, location string) ([]models.Internship, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("location", location)

	var out []models.Internship
	if err := c.do(ctx, http.MethodGet, "/internships/search?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Internship{}
	}
	return out, nil
}
