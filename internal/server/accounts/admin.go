package accounts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/telemetry"
)

// UserDeleter removes a user from the auth service.
type UserDeleter interface {
	DeleteUser(ctx context.Context, userID string) error
}

// AdminClient calls the auth service admin API with the service role key.
type AdminClient struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

func NewAdminClient(authURL, serviceKey string, hc *http.Client) *AdminClient {
	return &AdminClient{
		baseURL:    strings.TrimRight(authURL, "/"),
		serviceKey: serviceKey,
		http:       telemetry.HTTPClient(hc),
	}
}

// DeleteUser issues DELETE /auth/v1/admin/users/{id}.
func (c *AdminClient) DeleteUser(ctx context.Context, userID string) error {
	if c.baseURL == "" || c.serviceKey == "" {
		return common.ErrNotConfigured
	}

	u := c.baseURL + "/auth/v1/admin/users/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set(common.APIKeyHeader, c.serviceKey)
	req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+c.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("admin delete user: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
