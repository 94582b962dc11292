package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gyaneshwarpardhi/signuprelay/internal/config"
	"github.com/gyaneshwarpardhi/signuprelay/internal/httperr"
	"github.com/gyaneshwarpardhi/signuprelay/internal/metrics"
)

// Client talks to the Frontegg management API. Tokens are short-lived and
// fetched per operation; nothing is cached between webhook deliveries.
type Client struct {
	conf func() config.FronteggConf
	http *http.Client
}

// NewClient creates a Client. conf is read on every call so hot-reloaded
// credentials take effect without rebuilding the client.
func NewClient(conf func() config.FronteggConf, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{conf: conf, http: httpClient}
}

// TenantDetails is the subset of the tenant record this service reads.
type TenantDetails struct {
	Name string `json:"name"`
}

// Authenticate exchanges the configured client credentials for a user API
// token. Strictness is the caller's choice: tenant assignment treats a
// failure as fatal, tenant lookup swallows it.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	cfg := c.conf()
	body := map[string]string{
		"email":    cfg.ClientEmail,
		"password": cfg.ClientPassword,
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.postJSON(ctx, cfg.AuthURL, "", body, &out); err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	return out.AccessToken, nil
}

// VendorToken exchanges the vendor client id and secret for a vendor-level
// token. This is a separate credential flow from Authenticate, used for
// privileged tenant lookups.
func (c *Client) VendorToken(ctx context.Context) (string, error) {
	cfg := c.conf()
	body := map[string]string{
		"clientId": cfg.ClientID,
		"secret":   cfg.APIKey,
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.postJSON(ctx, cfg.VendorAuthURL, "", body, &out); err != nil {
		return "", fmt.Errorf("vendor token: %w", err)
	}
	return out.Token, nil
}

// GetTenantDetails fetches the tenant record by id. The result feeds an
// optional display field, so every failure is logged and swallowed; callers
// must treat nil as "no details available".
func (c *Client) GetTenantDetails(ctx context.Context, tenantID string) *TenantDetails {
	cfg := c.conf()
	token, err := c.lookupToken(ctx, cfg)
	if err != nil {
		slog.Error("tenant lookup token", "tenant_id", tenantID, "err", err)
		return nil
	}

	var details TenantDetails
	if err := c.getJSON(ctx, cfg.TenantAPIURL+"/"+tenantID, token, &details); err != nil {
		slog.Error("tenant lookup failed", "tenant_id", tenantID, "err", err)
		return nil
	}
	return &details
}

// AssignUserToTenant adds the user to the demo tenant with the demo role,
// skipping the invite email. Failure surfaces as a 500 so the identity
// provider's delivery retry can pick the event up again.
func (c *Client) AssignUserToTenant(ctx context.Context, email string) error {
	cfg := c.conf()
	token, err := c.Authenticate(ctx)
	if err != nil {
		slog.Error("auth for tenant assignment failed", "email", email, "err", err)
		return httperr.Internal("failed to authenticate with identity provider")
	}

	body := struct {
		Email           string   `json:"email"`
		RoleIDs         []string `json:"roleIds"`
		SkipInviteEmail bool     `json:"skipInviteEmail"`
	}{
		Email:           email,
		RoleIDs:         []string{cfg.DemoRoleID},
		SkipInviteEmail: true,
	}
	if err := c.postJSON(ctx, cfg.UserTenantURL, token, body, nil); err != nil {
		slog.Error("tenant assignment failed", "email", email, "err", err)
		return httperr.Internal("failed to assign user to tenant")
	}

	slog.Info("user assigned to tenant", "email", email)
	return nil
}

// lookupToken picks the credential flow for tenant lookups: vendor token when
// vendor credentials are configured, user auth otherwise.
func (c *Client) lookupToken(ctx context.Context, cfg config.FronteggConf) (string, error) {
	if cfg.ClientID != "" && cfg.APIKey != "" {
		return c.VendorToken(ctx)
	}
	return c.Authenticate(ctx)
}

func (c *Client) postJSON(ctx context.Context, url, bearer string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, url, bearer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues("frontegg").
		Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
