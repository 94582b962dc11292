package config

import (
	"fmt"
	"strings"
)

// Validate checks the settings for:
//   - Required identity-provider, notification, and webhook-auth fields
//   - Credential pairs that only make sense together
//
// HubSpot settings are optional: an empty access token disables contact
// creation and an empty app URL disables contact links.
func Validate(cfg *Settings) error {
	var errs []string

	required := []struct {
		value string
		name  string
	}{
		{cfg.Frontegg.AuthURL, "frontegg.auth_url"},
		{cfg.Frontegg.UserTenantURL, "frontegg.user_tenant_url"},
		{cfg.Frontegg.ClientEmail, "frontegg.client_email"},
		{cfg.Frontegg.ClientPassword, "frontegg.client_password"},
		{cfg.Frontegg.DemoRoleID, "frontegg.demo_role_id"},
		{cfg.Frontegg.DemoTenantID, "frontegg.demo_tenant_id"},
		{cfg.Slack.WebhookURL, "slack.webhook_url"},
		{cfg.Webhook.Secret, "webhook.secret"},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", r.name))
		}
	}

	if (cfg.Frontegg.ClientID == "") != (cfg.Frontegg.APIKey == "") {
		errs = append(errs, "frontegg.client_id and frontegg.api_key must be set together")
	}
	if cfg.Frontegg.ClientID != "" && cfg.Frontegg.VendorAuthURL == "" {
		errs = append(errs, "frontegg.vendor_auth_url is required when vendor credentials are set")
	}
	if cfg.Hubspot.AccessToken != "" && cfg.Hubspot.APIURL == "" {
		errs = append(errs, "hubspot.api_url is required when hubspot.access_token is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("settings validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
