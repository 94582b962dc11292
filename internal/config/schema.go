package config

// Settings is the top-level YAML structure. Values support ${VAR} expansion
// so secrets can stay in the environment.
type Settings struct {
	Server   ServerConf   `yaml:"server"`
	Frontegg FronteggConf `yaml:"frontegg"`
	Hubspot  HubspotConf  `yaml:"hubspot"`
	Slack    SlackConf    `yaml:"slack"`
	Webhook  WebhookConf  `yaml:"webhook"`
}

// ServerConf holds the HTTP surface tunables.
type ServerConf struct {
	Addr              string `yaml:"addr"`
	OutboundTimeoutMs int    `yaml:"outbound_timeout_ms"`
}

// FronteggConf configures the identity-provider management API.
type FronteggConf struct {
	AuthURL        string `yaml:"auth_url"`
	VendorAuthURL  string `yaml:"vendor_auth_url"`
	TenantAPIURL   string `yaml:"tenant_api_url"`
	UserTenantURL  string `yaml:"user_tenant_url"`
	ClientEmail    string `yaml:"client_email"`
	ClientPassword string `yaml:"client_password"`
	ClientID       string `yaml:"client_id"`
	APIKey         string `yaml:"api_key"`
	DemoRoleID     string `yaml:"demo_role_id"`
	DemoTenantID   string `yaml:"demo_tenant_id"`
}

// HubspotConf configures the CRM. Leaving access_token empty disables contact
// creation; leaving app_url empty disables contact links in notifications.
type HubspotConf struct {
	AccessToken string `yaml:"access_token"`
	APIURL      string `yaml:"api_url"`
	AppURL      string `yaml:"app_url"`
}

// SlackConf configures the notification webhook.
type SlackConf struct {
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConf configures inbound webhook authentication.
type WebhookConf struct {
	Secret string `yaml:"secret"`
}
