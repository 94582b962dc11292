package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gyaneshwarpardhi/signuprelay/internal/config"
	"github.com/gyaneshwarpardhi/signuprelay/internal/event"
	"github.com/gyaneshwarpardhi/signuprelay/internal/httperr"
	"github.com/gyaneshwarpardhi/signuprelay/internal/identity"
	"github.com/gyaneshwarpardhi/signuprelay/internal/metrics"
)

const (
	headerText         = "New User Signup"
	defaultCompanyName = "No Company Name"
	defaultContactURL  = "Not created"
)

// Message is a Slack Block Kit payload.
type Message struct {
	Blocks []Block `json:"blocks"`
}

// Block is a single Block Kit block. Header blocks carry Text, section
// blocks carry Fields.
type Block struct {
	Type   string `json:"type"`
	Text   *Text  `json:"text,omitempty"`
	Fields []Text `json:"fields,omitempty"`
}

// Text is a Block Kit text object.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TenantLookup resolves a tenant's display details, best effort. A nil result
// means no details are available.
type TenantLookup interface {
	GetTenantDetails(ctx context.Context, tenantID string) *identity.TenantDetails
}

// Service posts signup notifications to the team chat webhook.
type Service struct {
	conf    func() config.SlackConf
	tenants TenantLookup
	http    *http.Client
}

// NewService creates a Service using tenants for company-name enrichment.
func NewService(conf func() config.SlackConf, tenants TenantLookup, httpClient *http.Client) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Service{conf: conf, tenants: tenants, http: httpClient}
}

// FormatMessage builds the three-block signup notification: a header, a
// name/email section, and a company/contact-link section. Empty companyName
// and contactURL fall back to display sentinels; a missing user name falls
// back to the email address.
func FormatMessage(user event.User, companyName, contactURL string) Message {
	if companyName == "" {
		companyName = defaultCompanyName
	}
	if contactURL == "" {
		contactURL = defaultContactURL
	}
	name := user.Name
	if name == "" {
		name = user.Email
	}

	return Message{Blocks: []Block{
		{
			Type: "header",
			Text: &Text{Type: "plain_text", Text: headerText},
		},
		{
			Type: "section",
			Fields: []Text{
				{Type: "mrkdwn", Text: "*Name:*\n" + name},
				{Type: "mrkdwn", Text: "*Email:*\n" + user.Email},
			},
		},
		{
			Type: "section",
			Fields: []Text{
				{Type: "mrkdwn", Text: "*Company:*\n" + companyName},
				{Type: "mrkdwn", Text: "*HubSpot Contact:*\n" + contactURL},
			},
		},
	}}
}

// SendSignupMessage enriches the message with the tenant's company name when
// the user has one, then posts it to the chat webhook. Failure surfaces as a
// 500: the notification is a required step of signup processing, and a
// swallowed failure would suppress the provider's redelivery.
func (s *Service) SendSignupMessage(ctx context.Context, user event.User, contactURL string) error {
	companyName := ""
	if user.TenantID != "" {
		if details := s.tenants.GetTenantDetails(ctx, user.TenantID); details != nil {
			companyName = details.Name
		}
	}

	msg := FormatMessage(user, companyName, contactURL)
	body, err := json.Marshal(msg)
	if err != nil {
		slog.Error("encode slack message", "email", user.Email, "err", err)
		return httperr.Internal("failed to build signup notification")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.conf().WebhookURL, bytes.NewReader(body))
	if err != nil {
		slog.Error("build slack request", "email", user.Email, "err", err)
		return httperr.Internal("failed to build signup notification")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues("slack").
		Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		slog.Error("slack notification failed", "email", user.Email, "err", err)
		return httperr.Internal("failed to send signup notification")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("slack notification failed", "email", user.Email, "status", resp.StatusCode)
		return httperr.Internal("failed to send signup notification")
	}

	slog.Info("slack notification sent", "email", user.Email)
	return nil
}
